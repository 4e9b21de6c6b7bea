package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dalemusser/practicefinder/internal/domain/models"
)

// Page sizes accepted by the search endpoint.
var PageSizes = []int{25, 50, 100}

// ErrInvalidLimit is returned before sending a search whose limit the
// server would reject.
var ErrInvalidLimit = errors.New("limit must be 25, 50, or 100")

// SearchRequest is the body of POST /practice/list. Zero Page and Limit
// let the server apply its defaults.
type SearchRequest struct {
	Page      int    `json:"page,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Search    string `json:"search,omitempty"`
	State     string `json:"state,omitempty"`
	Operatory string `json:"operatory,omitempty"`
	Type      string `json:"type,omitempty"`
}

// Validate checks the fields the server would reject.
func (r SearchRequest) Validate() error {
	if r.Page < 0 {
		return errors.New("page must be 1 or greater")
	}
	if r.Limit == 0 {
		return nil
	}
	for _, n := range PageSizes {
		if r.Limit == n {
			return nil
		}
	}
	return ErrInvalidLimit
}

// ListingPage is one window of search results.
type ListingPage struct {
	Data        []models.PracticeSummary `json:"data"`
	TotalCount  int64                    `json:"totalCount"`
	CurrentPage int                      `json:"currentPage"`
	TotalPages  int64                    `json:"totalPages"`
}

// SearchListings runs a listing search.
func (c *Client) SearchListings(ctx context.Context, req SearchRequest) (ListingPage, error) {
	if err := req.Validate(); err != nil {
		return ListingPage{}, err
	}
	var out ListingPage
	if _, err := c.do(ctx, http.MethodPost, "/practice/list", req, &out); err != nil {
		return ListingPage{}, err
	}
	if out.CurrentPage < 1 {
		return ListingPage{}, malformed("/practice/list", "currentPage")
	}
	if out.Data == nil {
		out.Data = []models.PracticeSummary{}
	}
	return out, nil
}

// ListingDetail loads one listing. Admin-only fields are filled only for
// admins.
func (c *Client) ListingDetail(ctx context.Context, id string) (models.Practice, error) {
	var out struct {
		Practice *models.Practice `json:"practice"`
	}
	path := "/practice/" + url.PathEscape(id) + "/detail"
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return models.Practice{}, err
	}
	if out.Practice == nil {
		return models.Practice{}, malformed(path, "practice")
	}
	return *out.Practice, nil
}

// ToggleLike likes or unlikes a listing and reports the new state.
func (c *Client) ToggleLike(ctx context.Context, id string) (bool, error) {
	var out struct {
		Liked *bool `json:"liked"`
	}
	path := "/practice/" + url.PathEscape(id) + "/like"
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return false, err
	}
	if out.Liked == nil {
		return false, malformed(path, "liked")
	}
	return *out.Liked, nil
}

// Likes returns the caller's liked listings.
func (c *Client) Likes(ctx context.Context) ([]models.PracticeSummary, error) {
	var out struct {
		Likes []models.PracticeSummary `json:"likes"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/practice/likes", nil, &out); err != nil {
		return nil, err
	}
	return out.Likes, nil
}

// TotalCount is the number of listings on file.
func (c *Client) TotalCount(ctx context.Context) (int64, error) {
	var out struct {
		Count int64 `json:"count"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/practice/total-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
