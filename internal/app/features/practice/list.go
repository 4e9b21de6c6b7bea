// internal/app/features/practice/list.go
package practice

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/system/listingquery"
	"github.com/dalemusser/practicefinder/internal/app/system/paging"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/dalemusser/practicefinder/internal/domain/models"
)

const (
	msgBadLimit = "Invalid limit. Must be 25, 50, or 100."
	msgBadPage  = "Invalid page. Must be 1 or greater."
)

type listPayload struct {
	Data        []models.PracticeSummary `json:"data"`
	TotalCount  int64                    `json:"totalCount"`
	CurrentPage int                      `json:"currentPage"`
	TotalPages  int64                    `json:"totalPages"`
}

// ServeList handles POST /practice/list.
//
// Body: {page, limit, search, state, operatory, type}. Page and limit
// missing from the body are read from the query string (?page=&limit=).
// Absent everywhere they default to 1 and 25; any other limit than 25, 50
// or 100 is a 400.
// Rows carry only the public summary fields whatever the caller's role.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var req listingquery.Request
	if err := respond.Decode(r, &req); err != nil && !errors.Is(err, respond.ErrEmptyBody) {
		h.ErrLog.LogBadRequest(w, r, "list: bad body", err, "Invalid request body.")
		return
	}
	if req.Page == 0 {
		n, ok := paging.ParseInt(r, "page")
		if !ok {
			h.ErrLog.LogBadRequest(w, r, "list: bad page param", nil, msgBadPage)
			return
		}
		req.Page = n
	}
	if req.Limit == 0 {
		n, ok := paging.ParseInt(r, "limit")
		if !ok {
			h.ErrLog.LogBadRequest(w, r, "list: bad limit param", nil, msgBadLimit)
			return
		}
		req.Limit = n
	}

	q, err := listingquery.Build(req)
	switch {
	case errors.Is(err, listingquery.ErrInvalidLimit):
		h.ErrLog.LogBadRequest(w, r, "list: bad limit", err, msgBadLimit)
		return
	case errors.Is(err, listingquery.ErrInvalidPage):
		h.ErrLog.LogBadRequest(w, r, "list: bad page", err, msgBadPage)
		return
	case errors.Is(err, listingquery.ErrInvalidOperatory):
		h.ErrLog.LogBadRequest(w, r, "list: bad operatory", err, "Invalid operatory.")
		return
	case err != nil:
		h.ErrLog.LogBadRequest(w, r, "list: bad request", err, "Invalid request.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := h.Listings.Search(ctx, q)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "search listings failed", err, "", "")
		return
	}
	h.Metrics.Search()

	respond.OK(w, "", listPayload{
		Data:        rows,
		TotalCount:  total,
		CurrentPage: q.Window.Page,
		TotalPages:  paging.TotalPages(total, q.Window.Limit),
	})
}

// ServeTotalCount handles GET /practice/total-count. Listings only change
// through imports, so the collection metadata count is exact enough.
func (h *Handler) ServeTotalCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Listings.EstimatedTotal(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count listings failed", err, "", "")
		return
	}
	respond.OK(w, "", map[string]int64{"count": n})
}
