// internal/app/features/practice/states.go
package practice

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/practicefinder/internal/app/system/countcache"
	"github.com/dalemusser/practicefinder/internal/app/system/imagecache"
	"github.com/dalemusser/practicefinder/internal/app/system/listingquery"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// States is the fixed list the per-state counts are computed over.
var States = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California",
	"Colorado", "Connecticut", "Delaware", "Florida", "Georgia",
	"Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
	"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland",
	"Massachusetts", "Michigan", "Minnesota", "Mississippi", "Missouri",
	"Montana", "Nebraska", "Nevada", "New Hampshire", "New Jersey",
	"New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina",
	"South Dakota", "Tennessee", "Texas", "Utah", "Vermont",
	"Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
}

const (
	statesCountKey    = "states-listings-count"
	maxCountWorkers   = 8
	msgBadState       = "Invalid or missing state name."
	msgNoLocalAreas   = "No local areas found for the specified state."
	msgNoDescriptions = "No state descriptions found for the given state."
)

type stateCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type stateBody struct {
	State string `json:"state"`
}

// readState decodes {state} and writes the 400 itself when it is missing.
func (h *Handler) readState(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body stateBody
	if err := respond.Decode(r, &body); err != nil && !errors.Is(err, respond.ErrEmptyBody) {
		h.ErrLog.LogBadRequest(w, r, "state: bad body", err, msgBadState)
		return "", false
	}
	state := strings.TrimSpace(body.State)
	if state == "" {
		h.ErrLog.LogBadRequest(w, r, "state: missing", nil, msgBadState)
		return "", false
	}
	return state, true
}

// ServeStatesListingsCount handles GET /practice/states-listings-count.
// Each state is counted with the same OR group a search for its name
// would use, so "Virginia" also counts "West Virginia" listings.
func (h *Handler) ServeStatesListingsCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	counts, ok := h.Counts.Get(ctx, statesCountKey)
	if !ok {
		var err error
		counts, err = h.countStates(ctx)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "count states failed", err, "", "")
			return
		}
		h.Counts.Set(ctx, statesCountKey, counts)
	}

	data := make([]stateCount, len(States))
	for i, s := range States {
		data[i] = stateCount{Query: s, Count: counts[s]}
	}
	respond.OK(w, "", map[string]any{"data": data})
}

func (h *Handler) countStates(ctx context.Context) (countcache.Counts, error) {
	results := make([]int64, len(States))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCountWorkers)
	for i, s := range States {
		g.Go(func() error {
			f, err := listingquery.Filter(s, "", "", "")
			if err != nil {
				return err
			}
			n, err := h.Listings.Count(gctx, f)
			if err != nil {
				return err
			}
			results[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(countcache.Counts, len(States))
	for i, s := range States {
		out[s] = results[i]
	}
	return out, nil
}

// ServeStateListingsCount handles POST /practice/state-listings-count.
func (h *Handler) ServeStateListingsCount(w http.ResponseWriter, r *http.Request) {
	state, ok := h.readState(w, r)
	if !ok {
		return
	}
	f, err := listingquery.Filter(state, "", "", "")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "state count: bad filter", err, msgBadState)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Listings.Count(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count state failed", err, "", "")
		return
	}
	respond.OK(w, "", stateCount{Query: state, Count: n})
}

// ServeLocalAreas handles POST /practice/local-areas: the distinct cities
// of listings whose state is exactly the given one.
func (h *Handler) ServeLocalAreas(w http.ResponseWriter, r *http.Request) {
	state, ok := h.readState(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	areas, err := h.Listings.DistinctCities(ctx, state)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "distinct cities failed", err, "", "")
		return
	}
	if len(areas) == 0 {
		h.ErrLog.LogNotFound(w, r, "local areas: none", msgNoLocalAreas)
		return
	}
	respond.OK(w, "", map[string]any{"areas": areas})
}

// ServeStateDescription handles POST /practice/state-description.
func (h *Handler) ServeStateDescription(w http.ResponseWriter, r *http.Request) {
	state, ok := h.readState(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	descs, err := h.StateDescs.FindByState(ctx, state)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find state descriptions failed", err, "", "")
		return
	}
	if len(descs) == 0 {
		h.ErrLog.LogNotFound(w, r, "state description: none", msgNoDescriptions)
		return
	}
	respond.OK(w, "", descs)
}

// ServeListingImages handles GET /practice/{state}/listing-images.
func (h *Handler) ServeListingImages(w http.ResponseWriter, r *http.Request) {
	if h.Images == nil {
		respond.OK(w, "", map[string]any{"images": []string{}})
		return
	}
	images, err := h.Images.Images(chi.URLParam(r, "state"))
	if errors.Is(err, imagecache.ErrBadState) {
		h.ErrLog.LogBadRequest(w, r, "listing images: bad state", err, msgBadState)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list images failed", err, "", "")
		return
	}
	respond.OK(w, "", map[string]any{"images": images})
}
