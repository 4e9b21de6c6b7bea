// Package listingscreen is the state behind the listing search screen.
//
// Every change to page, limit or filters issues a new search. Each search
// takes a generation number and cancels the one before it; a response is
// applied only while its generation is still the newest, so a slow early
// response can never overwrite a later one.
package listingscreen

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/practicefinder/internal/client/api"
	"github.com/dalemusser/practicefinder/internal/domain/models"
)

// DefaultLimit is the page size before the user picks one.
const DefaultLimit = 25

// ErrSuperseded is returned by a search whose result was discarded
// because a newer search started.
var ErrSuperseded = errors.New("listingscreen: superseded by a newer search")

// Filters narrow the search. Empty fields are no constraint.
type Filters struct {
	Search    string
	State     string
	Operatory string
	Type      string
}

// Params is everything that determines a result window.
type Params struct {
	Page  int
	Limit int
	Filters
}

func (p Params) request() api.SearchRequest {
	return api.SearchRequest{
		Page:      p.Page,
		Limit:     p.Limit,
		Search:    p.Search,
		State:     p.State,
		Operatory: p.Operatory,
		Type:      p.Type,
	}
}

// View is what the screen renders.
type View struct {
	Params
	Rows       []models.PracticeSummary
	TotalCount int64
	TotalPages int64
	Loading    bool
	Err        error // last applied failure
}

// Searcher runs a listing search. *api.Client implements it.
type Searcher interface {
	SearchListings(ctx context.Context, req api.SearchRequest) (api.ListingPage, error)
}

// Screen owns the listing screen state. Safe for concurrent use.
type Screen struct {
	search Searcher
	stash  StashStore

	mu     sync.Mutex
	view   View
	want   Params // latest requested; view.Params is the latest applied
	gen    uint64
	cancel context.CancelFunc
}

// New returns a Screen on page 1 with the default limit. stash may be nil
// when scroll restoration is not needed.
func New(s Searcher, stash StashStore) *Screen {
	if stash == nil {
		stash = &MemoryStash{}
	}
	initial := Params{Page: 1, Limit: DefaultLimit}
	return &Screen{
		search: s,
		stash:  stash,
		view:   View{Params: initial},
		want:   initial,
	}
}

// View returns a snapshot of the current state.
func (s *Screen) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Load searches with the current parameters.
func (s *Screen) Load(ctx context.Context) error {
	return s.apply(ctx, func(p *Params) {})
}

// SetPage moves to page n.
func (s *Screen) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	return s.apply(ctx, func(p *Params) { p.Page = n })
}

// SetLimit changes the page size and returns to page 1.
func (s *Screen) SetLimit(ctx context.Context, n int) error {
	if err := (api.SearchRequest{Limit: n}).Validate(); err != nil || n == 0 {
		return api.ErrInvalidLimit
	}
	return s.apply(ctx, func(p *Params) {
		p.Limit = n
		p.Page = 1
	})
}

// SetFilters replaces the filters and returns to page 1.
func (s *Screen) SetFilters(ctx context.Context, f Filters) error {
	return s.apply(ctx, func(p *Params) {
		p.Filters = f
		p.Page = 1
	})
}

// apply changes the requested parameters and runs a search for them. It
// blocks until the search finishes or is superseded. The view keeps its
// params and rows together: both change only when a response is applied.
func (s *Screen) apply(ctx context.Context, change func(*Params)) error {
	s.mu.Lock()
	change(&s.want)
	params := s.want
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.view.Loading = true
	s.mu.Unlock()

	page, err := s.search.SearchListings(ctx, params.request())

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		cancel()
		return ErrSuperseded
	}
	cancel()
	s.cancel = nil
	s.view.Loading = false
	if err != nil {
		s.view.Err = err
		s.want = s.view.Params
		return err
	}
	params.Page = page.CurrentPage
	s.want = params
	s.view.Params = params
	s.view.Err = nil
	s.view.Rows = page.Data
	s.view.TotalCount = page.TotalCount
	s.view.TotalPages = page.TotalPages
	return nil
}
