package listingscreen

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/practicefinder/internal/client/api"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher answers immediately unless a gate is registered for the
// search term, in which case it waits for the gate or cancellation.
type fakeSearcher struct {
	mu    sync.Mutex
	calls []api.SearchRequest
	gates map[string]chan struct{}
	err   error
}

func (f *fakeSearcher) SearchListings(ctx context.Context, req api.SearchRequest) (api.ListingPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	gate := f.gates[req.Search]
	err := f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			// Answer anyway so the stale path is taken.
		}
	}
	if err != nil {
		return api.ListingPage{}, err
	}
	page := req.Page
	if page == 0 {
		page = 1
	}
	return api.ListingPage{
		Data:        []models.PracticeSummary{{Name: "result for " + req.Search}},
		TotalCount:  120,
		CurrentPage: page,
		TotalPages:  5,
	}, nil
}

func (f *fakeSearcher) last() api.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func TestLoad_Defaults(t *testing.T) {
	f := &fakeSearcher{}
	s := New(f, nil)

	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, api.SearchRequest{Page: 1, Limit: DefaultLimit}, f.last())
	v := s.View()
	assert.False(t, v.Loading)
	assert.NoError(t, v.Err)
	assert.Equal(t, int64(120), v.TotalCount)
	assert.Equal(t, int64(5), v.TotalPages)
	require.Len(t, v.Rows, 1)
}

func TestFiltersAndLimitResetPage(t *testing.T) {
	ctx := context.Background()
	f := &fakeSearcher{}
	s := New(f, nil)

	require.NoError(t, s.SetPage(ctx, 3))
	assert.Equal(t, 3, s.View().Page)

	require.NoError(t, s.SetFilters(ctx, Filters{Search: "smile", State: "TX"}))
	assert.Equal(t, api.SearchRequest{Page: 1, Limit: 25, Search: "smile", State: "TX"}, f.last())

	require.NoError(t, s.SetPage(ctx, 4))
	require.NoError(t, s.SetLimit(ctx, 50))
	assert.Equal(t, api.SearchRequest{Page: 1, Limit: 50, Search: "smile", State: "TX"}, f.last())
}

func TestSetLimit_Invalid(t *testing.T) {
	f := &fakeSearcher{}
	s := New(f, nil)

	for _, n := range []int{0, 10, 200} {
		assert.ErrorIs(t, s.SetLimit(context.Background(), n), api.ErrInvalidLimit)
	}
	assert.Empty(t, f.calls)
	assert.Equal(t, DefaultLimit, s.View().Limit)
}

func TestSetPage_ClampsToOne(t *testing.T) {
	f := &fakeSearcher{}
	s := New(f, nil)

	require.NoError(t, s.SetPage(context.Background(), -2))
	assert.Equal(t, 1, f.last().Page)
}

func TestError_KeepsRows(t *testing.T) {
	ctx := context.Background()
	f := &fakeSearcher{}
	s := New(f, nil)
	require.NoError(t, s.Load(ctx))

	boom := &api.Error{StatusCode: 500, Message: "Failed to fetch practices."}
	f.err = boom
	err := s.SetPage(ctx, 2)
	require.ErrorIs(t, err, boom)

	v := s.View()
	assert.Equal(t, boom, v.Err)
	assert.False(t, v.Loading)
	assert.Len(t, v.Rows, 1)
	assert.Equal(t, 1, v.Page, "params stay with the rows they produced")

	require.ErrorIs(t, s.SetFilters(ctx, Filters{State: "Ohio"}), boom)
	v = s.View()
	assert.Empty(t, v.State)
	assert.Equal(t, int64(5), v.TotalPages)

	f.err = nil
	require.NoError(t, s.SetPage(ctx, 2))
	assert.NoError(t, s.View().Err)
	assert.Equal(t, api.SearchRequest{Page: 2, Limit: DefaultLimit}, f.last(), "failed changes are not carried forward")
}

func TestStaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	slow := make(chan struct{})
	f := &fakeSearcher{gates: map[string]chan struct{}{"old": slow}}
	s := New(f, nil)

	oldDone := make(chan error, 1)
	go func() { oldDone <- s.SetFilters(ctx, Filters{Search: "old"}) }()

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.calls) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.SetFilters(ctx, Filters{Search: "new"}))
	close(slow)

	select {
	case err := <-oldDone:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("superseded search did not return")
	}

	v := s.View()
	assert.Equal(t, "new", v.Search)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "result for new", v.Rows[0].Name)
	assert.False(t, v.Loading)
}

func TestStashRestore(t *testing.T) {
	ctx := context.Background()
	f := &fakeSearcher{}
	s := New(f, &MemoryStash{})

	require.NoError(t, s.SetFilters(ctx, Filters{Search: "ortho"}))
	require.NoError(t, s.SetLimit(ctx, 100))
	require.NoError(t, s.SetPage(ctx, 3))
	s.Stash(840)

	// User navigates away and the screen is rebuilt around the same store.
	require.NoError(t, s.SetFilters(ctx, Filters{}))

	scroll, ok, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 840, scroll)
	assert.Equal(t, api.SearchRequest{Page: 3, Limit: 100, Search: "ortho"}, f.last())

	_, ok, err = s.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "stash is consumed once")
}

func TestRestore_Error(t *testing.T) {
	f := &fakeSearcher{err: errors.New("offline")}
	stash := &MemoryStash{}
	stash.Save(Stash{Scroll: 10, Page: 2, Limit: 50})
	s := New(f, stash)

	_, ok, err := s.Restore(context.Background())
	assert.True(t, ok)
	assert.EqualError(t, err, "offline")
	assert.Equal(t, Params{Page: 1, Limit: DefaultLimit}, s.View().Params)
}
