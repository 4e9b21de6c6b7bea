package listingscreen

import (
	"context"
	"sync"
)

// Stash is what the screen remembers while the user views a listing.
type Stash struct {
	Scroll int
	Page   int
	Limit  int
	Search string
}

// StashStore holds at most one Stash for the session.
type StashStore interface {
	Save(Stash)
	// Take returns the stash and clears it.
	Take() (Stash, bool)
}

// MemoryStash is a StashStore in process memory.
type MemoryStash struct {
	mu  sync.Mutex
	s   Stash
	set bool
}

func (m *MemoryStash) Save(s Stash) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s, m.set = s, true
}

func (m *MemoryStash) Take() (Stash, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.s, m.set
	m.s, m.set = Stash{}, false
	return s, ok
}

// Stash records scroll and the current page, limit and search before the
// user opens a listing.
func (s *Screen) Stash(scroll int) {
	v := s.View()
	s.stash.Save(Stash{Scroll: scroll, Page: v.Page, Limit: v.Limit, Search: v.Search})
}

// Restore consumes the stash, searches with its page, limit and search,
// and returns the scroll offset to restore. ok is false when nothing was
// stashed; the screen is then left as it is.
func (s *Screen) Restore(ctx context.Context) (scroll int, ok bool, err error) {
	st, ok := s.stash.Take()
	if !ok {
		return 0, false, nil
	}
	err = s.apply(ctx, func(p *Params) {
		p.Page = st.Page
		if st.Limit != 0 {
			p.Limit = st.Limit
		}
		p.Search = st.Search
	})
	if err != nil {
		return 0, true, err
	}
	return st.Scroll, true, nil
}
