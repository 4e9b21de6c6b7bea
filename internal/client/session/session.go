// Package session holds the client's signed-in identity.
//
// State is a value; SignedIn and SignedOut are the only transitions.
// Store wraps a State with a Persister so a token survives restarts, and
// implements api.TokenSource.
package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/dalemusser/practicefinder/internal/client/api"
	"github.com/dalemusser/practicefinder/internal/domain/models"
)

// State is the identity the client currently acts as.
type State struct {
	Token string
	User  *models.Account
}

// SignedIn reports whether s carries a token and a user.
func (s State) SignedIn() bool { return s.Token != "" && s.User != nil }

// IsAdmin reports whether the signed-in user is an administrator.
func (s State) IsAdmin() bool { return s.SignedIn() && s.User.Role == models.RoleAdmin }

// SignedIn returns the state after a successful sign-in.
func SignedIn(token string, user models.Account) State {
	return State{Token: token, User: &user}
}

// SignedOut returns the empty state.
func SignedOut() State { return State{} }

// Persister keeps the token between runs.
type Persister interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryPersister keeps the token in memory.
type MemoryPersister struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryPersister) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryPersister) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryPersister) Clear() error { return m.Save("") }

// UserFetcher loads the account behind the current token.
type UserFetcher interface {
	CurrentUser(ctx context.Context) (models.Account, error)
}

var _ api.TokenSource = (*Store)(nil)

// Store is the process-wide session container. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	state   State
	persist Persister
}

// NewStore returns a signed-out Store. A nil persister keeps the token in
// memory only.
func NewStore(p Persister) *Store {
	if p == nil {
		p = &MemoryPersister{}
	}
	return &Store{persist: p}
}

// State returns a snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token implements api.TokenSource. It is the persisted token while
// Hydrate runs, so CurrentUser can authenticate.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// SignIn applies a successful sign-in and persists the token.
func (s *Store) SignIn(sess api.Session) error {
	if err := s.persist.Save(sess.Token); err != nil {
		return err
	}
	s.set(SignedIn(sess.Token, sess.User))
	return nil
}

// SignOut clears the identity and the persisted token.
func (s *Store) SignOut() error {
	s.set(SignedOut())
	return s.persist.Clear()
}

func (s *Store) set(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Hydrate restores the identity from the persisted token. A token the
// server rejects with 401 or 404 is discarded; any other failure leaves
// the token in place for a later retry and is returned.
func (s *Store) Hydrate(ctx context.Context, users UserFetcher) error {
	token, err := s.persist.Load()
	if err != nil {
		return err
	}
	if token == "" {
		s.set(SignedOut())
		return nil
	}

	s.set(State{Token: token})
	u, err := users.CurrentUser(ctx)
	switch {
	case err == nil:
		s.set(SignedIn(token, u))
		return nil
	case api.IsStatus(err, http.StatusUnauthorized), api.IsStatus(err, http.StatusNotFound):
		return s.SignOut()
	default:
		s.set(SignedOut())
		return err
	}
}
