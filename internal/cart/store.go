package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("cart session not found")

// Store keeps one cart per shopper session. Sessions have an explicit
// lifecycle: Start issues an ID, End discards the cart. State is
// process-local only.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		carts: make(map[string]*Cart),
	}
}

// Start creates a new session with an empty cart and returns its ID.
func (s *Store) Start() string {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[id] = New()
	return id
}

// Get returns the cart for a session.
func (s *Store) Get(sessionID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return c, nil
}

// End discards the session and its cart. Ending an unknown session is a no-op.
func (s *Store) End(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
