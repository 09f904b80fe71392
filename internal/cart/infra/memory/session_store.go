package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// SessionStore keeps carts in process memory; they do not survive a restart.
type SessionStore struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func NewSessionStore() *SessionStore {
	return &SessionStore{carts: make(map[string]domain.Cart)}
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (domain.Cart, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyOf(sessionID), nil
}

func (s *SessionStore) Update(ctx context.Context, sessionID string, fn func(*domain.Cart) error) (domain.Cart, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.copyOf(sessionID)
	if err := fn(&cart); err != nil {
		return domain.Cart{}, err
	}
	s.carts[sessionID] = cart
	return s.copyOf(sessionID), nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func (s *SessionStore) copyOf(sessionID string) domain.Cart {
	cart, ok := s.carts[sessionID]
	if !ok {
		return domain.Cart{SessionID: sessionID}
	}
	cart.Lines = slices.Clone(cart.Lines)
	return cart
}
