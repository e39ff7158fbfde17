// Package memstore is the in-memory persistence adapter: a process-local
// account and product store used in development and tests. Aggregates are
// deep-copied on the way in and out so callers never share mutable state
// with the store.
package memstore

import (
	"context"
	"sync"

	"github.com/abreu/savings-core-go/internal/domain"
)

// Store implements port.AccountStore and port.ProductStore in memory.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	products map[string]*domain.Product
}

// New creates an empty store.
func New() *Store {
	return &Store{
		accounts: make(map[string]*domain.Account),
		products: make(map[string]*domain.Product),
	}
}

// CreateAccount stores a new account. Reusing an ID is a duplicate.
func (s *Store) CreateAccount(_ context.Context, acc *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[acc.ID]; exists {
		return &domain.ErrDuplicate{Key: acc.ID}
	}
	s.accounts[acc.ID] = acc.Copy()
	return nil
}

// GetAccount returns a copy of the account.
func (s *Store) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok || acc.SoftDeleted {
		return nil, &domain.ErrNotFound{Resource: "account", ID: id}
	}
	return acc.Copy(), nil
}

// SaveAccount replaces the stored aggregate.
func (s *Store) SaveAccount(_ context.Context, acc *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[acc.ID]; !exists {
		return &domain.ErrNotFound{Resource: "account", ID: acc.ID}
	}
	s.accounts[acc.ID] = acc.Copy()
	return nil
}

// ListAccountsByStatus returns copies of all non-deleted accounts in the
// given status.
func (s *Store) ListAccountsByStatus(_ context.Context, status domain.AccountStatus) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Account
	for _, acc := range s.accounts {
		if acc.SoftDeleted || acc.Status != status {
			continue
		}
		out = append(out, acc.Copy())
	}
	return out, nil
}

// CreateProduct stores a product.
func (s *Store) CreateProduct(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return &domain.ErrDuplicate{Key: p.ID}
	}
	s.products[p.ID] = p
	return nil
}

// GetProduct returns a product by ID. Products are read-only, so no copy.
func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "product", ID: id}
	}
	return p, nil
}

// ListProducts returns all products.
func (s *Store) ListProducts(_ context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}
