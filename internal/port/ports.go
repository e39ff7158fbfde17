// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/abreu/savings-core-go/internal/domain"
)

// AccountStore persists accounts with their embedded ledgers, holds and
// charges. SaveAccount replaces the whole aggregate; the service layer
// serializes writers per account.
type AccountStore interface {
	CreateAccount(ctx context.Context, acc *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	SaveAccount(ctx context.Context, acc *domain.Account) error
	// ListAccountsByStatus returns non-deleted accounts in the given status.
	ListAccountsByStatus(ctx context.Context, status domain.AccountStatus) ([]*domain.Account, error)
}

// ProductStore provides read access to product configuration. Products are
// treated as immutable by the core.
type ProductStore interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}

// PostingPublisher hands ledger transactions to the accounting/general
// ledger collaborator. Publishing is best effort from the core's point of
// view; the adapter owns retries and circuit breaking.
type PostingPublisher interface {
	Publish(ctx context.Context, event domain.PostingEvent) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
