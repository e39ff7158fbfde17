// Package service provides the business logic layer (use cases): account
// applications, the transaction operations, deposit closures and the
// inactivity sweep. Every mutation runs as a unit of work on a deep copy of
// the account, serialized by a per-account lock, and is swapped in only
// after the store write succeeds.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/infra/observability"
	"github.com/abreu/savings-core-go/internal/port"
)

var tracer = otel.Tracer("service/savings")

// Service orchestrates all account operations.
type Service struct {
	accounts port.AccountStore
	products port.ProductStore
	postings port.PostingPublisher

	productCache port.Cache[*domain.Product]

	metrics *observability.Metrics
	logger  *zap.Logger

	locks sync.Map // account ID -> *sync.Mutex
}

// New creates the service. postings and productCache may be nil; posting
// events are then dropped and products always read through to the store.
func New(accounts port.AccountStore, products port.ProductStore, postings port.PostingPublisher,
	productCache port.Cache[*domain.Product], metrics *observability.Metrics, logger *zap.Logger) *Service {
	return &Service{
		accounts:     accounts,
		products:     products,
		postings:     postings,
		productCache: productCache,
		metrics:      metrics,
		logger:       logger,
	}
}

// lock serializes mutations on one account and returns the unlock func.
func (s *Service) lock(accountID string) func() {
	m, _ := s.locks.LoadOrStore(accountID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// lockPair locks two accounts in ascending ID order so concurrent transfers
// between the same pair cannot deadlock.
func (s *Service) lockPair(a, b string) func() {
	first, second := a, b
	if strings.Compare(first, second) > 0 {
		first, second = second, first
	}
	unlockFirst := s.lock(first)
	unlockSecond := s.lock(second)
	return func() {
		unlockSecond()
		unlockFirst()
	}
}

// product resolves a product through the cache.
func (s *Service) product(ctx context.Context, id string) (*domain.Product, error) {
	if s.productCache != nil {
		if p, ok := s.productCache.Get(id); ok {
			s.metrics.IncrCacheHit("product")
			return p, nil
		}
		s.metrics.IncrCacheMiss("product")
	}
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.productCache != nil {
		s.productCache.Set(id, p)
	}
	return p, nil
}

// withAccount runs fn as a unit of work: load, deep-copy, mutate the copy,
// persist. The caller never sees a partially mutated account; if the store
// write fails the stored state is untouched.
func (s *Service) withAccount(ctx context.Context, accountID string, fn func(acc *domain.Account, product *domain.Product) error) (*domain.Account, error) {
	unlock := s.lock(accountID)
	defer unlock()

	stored, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	product, err := s.product(ctx, stored.ProductID)
	if err != nil {
		return nil, err
	}

	acc := stored.Copy()
	if err := fn(acc, product); err != nil {
		return nil, err
	}
	if err := s.accounts.SaveAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// publish delivers a posting event to the general ledger. Delivery failures
// are logged and counted, never surfaced: the ledger write already
// committed and the GL side reconciles from its own retry queue.
func (s *Service) publish(ctx context.Context, acc *domain.Account, tx *domain.Transaction) {
	if s.postings == nil || tx == nil {
		return
	}
	event := domain.PostingEventFrom(acc, tx)
	if err := s.postings.Publish(ctx, event); err != nil {
		s.metrics.IncrGLPublishError()
		s.logger.Error("failed to publish posting event",
			zap.String("account_id", acc.ID),
			zap.String("transaction_id", tx.ID),
			zap.Error(err),
		)
	}
}

// observe records duration and outcome for an operation.
func (s *Service) observe(operation string, start time.Time, err error) {
	s.metrics.RecordRequestDuration(operation, time.Since(start))
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.IncrOperation(operation, status)
}

// GetAccount returns an account by ID.
func (s *Service) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Service.GetAccount")
	defer span.End()

	return s.accounts.GetAccount(ctx, accountID)
}

// GetProduct returns a product by ID.
func (s *Service) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Service.GetProduct")
	defer span.End()

	return s.product(ctx, productID)
}

// CreateProduct validates and stores a product, evicting any cached copy.
func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) error {
	ctx, span := tracer.Start(ctx, "Service.CreateProduct")
	defer span.End()

	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.products.CreateProduct(ctx, p); err != nil {
		return err
	}
	if s.productCache != nil {
		s.productCache.Delete(p.ID)
	}
	s.logger.Info("product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return nil
}

// ListProducts returns all products.
func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Service.ListProducts")
	defer span.End()

	return s.products.ListProducts(ctx)
}
