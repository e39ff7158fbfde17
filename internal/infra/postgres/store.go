// Package postgres is the PostgreSQL persistence adapter. Accounts and
// products are stored as JSONB aggregates keyed by ID; the status column is
// duplicated out of the document so the sweep queries stay indexable.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/abreu/savings-core-go/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS savings_accounts (
	id           TEXT PRIMARY KEY,
	status       INT NOT NULL,
	soft_deleted BOOLEAN NOT NULL DEFAULT FALSE,
	data         JSONB NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_savings_accounts_status
	ON savings_accounts (status) WHERE NOT soft_deleted;

CREATE TABLE IF NOT EXISTS savings_products (
	id   TEXT PRIMARY KEY,
	data JSONB NOT NULL
);
`

// Store implements port.AccountStore and port.ProductStore on PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open connects to the database and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateAccount inserts a new account aggregate.
func (s *Store) CreateAccount(ctx context.Context, acc *domain.Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO savings_accounts (id, status, soft_deleted, data) VALUES ($1, $2, $3, $4)`,
		acc.ID, int(acc.Status), acc.SoftDeleted, data,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return &domain.ErrDuplicate{Key: acc.ID}
	}
	return err
}

// GetAccount loads an account aggregate.
func (s *Store) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM savings_accounts WHERE id = $1 AND NOT soft_deleted`,
		id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "account", ID: id}
	}
	if err != nil {
		return nil, err
	}
	var acc domain.Account
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("unmarshal account %s: %w", id, err)
	}
	return &acc, nil
}

// SaveAccount replaces the stored aggregate.
func (s *Store) SaveAccount(ctx context.Context, acc *domain.Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE savings_accounts SET status = $2, soft_deleted = $3, data = $4, updated_at = now() WHERE id = $1`,
		acc.ID, int(acc.Status), acc.SoftDeleted, data,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "account", ID: acc.ID}
	}
	return nil
}

// ListAccountsByStatus returns all non-deleted accounts in the given status.
func (s *Store) ListAccountsByStatus(ctx context.Context, status domain.AccountStatus) ([]*domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM savings_accounts WHERE status = $1 AND NOT soft_deleted`,
		int(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Account
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var acc domain.Account
		if err := json.Unmarshal(data, &acc); err != nil {
			return nil, fmt.Errorf("unmarshal account: %w", err)
		}
		out = append(out, &acc)
	}
	return out, rows.Err()
}

// CreateProduct inserts a product.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO savings_products (id, data) VALUES ($1, $2)`,
		p.ID, data,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return &domain.ErrDuplicate{Key: p.ID}
	}
	return err
}

// GetProduct loads a product.
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM savings_products WHERE id = $1`,
		id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "product", ID: id}
	}
	if err != nil {
		return nil, err
	}
	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product %s: %w", id, err)
	}
	return &p, nil
}

// ListProducts loads all products.
func (s *Store) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM savings_products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Product
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p domain.Product
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("unmarshal product: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
