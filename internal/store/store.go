// Package store owns persistence for transactions: table lifecycle,
// inserts, filtered reads, point lookups, partial updates and deletes.
// Every operation is scoped by the (user_id, client_id) pair.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no row matches the scope and id.
	ErrNotFound = errors.New("transaction not found")

	// ErrEmptyUpdate is returned when an update carries no mutable fields.
	// It is detected before any statement reaches the database.
	ErrEmptyUpdate = errors.New("no valid fields to update")

	// ErrNothingInserted is returned when an insert affects zero rows.
	ErrNothingInserted = errors.New("failed to add transaction")
)

// Scope identifies the tenant every read and write is confined to.
type Scope struct {
	UserID   string
	ClientID string
}

// Transaction is the sole persisted entity.
type Transaction struct {
	ID         int64     `json:"id"`
	ClientID   string    `json:"client_id"`
	UserID     string    `json:"user_id"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"`
	SubType    *string   `json:"sub_type,omitempty"`
	WhomToPaid *string   `json:"whom_to_paid,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filters narrows List results. Absent fields are omitted from the query,
// not defaulted. Amount bounds are pointers so that a literal 0 is a
// usable bound.
type Filters struct {
	Type      string
	SubType   string
	DateFrom  time.Time
	DateTo    time.Time
	AmountMin *float64
	AmountMax *float64
}

// Store wraps a PostgreSQL connection pool. The pool is acquired at
// process start and released at shutdown; the Store itself holds no
// other state.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store from an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool against the given PostgreSQL URL and verifies the
// connection.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping verifies the database connection. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema creates the transactions table and its indexes if they do
// not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			client_id VARCHAR(50) NOT NULL,
			user_id VARCHAR(50) NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			type VARCHAR(32) NOT NULL,
			sub_type VARCHAR(100),
			whom_to_paid VARCHAR(100),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_client ON transactions (user_id, client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("store: ensure schema: %w", err)
		}
	}
	return nil
}

// Add inserts a new transaction. created_at is assigned by the server.
func (s *Store) Add(ctx context.Context, scope Scope, amount float64, txType string, subType, whomToPaid *string) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO transactions (client_id, user_id, amount, type, sub_type, whom_to_paid)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		scope.ClientID, scope.UserID, amount, txType, subType, whomToPaid,
	)
	if err != nil {
		return fmt.Errorf("store: add transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNothingInserted
	}
	return nil
}

// List returns the scope's transactions matching the filters, newest
// first.
func (s *Store) List(ctx context.Context, scope Scope, f Filters) ([]Transaction, error) {
	query, args := buildListQuery(scope, f)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByID returns a single transaction, or ErrNotFound when the id does
// not resolve within the scope.
func (s *Store) GetByID(ctx context.Context, scope Scope, id int64) (*Transaction, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, client_id, user_id, amount, type, sub_type, whom_to_paid, created_at
		 FROM transactions
		 WHERE id = $1 AND user_id = $2 AND client_id = $3`,
		id, scope.UserID, scope.ClientID,
	)

	var t Transaction
	err := row.Scan(&t.ID, &t.ClientID, &t.UserID, &t.Amount, &t.Type, &t.SubType, &t.WhomToPaid, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get transaction %d: %w", id, err)
	}
	return &t, nil
}

// Update applies a partial update. Only amount, type, sub_type and
// whom_to_paid are mutable; unknown keys are silently dropped. An update
// set that ends up empty is rejected before touching storage.
func (s *Store) Update(ctx context.Context, scope Scope, id int64, updates map[string]any) error {
	setClauses, args := buildUpdateSet(updates)
	if len(setClauses) == 0 {
		return ErrEmptyUpdate
	}

	n := len(args)
	query := fmt.Sprintf(
		`UPDATE transactions SET %s WHERE id = $%d AND user_id = $%d AND client_id = $%d`,
		joinClauses(setClauses), n+1, n+2, n+3,
	)
	args = append(args, id, scope.UserID, scope.ClientID)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("store: update transaction %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a transaction permanently. There is no soft delete.
func (s *Store) Delete(ctx context.Context, scope Scope, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2 AND client_id = $3`,
		id, scope.UserID, scope.ClientID,
	)
	if err != nil {
		return fmt.Errorf("store: delete transaction %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Recent returns the scope's most recent transactions, newest first.
// Used only to build LLM context.
func (s *Store) Recent(ctx context.Context, scope Scope, limit int) ([]Transaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, client_id, user_id, amount, type, sub_type, whom_to_paid, created_at
		 FROM transactions
		 WHERE user_id = $1 AND client_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		scope.UserID, scope.ClientID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: recent transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]Transaction, error) {
	result := []Transaction{}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.ClientID, &t.UserID, &t.Amount, &t.Type, &t.SubType, &t.WhomToPaid, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan transaction: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate transactions: %w", err)
	}
	return result, nil
}
