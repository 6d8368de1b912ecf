package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sedalabs/sedabot/internal/domain"
)

// ErrUserNotFound indicates that no ledger row exists for the requested user.
var ErrUserNotFound = errors.New("user not found")

// LedgerRepository defines persistence operations for the credit ledger.
type LedgerRepository interface {
	// Ensure upserts the user row, creating it with zero balance and the
	// identity effect when absent. A non-empty displayName overwrites the
	// stored one.
	Ensure(ctx context.Context, id int64, displayName string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Credit(ctx context.Context, id int64, delta int64) error
	// Debit decrements the balance, clamping at zero.
	Debit(ctx context.Context, id int64, delta int64) error
	SetEffect(ctx context.Context, id int64, code string) error
	Stats(ctx context.Context) (*domain.Stats, error)
	RecordPayment(ctx context.Context, payment *domain.Payment) error
}

type ledgerRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewLedgerRepository creates a SQL-backed ledger repository.
func NewLedgerRepository(db *sql.DB, log *slog.Logger) LedgerRepository {
	return &ledgerRepository{
		db:  db,
		log: log,
	}
}

// Ensure upserts the user row in a single statement so that concurrent first
// contacts from the same id cannot race into duplicate rows.
func (r *ledgerRepository) Ensure(ctx context.Context, id int64, displayName string) (*domain.User, error) {
	const query = `
		INSERT INTO users (id, display_name, balance, effect, created_at)
		VALUES ($1, $2, 0, 'none', NOW())
		ON CONFLICT (id) DO UPDATE
		SET display_name = CASE
			WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name
			ELSE users.display_name
		END
		RETURNING id, display_name, balance, effect, created_at
	`

	row := r.db.QueryRowContext(ctx, query, id, displayName)

	var user domain.User
	if err := row.Scan(&user.ID, &user.DisplayName, &user.Balance, &user.Effect, &user.CreatedAt); err != nil {
		r.logError("ensure user", id, err)
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return &user, nil
}

// FindByID retrieves the user row, returning ErrUserNotFound when absent.
func (r *ledgerRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		SELECT id, display_name, balance, effect, created_at
		FROM users
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	var user domain.User
	if err := row.Scan(&user.ID, &user.DisplayName, &user.Balance, &user.Effect, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		r.logError("select user", id, err)
		return nil, fmt.Errorf("select user: %w", err)
	}

	return &user, nil
}

// Credit atomically increments the balance.
func (r *ledgerRepository) Credit(ctx context.Context, id int64, delta int64) error {
	const query = `UPDATE users SET balance = balance + $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, delta); err != nil {
		r.logError("credit user", id, err)
		return fmt.Errorf("credit user: %w", err)
	}

	return nil
}

// Debit atomically decrements the balance, clamping at zero. Insufficient
// balance is not an error; callers gate on sufficiency before debiting.
func (r *ledgerRepository) Debit(ctx context.Context, id int64, delta int64) error {
	const query = `UPDATE users SET balance = GREATEST(balance - $2, 0) WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, delta); err != nil {
		r.logError("debit user", id, err)
		return fmt.Errorf("debit user: %w", err)
	}

	return nil
}

// SetEffect stores the effect code without validating it.
func (r *ledgerRepository) SetEffect(ctx context.Context, id int64, code string) error {
	const query = `UPDATE users SET effect = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, code); err != nil {
		r.logError("set effect", id, err)
		return fmt.Errorf("set effect: %w", err)
	}

	return nil
}

// Stats returns aggregate user and balance counters.
func (r *ledgerRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	const query = `SELECT COUNT(*), COALESCE(SUM(balance), 0) FROM users`

	var stats domain.Stats
	if err := r.db.QueryRowContext(ctx, query).Scan(&stats.UserCount, &stats.TotalBalance); err != nil {
		r.logError("ledger stats", 0, err)
		return nil, fmt.Errorf("ledger stats: %w", err)
	}

	return &stats, nil
}

// RecordPayment appends a payment audit record.
func (r *ledgerRepository) RecordPayment(ctx context.Context, payment *domain.Payment) error {
	const query = `
		INSERT INTO payments (user_id, amount, points, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := r.db.ExecContext(ctx, query, payment.UserID, payment.Amount, payment.Points); err != nil {
		r.logError("record payment", payment.UserID, err)
		return fmt.Errorf("record payment: %w", err)
	}

	return nil
}

func (r *ledgerRepository) logError(operation string, userID int64, err error) {
	if r.log == nil {
		return
	}

	r.log.Error("ledger repository operation failed",
		slog.String("operation", operation),
		slog.Int64("user_id", userID),
		slog.Any("error", err),
	)
}
