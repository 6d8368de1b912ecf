// Package ledger provides business operations over the durable credit ledger.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sedalabs/sedabot/internal/domain"
	"github.com/sedalabs/sedabot/internal/repository"
	"github.com/sedalabs/sedabot/pkg/config"
	"github.com/sedalabs/sedabot/pkg/metrics"
)

// Service provides credit ledger operations on top of the repository.
type Service struct {
	repo    repository.LedgerRepository
	billing config.BillingConfig
	log     *slog.Logger
}

// NewService constructs a ledger Service.
func NewService(repo repository.LedgerRepository, billing config.BillingConfig, log *slog.Logger) *Service {
	return &Service{repo: repo, billing: billing, log: log}
}

// Ensure upserts the user, creating a zero-balance row on first contact.
func (s *Service) Ensure(ctx context.Context, id int64, displayName string) (*domain.User, error) {
	user, err := s.repo.Ensure(ctx, id, displayName)
	if err != nil {
		s.logError("ensure", id, err)
		return nil, err
	}

	return user, nil
}

// Get returns the current user snapshot, creating the row when missing.
func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, repository.ErrUserNotFound) {
		s.logError("get", id, err)
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.Ensure(ctx, id, "")
}

// Credit adds delta credits to the user's balance.
func (s *Service) Credit(ctx context.Context, id int64, delta int64) error {
	if delta <= 0 {
		return fmt.Errorf("credit delta must be positive, got %d", delta)
	}

	if err := s.repo.Credit(ctx, id, delta); err != nil {
		s.logError("credit", id, err)
		return err
	}

	metrics.RecordCredits("granted", delta)
	return nil
}

// Debit removes delta credits, clamping the balance at zero.
func (s *Service) Debit(ctx context.Context, id int64, delta int64) error {
	if delta <= 0 {
		return fmt.Errorf("debit delta must be positive, got %d", delta)
	}

	if err := s.repo.Debit(ctx, id, delta); err != nil {
		s.logError("debit", id, err)
		return err
	}

	metrics.RecordCredits("debited", delta)
	return nil
}

// SetEffect stores the user's selected effect code.
func (s *Service) SetEffect(ctx context.Context, id int64, code string) error {
	if err := s.repo.SetEffect(ctx, id, code); err != nil {
		s.logError("set_effect", id, err)
		return err
	}

	return nil
}

// Stats returns ledger-wide aggregates.
func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.logError("stats", 0, err)
		return nil, err
	}

	return stats, nil
}

// PointsFor computes how many credits a paid amount is worth, using integer
// floor division on the configured unit amount.
func (s *Service) PointsFor(amount int64) int64 {
	if amount <= 0 {
		return 0
	}

	return (amount / s.billing.UnitAmount) * s.billing.PointsPerUnit
}

// Grant converts a paid amount into credits, applies them, and appends the
// payment audit record. The credit and the record are separate single-row
// writes; the record is appended only after the credit succeeded.
func (s *Service) Grant(ctx context.Context, id int64, amount int64) (int64, error) {
	points := s.PointsFor(amount)

	if points > 0 {
		if err := s.Credit(ctx, id, points); err != nil {
			return 0, err
		}
	}

	payment := &domain.Payment{
		UserID: id,
		Amount: amount,
		Points: points,
	}
	if err := s.repo.RecordPayment(ctx, payment); err != nil {
		s.logError("record_payment", id, err)
		return points, err
	}

	return points, nil
}

func (s *Service) logError(operation string, userID int64, err error) {
	if s == nil || s.log == nil || err == nil {
		return
	}

	s.log.Error("ledger service operation failed",
		slog.String("operation", operation),
		slog.Int64("user_id", userID),
		slog.Any("error", err),
	)
}
