package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sedalabs/sedabot/internal/domain"
	"github.com/sedalabs/sedabot/internal/repository"
	"github.com/sedalabs/sedabot/pkg/config"
)

var errStorageFailure = errors.New("storage error")

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Ensure(ctx context.Context, id int64, displayName string) (*domain.User, error) {
	args := m.Called(ctx, id, displayName)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockRepo) Credit(ctx context.Context, id int64, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *mockRepo) Debit(ctx context.Context, id int64, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *mockRepo) SetEffect(ctx context.Context, id int64, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *mockRepo) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*domain.Stats)
	return stats, args.Error(1)
}

func (m *mockRepo) RecordPayment(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func testBilling() config.BillingConfig {
	return config.BillingConfig{
		PointsPerUnit: 200,
		UnitAmount:    10000,
		VoiceCost:     1,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo repository.LedgerRepository) *Service {
	return NewService(repo, testBilling(), testLogger())
}

func TestService_PointsFor(t *testing.T) {
	svc := newTestService(nil)

	testCases := []struct {
		name     string
		amount   int64
		expected int64
	}{
		{name: "exact unit", amount: 10000, expected: 200},
		{name: "two and a half units floors", amount: 25000, expected: 400},
		{name: "below one unit", amount: 9999, expected: 0},
		{name: "zero", amount: 0, expected: 0},
		{name: "negative", amount: -5000, expected: 0},
		{name: "large amount", amount: 100000, expected: 2000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, svc.PointsFor(tc.amount))
		})
	}
}

func TestService_Grant(t *testing.T) {
	ctx := context.Background()
	userID := int64(42)

	t.Run("credits and records payment", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Credit", mock.Anything, userID, int64(400)).Return(nil).Once()
		repo.On("RecordPayment", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.UserID == userID && p.Amount == 25000 && p.Points == 400
		})).Return(nil).Once()

		points, err := newTestService(repo).Grant(ctx, userID, 25000)
		require.NoError(t, err)
		assert.Equal(t, int64(400), points)
		repo.AssertExpectations(t)
	})

	t.Run("zero points skips credit but still records", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("RecordPayment", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.Points == 0 && p.Amount == 9999
		})).Return(nil).Once()

		points, err := newTestService(repo).Grant(ctx, userID, 9999)
		require.NoError(t, err)
		assert.Zero(t, points)
		repo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("credit failure skips payment record", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Credit", mock.Anything, userID, int64(200)).Return(errStorageFailure).Once()

		_, err := newTestService(repo).Grant(ctx, userID, 10000)
		require.ErrorIs(t, err, errStorageFailure)
		repo.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	userID := int64(42)

	t.Run("existing user", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByID", mock.Anything, userID).
			Return(&domain.User{ID: userID, Balance: 7}, nil).Once()

		user, err := newTestService(repo).Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.Balance)
		repo.AssertExpectations(t)
	})

	t.Run("missing user gets created", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByID", mock.Anything, userID).
			Return((*domain.User)(nil), repository.ErrUserNotFound).Once()
		repo.On("Ensure", mock.Anything, userID, "").
			Return(&domain.User{ID: userID, Balance: 0}, nil).Once()

		user, err := newTestService(repo).Get(ctx, userID)
		require.NoError(t, err)
		assert.Zero(t, user.Balance)
		repo.AssertExpectations(t)
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByID", mock.Anything, userID).
			Return((*domain.User)(nil), errStorageFailure).Once()

		_, err := newTestService(repo).Get(ctx, userID)
		require.ErrorIs(t, err, errStorageFailure)
		repo.AssertNotCalled(t, "Ensure", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_CreditValidation(t *testing.T) {
	svc := newTestService(new(mockRepo))

	err := svc.Credit(context.Background(), 42, 0)
	assert.Error(t, err)

	err = svc.Credit(context.Background(), 42, -10)
	assert.Error(t, err)
}

func TestService_DebitValidation(t *testing.T) {
	svc := newTestService(new(mockRepo))

	err := svc.Debit(context.Background(), 42, 0)
	assert.Error(t, err)

	err = svc.Debit(context.Background(), 42, -1)
	assert.Error(t, err)
}

func TestService_Debit(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Debit", mock.Anything, int64(42), int64(1)).Return(nil).Once()

	err := newTestService(repo).Debit(context.Background(), 42, 1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
