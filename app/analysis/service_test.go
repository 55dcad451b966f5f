package analysis

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oddsline/vigor/app/bankroll"
	"github.com/oddsline/vigor/models"
)

// MockAccountRepository is a testify mock of bankroll.Repository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, account *models.BankrollAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankrollAccount), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankrollAccount), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account *models.BankrollAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) CreateTransaction(ctx context.Context, transaction *models.BankrollTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockAccountRepository) GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.BankrollTransaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BankrollTransaction), args.Error(1)
}

func (m *MockAccountRepository) SumTransactionAmounts(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) SumTransactionsByType(ctx context.Context, accountID uuid.UUID, txType models.TransactionType) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, txType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) GetPendingExposure(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) WithTx(_ *gorm.DB) bankroll.Repository { return m }

func policyAccount(userID uuid.UUID) *models.BankrollAccount {
	return &models.BankrollAccount{
		ID:             uuid.New(),
		UserID:         userID,
		CurrentAmount:  decimal.NewFromInt(5000),
		StartingAmount: decimal.NewFromInt(5000),
		KellyFraction:  decimal.RequireFromString("0.25"),
		MaxBetPercent:  decimal.NewFromInt(5),
		MinEdge:        decimal.RequireFromString("0.02"),
	}
}

func TestQuoteEV(t *testing.T) {
	srv := NewService(new(MockAccountRepository))

	t.Run("PositiveEVQuote", func(t *testing.T) {
		quote, err := srv.QuoteEV(&EVQuoteRequest{
			WinProbability: decimal.RequireFromString("0.58"),
			Odds:           -110,
			Stake:          decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		assert.Equal(t, "10.73", quote.ExpectedValue.Round(2).StringFixed(2))
		assert.Equal(t, "0.0562", quote.Edge.Round(4).StringFixed(4))
		assert.Equal(t, "0.5238", quote.ImpliedProbability.Round(4).StringFixed(4))
		assert.Equal(t, "1.9091", quote.DecimalOdds.Round(4).StringFixed(4))
	})

	t.Run("ZeroOddsRejected", func(t *testing.T) {
		_, err := srv.QuoteEV(&EVQuoteRequest{
			WinProbability: decimal.RequireFromString("0.5"),
			Odds:           0,
			Stake:          decimal.NewFromInt(100),
		})

		assert.ErrorIs(t, err, models.ErrInvalidOdds)
	})

	t.Run("ProbabilityOutOfRange", func(t *testing.T) {
		_, err := srv.QuoteEV(&EVQuoteRequest{
			WinProbability: decimal.RequireFromString("1.2"),
			Odds:           -110,
			Stake:          decimal.NewFromInt(100),
		})

		assert.ErrorIs(t, err, models.ErrInvalidProbability)
	})
}

func TestQuoteKelly(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("SizesStakeFromAccountPolicy", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("GetAccountByUserID", ctx, userID).Return(policyAccount(userID), nil)
		srv := NewService(repo)

		quote, err := srv.QuoteKelly(ctx, &KellyQuoteRequest{
			UserID:         userID,
			WinProbability: decimal.RequireFromString("0.58"),
			Odds:           -110,
		})

		require.NoError(t, err)
		assert.Equal(t, "0.1180", quote.FullKelly.Round(4).StringFixed(4))
		assert.Equal(t, "147.50", quote.RecommendedStake.StringFixed(2))
		assert.True(t, quote.MeetsMinEdge)
		assert.False(t, quote.Capped)
	})

	t.Run("EdgeUnderPolicyMinimumZeroesStake", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("GetAccountByUserID", ctx, userID).Return(policyAccount(userID), nil)
		srv := NewService(repo)

		quote, err := srv.QuoteKelly(ctx, &KellyQuoteRequest{
			UserID:         userID,
			WinProbability: decimal.RequireFromString("0.53"),
			Odds:           -110,
		})

		require.NoError(t, err)
		assert.False(t, quote.MeetsMinEdge)
		assert.True(t, quote.RecommendedStake.IsZero())
	})

	t.Run("MaxBetPercentCapsStake", func(t *testing.T) {
		account := policyAccount(userID)
		account.MaxBetPercent = decimal.NewFromInt(2)
		repo := new(MockAccountRepository)
		repo.On("GetAccountByUserID", ctx, userID).Return(account, nil)
		srv := NewService(repo)

		quote, err := srv.QuoteKelly(ctx, &KellyQuoteRequest{
			UserID:         userID,
			WinProbability: decimal.RequireFromString("0.58"),
			Odds:           -110,
		})

		require.NoError(t, err)
		assert.Equal(t, "100.00", quote.RecommendedStake.StringFixed(2))
		assert.True(t, quote.Capped)
	})

	t.Run("NegativeEdgeRecommendsNoBet", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("GetAccountByUserID", ctx, userID).Return(policyAccount(userID), nil)
		srv := NewService(repo)

		quote, err := srv.QuoteKelly(ctx, &KellyQuoteRequest{
			UserID:         userID,
			WinProbability: decimal.RequireFromString("0.40"),
			Odds:           -110,
		})

		require.NoError(t, err)
		assert.True(t, quote.RecommendedStake.IsZero())
		assert.False(t, quote.MeetsMinEdge)
	})

	t.Run("AccountNotFound", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("GetAccountByUserID", ctx, userID).Return(nil, gorm.ErrRecordNotFound)
		srv := NewService(repo)

		_, err := srv.QuoteKelly(ctx, &KellyQuoteRequest{
			UserID:         userID,
			WinProbability: decimal.RequireFromString("0.58"),
			Odds:           -110,
		})

		assert.ErrorIs(t, err, models.ErrAccountNotFound)
	})
}

func TestQuoteCLV(t *testing.T) {
	srv := NewService(new(MockAccountRepository))

	t.Run("BeatTheClose", func(t *testing.T) {
		quote, err := srv.QuoteCLV(&CLVQuoteRequest{PlacedOdds: -110, ClosingOdds: -130})

		require.NoError(t, err)
		assert.Equal(t, "4.14", quote.ClosingLineValue.Round(2).StringFixed(2))
		assert.True(t, quote.BeatClosingLine)
	})

	t.Run("LostToTheClose", func(t *testing.T) {
		quote, err := srv.QuoteCLV(&CLVQuoteRequest{PlacedOdds: -130, ClosingOdds: -110})

		require.NoError(t, err)
		assert.True(t, quote.ClosingLineValue.IsNegative())
		assert.False(t, quote.BeatClosingLine)
	})

	t.Run("ZeroOddsRejected", func(t *testing.T) {
		_, err := srv.QuoteCLV(&CLVQuoteRequest{PlacedOdds: 0, ClosingOdds: -110})

		assert.ErrorIs(t, err, models.ErrInvalidOdds)
	})
}
