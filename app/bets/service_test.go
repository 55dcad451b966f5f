package bets

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oddsline/vigor/app/stats"
	"github.com/oddsline/vigor/internal/cache"
	"github.com/oddsline/vigor/models"
)

// MockRepository is a testify mock of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) WithTx(_ *gorm.DB) Repository { return m }

func (m *MockRepository) CreateBet(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockRepository) GetBetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockRepository) GetBetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockRepository) GetBetsByUser(ctx context.Context, userID uuid.UUID, filters *BetFilters) ([]models.Bet, int64, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Bet), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) DeleteBet(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockRepository) GetAccountByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankrollAccount), args.Error(1)
}

func (m *MockRepository) UpdateAccount(ctx context.Context, account *models.BankrollAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockRepository) CreateTransaction(ctx context.Context, transaction *models.BankrollTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

// MockMaintainer is a testify mock of stats.Maintainer
type MockMaintainer struct {
	mock.Mock
}

func (m *MockMaintainer) OnBetPlaced(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockMaintainer) OnBetSettled(ctx context.Context, bet *models.Bet, profit decimal.Decimal, settledAt time.Time) error {
	args := m.Called(ctx, bet, profit, settledAt)
	return args.Error(0)
}

func (m *MockMaintainer) OnBetDeleted(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockMaintainer) WithTx(_ *gorm.DB) stats.Maintainer { return m }

func newTestService(t *testing.T) (Service, *MockRepository, *MockMaintainer, sqlmock.Sqlmock) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	mockRepo := new(MockRepository)
	mockMaintainer := new(MockMaintainer)
	srv := NewService(gormDB, mockRepo, mockMaintainer, cache.NewMemoryCache[string]())

	return srv, mockRepo, mockMaintainer, sqlMock
}

func validRequest(userID uuid.UUID) *PlaceBetRequest {
	return &PlaceBetRequest{
		UserID:  userID,
		EventID: "nba-2026-01-15-LAL-BOS",
		Side:    models.BetSideHome,
		Odds:    -110,
		Stake:   decimal.NewFromInt(110),
	}
}

func TestService_PlaceBet(t *testing.T) {
	t.Run("Success defaults market to moneyline", func(t *testing.T) {
		srv, mockRepo, mockMaintainer, sqlMock := newTestService(t)
		ctx := context.Background()
		userID := uuid.New()

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		mockRepo.On("CreateBet", ctx, mock.MatchedBy(func(b *models.Bet) bool {
			return b.Status == models.BetStatusPending && b.Market == models.BetMarketMoneyline
		})).Return(nil)
		mockMaintainer.On("OnBetPlaced", ctx, mock.Anything).Return(nil)

		result, err := srv.PlaceBet(ctx, validRequest(userID))

		require.NoError(t, err)
		assert.Equal(t, models.BetStatusPending, result.Status)
		assert.True(t, decimal.NewFromInt(210).Equal(result.PotentialReturn.Round(2)))
		mockRepo.AssertExpectations(t)
		mockMaintainer.AssertExpectations(t)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("Zero odds rejected before any write", func(t *testing.T) {
		srv, mockRepo, _, _ := newTestService(t)
		req := validRequest(uuid.New())
		req.Odds = 0

		_, err := srv.PlaceBet(context.Background(), req)

		assert.ErrorIs(t, err, models.ErrInvalidOdds)
		mockRepo.AssertNotCalled(t, "CreateBet", mock.Anything, mock.Anything)
	})

	t.Run("Aggregate failure rolls the bet back", func(t *testing.T) {
		srv, mockRepo, mockMaintainer, sqlMock := newTestService(t)
		ctx := context.Background()

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		mockRepo.On("CreateBet", ctx, mock.Anything).Return(nil)
		mockMaintainer.On("OnBetPlaced", ctx, mock.Anything).Return(assert.AnError)

		_, err := srv.PlaceBet(ctx, validRequest(uuid.New()))

		assert.Error(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestService_GetBet(t *testing.T) {
	t.Run("Not found", func(t *testing.T) {
		srv, mockRepo, _, _ := newTestService(t)
		ctx := context.Background()
		id := uuid.New()

		mockRepo.On("GetBetByID", ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := srv.GetBet(ctx, id)
		assert.ErrorIs(t, err, models.ErrRecordNotFound)
	})
}

func TestService_DeleteBet(t *testing.T) {
	t.Run("Settled bet reverses balance effect", func(t *testing.T) {
		srv, mockRepo, mockMaintainer, sqlMock := newTestService(t)
		ctx := context.Background()
		userID := uuid.New()
		betID := uuid.New()

		profit := decimal.NewFromInt(100)
		bet := &models.Bet{
			ID:         betID,
			UserID:     userID,
			Status:     models.BetStatusWin,
			Stake:      decimal.NewFromInt(110),
			ProfitLoss: &profit,
		}
		account := &models.BankrollAccount{
			ID:             uuid.New(),
			UserID:         userID,
			CurrentAmount:  decimal.NewFromInt(1100),
			StartingAmount: decimal.NewFromInt(1000),
			KellyFraction:  decimal.NewFromFloat(0.25),
			MaxBetPercent:  decimal.NewFromInt(5),
		}

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		mockRepo.On("GetBetByIDForUpdate", ctx, betID).Return(bet, nil)
		mockRepo.On("GetAccountByUserIDForUpdate", ctx, userID).Return(account, nil)
		mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a *models.BankrollAccount) bool {
			return a.CurrentAmount.Equal(decimal.NewFromInt(1000))
		})).Return(nil)
		mockRepo.On("CreateTransaction", ctx, mock.MatchedBy(func(tr *models.BankrollTransaction) bool {
			return tr.Type == models.TransactionTypeRefund &&
				tr.Amount.Equal(decimal.NewFromInt(-100)) &&
				tr.BalanceBefore.Equal(decimal.NewFromInt(1100)) &&
				tr.IsBalanceConsistent()
		})).Return(nil)
		mockMaintainer.On("OnBetDeleted", ctx, bet).Return(nil)
		mockRepo.On("DeleteBet", ctx, bet).Return(nil)

		err := srv.DeleteBet(ctx, betID)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockMaintainer.AssertExpectations(t)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("Pending bet never touches the account", func(t *testing.T) {
		srv, mockRepo, mockMaintainer, sqlMock := newTestService(t)
		ctx := context.Background()
		betID := uuid.New()

		bet := &models.Bet{
			ID:     betID,
			UserID: uuid.New(),
			Status: models.BetStatusPending,
			Stake:  decimal.NewFromInt(50),
		}

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		mockRepo.On("GetBetByIDForUpdate", ctx, betID).Return(bet, nil)
		mockMaintainer.On("OnBetDeleted", ctx, bet).Return(nil)
		mockRepo.On("DeleteBet", ctx, bet).Return(nil)

		require.NoError(t, srv.DeleteBet(ctx, betID))
		mockRepo.AssertNotCalled(t, "GetAccountByUserIDForUpdate", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		srv, mockRepo, _, sqlMock := newTestService(t)
		ctx := context.Background()
		betID := uuid.New()

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		mockRepo.On("GetBetByIDForUpdate", ctx, betID).Return(nil, gorm.ErrRecordNotFound)

		err := srv.DeleteBet(ctx, betID)
		assert.ErrorIs(t, err, models.ErrRecordNotFound)
	})
}
