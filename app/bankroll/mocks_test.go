package bankroll

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oddsline/vigor/models"
)

// MockRepository is a testify mock of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAccount(ctx context.Context, account *models.BankrollAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockRepository) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankrollAccount), args.Error(1)
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

func (m *MockRepository) GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.BankrollTransaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BankrollTransaction), args.Error(1)
}

func (m *MockRepository) SumTransactionAmounts(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) SumTransactionsByType(ctx context.Context, accountID uuid.UUID, txType models.TransactionType) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, txType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRepository) GetPendingExposure(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRepository) WithTx(_ *gorm.DB) Repository {
	return m
}

// newTestDB returns a gorm handle over sqlmock so db.Transaction begin/commit
// boundaries can be asserted while the repository itself is mocked.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, sqlMock
}
