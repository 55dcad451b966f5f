package bankroll

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oddsline/vigor/models"
)

type Repository interface {
	CreateAccount(ctx context.Context, account *models.BankrollAccount) error
	GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error)
	// GetAccountByUserIDForUpdate takes a row lock; only valid inside a transaction.
	GetAccountByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error)
	UpdateAccount(ctx context.Context, account *models.BankrollAccount) error

	CreateTransaction(ctx context.Context, transaction *models.BankrollTransaction) error
	GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.BankrollTransaction, error)
	SumTransactionAmounts(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, int64, error)
	SumTransactionsByType(ctx context.Context, accountID uuid.UUID, txType models.TransactionType) (decimal.Decimal, error)

	GetPendingExposure(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateAccount(ctx context.Context, account *models.BankrollAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error) {
	var account models.BankrollAccount
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) GetAccountByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error) {
	var account models.BankrollAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) UpdateAccount(ctx context.Context, account *models.BankrollAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repository) CreateTransaction(ctx context.Context, transaction *models.BankrollTransaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *repository) GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.BankrollTransaction, error) {
	var transactions []models.BankrollTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	return transactions, err
}

func (r *repository) SumTransactionAmounts(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.BankrollTransaction{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("account_id = ?", accountID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Count, nil
}

func (r *repository) SumTransactionsByType(ctx context.Context, accountID uuid.UUID, txType models.TransactionType) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.BankrollTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ? AND type = ?", accountID, txType).
		Scan(&total).Error
	return total, err
}

// GetPendingExposure reads the stake currently tied up in open bets from the
// user's aggregate row. A user with no aggregate row has no open bets.
func (r *repository) GetPendingExposure(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var exposure decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.PerformanceAggregate{}).
		Select("COALESCE(SUM(pending_amount), 0)").
		Where("user_id = ?", userID).
		Scan(&exposure).Error
	return exposure, err
}
