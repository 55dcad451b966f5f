package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oddsline/vigor/models"
)

// lockNotAvailable is the SQLSTATE postgres raises when lock_timeout expires.
const lockNotAvailable = "55P03"

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// SetLockTimeout applies only to the current transaction. lock_timeout does
// not accept bind parameters, so the value is formatted into the statement.
func (r *repository) SetLockTimeout(ctx context.Context, timeout time.Duration) error {
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())
	return r.db.WithContext(ctx).Exec(stmt).Error
}

func (r *repository) GetBetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	var bet models.Bet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&bet).Error
	if err != nil {
		return nil, translateLockError(err)
	}
	return &bet, nil
}

func (r *repository) GetAccountByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error) {
	var account models.BankrollAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		return nil, translateLockError(err)
	}
	return &account, nil
}

// SettleBet writes the terminal state with a compare-and-swap on the pending
// status. A second settler loses the race here even if it never saw the lock.
func (r *repository) SettleBet(ctx context.Context, bet *models.Bet) error {
	result := r.db.WithContext(ctx).
		Model(&models.Bet{}).
		Where("id = ? AND status = ?", bet.ID, models.BetStatusPending).
		Updates(map[string]interface{}{
			"status":             bet.Status,
			"actual_return":      bet.ActualReturn,
			"profit_loss":        bet.ProfitLoss,
			"settled_at":         bet.SettledAt,
			"closing_odds":       bet.ClosingOdds,
			"closing_line_value": bet.ClosingLineValue,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrBetAlreadySettled
	}
	return nil
}

func (r *repository) UpdateAccount(ctx context.Context, account *models.BankrollAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repository) CreateTransaction(ctx context.Context, transaction *models.BankrollTransaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *repository) ListPendingBets(ctx context.Context, limit, offset int) ([]models.Bet, error) {
	var pending []models.Bet
	err := r.db.WithContext(ctx).
		Where("status = ?", models.BetStatusPending).
		Order("placed_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&pending).Error
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// translateLockError maps a lock_timeout expiry to the domain error so
// callers can retry with backoff. The driver surfaces the SQLSTATE either
// as *pq.Error or through the SQLState accessor.
func translateLockError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == lockNotAvailable {
		return models.ErrConcurrentModification
	}
	var stateErr interface{ SQLState() string }
	if errors.As(err, &stateErr) && stateErr.SQLState() == lockNotAvailable {
		return models.ErrConcurrentModification
	}
	return err
}
