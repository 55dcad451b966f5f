package stats

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oddsline/vigor/models"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.PerformanceAggregate, error)
	// GetByUserIDForUpdate takes a row lock; only valid inside a transaction.
	GetByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.PerformanceAggregate, error)
	// Create inserts the aggregate row; a concurrent insert for the same
	// user is not an error.
	Create(ctx context.Context, agg *models.PerformanceAggregate) error
	Save(ctx context.Context, agg *models.PerformanceAggregate) error

	// ListBets returns every bet of the user ordered by placement time.
	ListBets(ctx context.Context, userID uuid.UUID) ([]models.Bet, error)

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

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.PerformanceAggregate, error) {
	var agg models.PerformanceAggregate
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *repository) GetByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.PerformanceAggregate, error) {
	var agg models.PerformanceAggregate
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// Create inserts the zero row, ignoring the conflict when a concurrent
// transaction for the same user inserted it first; callers re-read under
// lock afterwards.
func (r *repository) Create(ctx context.Context, agg *models.PerformanceAggregate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(agg).Error
}

func (r *repository) Save(ctx context.Context, agg *models.PerformanceAggregate) error {
	return r.db.WithContext(ctx).Save(agg).Error
}

func (r *repository) ListBets(ctx context.Context, userID uuid.UUID) ([]models.Bet, error) {
	var bets []models.Bet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("placed_at ASC").
		Find(&bets).Error
	return bets, err
}
