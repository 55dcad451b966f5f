package bets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oddsline/vigor/models"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateBet(ctx context.Context, bet *models.Bet) error {
	if err := bet.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(bet).Error
}

func (r *repository) GetBetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	var bet models.Bet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&bet).Error
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

func (r *repository) GetBetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	var bet models.Bet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&bet).Error
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

// GetBetsByUser returns paginated bets for a user with filters
func (r *repository) GetBetsByUser(ctx context.Context, userID uuid.UUID, filters *BetFilters) ([]models.Bet, int64, error) {
	var bets []models.Bet
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Bet{}).Where("user_id = ?", userID)
	query = r.applyBetFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.applyBetSorting(query, filters)
	query = r.applyBetPagination(query, filters)

	err := query.Find(&bets).Error
	return bets, total, err
}

func (r *repository) DeleteBet(ctx context.Context, bet *models.Bet) error {
	return r.db.WithContext(ctx).Delete(bet).Error
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

func (r *repository) applyBetFilters(query *gorm.DB, filters *BetFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.EventID != nil {
		query = query.Where("event_id = ?", *filters.EventID)
	}
	if filters.Market != nil {
		query = query.Where("market = ?", *filters.Market)
	}
	if filters.DateFrom != nil {
		query = query.Where("placed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("placed_at <= ?", *filters.DateTo)
	}
	return query
}

func (r *repository) applyBetSorting(query *gorm.DB, filters *BetFilters) *gorm.DB {
	sortBy := "placed_at"
	sortOrder := "desc"

	if filters != nil {
		switch filters.SortBy {
		case "placed_at", "settled_at", "stake", "odds":
			sortBy = filters.SortBy
		}
		if filters.SortOrder == "asc" {
			sortOrder = "asc"
		}
	}

	return query.Order(sortBy + " " + sortOrder)
}

func (r *repository) applyBetPagination(query *gorm.DB, filters *BetFilters) *gorm.DB {
	page := 1
	perPage := 20

	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PerPage > 0 && filters.PerPage <= 100 {
			perPage = filters.PerPage
		}
	}

	offset := (page - 1) * perPage
	return query.Offset(offset).Limit(perPage)
}
