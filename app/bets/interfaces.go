package bets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oddsline/vigor/models"
)

// Repository defines the interface for bet data access. Account operations
// are included so the delete path can reverse a settled bet's balance effect
// in the same transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateBet(ctx context.Context, bet *models.Bet) error
	GetBetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	// GetBetByIDForUpdate takes a row lock; only valid inside a transaction.
	GetBetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	GetBetsByUser(ctx context.Context, userID uuid.UUID, filters *BetFilters) ([]models.Bet, int64, error)
	// DeleteBet removes the bet row; linked ledger entries keep their history
	// with the bet reference nulled.
	DeleteBet(ctx context.Context, bet *models.Bet) error

	GetAccountByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error)
	UpdateAccount(ctx context.Context, account *models.BankrollAccount) error
	CreateTransaction(ctx context.Context, transaction *models.BankrollTransaction) error
}

// Service defines the interface for the bet lifecycle outside settlement
type Service interface {
	PlaceBet(ctx context.Context, req *PlaceBetRequest) (*BetResponse, error)
	GetBet(ctx context.Context, id uuid.UUID) (*BetResponse, error)
	GetUserBets(ctx context.Context, userID uuid.UUID, filters *BetFilters) (*BetListResponse, error)
	DeleteBet(ctx context.Context, id uuid.UUID) error
}
