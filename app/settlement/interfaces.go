package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oddsline/vigor/models"
)

// Repository defines the data access contract for settlement. It spans the
// bet, the owner's account and the ledger because settling is one atomic
// write across all three.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// SetLockTimeout bounds how long row-lock acquisition may wait inside
	// the current transaction.
	SetLockTimeout(ctx context.Context, timeout time.Duration) error

	GetBetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	GetAccountByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.BankrollAccount, error)

	// SettleBet writes the terminal state guarded by status = 'pending'.
	// Returns models.ErrBetAlreadySettled when the guard matches no row.
	SettleBet(ctx context.Context, bet *models.Bet) error

	UpdateAccount(ctx context.Context, account *models.BankrollAccount) error
	CreateTransaction(ctx context.Context, transaction *models.BankrollTransaction) error

	ListPendingBets(ctx context.Context, limit, offset int) ([]models.Bet, error)
}

// Service defines the settlement engine contract
type Service interface {
	Settle(ctx context.Context, betID uuid.UUID, req *SettleBetRequest) (*SettlementResult, error)
	SweepPending(ctx context.Context) (*SweepReport, error)
}

// Resolution is an outcome determined from a final score.
type Resolution struct {
	Outcome      models.BetStatus
	ActualReturn decimal.Decimal
	ClosingOdds  *int
}

// OutcomeResolver determines the terminal outcome of a pending bet from
// external event data. Resolution is keyed on the bet's event ID and side;
// there is no name matching.
type OutcomeResolver interface {
	Resolve(ctx context.Context, bet *models.Bet) (*Resolution, error)
}

// EventScore is the final score payload for a single event.
type EventScore struct {
	EventID     string                 `json:"event_id"`
	HomeScore   int                    `json:"home_score"`
	AwayScore   int                    `json:"away_score"`
	Final       bool                   `json:"final"`
	ClosingOdds map[models.BetSide]int `json:"closing_odds,omitempty"`
}

// ScoreProvider fetches event results from a score feed.
type ScoreProvider interface {
	FinalScore(ctx context.Context, eventID string) (*EventScore, error)
}
