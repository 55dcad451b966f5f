package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BetStatus represents the lifecycle state of a bet. A bet starts pending
// and moves exactly once to one of the terminal outcomes.
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWin     BetStatus = "win"
	BetStatusLoss    BetStatus = "loss"
	BetStatusPush    BetStatus = "push"
)

// IsTerminal reports whether the status is a settled outcome.
func (s BetStatus) IsTerminal() bool {
	return s == BetStatusWin || s == BetStatusLoss || s == BetStatusPush
}

// BetSide identifies the selection within an event by a stable key rather
// than a free-text team name.
type BetSide string

const (
	BetSideHome  BetSide = "home"
	BetSideAway  BetSide = "away"
	BetSideOver  BetSide = "over"
	BetSideUnder BetSide = "under"
)

// BetMarket tags the kind of wager placed.
type BetMarket string

const (
	BetMarketMoneyline BetMarket = "moneyline"
	BetMarketSpread    BetMarket = "spread"
	BetMarketTotal     BetMarket = "total"
	BetMarketProp      BetMarket = "prop"
)

// Bet represents a wager a user placed on a sporting event.
// Odds use the American convention: positive values are the underdog payout
// per 100 staked, negative values the favorite risk per 100 won.
type Bet struct {
	ID       uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_bets_user" json:"user_id"`
	EventID  string           `gorm:"type:varchar(100);not null;index:idx_bets_event" json:"event_id"`
	Side     BetSide          `gorm:"type:varchar(20);not null" json:"side"`
	Market   BetMarket        `gorm:"type:varchar(20);not null;default:'moneyline'" json:"market"`
	Odds     int              `gorm:"not null;check:odds <> 0" json:"odds"`
	Line     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"line,omitempty"`
	Stake    decimal.Decimal  `gorm:"type:decimal(20,2);not null;check:stake > 0" json:"stake"`
	Status   BetStatus        `gorm:"type:varchar(20);not null;default:'pending';index:idx_bets_status" json:"status"`
	Notes    string           `gorm:"type:text" json:"notes,omitempty"`
	PlacedAt time.Time        `gorm:"autoCreateTime;index:idx_bets_placed_at" json:"placed_at"`

	// Set by the settlement engine; nil while pending.
	ActualReturn     *decimal.Decimal `gorm:"type:decimal(20,2)" json:"actual_return,omitempty"`
	ProfitLoss       *decimal.Decimal `gorm:"type:decimal(20,2)" json:"profit_loss,omitempty"`
	SettledAt        *time.Time       `gorm:"type:timestamptz" json:"settled_at,omitempty"`
	ClosingOdds      *int             `json:"closing_odds,omitempty"`
	ClosingLineValue *decimal.Decimal `gorm:"type:decimal(10,4)" json:"closing_line_value,omitempty"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Bet model
func (*Bet) TableName() string {
	return "bets"
}

// BeforeCreate sets up the model before creation
func (b *Bet) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsPending reports whether the bet can still be settled.
func (b *Bet) IsPending() bool {
	return b.Status == BetStatusPending
}

// IsSettled reports whether the bet has reached a terminal outcome.
func (b *Bet) IsSettled() bool {
	return b.Status.IsTerminal()
}

// PotentialReturn computes stake plus winnings at the bet's odds.
func (b *Bet) PotentialReturn() decimal.Decimal {
	if b.Odds > 0 {
		profit := b.Stake.Mul(decimal.NewFromInt(int64(b.Odds))).Div(decimal.NewFromInt(100))
		return b.Stake.Add(profit)
	}
	profit := b.Stake.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(-b.Odds)))
	return b.Stake.Add(profit)
}

// ProfitForOutcome computes the profit/loss delta that settling this bet with
// the given outcome would apply to the owner's bankroll.
// win: actualReturn - stake; loss: -stake; push: 0.
func (b *Bet) ProfitForOutcome(outcome BetStatus, actualReturn decimal.Decimal) (decimal.Decimal, error) {
	switch outcome {
	case BetStatusWin:
		return actualReturn.Sub(b.Stake), nil
	case BetStatusLoss:
		return b.Stake.Neg(), nil
	case BetStatusPush:
		return decimal.Zero, nil
	default:
		return decimal.Zero, ErrInvalidOutcome
	}
}

// Validate performs validation on the bet model
func (b *Bet) Validate() error {
	if b.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if b.EventID == "" {
		return ErrInvalidEventID
	}
	if b.Side == "" {
		return ErrInvalidSideKey
	}
	if b.Odds == 0 {
		return ErrInvalidOdds
	}
	if b.Stake.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidStake
	}
	switch b.Status {
	case BetStatusPending, BetStatusWin, BetStatusLoss, BetStatusPush:
	default:
		return ErrInvalidBetStatus
	}
	return nil
}
