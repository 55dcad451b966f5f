package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PerformanceAggregate is a per-user denormalized view over the bet history.
// The count/sum/rate fields are maintained with O(1) deltas alongside every
// bet mutation and must always match a from-scratch recomputation. The streak
// fields are allowed to lag while NeedsRecalculation is set; they become exact
// again after the next recalculation pass.
type PerformanceAggregate struct {
	UserID uuid.UUID `gorm:"type:uuid;primary_key" json:"user_id"`

	TotalBetsPlaced int `gorm:"not null;default:0" json:"total_bets_placed"`
	BetsWon         int `gorm:"not null;default:0" json:"bets_won"`
	BetsLost        int `gorm:"not null;default:0" json:"bets_lost"`
	BetsPushed      int `gorm:"not null;default:0" json:"bets_pushed"`

	TotalWagered decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0.00" json:"total_wagered"`
	TotalWon     decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0.00" json:"total_won"`
	TotalLost    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0.00" json:"total_lost"`
	TotalProfit  decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0.00" json:"total_profit"`

	WinRate        decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0.00" json:"win_rate"`
	ROI            decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0.00" json:"roi"`
	AverageBetSize decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0.00" json:"average_bet_size"`

	LargestWin  decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0.00" json:"largest_win"`
	LargestLoss decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0.00" json:"largest_loss"`

	PendingBetCount int             `gorm:"not null;default:0" json:"pending_bet_count"`
	PendingAmount   decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0.00" json:"pending_amount"`

	LastBetAt  *time.Time `gorm:"type:timestamptz" json:"last_bet_at,omitempty"`
	LastWinAt  *time.Time `gorm:"type:timestamptz" json:"last_win_at,omitempty"`
	LastLossAt *time.Time `gorm:"type:timestamptz" json:"last_loss_at,omitempty"`

	// Signed: positive is a win streak, negative a loss streak.
	CurrentStreak     int `gorm:"not null;default:0" json:"current_streak"`
	LongestWinStreak  int `gorm:"not null;default:0" json:"longest_win_streak"`
	LongestLossStreak int `gorm:"not null;default:0" json:"longest_loss_streak"`

	NeedsRecalculation bool      `gorm:"not null;default:false" json:"needs_recalculation"`
	LastSyncedAt       time.Time `gorm:"autoUpdateTime" json:"last_synced_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the PerformanceAggregate model
func (*PerformanceAggregate) TableName() string {
	return "performance_aggregates"
}

// NewPerformanceAggregate returns a zero-valued aggregate for a user.
func NewPerformanceAggregate(userID uuid.UUID) *PerformanceAggregate {
	return &PerformanceAggregate{
		UserID:         userID,
		TotalWagered:   decimal.Zero,
		TotalWon:       decimal.Zero,
		TotalLost:      decimal.Zero,
		TotalProfit:    decimal.Zero,
		WinRate:        decimal.Zero,
		ROI:            decimal.Zero,
		AverageBetSize: decimal.Zero,
		LargestWin:     decimal.Zero,
		LargestLoss:    decimal.Zero,
		PendingAmount:  decimal.Zero,
	}
}

// ApplyBetPlaced records a newly created pending bet. The full stake counts
// toward TotalWagered at creation time; settlement does not count it again.
func (p *PerformanceAggregate) ApplyBetPlaced(stake decimal.Decimal, placedAt time.Time) {
	p.TotalBetsPlaced++
	p.PendingBetCount++
	p.PendingAmount = p.PendingAmount.Add(stake)
	p.TotalWagered = p.TotalWagered.Add(stake)
	if p.LastBetAt == nil || placedAt.After(*p.LastBetAt) {
		t := placedAt
		p.LastBetAt = &t
	}
	p.recalcDerived()
}

// RevertBetPlaced undoes ApplyBetPlaced for a still-pending bet.
func (p *PerformanceAggregate) RevertBetPlaced(stake decimal.Decimal) {
	p.TotalBetsPlaced--
	p.PendingBetCount--
	p.PendingAmount = p.PendingAmount.Sub(stake)
	p.TotalWagered = p.TotalWagered.Sub(stake)
	// LastBetAt cannot be rewound in O(1); the next recalculation restores it.
	p.NeedsRecalculation = true
	p.recalcDerived()
}

// ApplySettlement records the pending -> outcome transition for a bet.
// profit is the signed bankroll delta (win: return-stake, loss: -stake,
// push: 0). Pushes never dirty the streak fields.
func (p *PerformanceAggregate) ApplySettlement(outcome BetStatus, stake, profit decimal.Decimal, settledAt time.Time) error {
	p.PendingBetCount--
	p.PendingAmount = p.PendingAmount.Sub(stake)
	p.TotalProfit = p.TotalProfit.Add(profit)

	switch outcome {
	case BetStatusWin:
		p.BetsWon++
		p.TotalWon = p.TotalWon.Add(profit)
		if profit.GreaterThan(p.LargestWin) {
			p.LargestWin = profit
		}
		if p.LastWinAt == nil || settledAt.After(*p.LastWinAt) {
			t := settledAt
			p.LastWinAt = &t
		}
		p.NeedsRecalculation = true
	case BetStatusLoss:
		p.BetsLost++
		p.TotalLost = p.TotalLost.Add(stake)
		if stake.GreaterThan(p.LargestLoss) {
			p.LargestLoss = stake
		}
		if p.LastLossAt == nil || settledAt.After(*p.LastLossAt) {
			t := settledAt
			p.LastLossAt = &t
		}
		p.NeedsRecalculation = true
	case BetStatusPush:
		p.BetsPushed++
	default:
		return ErrInvalidOutcome
	}

	p.recalcDerived()
	return nil
}

// RevertSettlement applies the exact inverse of ApplySettlement, returning
// the aggregate to the pending-bet state. Running maxima and last-outcome
// timestamps cannot be rewound in O(1); when the reverted bet could have set
// them, the dirty flag hands them to the next recalculation pass.
func (p *PerformanceAggregate) RevertSettlement(outcome BetStatus, stake, profit decimal.Decimal) error {
	p.PendingBetCount++
	p.PendingAmount = p.PendingAmount.Add(stake)
	p.TotalProfit = p.TotalProfit.Sub(profit)

	switch outcome {
	case BetStatusWin:
		p.BetsWon--
		p.TotalWon = p.TotalWon.Sub(profit)
		if profit.GreaterThanOrEqual(p.LargestWin) {
			p.NeedsRecalculation = true
		}
	case BetStatusLoss:
		p.BetsLost--
		p.TotalLost = p.TotalLost.Sub(stake)
		if stake.GreaterThanOrEqual(p.LargestLoss) {
			p.NeedsRecalculation = true
		}
	case BetStatusPush:
		p.BetsPushed--
	default:
		return ErrInvalidOutcome
	}

	if outcome != BetStatusPush {
		p.NeedsRecalculation = true
	}
	p.recalcDerived()
	return nil
}

// SettledCount returns the number of win/loss settlements counted.
func (p *PerformanceAggregate) SettledCount() int {
	return p.BetsWon + p.BetsLost
}

// recalcDerived recomputes the ratio fields from the counters they depend on.
func (p *PerformanceAggregate) recalcDerived() {
	hundred := decimal.NewFromInt(100)

	if settled := p.SettledCount(); settled > 0 {
		p.WinRate = decimal.NewFromInt(int64(p.BetsWon)).
			Div(decimal.NewFromInt(int64(settled))).
			Mul(hundred)
	} else {
		p.WinRate = decimal.Zero
	}

	if p.TotalWagered.GreaterThan(decimal.Zero) {
		p.ROI = p.TotalProfit.Div(p.TotalWagered).Mul(hundred)
	} else {
		p.ROI = decimal.Zero
	}

	if p.TotalBetsPlaced > 0 {
		p.AverageBetSize = p.TotalWagered.Div(decimal.NewFromInt(int64(p.TotalBetsPlaced)))
	} else {
		p.AverageBetSize = decimal.Zero
	}
}
