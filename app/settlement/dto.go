package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oddsline/vigor/app/bets"
	"github.com/oddsline/vigor/models"
)

// SettleBetRequest carries the terminal outcome for a single bet.
// ActualReturn is required for a win and ignored for a loss or push.
// ClosingOdds, when present, is used to compute closing line value.
type SettleBetRequest struct {
	Outcome      models.BetStatus `json:"outcome" binding:"required,oneof=win loss push"`
	ActualReturn *decimal.Decimal `json:"actual_return,omitempty"`
	ClosingOdds  *int             `json:"closing_odds,omitempty"`
}

// SettlementResult reports what a settlement did to the bet and the bankroll.
type SettlementResult struct {
	Bet           *bets.BetResponse `json:"bet"`
	Profit        decimal.Decimal   `json:"profit"`
	BalanceBefore decimal.Decimal   `json:"balance_before"`
	BalanceAfter  decimal.Decimal   `json:"balance_after"`
}

// SweepFailure records a bet the sweep could not settle.
type SweepFailure struct {
	BetID   string `json:"bet_id"`
	EventID string `json:"event_id"`
	Error   string `json:"error"`
}

// SweepReport summarizes one SweepPending run. Skipped counts bets whose
// events have no final score yet or whose market cannot be auto-resolved.
type SweepReport struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Examined   int            `json:"examined"`
	Settled    int            `json:"settled"`
	Skipped    int            `json:"skipped"`
	Failed     []SweepFailure `json:"failed,omitempty"`
}
