package stats

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oddsline/vigor/models"
)

// PerformanceResponse represents a user's betting performance in API responses
type PerformanceResponse struct {
	UserID uuid.UUID `json:"user_id"`

	TotalBetsPlaced int `json:"total_bets_placed"`
	BetsWon         int `json:"bets_won"`
	BetsLost        int `json:"bets_lost"`
	BetsPushed      int `json:"bets_pushed"`

	TotalWagered decimal.Decimal `json:"total_wagered"`
	TotalWon     decimal.Decimal `json:"total_won"`
	TotalLost    decimal.Decimal `json:"total_lost"`
	TotalProfit  decimal.Decimal `json:"total_profit"`

	WinRate        decimal.Decimal `json:"win_rate"`
	ROI            decimal.Decimal `json:"roi"`
	AverageBetSize decimal.Decimal `json:"average_bet_size"`

	LargestWin  decimal.Decimal `json:"largest_win"`
	LargestLoss decimal.Decimal `json:"largest_loss"`

	PendingBetCount int             `json:"pending_bet_count"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`

	LastBetAt  *time.Time `json:"last_bet_at,omitempty"`
	LastWinAt  *time.Time `json:"last_win_at,omitempty"`
	LastLossAt *time.Time `json:"last_loss_at,omitempty"`

	CurrentStreak     int `json:"current_streak"`
	LongestWinStreak  int `json:"longest_win_streak"`
	LongestLossStreak int `json:"longest_loss_streak"`

	LastSyncedAt time.Time `json:"last_synced_at"`
}

// ToPerformanceResponse converts a models.PerformanceAggregate to PerformanceResponse
func ToPerformanceResponse(agg *models.PerformanceAggregate) *PerformanceResponse {
	return &PerformanceResponse{
		UserID:            agg.UserID,
		TotalBetsPlaced:   agg.TotalBetsPlaced,
		BetsWon:           agg.BetsWon,
		BetsLost:          agg.BetsLost,
		BetsPushed:        agg.BetsPushed,
		TotalWagered:      agg.TotalWagered,
		TotalWon:          agg.TotalWon,
		TotalLost:         agg.TotalLost,
		TotalProfit:       agg.TotalProfit,
		WinRate:           agg.WinRate,
		ROI:               agg.ROI,
		AverageBetSize:    agg.AverageBetSize,
		LargestWin:        agg.LargestWin,
		LargestLoss:       agg.LargestLoss,
		PendingBetCount:   agg.PendingBetCount,
		PendingAmount:     agg.PendingAmount,
		LastBetAt:         agg.LastBetAt,
		LastWinAt:         agg.LastWinAt,
		LastLossAt:        agg.LastLossAt,
		CurrentStreak:     agg.CurrentStreak,
		LongestWinStreak:  agg.LongestWinStreak,
		LongestLossStreak: agg.LongestLossStreak,
		LastSyncedAt:      agg.LastSyncedAt,
	}
}
