package stats

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oddsline/vigor/models"
)

// Rebuild recomputes a user's aggregate from scratch over the given bets.
// It restores everything the O(1) deltas cannot rewind: streaks, running
// maxima and the last-bet/win/loss timestamps. The result has the dirty
// flag cleared.
//
// Pure so the incremental delta methods can be checked against it in tests.
func Rebuild(userID uuid.UUID, bets []models.Bet) (*models.PerformanceAggregate, error) {
	agg := models.NewPerformanceAggregate(userID)

	byPlacedAt := make([]models.Bet, len(bets))
	copy(byPlacedAt, bets)
	sort.SliceStable(byPlacedAt, func(i, j int) bool {
		return byPlacedAt[i].PlacedAt.Before(byPlacedAt[j].PlacedAt)
	})

	var settled []models.Bet
	for i := range byPlacedAt {
		bet := &byPlacedAt[i]
		agg.ApplyBetPlaced(bet.Stake, bet.PlacedAt)

		if !bet.IsSettled() {
			continue
		}
		profit, err := bet.ProfitForOutcome(bet.Status, derefOrZero(bet.ActualReturn))
		if err != nil {
			return nil, err
		}
		settledAt := bet.PlacedAt
		if bet.SettledAt != nil {
			settledAt = *bet.SettledAt
		}
		if err := agg.ApplySettlement(bet.Status, bet.Stake, profit, settledAt); err != nil {
			return nil, err
		}
		settled = append(settled, *bet)
	}

	// settled carries the placed_at ordering of the pass above; streaks are
	// defined over placement time, not settlement time.
	outcomes := make([]models.BetStatus, 0, len(settled))
	for i := range settled {
		if settled[i].Status != models.BetStatusPush {
			outcomes = append(outcomes, settled[i].Status)
		}
	}
	streaks := ComputeStreaks(outcomes)
	agg.CurrentStreak = streaks.Current
	agg.LongestWinStreak = streaks.LongestWin
	agg.LongestLossStreak = streaks.LongestLoss

	agg.NeedsRecalculation = false
	agg.LastSyncedAt = time.Now().UTC()

	return agg, nil
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
