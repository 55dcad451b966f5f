package stats

import "github.com/oddsline/vigor/models"

// StreakSummary holds the streak fields recomputed by a recalculation pass.
type StreakSummary struct {
	Current     int
	LongestWin  int
	LongestLoss int
}

// ComputeStreaks walks win/loss outcomes in chronological order and returns
// the signed current streak (positive = wins) plus the longest runs either
// way. Pushes must be filtered out by the caller; they neither extend nor
// break a streak.
func ComputeStreaks(outcomes []models.BetStatus) StreakSummary {
	var s StreakSummary

	for _, outcome := range outcomes {
		switch outcome {
		case models.BetStatusWin:
			if s.Current > 0 {
				s.Current++
			} else {
				s.Current = 1
			}
			if s.Current > s.LongestWin {
				s.LongestWin = s.Current
			}
		case models.BetStatusLoss:
			if s.Current < 0 {
				s.Current--
			} else {
				s.Current = -1
			}
			if -s.Current > s.LongestLoss {
				s.LongestLoss = -s.Current
			}
		}
	}

	return s
}
