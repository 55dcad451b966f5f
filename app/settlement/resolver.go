package settlement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oddsline/vigor/models"
)

type scoreResolver struct {
	provider ScoreProvider
}

// NewScoreResolver builds an OutcomeResolver that grades bets against final
// scores from the given provider. Selections are matched by the bet's side
// key, never by team name.
func NewScoreResolver(provider ScoreProvider) OutcomeResolver {
	return &scoreResolver{provider: provider}
}

func (r *scoreResolver) Resolve(ctx context.Context, bet *models.Bet) (*Resolution, error) {
	score, err := r.provider.FinalScore(ctx, bet.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch score for event %s: %w", bet.EventID, err)
	}
	if !score.Final {
		return nil, models.ErrEventNotFinal
	}

	outcome, err := grade(bet, score)
	if err != nil {
		return nil, err
	}

	resolution := &Resolution{
		Outcome:      outcome,
		ActualReturn: returnForOutcome(bet, outcome),
	}
	if closing, ok := score.ClosingOdds[bet.Side]; ok {
		resolution.ClosingOdds = &closing
	}
	return resolution, nil
}

// grade maps a final score onto the bet's market. A tie against the line
// grades as push.
func grade(bet *models.Bet, score *EventScore) (models.BetStatus, error) {
	switch bet.Market {
	case models.BetMarketMoneyline:
		return gradeByMargin(bet.Side, sideMargin(bet.Side, score))
	case models.BetMarketSpread:
		if bet.Line == nil {
			return "", models.ErrUnresolvableMarket
		}
		margin, err := sideMarginDecimal(bet.Side, score)
		if err != nil {
			return "", err
		}
		return gradeMargin(margin.Add(*bet.Line)), nil
	case models.BetMarketTotal:
		if bet.Line == nil {
			return "", models.ErrUnresolvableMarket
		}
		return gradeTotal(bet.Side, score, *bet.Line)
	default:
		// Props carry no machine-gradable score; they settle manually.
		return "", models.ErrUnresolvableMarket
	}
}

func gradeByMargin(side models.BetSide, margin int) (models.BetStatus, error) {
	if side != models.BetSideHome && side != models.BetSideAway {
		return "", models.ErrUnresolvableMarket
	}
	switch {
	case margin > 0:
		return models.BetStatusWin, nil
	case margin < 0:
		return models.BetStatusLoss, nil
	default:
		return models.BetStatusPush, nil
	}
}

func gradeMargin(margin decimal.Decimal) models.BetStatus {
	switch {
	case margin.IsPositive():
		return models.BetStatusWin
	case margin.IsNegative():
		return models.BetStatusLoss
	default:
		return models.BetStatusPush
	}
}

func gradeTotal(side models.BetSide, score *EventScore, line decimal.Decimal) (models.BetStatus, error) {
	total := decimal.NewFromInt(int64(score.HomeScore + score.AwayScore))
	diff := total.Sub(line)
	switch side {
	case models.BetSideOver:
		return gradeMargin(diff), nil
	case models.BetSideUnder:
		return gradeMargin(diff.Neg()), nil
	default:
		return "", models.ErrUnresolvableMarket
	}
}

func sideMargin(side models.BetSide, score *EventScore) int {
	if side == models.BetSideAway {
		return score.AwayScore - score.HomeScore
	}
	return score.HomeScore - score.AwayScore
}

func sideMarginDecimal(side models.BetSide, score *EventScore) (decimal.Decimal, error) {
	if side != models.BetSideHome && side != models.BetSideAway {
		return decimal.Zero, models.ErrUnresolvableMarket
	}
	return decimal.NewFromInt(int64(sideMargin(side, score))), nil
}

func returnForOutcome(bet *models.Bet, outcome models.BetStatus) decimal.Decimal {
	switch outcome {
	case models.BetStatusWin:
		return bet.PotentialReturn()
	case models.BetStatusPush:
		return bet.Stake
	default:
		return decimal.Zero
	}
}
