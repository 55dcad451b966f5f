// Package odds converts between American and decimal odds and computes
// implied probability, expected value, Kelly stake sizing and closing line
// value. Everything here is pure and deterministic.
package odds

import (
	"github.com/shopspring/decimal"

	"github.com/oddsline/vigor/models"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// Full Kelly is clamped to 20% of bankroll regardless of how strong the
	// stated edge is; estimates that imply more are not trustworthy.
	kellyCeiling = decimal.NewFromFloat(0.20)

	// Recommended stakes never exceed 5% of bankroll.
	maxStakeFraction = decimal.NewFromFloat(0.05)
)

// ImpliedProbability converts American odds to the market's implied win
// probability. Zero odds are not a valid American price.
func ImpliedProbability(american int) (decimal.Decimal, error) {
	if american == 0 {
		return decimal.Zero, models.ErrInvalidOdds
	}
	if american < 0 {
		abs := decimal.NewFromInt(int64(-american))
		return abs.Div(abs.Add(hundred)), nil
	}
	return hundred.Div(decimal.NewFromInt(int64(american)).Add(hundred)), nil
}

// DecimalOdds converts American odds to the decimal (European) convention,
// i.e. total return per unit staked.
func DecimalOdds(american int) (decimal.Decimal, error) {
	if american == 0 {
		return decimal.Zero, models.ErrInvalidOdds
	}
	if american < 0 {
		return hundred.Div(decimal.NewFromInt(int64(-american))).Add(one), nil
	}
	return decimal.NewFromInt(int64(american)).Div(hundred).Add(one), nil
}

// Valuation is the expected-value breakdown for a prospective bet.
type Valuation struct {
	ExpectedValue decimal.Decimal `json:"expected_value"`
	EVPercent     decimal.Decimal `json:"ev_percent"`
	Edge          decimal.Decimal `json:"edge"`
}

// ExpectedValue computes the EV of staking at the given American odds with
// the bettor's estimated win probability.
//
//	EV = p * stake * (decimalOdds - 1) - (1 - p) * stake
func ExpectedValue(winProb decimal.Decimal, american int, stake decimal.Decimal) (Valuation, error) {
	if winProb.LessThan(decimal.Zero) || winProb.GreaterThan(one) {
		return Valuation{}, models.ErrInvalidProbability
	}
	if stake.LessThanOrEqual(decimal.Zero) {
		return Valuation{}, models.ErrInvalidStake
	}

	dec, err := DecimalOdds(american)
	if err != nil {
		return Valuation{}, err
	}
	implied, err := ImpliedProbability(american)
	if err != nil {
		return Valuation{}, err
	}

	profitIfWin := stake.Mul(dec.Sub(one))
	ev := winProb.Mul(profitIfWin).Sub(one.Sub(winProb).Mul(stake))

	return Valuation{
		ExpectedValue: ev,
		EVPercent:     ev.Div(stake).Mul(hundred),
		Edge:          winProb.Sub(implied),
	}, nil
}

// KellyRecommendation is the stake-sizing output of KellyStake.
type KellyRecommendation struct {
	FullKelly decimal.Decimal `json:"full_kelly"`
	Fraction  decimal.Decimal `json:"fraction"`
	Stake     decimal.Decimal `json:"stake"`
	Capped    bool            `json:"capped"`
}

// KellyStake sizes a bet with fractional Kelly. The full Kelly fraction
//
//	f = edge * decimalOdds / (decimalOdds - 1)
//
// is clamped to [0, 0.20]; the recommended stake is bankroll * f * fraction,
// further capped at 5% of bankroll. A non-positive f means no bet.
func KellyStake(winProb decimal.Decimal, american int, bankroll, fraction decimal.Decimal) (KellyRecommendation, error) {
	if winProb.LessThan(decimal.Zero) || winProb.GreaterThan(one) {
		return KellyRecommendation{}, models.ErrInvalidProbability
	}
	if bankroll.LessThan(decimal.Zero) {
		return KellyRecommendation{}, models.ErrInvalidBankroll
	}
	if fraction.LessThanOrEqual(decimal.Zero) || fraction.GreaterThan(one) {
		return KellyRecommendation{}, models.ErrInvalidKellyFraction
	}

	dec, err := DecimalOdds(american)
	if err != nil {
		return KellyRecommendation{}, err
	}
	implied, err := ImpliedProbability(american)
	if err != nil {
		return KellyRecommendation{}, err
	}

	edge := winProb.Sub(implied)
	full := edge.Mul(dec).Div(dec.Sub(one))
	if full.LessThanOrEqual(decimal.Zero) {
		return KellyRecommendation{FullKelly: decimal.Zero, Fraction: fraction, Stake: decimal.Zero}, nil
	}

	capped := false
	if full.GreaterThan(kellyCeiling) {
		full = kellyCeiling
		capped = true
	}

	stake := bankroll.Mul(full).Mul(fraction)
	if maxStake := bankroll.Mul(maxStakeFraction); stake.GreaterThan(maxStake) {
		stake = maxStake
		capped = true
	}

	return KellyRecommendation{
		FullKelly: full,
		Fraction:  fraction,
		Stake:     stake.Round(2),
		Capped:    capped,
	}, nil
}

// ClosingLineValue measures how much better the bettor's number was than the
// market close, in implied-probability percentage points. Positive means the
// bettor beat the close.
func ClosingLineValue(placed, closing int) (decimal.Decimal, error) {
	placedIP, err := ImpliedProbability(placed)
	if err != nil {
		return decimal.Zero, err
	}
	closingIP, err := ImpliedProbability(closing)
	if err != nil {
		return decimal.Zero, err
	}
	return closingIP.Sub(placedIP).Mul(hundred), nil
}
