package analysis

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EVQuoteRequest prices a hypothetical bet before it is placed.
type EVQuoteRequest struct {
	WinProbability decimal.Decimal `json:"win_probability" binding:"required"`
	Odds           int             `json:"odds" binding:"required"`
	Stake          decimal.Decimal `json:"stake" binding:"required"`
}

type EVQuoteResponse struct {
	ExpectedValue      decimal.Decimal `json:"expected_value"`
	EVPercent          decimal.Decimal `json:"ev_percent"`
	Edge               decimal.Decimal `json:"edge"`
	ImpliedProbability decimal.Decimal `json:"implied_probability"`
	DecimalOdds        decimal.Decimal `json:"decimal_odds"`
}

// KellyQuoteRequest sizes a bet from the user's bankroll and staking policy.
type KellyQuoteRequest struct {
	UserID         uuid.UUID       `json:"user_id" binding:"required"`
	WinProbability decimal.Decimal `json:"win_probability" binding:"required"`
	Odds           int             `json:"odds" binding:"required"`
}

type KellyQuoteResponse struct {
	Bankroll         decimal.Decimal `json:"bankroll"`
	KellyFraction    decimal.Decimal `json:"kelly_fraction"`
	FullKelly        decimal.Decimal `json:"full_kelly"`
	RecommendedStake decimal.Decimal `json:"recommended_stake"`
	Capped           bool            `json:"capped"`
	Edge             decimal.Decimal `json:"edge"`
	MinEdge          decimal.Decimal `json:"min_edge"`
	// MeetsMinEdge is false when the edge falls under the account policy;
	// the recommended stake is zeroed in that case.
	MeetsMinEdge bool `json:"meets_min_edge"`
}

// CLVQuoteRequest measures a placed price against the closing price.
type CLVQuoteRequest struct {
	PlacedOdds  int `json:"placed_odds" binding:"required"`
	ClosingOdds int `json:"closing_odds" binding:"required"`
}

type CLVQuoteResponse struct {
	ClosingLineValue   decimal.Decimal `json:"closing_line_value"`
	PlacedProbability  decimal.Decimal `json:"placed_probability"`
	ClosingProbability decimal.Decimal `json:"closing_probability"`
	BeatClosingLine    bool            `json:"beat_closing_line"`
}
