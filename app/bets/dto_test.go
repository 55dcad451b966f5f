package bets

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/oddsline/vigor/internal/validator"
	"github.com/oddsline/vigor/models"
)

func TestPlaceBetRequestValidate(t *testing.T) {
	line := decimal.RequireFromString("-6.5")
	total := decimal.RequireFromString("215.5")

	base := func() *PlaceBetRequest {
		return &PlaceBetRequest{
			UserID:  uuid.New(),
			EventID: "nba-2026-01-15-LAL-BOS",
			Side:    models.BetSideHome,
			Market:  models.BetMarketMoneyline,
			Odds:    -110,
			Stake:   decimal.NewFromInt(100),
		}
	}

	tests := []struct {
		name     string
		mutate   func(*PlaceBetRequest)
		valid    bool
		errField string
	}{
		{"ValidMoneyline", func(_ *PlaceBetRequest) {}, true, ""},
		{"EmptyMarketDefaultsToMoneyline", func(r *PlaceBetRequest) { r.Market = "" }, true, ""},
		{"ValidSpread", func(r *PlaceBetRequest) {
			r.Market = models.BetMarketSpread
			r.Line = &line
		}, true, ""},
		{"ValidTotal", func(r *PlaceBetRequest) {
			r.Market = models.BetMarketTotal
			r.Side = models.BetSideOver
			r.Line = &total
		}, true, ""},
		{"ZeroOdds", func(r *PlaceBetRequest) { r.Odds = 0 }, false, "odds"},
		{"NegativeStake", func(r *PlaceBetRequest) { r.Stake = decimal.NewFromInt(-5) }, false, "stake"},
		{"BlankEventID", func(r *PlaceBetRequest) { r.EventID = "   " }, false, "event_id"},
		{"MoneylineWithLine", func(r *PlaceBetRequest) { r.Line = &line }, false, "line"},
		{"MoneylineWithOverSide", func(r *PlaceBetRequest) { r.Side = models.BetSideOver }, false, "side"},
		{"SpreadWithoutLine", func(r *PlaceBetRequest) { r.Market = models.BetMarketSpread }, false, "line"},
		{"TotalWithHomeSide", func(r *PlaceBetRequest) {
			r.Market = models.BetMarketTotal
			r.Line = &total
		}, false, "side"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(req)

			v := validator.New()
			result := req.Validate(v)

			assert.Equal(t, tt.valid, result)
			assert.Equal(t, tt.valid, v.Valid())
			if tt.errField != "" {
				assert.Contains(t, v.Errors, tt.errField)
			}
		})
	}
}
