package bets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oddsline/vigor/internal/validator"
	"github.com/oddsline/vigor/models"
)

// PlaceBetRequest represents the request to place a new bet
type PlaceBetRequest struct {
	UserID  uuid.UUID        `json:"user_id" binding:"required"`
	EventID string           `json:"event_id" binding:"required,max=100"`
	Side    models.BetSide   `json:"side" binding:"required,oneof=home away over under"`
	Market  models.BetMarket `json:"market,omitempty" binding:"omitempty,oneof=moneyline spread total prop"`
	Odds    int              `json:"odds" binding:"required"`
	Line    *decimal.Decimal `json:"line,omitempty"`
	Stake   decimal.Decimal  `json:"stake" binding:"required"`
	Notes   string           `json:"notes,omitempty"`
}

// Validate checks the cross-field rules binding tags cannot express: which
// sides fit which market, and when a line is required.
func (r *PlaceBetRequest) Validate(v *validator.Validator) bool {
	v.Check(r.Odds != 0, "odds", "odds cannot be zero")
	v.Check(r.Stake.GreaterThan(decimal.Zero), "stake", "stake must be positive")
	v.Check(validator.NotBlank(r.EventID), "event_id", "event ID is required")

	market := r.Market
	if market == "" {
		market = models.BetMarketMoneyline
	}

	switch market {
	case models.BetMarketMoneyline:
		v.Check(validator.In(r.Side, models.BetSideHome, models.BetSideAway),
			"side", "moneyline bets take the home or away side")
		v.Check(r.Line == nil, "line", "line does not apply to moneyline bets")
	case models.BetMarketSpread:
		v.Check(validator.In(r.Side, models.BetSideHome, models.BetSideAway),
			"side", "spread bets take the home or away side")
		v.Check(r.Line != nil, "line", "line is required for spread bets")
	case models.BetMarketTotal:
		v.Check(validator.In(r.Side, models.BetSideOver, models.BetSideUnder),
			"side", "total bets take the over or under side")
		v.Check(r.Line != nil, "line", "line is required for total bets")
	}

	return v.Valid()
}

// BetFilters represents filters for bet queries
type BetFilters struct {
	Status    *models.BetStatus `form:"status"`
	EventID   *string           `form:"event_id"`
	Market    *models.BetMarket `form:"market"`
	DateFrom  *time.Time        `form:"date_from"`
	DateTo    *time.Time        `form:"date_to"`
	SortBy    string            `form:"sort_by"`
	SortOrder string            `form:"sort_order"`
	Page      int               `form:"page"`
	PerPage   int               `form:"per_page"`
}

// BetResponse represents a bet in API responses
type BetResponse struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	EventID          string           `json:"event_id"`
	Side             models.BetSide   `json:"side"`
	Market           models.BetMarket `json:"market"`
	Odds             int              `json:"odds"`
	Line             *decimal.Decimal `json:"line,omitempty"`
	Stake            decimal.Decimal  `json:"stake"`
	Status           models.BetStatus `json:"status"`
	PotentialReturn  decimal.Decimal  `json:"potential_return"`
	ActualReturn     *decimal.Decimal `json:"actual_return,omitempty"`
	ProfitLoss       *decimal.Decimal `json:"profit_loss,omitempty"`
	ClosingOdds      *int             `json:"closing_odds,omitempty"`
	ClosingLineValue *decimal.Decimal `json:"closing_line_value,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	PlacedAt         time.Time        `json:"placed_at"`
	SettledAt        *time.Time       `json:"settled_at,omitempty"`
}

// BetListResponse represents a paginated list of bets
type BetListResponse struct {
	Bets    []BetResponse `json:"bets"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// ToBetResponse converts a models.Bet to BetResponse
func ToBetResponse(bet *models.Bet) *BetResponse {
	return &BetResponse{
		ID:               bet.ID,
		UserID:           bet.UserID,
		EventID:          bet.EventID,
		Side:             bet.Side,
		Market:           bet.Market,
		Odds:             bet.Odds,
		Line:             bet.Line,
		Stake:            bet.Stake,
		Status:           bet.Status,
		PotentialReturn:  bet.PotentialReturn(),
		ActualReturn:     bet.ActualReturn,
		ProfitLoss:       bet.ProfitLoss,
		ClosingOdds:      bet.ClosingOdds,
		ClosingLineValue: bet.ClosingLineValue,
		Notes:            bet.Notes,
		PlacedAt:         bet.PlacedAt,
		SettledAt:        bet.SettledAt,
	}
}
