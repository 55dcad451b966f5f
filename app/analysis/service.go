package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oddsline/vigor/app/bankroll"
	"github.com/oddsline/vigor/internal/odds"
	"github.com/oddsline/vigor/models"
)

// Service quotes bet math without touching bet or account state.
type Service interface {
	QuoteEV(req *EVQuoteRequest) (*EVQuoteResponse, error)
	QuoteKelly(ctx context.Context, req *KellyQuoteRequest) (*KellyQuoteResponse, error)
	QuoteCLV(req *CLVQuoteRequest) (*CLVQuoteResponse, error)
}

type service struct {
	accounts bankroll.Repository
}

func NewService(accounts bankroll.Repository) Service {
	return &service{accounts: accounts}
}

func (s *service) QuoteEV(req *EVQuoteRequest) (*EVQuoteResponse, error) {
	valuation, err := odds.ExpectedValue(req.WinProbability, req.Odds, req.Stake)
	if err != nil {
		return nil, err
	}
	implied, err := odds.ImpliedProbability(req.Odds)
	if err != nil {
		return nil, err
	}
	decimalOdds, err := odds.DecimalOdds(req.Odds)
	if err != nil {
		return nil, err
	}

	return &EVQuoteResponse{
		ExpectedValue:      valuation.ExpectedValue,
		EVPercent:          valuation.EVPercent,
		Edge:               valuation.Edge,
		ImpliedProbability: implied,
		DecimalOdds:        decimalOdds,
	}, nil
}

// QuoteKelly sizes a stake from the account's live balance and policy. The
// recommendation is zeroed, not rejected, when the edge is under the
// account's minimum; the caller sees why in the response.
func (s *service) QuoteKelly(ctx context.Context, req *KellyQuoteRequest) (*KellyQuoteResponse, error) {
	account, err := s.accounts.GetAccountByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	recommendation, err := odds.KellyStake(
		req.WinProbability, req.Odds, account.CurrentAmount, account.KellyFraction)
	if err != nil {
		return nil, err
	}
	valuation, err := odds.ExpectedValue(req.WinProbability, req.Odds, decimal.NewFromInt(100))
	if err != nil {
		return nil, err
	}

	resp := &KellyQuoteResponse{
		Bankroll:         account.CurrentAmount,
		KellyFraction:    account.KellyFraction,
		FullKelly:        recommendation.FullKelly,
		RecommendedStake: recommendation.Stake,
		Capped:           recommendation.Capped,
		Edge:             valuation.Edge,
		MinEdge:          account.MinEdge,
		MeetsMinEdge:     valuation.Edge.GreaterThanOrEqual(account.MinEdge),
	}

	// Policy gates stack: the per-bet percentage cap applies first, then
	// the minimum-edge gate can zero the whole recommendation.
	maxStake := account.CurrentAmount.Mul(account.MaxBetPercent).Div(decimal.NewFromInt(100))
	if resp.RecommendedStake.GreaterThan(maxStake) {
		resp.RecommendedStake = maxStake.Round(2)
		resp.Capped = true
	}
	if !resp.MeetsMinEdge {
		resp.RecommendedStake = decimal.Zero
	}

	return resp, nil
}

func (s *service) QuoteCLV(req *CLVQuoteRequest) (*CLVQuoteResponse, error) {
	clv, err := odds.ClosingLineValue(req.PlacedOdds, req.ClosingOdds)
	if err != nil {
		return nil, err
	}
	placed, err := odds.ImpliedProbability(req.PlacedOdds)
	if err != nil {
		return nil, err
	}
	closing, err := odds.ImpliedProbability(req.ClosingOdds)
	if err != nil {
		return nil, err
	}

	return &CLVQuoteResponse{
		ClosingLineValue:   clv,
		PlacedProbability:  placed,
		ClosingProbability: closing,
		BeatClosingLine:    clv.IsPositive(),
	}, nil
}
