package bets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oddsline/vigor/app/bankroll"
	"github.com/oddsline/vigor/app/stats"
	"github.com/oddsline/vigor/internal/cache"
	"github.com/oddsline/vigor/models"
)

type service struct {
	db         *gorm.DB
	repo       Repository
	maintainer stats.Maintainer
	cache      cache.Cache[string]
}

func NewService(db *gorm.DB, repo Repository, maintainer stats.Maintainer, c cache.Cache[string]) Service {
	return &service{
		db:         db,
		repo:       repo,
		maintainer: maintainer,
		cache:      c,
	}
}

// PlaceBet records a pending bet. The stake is not debited from the
// bankroll at placement; it shows up as pending exposure until settlement.
func (s *service) PlaceBet(ctx context.Context, req *PlaceBetRequest) (*BetResponse, error) {
	market := req.Market
	if market == "" {
		market = models.BetMarketMoneyline
	}

	bet := &models.Bet{
		UserID:  req.UserID,
		EventID: req.EventID,
		Side:    req.Side,
		Market:  market,
		Odds:    req.Odds,
		Line:    req.Line,
		Stake:   req.Stake,
		Status:  models.BetStatusPending,
		Notes:   req.Notes,
	}
	if err := bet.Validate(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.CreateBet(ctx, bet); err != nil {
			return fmt.Errorf("failed to create bet: %w", err)
		}
		if err := s.maintainer.WithTx(tx).OnBetPlaced(ctx, bet); err != nil {
			return fmt.Errorf("failed to update aggregates: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, bet.UserID)
	return ToBetResponse(bet), nil
}

func (s *service) GetBet(ctx context.Context, id uuid.UUID) (*BetResponse, error) {
	bet, err := s.repo.GetBetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return ToBetResponse(bet), nil
}

func (s *service) GetUserBets(ctx context.Context, userID uuid.UUID, filters *BetFilters) (*BetListResponse, error) {
	betList, total, err := s.repo.GetBetsByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}

	responses := make([]BetResponse, len(betList))
	for i := range betList {
		responses[i] = *ToBetResponse(&betList[i])
	}

	page, perPage := 1, 20
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PerPage > 0 && filters.PerPage <= 100 {
			perPage = filters.PerPage
		}
	}

	return &BetListResponse{
		Bets:    responses,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// DeleteBet removes a bet and everything it contributed: for a settled bet
// the balance effect is reversed with an explicit refund ledger entry, so the
// ledger stays append-only and the invariant holds on both sides of the
// delete. Aggregate deltas are reverted in the same transaction.
func (s *service) DeleteBet(ctx context.Context, id uuid.UUID) error {
	var userID uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		bet, err := txRepo.GetBetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return fmt.Errorf("failed to lock bet: %w", err)
		}
		userID = bet.UserID

		if bet.IsSettled() && bet.ProfitLoss != nil && !bet.ProfitLoss.IsZero() {
			account, err := txRepo.GetAccountByUserIDForUpdate(ctx, bet.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrAccountNotFound
				}
				return fmt.Errorf("failed to lock account: %w", err)
			}

			balanceBefore := account.CurrentAmount
			account.Apply(bet.ProfitLoss.Neg())
			if err := txRepo.UpdateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to reverse balance effect: %w", err)
			}

			refund := models.NewRefundTransaction(bet.UserID, account.ID,
				bet.ProfitLoss.Neg(), balanceBefore,
				fmt.Sprintf("reversal of deleted bet %s", bet.ID))
			if err := txRepo.CreateTransaction(ctx, refund); err != nil {
				return fmt.Errorf("failed to record refund: %w", err)
			}
		}

		if err := s.maintainer.WithTx(tx).OnBetDeleted(ctx, bet); err != nil {
			return fmt.Errorf("failed to revert aggregates: %w", err)
		}

		if err := txRepo.DeleteBet(ctx, bet); err != nil {
			return fmt.Errorf("failed to delete bet: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *service) invalidate(ctx context.Context, userID uuid.UUID) {
	_ = s.cache.Delete(ctx, bankroll.StatusCacheKey(userID))
	_ = s.cache.Delete(ctx, stats.PerformanceCacheKey(userID))
}
