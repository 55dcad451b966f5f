package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oddsline/vigor/app/bankroll"
	"github.com/oddsline/vigor/app/bets"
	"github.com/oddsline/vigor/app/stats"
	"github.com/oddsline/vigor/internal/cache"
	"github.com/oddsline/vigor/internal/logger"
	"github.com/oddsline/vigor/internal/odds"
	"github.com/oddsline/vigor/models"
)

type service struct {
	db         *gorm.DB
	repo       Repository
	maintainer stats.Maintainer
	resolver   OutcomeResolver
	cache      cache.Cache[string]
	logger     logger.Logger
	config     *Config
}

func NewService(
	db *gorm.DB,
	repo Repository,
	maintainer stats.Maintainer,
	resolver OutcomeResolver,
	c cache.Cache[string],
	l logger.Logger,
	config *Config,
) Service {
	return &service{
		db:         db,
		repo:       repo,
		maintainer: maintainer,
		resolver:   resolver,
		cache:      c,
		logger:     l,
		config:     config,
	}
}

// Settle moves a pending bet to its terminal outcome and applies the balance
// and aggregate effects in one transaction. Rows are locked bet first, then
// account, at every call site. A bet that already reached a terminal state
// returns ErrBetAlreadySettled with no side effects.
func (s *service) Settle(ctx context.Context, betID uuid.UUID, req *SettleBetRequest) (*SettlementResult, error) {
	if !req.Outcome.IsTerminal() {
		return nil, models.ErrInvalidOutcome
	}
	if req.ActualReturn != nil && req.ActualReturn.IsNegative() {
		return nil, models.ErrInvalidActualReturn
	}

	var result *SettlementResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.SetLockTimeout(ctx, s.config.LockTimeout); err != nil {
			return fmt.Errorf("failed to set lock timeout: %w", err)
		}

		bet, err := txRepo.GetBetByIDForUpdate(ctx, betID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRecordNotFound
			}
			return err
		}
		if !bet.IsPending() {
			return models.ErrBetAlreadySettled
		}

		actualReturn := actualReturnFor(bet, req.Outcome, req.ActualReturn)
		profit, err := bet.ProfitForOutcome(req.Outcome, actualReturn)
		if err != nil {
			return err
		}

		account, err := txRepo.GetAccountByUserIDForUpdate(ctx, bet.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrAccountNotFound
			}
			return err
		}

		settledAt := time.Now().UTC()
		bet.Status = req.Outcome
		bet.ActualReturn = &actualReturn
		bet.ProfitLoss = &profit
		bet.SettledAt = &settledAt
		if req.ClosingOdds != nil {
			clv, err := odds.ClosingLineValue(bet.Odds, *req.ClosingOdds)
			if err != nil {
				return err
			}
			bet.ClosingOdds = req.ClosingOdds
			bet.ClosingLineValue = &clv
		}

		if err := txRepo.SettleBet(ctx, bet); err != nil {
			return err
		}

		balanceBefore := account.CurrentAmount
		ledger, err := models.NewSettlementTransaction(
			bet.UserID, account.ID, bet.ID, req.Outcome, profit, balanceBefore)
		if err != nil {
			return err
		}

		account.Apply(profit)
		if err := txRepo.UpdateAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		if err := txRepo.CreateTransaction(ctx, ledger); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}

		if err := s.maintainer.WithTx(tx).OnBetSettled(ctx, bet, profit, settledAt); err != nil {
			return fmt.Errorf("failed to update aggregates: %w", err)
		}

		result = &SettlementResult{
			Bet:           bets.ToBetResponse(bet),
			Profit:        profit,
			BalanceBefore: balanceBefore,
			BalanceAfter:  account.CurrentAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, result.Bet.UserID)
	return result, nil
}

// SweepPending settles every pending bet whose event has a final score.
// Bets are settled independently; a failure is recorded in the report and
// the sweep moves on.
func (s *service) SweepPending(ctx context.Context) (*SweepReport, error) {
	report := &SweepReport{StartedAt: time.Now().UTC()}

	offset := 0
	for {
		batch, err := s.repo.ListPendingBets(ctx, s.config.SweepBatchSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list pending bets: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		settledInBatch := 0
		for i := range batch {
			bet := &batch[i]
			report.Examined++

			switch s.sweepOne(ctx, bet, report) {
			case sweepSettled:
				settledInBatch++
				report.Settled++
			case sweepSkipped:
				report.Skipped++
			case sweepFailed:
			}
		}

		// Settled rows left the pending set, so only the survivors shift
		// the window forward.
		offset += len(batch) - settledInBatch
		if len(batch) < s.config.SweepBatchSize {
			break
		}
	}

	report.FinishedAt = time.Now().UTC()
	s.logger.Info("settlement sweep finished", logger.Fields{
		"examined": report.Examined,
		"settled":  report.Settled,
		"skipped":  report.Skipped,
		"failed":   len(report.Failed),
	})
	return report, nil
}

type sweepOutcome int

const (
	sweepSettled sweepOutcome = iota
	sweepSkipped
	sweepFailed
)

func (s *service) sweepOne(ctx context.Context, bet *models.Bet, report *SweepReport) sweepOutcome {
	resolution, err := s.resolver.Resolve(ctx, bet)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFinal) ||
			errors.Is(err, models.ErrUnresolvableMarket) ||
			errors.Is(err, models.ErrRecordNotFound) {
			return sweepSkipped
		}
		report.Failed = append(report.Failed, newSweepFailure(bet, err))
		return sweepFailed
	}

	req := &SettleBetRequest{
		Outcome:      resolution.Outcome,
		ActualReturn: &resolution.ActualReturn,
		ClosingOdds:  resolution.ClosingOdds,
	}

	if err := s.settleWithRetry(ctx, bet.ID, req); err != nil {
		if errors.Is(err, models.ErrBetAlreadySettled) {
			// Another settler got there first; nothing left to do.
			return sweepSkipped
		}
		s.logger.Error(err, logger.Fields{"bet_id": bet.ID.String(), "event_id": bet.EventID})
		report.Failed = append(report.Failed, newSweepFailure(bet, err))
		return sweepFailed
	}
	return sweepSettled
}

// settleWithRetry retries lock-contention failures with exponential backoff.
// Every other error is final.
func (s *service) settleWithRetry(ctx context.Context, betID uuid.UUID, req *SettleBetRequest) error {
	backoff := s.config.RetryBackoff
	var err error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		_, err = s.Settle(ctx, betID, req)
		if !errors.Is(err, models.ErrConcurrentModification) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

func newSweepFailure(bet *models.Bet, err error) SweepFailure {
	return SweepFailure{
		BetID:   bet.ID.String(),
		EventID: bet.EventID,
		Error:   err.Error(),
	}
}

// actualReturnFor fills in the returns that follow from the outcome itself:
// a push returns the stake, a loss returns nothing. For a win the caller's
// value is taken when present, otherwise the bet pays at its placed odds.
func actualReturnFor(bet *models.Bet, outcome models.BetStatus, provided *decimal.Decimal) decimal.Decimal {
	switch outcome {
	case models.BetStatusWin:
		if provided != nil {
			return *provided
		}
		return bet.PotentialReturn()
	case models.BetStatusPush:
		return bet.Stake
	default:
		return decimal.Zero
	}
}

func (s *service) invalidate(ctx context.Context, userID uuid.UUID) {
	_ = s.cache.Delete(ctx, bankroll.StatusCacheKey(userID))
	_ = s.cache.Delete(ctx, stats.PerformanceCacheKey(userID))
}
