package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oddsline/vigor/models"
)

// Maintainer applies O(1) aggregate deltas alongside every bet mutation.
// Callers inside a database transaction must use WithTx so the aggregate
// write commits or rolls back with the bet write it mirrors.
type Maintainer interface {
	OnBetPlaced(ctx context.Context, bet *models.Bet) error
	// OnBetSettled expects the bet to already carry its terminal status.
	OnBetSettled(ctx context.Context, bet *models.Bet, profit decimal.Decimal, settledAt time.Time) error
	OnBetDeleted(ctx context.Context, bet *models.Bet) error

	WithTx(tx *gorm.DB) Maintainer
}

type maintainer struct {
	repo Repository
}

func NewMaintainer(repo Repository) Maintainer {
	return &maintainer{repo: repo}
}

func (m *maintainer) WithTx(tx *gorm.DB) Maintainer {
	return &maintainer{repo: m.repo.WithTx(tx)}
}

func (m *maintainer) OnBetPlaced(ctx context.Context, bet *models.Bet) error {
	agg, err := m.lockOrCreate(ctx, bet)
	if err != nil {
		return err
	}

	agg.ApplyBetPlaced(bet.Stake, bet.PlacedAt)
	return m.repo.Save(ctx, agg)
}

func (m *maintainer) OnBetSettled(ctx context.Context, bet *models.Bet, profit decimal.Decimal, settledAt time.Time) error {
	agg, err := m.lockOrCreate(ctx, bet)
	if err != nil {
		return err
	}

	if err := agg.ApplySettlement(bet.Status, bet.Stake, profit, settledAt); err != nil {
		return err
	}
	return m.repo.Save(ctx, agg)
}

// OnBetDeleted applies the exact inverse of everything the bet contributed:
// the settlement deltas first when it was settled, then the placement deltas.
func (m *maintainer) OnBetDeleted(ctx context.Context, bet *models.Bet) error {
	agg, err := m.lockOrCreate(ctx, bet)
	if err != nil {
		return err
	}

	if bet.IsSettled() {
		profit := decimal.Zero
		if bet.ProfitLoss != nil {
			profit = *bet.ProfitLoss
		}
		if err := agg.RevertSettlement(bet.Status, bet.Stake, profit); err != nil {
			return err
		}
	}
	agg.RevertBetPlaced(bet.Stake)

	return m.repo.Save(ctx, agg)
}

// lockOrCreate fetches the user's aggregate row under lock, creating the
// zero row first if the user has never bet.
func (m *maintainer) lockOrCreate(ctx context.Context, bet *models.Bet) (*models.PerformanceAggregate, error) {
	agg, err := m.repo.GetByUserIDForUpdate(ctx, bet.UserID)
	if err == nil {
		return agg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to lock aggregate: %w", err)
	}

	if err := m.repo.Create(ctx, models.NewPerformanceAggregate(bet.UserID)); err != nil {
		return nil, fmt.Errorf("failed to create aggregate: %w", err)
	}
	return m.repo.GetByUserIDForUpdate(ctx, bet.UserID)
}
