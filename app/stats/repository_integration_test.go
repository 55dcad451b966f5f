package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/oddsline/vigor/internal/cache"
	"github.com/oddsline/vigor/models"
	"github.com/oddsline/vigor/tests/suites"
)

type StatsRepositoryTestSuite struct {
	suites.RepositoryTestSuite
	repo       Repository
	maintainer Maintainer
	service    Service
}

func (suite *StatsRepositoryTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("Skipping database integration test")
	}

	suite.AutoMigrate = true

	suite.RepositoryTestSuite.SetupSuite()

	suite.repo = NewRepository(suite.DB)
	suite.maintainer = NewMaintainer(suite.repo)
	suite.service = NewService(suite.repo, suite.DB, cache.NewMemoryCache[string]())
}

func TestStatsRepository(t *testing.T) {
	suite.Run(t, new(StatsRepositoryTestSuite))
}

func (suite *StatsRepositoryTestSuite) createBet(userID uuid.UUID, placedAt time.Time) *models.Bet {
	bet := &models.Bet{
		UserID:   userID,
		EventID:  "nba-2026-01-15-LAL-BOS",
		Side:     models.BetSideHome,
		Market:   models.BetMarketMoneyline,
		Odds:     -110,
		Stake:    decimal.NewFromInt(100),
		Status:   models.BetStatusPending,
		PlacedAt: placedAt,
	}
	suite.AssertNoDBError(suite.DB.Create(bet).Error)
	return bet
}

func (suite *StatsRepositoryTestSuite) settleBet(bet *models.Bet, status models.BetStatus, profit decimal.Decimal, settledAt time.Time) {
	actualReturn := bet.Stake.Add(profit)
	bet.Status = status
	bet.ActualReturn = &actualReturn
	bet.ProfitLoss = &profit
	bet.SettledAt = &settledAt
	suite.AssertNoDBError(suite.DB.Save(bet).Error)
}

func (suite *StatsRepositoryTestSuite) TestMaintainerPersistsDeltas() {
	ctx := context.Background()
	userID := uuid.New()
	bet := suite.createBet(userID, time.Now().UTC())

	err := suite.DB.Transaction(func(tx *gorm.DB) error {
		return suite.maintainer.WithTx(tx).OnBetPlaced(ctx, bet)
	})
	suite.AssertNoDBError(err)

	settledAt := time.Now().UTC()
	profit := decimal.RequireFromString("90.91")
	suite.settleBet(bet, models.BetStatusWin, profit, settledAt)

	err = suite.DB.Transaction(func(tx *gorm.DB) error {
		return suite.maintainer.WithTx(tx).OnBetSettled(ctx, bet, profit, settledAt)
	})
	suite.AssertNoDBError(err)

	agg, err := suite.repo.GetByUserID(ctx, userID)
	suite.AssertNoDBError(err)
	suite.Assert().Equal(1, agg.TotalBetsPlaced)
	suite.Assert().Equal(1, agg.BetsWon)
	suite.Assert().Equal(0, agg.PendingBetCount)
	suite.Assert().True(agg.TotalProfit.Equal(profit))
	suite.Assert().True(agg.NeedsRecalculation)
}

func (suite *StatsRepositoryTestSuite) TestDeleteRevertsToZeroRow() {
	ctx := context.Background()
	userID := uuid.New()
	bet := suite.createBet(userID, time.Now().UTC())

	settledAt := time.Now().UTC()
	profit := decimal.NewFromInt(-100)

	err := suite.DB.Transaction(func(tx *gorm.DB) error {
		m := suite.maintainer.WithTx(tx)
		if err := m.OnBetPlaced(ctx, bet); err != nil {
			return err
		}
		suite.settleBet(bet, models.BetStatusLoss, profit, settledAt)
		return m.OnBetSettled(ctx, bet, profit, settledAt)
	})
	suite.AssertNoDBError(err)

	err = suite.DB.Transaction(func(tx *gorm.DB) error {
		return suite.maintainer.WithTx(tx).OnBetDeleted(ctx, bet)
	})
	suite.AssertNoDBError(err)

	agg, err := suite.repo.GetByUserID(ctx, userID)
	suite.AssertNoDBError(err)
	suite.Assert().Equal(0, agg.TotalBetsPlaced)
	suite.Assert().Equal(0, agg.BetsLost)
	suite.Assert().True(agg.TotalProfit.IsZero())
	suite.Assert().True(agg.TotalWagered.IsZero())
}

func (suite *StatsRepositoryTestSuite) TestLazyRecalculationOnRead() {
	ctx := context.Background()
	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	outcomes := []struct {
		status models.BetStatus
		profit decimal.Decimal
	}{
		{models.BetStatusWin, decimal.RequireFromString("90.91")},
		{models.BetStatusWin, decimal.RequireFromString("90.91")},
		{models.BetStatusLoss, decimal.NewFromInt(-100)},
		{models.BetStatusLoss, decimal.NewFromInt(-100)},
	}

	err := suite.DB.Transaction(func(tx *gorm.DB) error {
		m := suite.maintainer.WithTx(tx)
		for i, o := range outcomes {
			placedAt := base.Add(time.Duration(i) * time.Minute)
			bet := suite.createBet(userID, placedAt)
			if err := m.OnBetPlaced(ctx, bet); err != nil {
				return err
			}
			settledAt := placedAt.Add(time.Minute)
			suite.settleBet(bet, o.status, o.profit, settledAt)
			if err := m.OnBetSettled(ctx, bet, o.profit, settledAt); err != nil {
				return err
			}
		}
		return nil
	})
	suite.AssertNoDBError(err)

	agg, err := suite.repo.GetByUserID(ctx, userID)
	suite.AssertNoDBError(err)
	suite.Assert().True(agg.NeedsRecalculation)

	resp, err := suite.service.GetPerformance(ctx, userID)
	suite.AssertNoDBError(err)
	suite.Assert().Equal(-2, resp.CurrentStreak)
	suite.Assert().Equal(2, resp.LongestWinStreak)
	suite.Assert().Equal(2, resp.LongestLossStreak)

	agg, err = suite.repo.GetByUserID(ctx, userID)
	suite.AssertNoDBError(err)
	suite.Assert().False(agg.NeedsRecalculation)
}

func (suite *StatsRepositoryTestSuite) TestConcurrentFirstBetsCreateOneAggregateRow() {
	ctx := context.Background()
	userID := uuid.New()

	start := make(chan struct{})
	errs := make(chan error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bet := suite.createBet(userID, time.Now().UTC())
			<-start
			errs <- suite.DB.Transaction(func(tx *gorm.DB) error {
				return suite.maintainer.WithTx(tx).OnBetPlaced(ctx, bet)
			})
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		suite.AssertNoDBError(err)
	}

	var rows int64
	suite.AssertNoDBError(suite.DB.Model(&models.PerformanceAggregate{}).
		Where("user_id = ?", userID).Count(&rows).Error)
	suite.Assert().Equal(int64(1), rows)

	agg, err := suite.repo.GetByUserID(ctx, userID)
	suite.AssertNoDBError(err)
	suite.Assert().Equal(2, agg.TotalBetsPlaced)
	suite.Assert().Equal(2, agg.PendingBetCount)
}

func (suite *StatsRepositoryTestSuite) TestListBetsChronological() {
	ctx := context.Background()
	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	suite.createBet(userID, base.Add(2*time.Minute))
	suite.createBet(userID, base)
	suite.createBet(userID, base.Add(time.Minute))

	bets, err := suite.repo.ListBets(ctx, userID)
	suite.AssertNoDBError(err)
	suite.Assert().Len(bets, 3)
	suite.Assert().True(bets[0].PlacedAt.Before(bets[1].PlacedAt))
	suite.Assert().True(bets[1].PlacedAt.Before(bets[2].PlacedAt))
}
