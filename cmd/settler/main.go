package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/oddsline/vigor/app"
	"github.com/oddsline/vigor/app/database"
	"github.com/oddsline/vigor/app/settlement"
	"github.com/oddsline/vigor/app/stats"
	"github.com/oddsline/vigor/internal/cache"
	"github.com/oddsline/vigor/internal/deps"
	"github.com/oddsline/vigor/internal/logger"
)

// The settler runs the settlement sweep on a schedule. Each run grades every
// pending bet whose event has a final score; bets it cannot resolve stay
// pending for the next run.
func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.New(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	l := logger.NewZeroLogger(os.Stdout, logger.LevelInfo, logger.Fields{
		"service": "vigor-settler",
		"env":     cfg.Env,
	})

	container := deps.NewContainer(db, l, newCache(cfg))
	stats.InitRepositories(container)
	settlement.InitRepositories(container, cfg.SettlementConfig())
	settler := container.GetService(settlement.ServiceKey).(settlement.Service)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.SweepSchedule, func() {
		if _, err := settler.SweepPending(context.Background()); err != nil {
			l.Error(err, logger.Fields{"job": "sweep"})
		}
	})
	if err != nil {
		log.Fatal("Invalid sweep schedule:", err)
	}

	l.Info("starting settler", logger.Fields{"schedule": cfg.SweepSchedule})
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("stopping settler", nil)
	<-scheduler.Stop().Done()
}

// newCache uses the same backend as the API so sweep settlements invalidate
// the same cached views.
func newCache(cfg *app.Config) cache.Cache[string] {
	if cfg.CacheBackend == cache.RedisBackend {
		return cache.NewCache[string](cache.RedisBackend, &cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return cache.NewCache[string](cache.MemoryBackend)
}
