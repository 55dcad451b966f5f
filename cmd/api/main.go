package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/oddsline/vigor/app"
	"github.com/oddsline/vigor/app/analysis"
	"github.com/oddsline/vigor/app/api"
	"github.com/oddsline/vigor/app/bankroll"
	"github.com/oddsline/vigor/app/bets"
	"github.com/oddsline/vigor/app/database"
	"github.com/oddsline/vigor/app/settlement"
	"github.com/oddsline/vigor/app/stats"
	"github.com/oddsline/vigor/internal/cache"
	"github.com/oddsline/vigor/internal/deps"
	"github.com/oddsline/vigor/internal/logger"
	"github.com/oddsline/vigor/internal/router"
)

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
		"service": "vigor-api",
		"env":     cfg.Env,
	})

	container := deps.NewContainer(db, l, newCache(cfg))

	// stats registers the aggregate maintainer the other modules depend on,
	// so it initializes first.
	stats.InitRepositories(container)
	bankroll.InitRepositories(container)
	bets.InitRepositories(container)
	settlement.InitRepositories(container, cfg.SettlementConfig())
	analysis.InitRepositories(container)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestLogger(l))
	r.GET("/healthz", api.HealthCheck)

	router.NewMounter(container).
		Public(r).
		Mount(bankroll.MountPublic).
		Mount(stats.MountPublic).
		Mount(bets.MountPublic).
		Mount(settlement.MountPublic).
		Mount(analysis.MountPublic)

	addr := fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)
	l.Info("starting API server", logger.Fields{"addr": addr})
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

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
