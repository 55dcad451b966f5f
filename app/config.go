package app

import (
	"github.com/oddsline/vigor/app/database"
	"github.com/oddsline/vigor/app/settlement"
	"github.com/oddsline/vigor/internal/nexus"
)

type Config struct {
	DB         database.Config
	Settlement settlement.Config

	AppHost string `env:"APP_HOST" default:"localhost"`
	AppPort string `env:"APP_PORT" default:"8080"`
	Env     string `env:"APP_ENV" default:"development"`

	CacheBackend  string `env:"CACHE_BACKEND" default:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"`

	// SweepSchedule is the cron expression the settler binary runs on.
	SweepSchedule string `env:"SWEEP_SCHEDULE" default:"*/5 * * * *"`
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig() (*Config, error) {
	c := &Config{}
	err := nexus.NewLoader().Load(c)
	return c, err
}

// SettlementConfig returns the settlement configuration, falling back to the
// package defaults when the environment leaves it unset or invalid.
func (c *Config) SettlementConfig() *settlement.Config {
	if err := c.Settlement.Validate(); err != nil {
		return settlement.GetDefaultConfig()
	}
	return &c.Settlement
}
