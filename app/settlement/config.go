package settlement

import (
	"time"

	"github.com/oddsline/vigor/models"
)

// Config represents the configuration for the settlement module
type Config struct {
	LockTimeout      time.Duration `env:"SETTLEMENT_LOCK_TIMEOUT"`
	MaxRetries       int           `env:"SETTLEMENT_MAX_RETRIES"`
	RetryBackoff     time.Duration `env:"SETTLEMENT_RETRY_BACKOFF"`
	SweepBatchSize   int           `env:"SETTLEMENT_SWEEP_BATCH_SIZE"`
	ScoreFeedURL     string        `env:"SCORE_FEED_URL"`
	ScoreFeedTimeout time.Duration `env:"SCORE_FEED_TIMEOUT"`
}

func (c *Config) Validate() error {
	type validation struct {
		ok  bool
		err error
	}

	checks := []validation{
		{c.LockTimeout > 0, models.ErrInvalidLockTimeout},
		{c.SweepBatchSize > 0, models.ErrInvalidSweepBatchSize},
		{c.MaxRetries >= 0 && c.RetryBackoff >= 0, models.ErrInvalidRetryPolicy},
	}

	for _, v := range checks {
		if !v.ok {
			return v.err
		}
	}
	return nil
}

// GetDefaultConfig returns the default settlement configuration
func GetDefaultConfig() *Config {
	return &Config{
		LockTimeout:      2 * time.Second,
		MaxRetries:       3,
		RetryBackoff:     100 * time.Millisecond,
		SweepBatchSize:   200,
		ScoreFeedURL:     "http://localhost:9090",
		ScoreFeedTimeout: 5 * time.Second,
	}
}
