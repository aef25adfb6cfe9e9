package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be >= 0 (got %d)", c.Server.RateLimitPerMinute)
	}

	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}

	if err := c.Stats.validate(); err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	return nil
}

func (s *SRSConfig) validate() error {
	if s.InitialIntervalDays <= 0 {
		return fmt.Errorf("initial_interval_days must be > 0 (got %d)", s.InitialIntervalDays)
	}
	if s.MaxIntervalDays < s.InitialIntervalDays {
		return fmt.Errorf("max_interval_days must be >= initial_interval_days (got %d < %d)",
			s.MaxIntervalDays, s.InitialIntervalDays)
	}
	if s.EasyGrowthFactor <= 1.0 {
		return fmt.Errorf("easy_growth_factor must be > 1.0 (got %v)", s.EasyGrowthFactor)
	}
	if s.HardIntervalDays <= 0 {
		return fmt.Errorf("hard_interval_days must be > 0 (got %d)", s.HardIntervalDays)
	}
	if s.RelearnDelay <= 0 {
		return fmt.Errorf("relearn_delay must be > 0 (got %v)", s.RelearnDelay)
	}
	if s.DefaultBatchSize <= 0 || s.DefaultBatchSize > s.MaxBatchSize {
		return fmt.Errorf("default_batch_size must be in (0, max_batch_size] (got %d, max %d)",
			s.DefaultBatchSize, s.MaxBatchSize)
	}
	if s.ConflictRetries < 1 {
		return fmt.Errorf("conflict_retries must be >= 1 (got %d)", s.ConflictRetries)
	}
	return nil
}

func (s *StatsConfig) validate() error {
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	if s.SessionStaleAfter < time.Minute {
		return fmt.Errorf("session_stale_after must be at least 1m (got %v)", s.SessionStaleAfter)
	}
	return nil
}
