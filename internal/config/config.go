package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	SRS      SRSConfig      `yaml:"srs"`
	Stats    StatsConfig    `yaml:"stats"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`

	// RateLimitPerMinute caps requests per client IP. Zero disables limiting.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds token-validation settings. The platform's identity
// collaborator issues the tokens; this service only verifies them.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"fluentdeck"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SRSConfig holds spaced-repetition scheduling parameters.
type SRSConfig struct {
	InitialIntervalDays int           `yaml:"initial_interval_days" env:"SRS_INITIAL_INTERVAL"  env-default:"1"`
	MaxIntervalDays     int           `yaml:"max_interval_days"     env:"SRS_MAX_INTERVAL"      env-default:"365"`
	EasyGrowthFactor    float64       `yaml:"easy_growth_factor"    env:"SRS_EASY_GROWTH"       env-default:"2.0"`
	HardIntervalDays    int           `yaml:"hard_interval_days"    env:"SRS_HARD_INTERVAL"     env-default:"1"`
	RelearnDelay        time.Duration `yaml:"relearn_delay"         env:"SRS_RELEARN_DELAY"     env-default:"10m"`
	DefaultBatchSize    int           `yaml:"default_batch_size"    env:"SRS_DEFAULT_BATCH"     env-default:"20"`
	MaxBatchSize        int           `yaml:"max_batch_size"        env:"SRS_MAX_BATCH"         env-default:"100"`
	ConflictRetries     int           `yaml:"conflict_retries"      env:"SRS_CONFLICT_RETRIES"  env-default:"3"`
}

// StatsConfig holds streak/statistics aggregation settings.
// Timezone is the fixed reference timezone for calendar-day arithmetic.
type StatsConfig struct {
	Timezone          string        `yaml:"timezone"            env:"STATS_TIMEZONE"            env-default:"UTC"`
	SessionStaleAfter time.Duration `yaml:"session_stale_after" env:"STATS_SESSION_STALE_AFTER" env-default:"6h"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
