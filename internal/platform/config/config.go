// Package config loads service configuration from the environment, with
// optional .env/.env.local files for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"ESCRIBA_ADDR" envDefault:":8080"`
	MetricsAddr     string        `env:"ESCRIBA_METRICS_ADDR" envDefault:":9090"`
	Environment     string        `env:"ESCRIBA_ENV" envDefault:"development"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SeedDefaults    bool          `env:"SEED_DEFAULTS" envDefault:"false"`
	TrustProxy      bool          `env:"TRUST_PROXY" envDefault:"false"`
}

// LogConfig selects slog handler and level.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// SQL drivers accepted by DB_DRIVER.
const (
	DriverPQ  = "postgres"
	DriverPgx = "pgx"
)

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	Backend         string        `env:"STORE_BACKEND" envDefault:"memory"`
	Driver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	RunMigrations   bool          `env:"DB_RUN_MIGRATIONS" envDefault:"true"`
}

// RedisConfig configures the go-redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	Enabled bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Backend string  `env:"RATE_LIMIT_BACKEND" envDefault:"memory"`
	RPS     float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	Burst   int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// IdleTTL evicts local buckets of clients not seen for this long.
	IdleTTL time.Duration `env:"RATE_LIMIT_IDLE_TTL" envDefault:"15m"`

	// Consecutive redis failures before switching to the local buckets, and
	// successes before switching back.
	BreakerFailures  int `env:"RATE_LIMIT_BREAKER_FAILURES" envDefault:"5"`
	BreakerSuccesses int `env:"RATE_LIMIT_BREAKER_SUCCESSES" envDefault:"3"`
}

// AuditConfig configures the audit event sinks. Empty brokers keep audit
// events in the log only.
type AuditConfig struct {
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic        string   `env:"AUDIT_TOPIC" envDefault:"escriba.audit"`
}

// TracingConfig toggles the OpenTelemetry tracer provider.
type TracingConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"escriba"`
}

// Config is the full service configuration.
type Config struct {
	Server    Server
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Tracing   TracingConfig
}

// FromEnv loads any .env files present, parses the environment and
// validates the result.
func FromEnv() (Config, error) {
	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadEnvFiles loads the files that exist. Variables already set in the
// process environment win.
func loadEnvFiles(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// Validate rejects inconsistent combinations.
func (c Config) Validate() error {
	var errs []error

	switch c.Server.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ESCRIBA_ENV must be development or production, got %q", c.Server.Environment))
	}

	switch c.Database.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_BACKEND is postgres"))
		}
		if c.Database.Driver != DriverPQ && c.Database.Driver != DriverPgx {
			errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or pgx, got %q", c.Database.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be memory or postgres, got %q", c.Database.Backend))
	}

	if c.RateLimit.Enabled {
		switch c.RateLimit.Backend {
		case BackendMemory:
		case BackendRedis:
			if c.Redis.URL == "" {
				errs = append(errs, errors.New("REDIS_URL is required when RATE_LIMIT_BACKEND is redis"))
			}
		default:
			errs = append(errs, fmt.Errorf("RATE_LIMIT_BACKEND must be memory or redis, got %q", c.RateLimit.Backend))
		}
		if c.RateLimit.RPS <= 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimit.RPS))
		}
		if c.RateLimit.Burst < 1 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimit.Burst))
		}
		if c.RateLimit.IdleTTL <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_IDLE_TTL must be positive"))
		}
		if c.RateLimit.BreakerFailures < 1 || c.RateLimit.BreakerSuccesses < 1 {
			errs = append(errs, errors.New("RATE_LIMIT_BREAKER_FAILURES and RATE_LIMIT_BREAKER_SUCCESSES must be at least 1"))
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}

	if len(c.Audit.KafkaBrokers) > 0 && strings.TrimSpace(c.Audit.Topic) == "" {
		errs = append(errs, errors.New("AUDIT_TOPIC is required when KAFKA_BROKERS is set"))
	}

	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}
