package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("RATE_LIMIT_BACKEND", "memory")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, BackendMemory, cfg.Database.Backend)
	assert.Equal(t, DriverPQ, cfg.Database.Driver)
	assert.Equal(t, "escriba.audit", cfg.Audit.Topic)
	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.IdleTTL)
	assert.Equal(t, 5, cfg.RateLimit.BreakerFailures)
	assert.Equal(t, 3, cfg.RateLimit.BreakerSuccesses)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnvParsesBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092,localhost:9093")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, cfg.Audit.KafkaBrokers)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   Server{Environment: EnvProduction, ShutdownTimeout: time.Second},
			Log:      LogConfig{Format: "json"},
			Database: DatabaseConfig{Backend: BackendMemory},
			RateLimit: RateLimitConfig{
				Enabled: true, Backend: BackendMemory, RPS: 1, Burst: 1,
				IdleTTL: time.Minute, BreakerFailures: 1, BreakerSuccesses: 1,
			},
			Audit: AuditConfig{Topic: "escriba.audit"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"unknown environment":       func(c *Config) { c.Server.Environment = "staging" },
		"postgres without url":      func(c *Config) { c.Database.Backend = BackendPostgres },
		"unknown store backend":     func(c *Config) { c.Database.Backend = "sqlite" },
		"unknown sql driver": func(c *Config) {
			c.Database = DatabaseConfig{Backend: BackendPostgres, URL: "postgres://localhost/escriba", Driver: "mysql"}
		},
		"redis limiter without url": func(c *Config) { c.RateLimit.Backend = BackendRedis },
		"zero rps":                  func(c *Config) { c.RateLimit.RPS = 0 },
		"zero idle ttl":             func(c *Config) { c.RateLimit.IdleTTL = 0 },
		"zero breaker failures":     func(c *Config) { c.RateLimit.BreakerFailures = 0 },
		"bad log format":            func(c *Config) { c.Log.Format = "xml" },
		"brokers without topic": func(c *Config) {
			c.Audit.KafkaBrokers = []string{"localhost:9092"}
			c.Audit.Topic = ""
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("disabled limiter skips limiter checks", func(t *testing.T) {
		cfg := valid()
		cfg.RateLimit = RateLimitConfig{Enabled: false}
		assert.NoError(t, cfg.Validate())
	})
}
