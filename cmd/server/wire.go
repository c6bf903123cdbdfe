package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"escriba/internal/atribuicao"
	atribuicaometrics "escriba/internal/atribuicao/metrics"
	atribuicaoservice "escriba/internal/atribuicao/service"
	atribuicaostore "escriba/internal/atribuicao/store"
	"escriba/internal/cartorio"
	cartoriometrics "escriba/internal/cartorio/metrics"
	cartorioservice "escriba/internal/cartorio/service"
	cartoriostore "escriba/internal/cartorio/store"
	"escriba/internal/platform/config"
	"escriba/internal/platform/metrics"
	"escriba/internal/platform/postgres"
	"escriba/internal/platform/redis"
	"escriba/internal/platform/tracing"
	ratelimitmetrics "escriba/internal/ratelimit/metrics"
	ratelimit "escriba/internal/ratelimit/middleware"
	"escriba/internal/ratelimit/store/bucket"
	"escriba/internal/situacao"
	situacaometrics "escriba/internal/situacao/metrics"
	situacaoservice "escriba/internal/situacao/service"
	situacaostore "escriba/internal/situacao/store"
	httptransport "escriba/internal/transport/http"
	audit "escriba/pkg/platform/audit"
	"escriba/pkg/platform/audit/publisher"
	"escriba/pkg/platform/audit/store/kafka"
	"escriba/pkg/platform/audit/store/logsink"
	auditmemory "escriba/pkg/platform/audit/store/memory"
	auditpostgres "escriba/pkg/platform/audit/store/postgres"
	"escriba/pkg/platform/circuit"
	"escriba/pkg/platform/tx"
)

const (
	auditBufferSize = 1024
	// auditMemoryCapacity bounds the audit trail kept by the memory backend.
	auditMemoryCapacity = 10000
	janitorInterval     = time.Minute
)

// app holds the assembled router and the resources to release on exit,
// closed in reverse order of acquisition.
type app struct {
	Router  http.Handler
	closers []func()
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// stores groups the three module stores behind one backend.
type stores struct {
	situacoes   situacaoservice.Store
	atribuicoes atribuicaoservice.Store
	cartorios   cartorioservice.Store
	seed        situacaostore.Creator
	tx          tx.Manager
	ping        httptransport.CheckFunc
	audit       audit.Store
}

func wire(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	st, err := openStores(ctx, cfg.Database, log, a)
	if err != nil {
		return nil, err
	}
	if cfg.IsProduction() && cfg.Database.Backend == config.BackendMemory {
		log.Warn("memory store backend in production, data is lost on restart")
	}
	if cfg.Server.SeedDefaults {
		n, err := situacaostore.SeedDefaults(ctx, st.seed)
		if err != nil {
			return nil, fmt.Errorf("seed situacoes: %w", err)
		}
		log.Info("seeded default situacoes", "inserted", n)
	}

	auditPublisher, kafkaStore, err := newAuditPublisher(ctx, cfg.Audit, log, st.audit)
	if err != nil {
		return nil, err
	}
	a.onClose(auditPublisher.Close)
	if kafkaStore != nil {
		a.onClose(kafkaStore.Close)
	}

	situacaoSvc := situacao.NewService(st.situacoes,
		situacaoservice.WithLogger(log),
		situacaoservice.WithAuditPublisher(auditPublisher),
		situacaoservice.WithMetrics(situacaometrics.New(reg)),
		situacaoservice.WithTxManager(st.tx),
	)
	atribuicaoSvc := atribuicao.NewService(st.atribuicoes,
		atribuicaoservice.WithLogger(log),
		atribuicaoservice.WithAuditPublisher(auditPublisher),
		atribuicaoservice.WithMetrics(atribuicaometrics.New(reg)),
		atribuicaoservice.WithTxManager(st.tx),
	)
	cartorioSvc, err := cartorio.NewService(st.cartorios, situacaoSvc, atribuicaoSvc,
		cartorioservice.WithLogger(log),
		cartorioservice.WithAuditPublisher(auditPublisher),
		cartorioservice.WithMetrics(cartoriometrics.New(reg)),
		cartorioservice.WithTxManager(st.tx),
		cartorioservice.WithTracer(tracing.Tracer("escriba/cartorio")),
	)
	if err != nil {
		return nil, fmt.Errorf("cartorio service: %w", err)
	}

	httpMetrics := metrics.New(reg)
	health := httptransport.NewHealthHandler(st.ping, httpMetrics, log)
	if kafkaStore != nil {
		health.WithCheck("kafka", kafkaStore.Health)
	}

	limit, err := newRateLimit(ctx, cfg, log, reg, health, a)
	if err != nil {
		return nil, err
	}

	prefix := httptransport.APIPrefix
	a.Router = httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Metrics:        httpMetrics,
		Health:         health,
		RateLimit:      limit,
		RequestTimeout: cfg.Server.RequestTimeout,
		TrustProxy:     cfg.Server.TrustProxy,
	},
		situacao.NewHandler(situacaoSvc, log, prefix),
		atribuicao.NewHandler(atribuicaoSvc, log, prefix),
		cartorio.NewHandler(cartorioSvc, log, prefix),
	)
	return a, nil
}

func openStores(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger, a *app) (*stores, error) {
	if cfg.Backend == config.BackendPostgres {
		db, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = db.Close() })
		if cfg.RunMigrations {
			if err := postgres.Migrate(ctx, db, log); err != nil {
				return nil, err
			}
		}
		situacoes := situacaostore.NewPostgres(db)
		return &stores{
			situacoes:   situacoes,
			atribuicoes: atribuicaostore.NewPostgres(db),
			cartorios:   cartoriostore.NewPostgres(db),
			seed:        situacoes,
			tx:          tx.NewSQLManager(db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}),
			ping:        db.PingContext,
			audit:       auditpostgres.New(db),
		}, nil
	}

	// The in-memory lookup stores ask the cartório store before deleting a
	// referenced row, standing in for the foreign keys.
	cartorios := cartoriostore.NewInMemory()
	situacoes := situacaostore.NewInMemory(situacaostore.WithReferenceChecker(cartorios.UsesSituacao))
	return &stores{
		situacoes:   situacoes,
		atribuicoes: atribuicaostore.NewInMemory(atribuicaostore.WithReferenceChecker(cartorios.UsesAtribuicao)),
		cartorios:   cartorios,
		seed:        situacoes,
		tx:          tx.NewMemoryManager(),
		audit:       auditmemory.NewInMemoryStore(auditmemory.WithCapacity(auditMemoryCapacity)),
	}, nil
}

// newAuditPublisher always logs events and keeps them in the backend's audit
// store. Events also go to Kafka when brokers are configured.
func newAuditPublisher(ctx context.Context, cfg config.AuditConfig, log *slog.Logger, trail audit.Store) (*publisher.Publisher, *kafka.Store, error) {
	sinks := audit.Fanout{logsink.New(log), trail}
	var kafkaStore *kafka.Store
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		kafkaStore, err = kafka.New(ctx, cfg.KafkaBrokers, cfg.Topic)
		if err != nil {
			return nil, nil, fmt.Errorf("audit kafka store: %w", err)
		}
		sinks = append(sinks, kafkaStore)
		log.Info("audit events shipped to kafka", "topic", cfg.Topic)
	}
	pub := publisher.NewPublisher(sinks,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithLogger(log),
	)
	return pub, kafkaStore, nil
}

// newRateLimit returns nil when limiting is disabled. The redis backend
// falls back to a local bucket while redis is failing.
func newRateLimit(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer, health *httptransport.HealthHandler, a *app) (func(http.Handler) http.Handler, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}
	m := ratelimitmetrics.New(reg)
	local := bucket.NewInMemory(cfg.RateLimit.RPS, cfg.RateLimit.Burst, bucket.WithIdleTTL(cfg.RateLimit.IdleTTL))
	local.StartJanitor(ctx, janitorInterval)

	var limiter *ratelimit.Limiter
	switch cfg.RateLimit.Backend {
	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { _ = client.Close() })
		health.WithCheck("redis", client.Health)
		limiter = ratelimit.NewLimiter(
			bucket.NewRedis(client.Client, cfg.RateLimit.RPS, cfg.RateLimit.Burst),
			ratelimit.WithFallback(local, circuit.New("ratelimit-redis",
				circuit.WithFailureThreshold(cfg.RateLimit.BreakerFailures),
				circuit.WithSuccessThreshold(cfg.RateLimit.BreakerSuccesses),
			)),
			ratelimit.WithLimiterLogger(log),
			ratelimit.WithDegradedHook(m.SetDegraded),
		)
	default:
		limiter = ratelimit.NewLimiter(local, ratelimit.WithLimiterLogger(log))
	}
	return ratelimit.New(limiter, log, ratelimit.WithMetrics(m)).RateLimit, nil
}
