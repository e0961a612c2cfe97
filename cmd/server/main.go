package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"namehaus/internal/gate"
	"namehaus/internal/jwttoken"
	"namehaus/internal/platform/config"
	"namehaus/internal/platform/httpserver"
	"namehaus/internal/platform/logger"
	"namehaus/internal/platform/middleware"
	platformredis "namehaus/internal/platform/redis"
	"namehaus/internal/registry/cache"
	"namehaus/internal/registry/handler"
	registrymetrics "namehaus/internal/registry/metrics"
	"namehaus/internal/registry/seed"
	"namehaus/internal/registry/service"
	"namehaus/internal/registry/store/ownership"
	"namehaus/internal/registry/store/record"
	"namehaus/internal/roles"
	"namehaus/internal/treasury"
	"namehaus/pkg/events"
	"namehaus/pkg/events/kafka"
	"namehaus/pkg/events/worker"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	memLog := events.NewMemoryLog()
	defer memLog.Close()

	var sinks []events.Appender
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect kafka", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		if err := publisher.EnsureTopic(ctx, 1, 1); err != nil {
			log.Error("failed to ensure kafka topic", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, publisher)
		log.Info("kafka event sink enabled", "brokers", cfg.Kafka.Brokers)
	}
	eventLog := events.NewFanout(memLog, log, sinks...)

	var (
		records record.Store
		owners  ownership.Store
	)
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		recordStore := record.NewPostgres(db)
		if err := recordStore.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure records schema", "error", err)
			os.Exit(1)
		}

		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("failed to open pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		ownerStore := ownership.NewPostgres(pool)
		if err := ownerStore.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure ownership schema", "error", err)
			os.Exit(1)
		}

		records, owners = recordStore, ownerStore
		log.Info("postgres stores enabled")
	} else {
		records = record.NewMemoryStore()
		owners = ownership.NewMemoryStore()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("redis resolve cache enabled")
	}

	roleSvc := roles.NewService(roles.NewMemoryStore(), eventLog, cfg.Deployer)
	ledger := treasury.NewLedger(cfg.Treasury)

	svc := service.New(service.Deps{
		Records:    records,
		Owners:     owners,
		Roles:      roleSvc,
		Gate:       gate.New(),
		Settlement: ledger,
		Owner:      cfg.Owner,
		Log:        eventLog,
	},
		service.WithLogger(log),
		service.WithMetrics(registrymetrics.New()),
		service.WithResolveCache(cache.New(redisClient, config.ResolveCacheTTL)),
		service.WithBaseURI(cfg.BaseURI),
	)

	if cfg.Seed {
		if err := seed.Apply(ctx, svc, cfg.Deployer, log); err != nil {
			log.Error("failed to seed starter listings", "error", err)
			os.Exit(1)
		}
	}

	jwtSvc := jwttoken.NewService(cfg.JWTSigningKey, "namehaus", "namehaus")
	h := handler.New(svc, roleSvc, eventLog, log, middleware.RequireAuth(jwtSvc, log))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.ClientMetadata)
	router.Route("/v1", h.Register)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	// The audit trail is a second log fed off the live subscription, so the
	// primary append path never waits on it.
	auditTrail := events.NewMemoryLog()
	auditWorker := worker.New(auditTrail, memLog.Subscribe(ctx))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting namehaus registry", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := auditWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
