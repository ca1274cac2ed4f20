package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"certledger/internal/platform/config"
	"certledger/internal/platform/httpserver"
	"certledger/internal/platform/logger"
	"certledger/internal/platform/middleware"
	platformredis "certledger/internal/platform/redis"
	"certledger/internal/registry"
	"certledger/internal/registry/cache"
	"certledger/internal/registry/handler"
	"certledger/internal/registry/journal"
	"certledger/internal/registry/metrics"
	"certledger/internal/registry/service"
	"certledger/internal/registry/stream"
	"certledger/pkg/domain"
)

// main wires the registry: ledger rebuilt from the journal, optional cache and
// stream backends, HTTP surface, and a graceful shutdown. Business rules live
// in internal/registry.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	genesisAdmin, err := domain.ParseAddress(cfg.GenesisAdmin)
	if err != nil {
		return errors.New("CERTLEDGER_GENESIS_ADMIN must be a 0x-prefixed address")
	}

	ledger := registry.NewLedger(genesisAdmin)
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
	}

	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		j := journal.NewPostgres(pool)
		if err := j.Migrate(ctx); err != nil {
			return err
		}
		events, err := j.Load(ctx)
		if err != nil {
			return err
		}
		if err := ledger.Restore(events); err != nil {
			return err
		}
		log.Info("ledger restored from journal", "events", len(events))
		opts = append(opts, service.WithJournal(j))
	} else {
		opts = append(opts, service.WithJournal(journal.NewInMemory()))
		log.Warn("no postgres configured, journal is in-memory only")
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithCache(cache.New(redisClient, cfg.VerifyCacheTTL)))
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := stream.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer publisher.Close()
		opts = append(opts, service.WithStream(publisher))
	}

	svc := service.New(ledger, opts...)
	tokens := middleware.NewTokenService(cfg.JWTSigningKey)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	handler.New(svc, tokens, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("registry listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	return g.Wait()
}
