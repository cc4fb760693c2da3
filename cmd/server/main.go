package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"titling/internal/customer/handler"
	customermetrics "titling/internal/customer/metrics"
	"titling/internal/customer/service"
	"titling/internal/platform/config"
	"titling/internal/platform/httpserver"
	"titling/internal/platform/kafka"
	"titling/internal/platform/logger"
	"titling/internal/platform/metrics"
	"titling/internal/platform/postgres"
	"titling/internal/platform/redis"
	"titling/internal/sheets"
	audit "titling/pkg/platform/audit"
	"titling/pkg/platform/audit/publisher"
	"titling/pkg/platform/audit/queue"
	"titling/pkg/platform/audit/store/memory"
	pgstore "titling/pkg/platform/audit/store/postgres"
	"titling/pkg/platform/audit/worker"
	"titling/pkg/platform/httputil"
)

// main wires the persistence client, the change-log infrastructure and the
// customer service, then serves HTTP until interrupted.
func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Sheets.URL == "" {
		log.Fatal("SHEETS_API_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	sheetsClient := sheets.New(cfg.Sheets.URL, cfg.Sheets.Timeout, sheets.WithMetrics(sheets.NewMetrics(reg)))

	retryQueue, closeQueue := buildRetryQueue(ctx, cfg, log)
	defer closeQueue()

	archive, closeArchive := buildArchive(ctx, cfg, log)
	defer closeArchive()

	pubOpts := []publisher.Option{publisher.WithLogger(log)}
	producer, err := kafka.New(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka setup failed", zap.Error(err))
	}
	if producer != nil {
		if err := producer.EnsureTopic(ctx); err != nil {
			log.Warn("could not ensure history topic", zap.String("topic", cfg.Kafka.Topic), zap.Error(err))
		}
		pubOpts = append(pubOpts, publisher.WithSink(producer))
		defer producer.Close()
		log.Info("publishing change log to kafka", zap.Strings("brokers", cfg.Kafka.Brokers))
	}
	historyPublisher := publisher.NewPublisher(archive, pubOpts...)
	defer historyPublisher.Close()

	retryWorker := worker.NewWorker(retryQueue, service.NewHistoryDeliverer(sheetsClient),
		worker.WithInterval(cfg.History.RetryInterval),
		worker.WithBatchSize(cfg.History.RetryBatch),
		worker.WithLogger(log),
	)
	go func() {
		if err := retryWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("history retry worker stopped", zap.Error(err))
		}
	}()

	svc := service.New(sheetsClient,
		service.WithLogger(log),
		service.WithMetrics(customermetrics.New(reg)),
		service.WithHistoryPublisher(historyPublisher),
		service.WithRetryQueue(retryQueue),
		service.WithUsers(cfg.History.User, cfg.History.CSVUser),
	)
	if err := svc.Refresh(ctx); err != nil {
		log.Warn("initial customer load failed", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		state, _ := svc.State()
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "customers": string(state)})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	handler.New(svc, log).Register(r)

	srv := httpserver.New(cfg.Addr, r)
	go func() {
		log.Info("starting titling service", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

type historyQueue interface {
	audit.Queue
	service.RetryQueue
}

// buildRetryQueue uses Redis when configured so failed history deliveries
// survive restarts.
func buildRetryQueue(ctx context.Context, cfg config.Server, log *zap.Logger) (historyQueue, func()) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, history retries kept in memory", zap.Error(err))
	}
	if client == nil {
		return queue.NewMemory(), func() {}
	}
	log.Info("history retry queue on redis", zap.String("key", queue.DefaultKey))
	return queue.NewRedis(client, queue.DefaultKey), func() { _ = client.Close() }
}

// buildArchive stores change-log entries in Postgres when configured.
func buildArchive(ctx context.Context, cfg config.Server, log *zap.Logger) (audit.Store, func()) {
	pool, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		log.Warn("postgres unavailable, change log archived in memory", zap.Error(err))
	}
	if pool == nil {
		return memory.NewInMemoryStore(), func() {}
	}
	store := pgstore.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("could not create history schema", zap.Error(err))
	}
	return store, pool.Close
}
