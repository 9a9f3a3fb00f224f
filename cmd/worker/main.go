package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/caresync/hospital-api/internal/repository/mongodb"
	"github.com/caresync/hospital-api/pkg/logger"
	"github.com/caresync/hospital-api/pkg/messaging/redis"
	"github.com/caresync/hospital-api/pkg/metrics"
	"github.com/caresync/hospital-api/pkg/worker"
)

// Spec is the worker's environment configuration.
type Spec struct {
	MongoURI           string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase      string        `envconfig:"MONGO_DATABASE" default:"hospital"`
	RedisURL           string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	MetricsPort        int           `envconfig:"METRICS_PORT" default:"9090"`
	BatchSize          int           `envconfig:"RECON_BATCH_SIZE" default:"100"`
	PollInterval       time.Duration `envconfig:"RECON_POLL_INTERVAL" default:"30s"`
	RetryAttempts      int           `envconfig:"RECON_RETRY_ATTEMPTS" default:"3"`
	RetryDelay         time.Duration `envconfig:"RECON_RETRY_DELAY" default:"1s"`
	AuditRetentionDays int           `envconfig:"AUDIT_RETENTION_DAYS" default:"90"`
	AuditCleanupEvery  time.Duration `envconfig:"AUDIT_CLEANUP_INTERVAL" default:"12h"`
}

func main() {
	var spec Spec
	if err := envconfig.Process("", &spec); err != nil {
		log.Fatal().Err(err).Msg("failed to read environment")
	}

	appLogger := logger.NewLogger(nil)
	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()

	store, err := mongodb.NewStore(mongodb.Config{
		URI:      spec.MongoURI,
		Database: spec.MongoDatabase,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer store.Close(context.Background())

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          spec.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("hospital", "worker")
	reconRepo := mongodb.NewReconciliationRepository(store)
	auditRepo := mongodb.NewAuditRepository(store)

	reconciler := worker.NewReconciler(reconRepo, store, broker, worker.ReconcilerConfig{
		BatchSize:     spec.BatchSize,
		PollInterval:  spec.PollInterval,
		RetryAttempts: spec.RetryAttempts,
		RetryDelay:    spec.RetryDelay,
	}, appLogger, m)

	auditCleanup := worker.NewAuditCleanupWorker(auditRepo, spec.AuditRetentionDays, spec.AuditCleanupEvery, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	go reconciler.Start(ctx)
	go auditCleanup.Start(ctx)

	// Expose worker metrics.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", spec.MetricsPort),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("metrics server failed")
		}
	}()

	log.Info().Msg("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("metrics server forced to shutdown")
	}

	log.Info().Msg("worker exited properly")
}
