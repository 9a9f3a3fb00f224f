package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/pkg/logger"
	"github.com/caresync/hospital-api/pkg/messaging"
	"github.com/caresync/hospital-api/pkg/metrics"
)

const reconciliationChannel = "reconciliation"

type ReconcilerConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Reconciler drains the reconciliation queue: each task is a best-effort
// cascade step that failed at delete time and must be replayed until the
// referencing arrays agree with the surviving documents.
type Reconciler struct {
	repo    repository.ReconciliationRepository
	store   repository.Store
	broker  messaging.Broker
	config  ReconcilerConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewReconciler(
	repo repository.ReconciliationRepository,
	store repository.Store,
	broker messaging.Broker,
	config ReconcilerConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Reconciler {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.RetryDelay <= 0 {
		panic("RetryDelay must be greater than 0")
	}

	return &Reconciler{
		repo:    repo,
		store:   store,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	r.logger.Info("Starting reconciliation worker")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Shutting down reconciliation worker")
			return
		case <-ticker.C:
			if err := r.processTasks(ctx); err != nil {
				r.logger.Error(err, "Failed to process reconciliation tasks")
			}
		}
	}
}

func (r *Reconciler) processTasks(ctx context.Context) error {
	tasks, err := r.repo.Pending(ctx, r.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch pending tasks: %w", err)
	}
	r.metrics.ReconciliationPending.Set(float64(len(tasks)))

	for _, task := range tasks {
		if err := r.processTask(ctx, task); err != nil {
			r.logger.Error(err, "Failed to process reconciliation task",
				"task_id", task.ID, "kind", task.Kind)
			continue
		}
	}
	return nil
}

func (r *Reconciler) processTask(ctx context.Context, task *model.ReconciliationTask) error {
	err := retry(r.config.RetryAttempts, r.config.RetryDelay, func() error {
		return r.apply(ctx, task)
	})

	if err != nil {
		r.metrics.ReconciliationFailed.Inc()
		if markErr := r.repo.MarkFailed(ctx, task.ID, err.Error()); markErr != nil {
			r.logger.Error(markErr, "Failed to mark task failed", "task_id", task.ID)
		}
		return err
	}

	r.metrics.ReconciliationProcessed.Inc()
	if err := r.repo.MarkDone(ctx, task.ID); err != nil {
		r.logger.Error(err, "Failed to mark task done", "task_id", task.ID)
		return err
	}
	r.publish(ctx, task)
	return nil
}

func (r *Reconciler) apply(ctx context.Context, task *model.ReconciliationTask) error {
	switch task.Kind {
	case model.ReconcileHospitalArrayCleanup:
		batch := r.store.Batch()
		batch.Pull(task.Collection, task.EntityID, task.Field, task.Remove...)
		return batch.Commit(ctx)
	default:
		return fmt.Errorf("unknown reconciliation kind %q", task.Kind)
	}
}

// publish announces the repair so operators can follow queue drain in real
// time. Failure here is not a task failure.
func (r *Reconciler) publish(ctx context.Context, task *model.ReconciliationTask) {
	msg := messaging.Message{
		Type: task.Kind,
		Payload: map[string]interface{}{
			"taskId":     task.ID,
			"collection": task.Collection,
			"entityId":   task.EntityID,
			"field":      task.Field,
		},
	}
	if err := r.broker.Publish(ctx, reconciliationChannel, msg); err != nil {
		r.logger.Error(err, "Failed to publish reconciliation event", "task_id", task.ID)
	}
}

// Helper retry function
func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
