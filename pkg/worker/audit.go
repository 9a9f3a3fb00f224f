package worker

import (
	"context"
	"time"

	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/pkg/logger"
)

// AuditCleanupWorker prunes audit entries older than the retention window.
type AuditCleanupWorker struct {
	repo          repository.AuditRepository
	retentionDays int
	interval      time.Duration
	logger        *logger.Logger
}

func NewAuditCleanupWorker(repo repository.AuditRepository, retentionDays int, interval time.Duration, log *logger.Logger) *AuditCleanupWorker {
	return &AuditCleanupWorker{
		repo:          repo,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        log,
	}
}

func (w *AuditCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Run(ctx)
		}
	}
}

// Run performs one cleanup pass.
func (w *AuditCleanupWorker) Run(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -w.retentionDays)
	removed, err := w.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		w.logger.Error(err, "audit log cleanup failed")
		return
	}
	if removed > 0 {
		w.logger.Info("pruned audit logs", "removed", removed)
	}
}
