package memory

import (
	"context"
	"sync"
	"time"

	"github.com/caresync/hospital-api/internal/model"
)

// AuditRepository keeps audit entries in a slice.
type AuditRepository struct {
	mu      sync.Mutex
	Entries []*model.AuditLog
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, entry)
	return nil
}

func (r *AuditRepository) List(ctx context.Context, collection string, since time.Time) ([]*model.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AuditLog
	for _, e := range r.Entries {
		if collection != "" && e.Collection != collection {
			continue
		}
		if e.CreatedAt.Before(since) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *AuditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*model.AuditLog
	var removed int64
	for _, e := range r.Entries {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.Entries = kept
	return removed, nil
}

// ReconciliationRepository keeps deferred repair tasks in a slice.
type ReconciliationRepository struct {
	mu    sync.Mutex
	Tasks []*model.ReconciliationTask
}

func NewReconciliationRepository() *ReconciliationRepository {
	return &ReconciliationRepository{}
}

func (r *ReconciliationRepository) Enqueue(ctx context.Context, task *model.ReconciliationTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.Status = model.ReconciliationPending
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt
	r.Tasks = append(r.Tasks, task)
	return nil
}

func (r *ReconciliationRepository) Pending(ctx context.Context, limit int) ([]*model.ReconciliationTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ReconciliationTask
	for _, t := range r.Tasks {
		if t.Status != model.ReconciliationPending {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *ReconciliationRepository) MarkDone(ctx context.Context, id string) error {
	return r.setStatus(id, model.ReconciliationDone, "")
}

func (r *ReconciliationRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.setStatus(id, model.ReconciliationFailed, reason)
}

func (r *ReconciliationRepository) setStatus(id string, status model.ReconciliationStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.Tasks {
		if t.ID == id {
			t.Status = status
			t.LastError = reason
			t.Attempts++
			t.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}
