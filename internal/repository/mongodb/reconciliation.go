package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/caresync/hospital-api/internal/model"
)

// ReconciliationRepository is the mongo-backed outbox of failed best-effort
// cascade steps.
type ReconciliationRepository struct {
	store *Store
}

func NewReconciliationRepository(store *Store) *ReconciliationRepository {
	return &ReconciliationRepository{store: store}
}

func (r *ReconciliationRepository) collection() string {
	return model.CollectionReconciliation
}

func (r *ReconciliationRepository) Enqueue(ctx context.Context, task *model.ReconciliationTask) error {
	task.Status = model.ReconciliationPending
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt
	if _, err := r.store.db.Collection(r.collection()).InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue reconciliation task: %w", err)
	}
	return nil
}

func (r *ReconciliationRepository) Pending(ctx context.Context, limit int) ([]*model.ReconciliationTask, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": 1})
	cursor, err := r.store.db.Collection(r.collection()).
		Find(ctx, bson.M{"status": model.ReconciliationPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*model.ReconciliationTask
	for cursor.Next(ctx) {
		var task model.ReconciliationTask
		if err := cursor.Decode(&task); err != nil {
			return nil, err
		}
		out = append(out, &task)
	}
	return out, cursor.Err()
}

func (r *ReconciliationRepository) MarkDone(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, model.ReconciliationDone, "")
}

func (r *ReconciliationRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.setStatus(ctx, id, model.ReconciliationFailed, reason)
}

func (r *ReconciliationRepository) setStatus(ctx context.Context, id string, status model.ReconciliationStatus, reason string) error {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"lastError": reason,
			"updatedAt": time.Now().UTC(),
		},
		"$inc": bson.M{"attempts": 1},
	}
	_, err := r.store.db.Collection(r.collection()).UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update reconciliation task %s: %w", id, err)
	}
	return nil
}
