package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/caresync/hospital-api/internal/model"
)

// AuditRepository stores write records in the audit_logs collection.
type AuditRepository struct {
	store *Store
}

func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

func (r *AuditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	_, err := r.store.db.Collection(model.CollectionAuditLogs).InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, collection string, since time.Time) ([]*model.AuditLog, error) {
	filter := bson.M{"createdAt": bson.M{"$gte": since}}
	if collection != "" {
		filter["collection"] = collection
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.store.db.Collection(model.CollectionAuditLogs).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*model.AuditLog
	for cursor.Next(ctx) {
		var entry model.AuditLog
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		out = append(out, &entry)
	}
	return out, cursor.Err()
}

func (r *AuditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.store.db.Collection(model.CollectionAuditLogs).DeleteMany(ctx,
		bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit logs: %w", err)
	}
	return res.DeletedCount, nil
}
