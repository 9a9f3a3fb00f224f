package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
)

type batchOp struct {
	collection string
	id         string
	update     bson.M // nil means delete
	upsert     bool
}

// mongoBatch accumulates writes and commits them inside session
// transactions, chunked at MaxBatchOps. Each chunk is all-or-nothing.
type mongoBatch struct {
	store *Store
	ops   []batchOp
}

func (s *Store) Batch() repository.Batch {
	return &mongoBatch{store: s}
}

func (b *mongoBatch) Set(collection, id string, doc model.Document) {
	doc["_id"] = id
	b.ops = append(b.ops, batchOp{
		collection: collection,
		id:         id,
		update:     bson.M{"$set": bson.M(doc)},
		upsert:     true,
	})
}

func (b *mongoBatch) Update(collection, id string, fields model.Document) {
	b.ops = append(b.ops, batchOp{
		collection: collection,
		id:         id,
		update:     bson.M{"$set": bson.M(fields)},
	})
}

func (b *mongoBatch) AddToSet(collection, id, field string, values ...string) {
	b.ops = append(b.ops, batchOp{
		collection: collection,
		id:         id,
		update:     bson.M{"$addToSet": bson.M{field: bson.M{"$each": values}}},
	})
}

func (b *mongoBatch) Pull(collection, id, field string, values ...string) {
	b.ops = append(b.ops, batchOp{
		collection: collection,
		id:         id,
		update:     bson.M{"$pull": bson.M{field: bson.M{"$in": values}}},
	})
}

func (b *mongoBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

func (b *mongoBatch) Len() int {
	return len(b.ops)
}

func (b *mongoBatch) Commit(ctx context.Context) error {
	for start := 0; start < len(b.ops); start += repository.MaxBatchOps {
		end := start + repository.MaxBatchOps
		if end > len(b.ops) {
			end = len(b.ops)
		}
		if err := b.commitChunk(ctx, b.ops[start:end]); err != nil {
			return fmt.Errorf("batch chunk starting at %d failed: %w", start, err)
		}
	}
	b.ops = nil
	return nil
}

func (b *mongoBatch) commitChunk(ctx context.Context, ops []batchOp) error {
	session, err := b.store.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range ops {
			coll := b.store.db.Collection(op.collection)
			if op.update == nil {
				if _, err := coll.DeleteOne(sc, bson.M{"_id": op.id}); err != nil {
					return nil, err
				}
				continue
			}
			opts := optionsUpdate(op.upsert)
			if _, err := coll.UpdateByID(sc, op.id, op.update, opts); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func optionsUpdate(upsert bool) *options.UpdateOptions {
	return options.Update().SetUpsert(upsert)
}
