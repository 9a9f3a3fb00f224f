package memory

import (
	"context"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
)

type memOp struct {
	kind       string // set, update, addToSet, pull, delete
	collection string
	id         string
	doc        model.Document
	field      string
	values     []string
}

// memBatch applies all recorded operations under one lock acquisition, so a
// committed batch is never observed half-applied.
type memBatch struct {
	store *Store
	ops   []memOp
}

func (s *Store) Batch() repository.Batch {
	return &memBatch{store: s}
}

func (b *memBatch) Set(collection, id string, doc model.Document) {
	b.ops = append(b.ops, memOp{kind: "set", collection: collection, id: id, doc: copyDoc(doc)})
}

func (b *memBatch) Update(collection, id string, fields model.Document) {
	b.ops = append(b.ops, memOp{kind: "update", collection: collection, id: id, doc: copyDoc(fields)})
}

func (b *memBatch) AddToSet(collection, id, field string, values ...string) {
	b.ops = append(b.ops, memOp{kind: "addToSet", collection: collection, id: id, field: field, values: values})
}

func (b *memBatch) Pull(collection, id, field string, values ...string) {
	b.ops = append(b.ops, memOp{kind: "pull", collection: collection, id: id, field: field, values: values})
}

func (b *memBatch) Delete(collection, id string) {
	b.ops = append(b.ops, memOp{kind: "delete", collection: collection, id: id})
}

func (b *memBatch) Len() int {
	return len(b.ops)
}

func (b *memBatch) Commit(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	for _, op := range b.ops {
		switch op.kind {
		case "set":
			stored := copyDoc(op.doc)
			stored["_id"] = op.id
			b.store.coll(op.collection)[op.id] = stored
		case "update":
			// Mirrors the production store: an update matching no document
			// inside a batch is a no-op, not a failure.
			_ = applyUpdate(b.store.data, op.collection, op.id, op.doc)
		case "addToSet":
			applyAddToSet(b.store.data, op.collection, op.id, op.field, op.values)
		case "pull":
			applyPull(b.store.data, op.collection, op.id, op.field, op.values)
		case "delete":
			delete(b.store.data[op.collection], op.id)
		}
	}
	b.ops = nil
	return nil
}
