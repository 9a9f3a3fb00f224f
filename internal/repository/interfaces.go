// Package repository defines the document-store capability surface the
// services depend on. Implementations: mongodb (production) and memory
// (tests). Services receive these interfaces, never a concrete client.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/caresync/hospital-api/internal/model"
)

// ErrNotFound is returned by Get when no document carries the given ID.
var ErrNotFound = errors.New("document not found")

const (
	// MaxQueryValues bounds the number of values one disjunctive
	// (field IN values) query may carry. Callers chunk larger sets.
	MaxQueryValues = 10

	// MaxBatchOps bounds the number of writes per atomic batch. Commit
	// splits larger batches into sequential chunks.
	MaxBatchOps = 500
)

// Store is the document store: per-collection reads, single-document
// writes, disjunctive equality and array-containment queries, atomic
// multi-document batches and optimistic-retry transactions.
type Store interface {
	Get(ctx context.Context, collection, id string) (model.Document, error)
	Insert(ctx context.Context, collection, id string, doc model.Document) error
	Update(ctx context.Context, collection, id string, fields model.Document) error
	Delete(ctx context.Context, collection, id string) error

	// FindEquals matches documents whose scalar field equals any of the
	// values. len(values) must not exceed MaxQueryValues.
	FindEquals(ctx context.Context, collection, field string, values []string) ([]model.Document, error)
	// FindArrayContains matches documents whose array-valued field contains
	// any of the values. len(values) must not exceed MaxQueryValues.
	FindArrayContains(ctx context.Context, collection, field string, values []string) ([]model.Document, error)
	FindAll(ctx context.Context, collection string) ([]model.Document, error)

	Batch() Batch
	// Txn runs fn in a read-then-write transaction, retrying on write
	// conflicts between concurrent transactions on the same documents.
	Txn(ctx context.Context, fn func(tx Tx) error) error
}

// Batch accumulates writes applied together as an atomic unit on Commit.
type Batch interface {
	Set(collection, id string, doc model.Document)
	Update(collection, id string, fields model.Document)
	AddToSet(collection, id, field string, values ...string)
	Pull(collection, id, field string, values ...string)
	Delete(collection, id string)
	Len() int
	Commit(ctx context.Context) error
}

// Tx is the view available inside a transaction.
type Tx interface {
	Get(collection, id string) (model.Document, error)
	Update(collection, id string, fields model.Document) error
	AddToSet(collection, id, field string, values ...string) error
	Pull(collection, id, field string, values ...string) error
}

// AuditRepository persists core write records.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, collection string, since time.Time) ([]*model.AuditLog, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TokenRepository stores short-lived password-reset tokens.
type TokenRepository interface {
	StoreResetToken(ctx context.Context, userID string, role model.Role, token string, ttl time.Duration) error
	ValidateResetToken(ctx context.Context, token string) (userID string, role model.Role, err error)
	InvalidateResetToken(ctx context.Context, token string) error
}

// ReconciliationRepository is the outbox of failed best-effort cascade
// steps, drained by the worker.
type ReconciliationRepository interface {
	Enqueue(ctx context.Context, task *model.ReconciliationTask) error
	Pending(ctx context.Context, limit int) ([]*model.ReconciliationTask, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}
