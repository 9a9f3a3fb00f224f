package model

import "time"

// AuditLog records a core write for later review.
type AuditLog struct {
	ID         string      `json:"id" bson:"_id"`
	ActorID    string      `json:"actorId" bson:"actorId"`
	ActorRole  string      `json:"actorRole" bson:"actorRole"`
	Action     string      `json:"action" bson:"action"`
	Collection string      `json:"collection" bson:"collection"`
	EntityID   string      `json:"entityId" bson:"entityId"`
	Changes    interface{} `json:"changes,omitempty" bson:"changes,omitempty"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt"`
}

type ReconciliationStatus string

const (
	ReconciliationPending ReconciliationStatus = "pending"
	ReconciliationDone    ReconciliationStatus = "done"
	ReconciliationFailed  ReconciliationStatus = "failed"
)

// Reconciliation task kinds. Each names a best-effort cascade side-step that
// failed and must be replayed by the worker.
const (
	ReconcileHospitalArrayCleanup = "hospital_array_cleanup"
)

// ReconciliationTask is a deferred repair of a best-effort cascade step.
type ReconciliationTask struct {
	ID         string               `json:"id" bson:"_id"`
	Kind       string               `json:"kind" bson:"kind"`
	Collection string               `json:"collection" bson:"collection"`
	EntityID   string               `json:"entityId" bson:"entityId"`
	Field      string               `json:"field" bson:"field"`
	Remove     []string             `json:"remove,omitempty" bson:"remove,omitempty"`
	Status     ReconciliationStatus `json:"status" bson:"status"`
	Attempts   int                  `json:"attempts" bson:"attempts"`
	LastError  string               `json:"lastError,omitempty" bson:"lastError,omitempty"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updatedAt"`
}
