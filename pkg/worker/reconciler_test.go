package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository/memory"
	"github.com/caresync/hospital-api/pkg/logger"
	"github.com/caresync/hospital-api/pkg/messaging"
	"github.com/caresync/hospital-api/pkg/metrics"
)

// Registered once; promauto panics on duplicate collectors.
var testMetrics = metrics.NewMetrics("hospital", "workertest")

type recordingBroker struct {
	published []messaging.Message
}

func (b *recordingBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if msg, ok := message.(messaging.Message); ok {
		b.published = append(b.published, msg)
	}
	return nil
}

func (b *recordingBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *recordingBroker) Close() error { return nil }

func testConfig() ReconcilerConfig {
	return ReconcilerConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}
}

func TestNewReconcilerValidatesConfig(t *testing.T) {
	repo := memory.NewReconciliationRepository()
	store := memory.NewStore()
	broker := &recordingBroker{}
	log := logger.NewLogger(nil)

	assert.Panics(t, func() {
		NewReconciler(repo, store, broker, ReconcilerConfig{}, log, testMetrics)
	})
}

func TestProcessTasksAppliesCleanup(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewReconciliationRepository()
	store := memory.NewStore()
	broker := &recordingBroker{}
	r := NewReconciler(repo, store, broker, testConfig(), logger.NewLogger(nil), testMetrics)

	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{
		"doctors": []string{"d1", "d2"},
	}))
	require.NoError(t, repo.Enqueue(ctx, &model.ReconciliationTask{
		ID:         "task1",
		Kind:       model.ReconcileHospitalArrayCleanup,
		Collection: model.CollectionHospitals,
		EntityID:   "h1",
		Field:      "doctors",
		Remove:     []string{"d1"},
	}))

	require.NoError(t, r.processTasks(ctx))

	doc, err := store.Get(ctx, model.CollectionHospitals, "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d2"}, model.DocStrings(doc, "doctors"))

	require.Len(t, repo.Tasks, 1)
	assert.Equal(t, model.ReconciliationDone, repo.Tasks[0].Status)

	require.Len(t, broker.published, 1)
	assert.Equal(t, model.ReconcileHospitalArrayCleanup, broker.published[0].Type)
}

func TestProcessTasksMarksUnknownKindFailed(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewReconciliationRepository()
	store := memory.NewStore()
	broker := &recordingBroker{}
	r := NewReconciler(repo, store, broker, testConfig(), logger.NewLogger(nil), testMetrics)

	require.NoError(t, repo.Enqueue(ctx, &model.ReconciliationTask{
		ID:   "task1",
		Kind: "mystery",
	}))

	require.NoError(t, r.processTasks(ctx))

	require.Len(t, repo.Tasks, 1)
	assert.Equal(t, model.ReconciliationFailed, repo.Tasks[0].Status)
	assert.NotEmpty(t, repo.Tasks[0].LastError)
	assert.Empty(t, broker.published)
}
