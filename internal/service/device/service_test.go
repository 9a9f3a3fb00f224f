package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository/memory"
	"github.com/caresync/hospital-api/internal/service/audit"
	"github.com/caresync/hospital-api/internal/service/cascade"
	"github.com/caresync/hospital-api/internal/service/entity"
	"github.com/caresync/hospital-api/internal/service/identity"
	"github.com/caresync/hospital-api/internal/service/relation"
	"github.com/caresync/hospital-api/pkg/errors"
	"github.com/caresync/hospital-api/pkg/logger"
	"github.com/caresync/hospital-api/pkg/security"
)

var adminUser = model.Requester{ID: "a1", Role: model.RoleAdmin}

func newService(t *testing.T) (*memory.Store, *Service, context.Context) {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewLogger(nil)
	rel := relation.NewService(store)
	casc := cascade.NewService(store, rel, memory.NewReconciliationRepository(), log)
	engine := entity.NewService(store, identity.NewService(store), rel, casc,
		security.NewBcryptHasher(4), audit.NewService(memory.NewAuditRepository(), log))
	return store, NewService(store, engine), context.Background()
}

func TestRegisterDefaultsToStandby(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{}))

	doc, err := svc.Register(ctx, &model.RegisterDeviceRequest{
		DeviceCode: "MON-001", Hospital: "h1",
	}, adminUser)
	require.NoError(t, err)
	assert.Equal(t, string(model.DeviceStatusStandby), doc["status"])
	assert.Equal(t, "h1", doc["hospital"])
}

func TestRegisterUnknownHospital(t *testing.T) {
	_, svc, ctx := newService(t)
	_, err := svc.Register(ctx, &model.RegisterDeviceRequest{
		DeviceCode: "MON-001", Hospital: "ghost",
	}, adminUser)
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
}

func TestAssignAndUnassign(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{}))
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{"hospital": "h1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionDevices, "dev1", model.Document{
		"hospital": "h1", "status": string(model.DeviceStatusStandby),
	}))

	require.NoError(t, svc.Assign(ctx, "dev1", "p1", adminUser))
	doc, err := store.Get(ctx, model.CollectionDevices, "dev1")
	require.NoError(t, err)
	assert.Equal(t, "p1", doc["patient"])
	assert.Equal(t, string(model.DeviceStatusOperational), doc["status"])

	// Reassigning to the same patient is fine.
	require.NoError(t, svc.Assign(ctx, "dev1", "p1", adminUser))

	require.NoError(t, svc.Unassign(ctx, "dev1", adminUser))
	doc, err = store.Get(ctx, model.CollectionDevices, "dev1")
	require.NoError(t, err)
	assert.Equal(t, "", doc["patient"])
	assert.Equal(t, string(model.DeviceStatusStandby), doc["status"])
}

func TestAssignHospitalMismatch(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{"hospital": "h2"}))
	require.NoError(t, store.Insert(ctx, model.CollectionDevices, "dev1", model.Document{"hospital": "h1"}))

	err := svc.Assign(ctx, "dev1", "p1", adminUser)
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
}

func TestAssignStealsFromPreviousPatient(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p2", model.Document{"hospital": "h1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionDevices, "dev1", model.Document{
		"hospital": "h1", "patient": "p1", "status": string(model.DeviceStatusOperational),
	}))

	require.NoError(t, svc.Assign(ctx, "dev1", "p2", adminUser))
	doc, err := store.Get(ctx, model.CollectionDevices, "dev1")
	require.NoError(t, err)
	assert.Equal(t, "p2", doc["patient"])
}

func TestAssignReleasesOtherDevice(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{"hospital": "h1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionDevices, "dev1", model.Document{
		"hospital": "h1", "patient": "p1", "status": string(model.DeviceStatusOperational),
	}))
	require.NoError(t, store.Insert(ctx, model.CollectionDevices, "dev2", model.Document{
		"hospital": "h1", "status": string(model.DeviceStatusStandby),
	}))

	require.NoError(t, svc.Assign(ctx, "dev2", "p1", adminUser))

	dev2, err := store.Get(ctx, model.CollectionDevices, "dev2")
	require.NoError(t, err)
	assert.Equal(t, "p1", dev2["patient"])
	assert.Equal(t, string(model.DeviceStatusOperational), dev2["status"])

	// The device that held the patient before goes back to standby.
	dev1, err := store.Get(ctx, model.CollectionDevices, "dev1")
	require.NoError(t, err)
	assert.Equal(t, "", dev1["patient"])
	assert.Equal(t, string(model.DeviceStatusStandby), dev1["status"])
}

func TestDeleteRequiresStaffRole(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionDevices, "dev1", model.Document{}))

	err := svc.Delete(ctx, "dev1", model.Requester{ID: "p1", Role: model.RolePatient})
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))

	require.NoError(t, svc.Delete(ctx, "dev1", adminUser))
	err = svc.Delete(ctx, "dev1", adminUser)
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
}
