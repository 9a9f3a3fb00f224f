package patient

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
	idsvc := identity.NewService(store)
	rel := relation.NewService(store)
	casc := cascade.NewService(store, rel, memory.NewReconciliationRepository(), log)
	hasher := security.NewBcryptHasher(4)
	engine := entity.NewService(store, idsvc, rel, casc, hasher,
		audit.NewService(memory.NewAuditRepository(), log))
	return store, NewService(engine, idsvc, rel, casc, hasher), context.Background()
}

func registerRequest() *model.RegisterPatientRequest {
	return &model.RegisterPatientRequest{
		PersID:       "PAT-1",
		Password:     "s3cret-pass",
		Name:         "Pat Patient",
		Email:        "pat@x.com",
		MobileNumber: "555-0001",
		BirthDate:    "1990-01-01",
		Hospital:     "h1",
	}
}

func TestRegister(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"patients": []string{}}))

	doc, err := svc.Register(ctx, registerRequest(), adminUser)
	require.NoError(t, err)
	assert.NotContains(t, doc, "password")

	id := model.DocString(doc, "_id")
	stored, err := store.Get(ctx, model.CollectionPatients, id)
	require.NoError(t, err)
	assert.Equal(t, string(model.PatientStatusActive), stored["status"])
	assert.Equal(t, "", stored["doctor"])

	hospital, err := store.Get(ctx, model.CollectionHospitals, "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, model.DocStrings(hospital, "patients"))
}

func TestRegisterWithPrimaryDoctor(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"patients": []string{}}))
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"patients": []string{}}))

	req := registerRequest()
	req.Doctor = "d1"
	doc, err := svc.Register(ctx, req, adminUser)
	require.NoError(t, err)

	id := model.DocString(doc, "_id")
	doctor, err := store.Get(ctx, model.CollectionDoctors, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, model.DocStrings(doctor, "patients"))

	stored, err := store.Get(ctx, model.CollectionPatients, id)
	require.NoError(t, err)
	assert.Equal(t, "d1", stored["doctor"])
	assert.Equal(t, []string{"d1"}, model.DocStrings(stored, "doctors"))
}

func TestRegisterUnknownHospital(t *testing.T) {
	store, svc, ctx := newService(t)
	_, err := svc.Register(ctx, registerRequest(), adminUser)
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))

	patients, err := store.FindAll(ctx, model.CollectionPatients)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestRegisterUnknownPrimaryDoctor(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"patients": []string{}}))

	req := registerRequest()
	req.Doctor = "ghost"
	_, err := svc.Register(ctx, req, adminUser)
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))

	// Nothing persisted, nothing added to the hospital's patients array.
	patients, err := store.FindAll(ctx, model.CollectionPatients)
	require.NoError(t, err)
	assert.Empty(t, patients)
	hospital, err := store.Get(ctx, model.CollectionHospitals, "h1")
	require.NoError(t, err)
	assert.Empty(t, model.DocStrings(hospital, "patients"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{}))
	require.NoError(t, store.Insert(ctx, model.CollectionAdmins, "a2", model.Document{"email": "pat@x.com"}))

	_, err := svc.Register(ctx, registerRequest(), adminUser)
	assert.Equal(t, errors.ErrConflict, errors.CodeOf(err))
}

func TestDeleteCascades(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"patients": []string{"p1"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{
		"hospital": "h1", "doctors": []string{},
	}))

	err := svc.Delete(ctx, "p1", model.Requester{ID: "p1", Role: model.RolePatient})
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))

	require.NoError(t, svc.Delete(ctx, "p1", adminUser))
	_, err = store.Get(ctx, model.CollectionPatients, "p1")
	assert.Error(t, err)
	hospital, err := store.Get(ctx, model.CollectionHospitals, "h1")
	require.NoError(t, err)
	assert.Empty(t, model.DocStrings(hospital, "patients"))
}
