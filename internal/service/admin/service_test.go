package admin

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

var superadmin = model.Requester{ID: "sa1", Role: model.RoleSuperAdmin}

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

func registerRequest() *model.RegisterAdminRequest {
	return &model.RegisterAdminRequest{
		PersID:       "ADM-1",
		Password:     "s3cret-pass",
		Name:         "Alex Admin",
		Email:        "alex@x.com",
		MobileNumber: "555-0001",
	}
}

func TestRegisterSuperAdminOnly(t *testing.T) {
	_, svc, ctx := newService(t)
	_, err := svc.Register(ctx, registerRequest(), model.Requester{ID: "a0", Role: model.RoleAdmin})
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))
}

func TestRegister(t *testing.T) {
	store, svc, ctx := newService(t)

	doc, err := svc.Register(ctx, registerRequest(), superadmin)
	require.NoError(t, err)
	assert.NotContains(t, doc, "password")

	id := model.DocString(doc, "_id")
	stored, err := store.Get(ctx, model.CollectionAdmins, id)
	require.NoError(t, err)
	assert.Equal(t, "alex@x.com", stored["email"])
	assert.NotEqual(t, "s3cret-pass", stored["password"])
}

func TestRegisterWithHospitalLinks(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"admin": ""}))

	req := registerRequest()
	req.Hospital = "h1"
	doc, err := svc.Register(ctx, req, superadmin)
	require.NoError(t, err)

	id := model.DocString(doc, "_id")
	hospital, err := store.Get(ctx, model.CollectionHospitals, "h1")
	require.NoError(t, err)
	assert.Equal(t, id, hospital["admin"])

	stored, err := store.Get(ctx, model.CollectionAdmins, id)
	require.NoError(t, err)
	assert.Equal(t, "h1", stored["hospital"])
}

func TestRegisterUnknownHospital(t *testing.T) {
	store, svc, ctx := newService(t)

	req := registerRequest()
	req.Hospital = "ghost"
	_, err := svc.Register(ctx, req, superadmin)
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))

	// Rejected before the insert: no admin with a dangling hospital ref.
	admins, err := store.FindAll(ctx, model.CollectionAdmins)
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestRegisterDuplicatePersID(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"persId": "ADM-1"}))

	_, err := svc.Register(ctx, registerRequest(), superadmin)
	assert.Equal(t, errors.ErrConflict, errors.CodeOf(err))
}

func TestDeleteSuperAdminOnly(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"admin": "a1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionAdmins, "a1", model.Document{"hospital": "h1"}))

	err := svc.Delete(ctx, "a1", model.Requester{ID: "a1", Role: model.RoleAdmin})
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))

	require.NoError(t, svc.Delete(ctx, "a1", superadmin))
	hospital, err := store.Get(ctx, model.CollectionHospitals, "h1")
	require.NoError(t, err)
	assert.Equal(t, "", hospital["admin"])
}
