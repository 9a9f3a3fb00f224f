package hospital

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
	engine := entity.NewService(store, idsvc, rel, casc,
		security.NewBcryptHasher(4), audit.NewService(memory.NewAuditRepository(), log))
	return store, NewService(engine, idsvc, casc), context.Background()
}

func createRequest() *model.CreateHospitalRequest {
	return &model.CreateHospitalRequest{
		Name:          "Central Hospital",
		Address:       "1 Main St",
		MobileNumbers: []string{"555-0100"},
		Emails:        []string{"front@central.com"},
	}
}

func TestRegister(t *testing.T) {
	store, svc, ctx := newService(t)

	doc, err := svc.Register(ctx, createRequest(), superadmin)
	require.NoError(t, err)

	id := model.DocString(doc, "_id")
	stored, err := store.Get(ctx, model.CollectionHospitals, id)
	require.NoError(t, err)
	assert.Equal(t, "Central Hospital", stored["name"])
	assert.NotNil(t, stored["doctors"])
	assert.NotNil(t, stored["patients"])
}

func TestRegisterContactConflicts(t *testing.T) {
	store, svc, ctx := newService(t)

	// A doctor already holds this email.
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"email": "front@central.com"}))
	_, err := svc.Register(ctx, createRequest(), superadmin)
	assert.Equal(t, errors.ErrConflict, errors.CodeOf(err))

	// Another hospital already lists this number.
	require.NoError(t, store.Delete(ctx, model.CollectionDoctors, "d1"))
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h0", model.Document{
		"mobileNumbers": []string{"555-0100"},
	}))
	_, err = svc.Register(ctx, createRequest(), superadmin)
	assert.Equal(t, errors.ErrConflict, errors.CodeOf(err))
}

func TestDeleteSuperAdminOnly(t *testing.T) {
	store, svc, ctx := newService(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{}))

	err := svc.Delete(ctx, "h1", model.Requester{ID: "a1", Role: model.RoleAdmin})
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))

	require.NoError(t, svc.Delete(ctx, "h1", superadmin))
	_, err = store.Get(ctx, model.CollectionHospitals, "h1")
	assert.Error(t, err)
}
