package ticket

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
	"github.com/caresync/hospital-api/internal/service/visibility"
	"github.com/caresync/hospital-api/pkg/errors"
	"github.com/caresync/hospital-api/pkg/logger"
	"github.com/caresync/hospital-api/pkg/security"
)

var (
	superadmin = model.Requester{ID: "sa1", Role: model.RoleSuperAdmin}
	adminUser  = model.Requester{ID: "a1", Role: model.RoleAdmin}
	patient    = model.Requester{ID: "p1", Role: model.RolePatient}
	doctor     = model.Requester{ID: "d1", Role: model.RoleDoctor}
)

func newService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewLogger(nil)
	rel := relation.NewService(store)
	casc := cascade.NewService(store, rel, memory.NewReconciliationRepository(), log)
	engine := entity.NewService(store, identity.NewService(store), rel, casc,
		security.NewBcryptHasher(4), audit.NewService(memory.NewAuditRepository(), log))
	return NewService(store, engine), context.Background()
}

func TestCreateDefaultsVisibility(t *testing.T) {
	svc, ctx := newService(t)

	doc, err := svc.Create(ctx, &model.CreateTicketRequest{Issue: "cannot log in"}, patient)
	require.NoError(t, err)

	assert.Equal(t, "p1", doc["user"])
	assert.Equal(t, string(model.TicketStatusOpen), doc["status"])
	assert.ElementsMatch(t, []string{"admin", "superadmin"}, model.DocStrings(doc, "visibleTo"))
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc, ctx := newService(t)
	_, err := svc.Create(ctx, &model.CreateTicketRequest{
		Issue:     "broken screen",
		VisibleTo: []string{"admin", "janitor"},
	}, patient)
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
}

func TestGetVisibility(t *testing.T) {
	svc, ctx := newService(t)

	doc, err := svc.Create(ctx, &model.CreateTicketRequest{Issue: "billing question"}, patient)
	require.NoError(t, err)
	id := model.DocString(doc, "_id")

	// Owner, listed roles and superadmins see it.
	for _, r := range []model.Requester{patient, adminUser, superadmin} {
		_, err := svc.Get(ctx, id, r, visibility.ModeUnsuspended)
		assert.NoError(t, err, string(r.Role))
	}

	// A doctor is neither owner nor in visibleTo.
	_, err = svc.Get(ctx, id, doctor, visibility.ModeUnsuspended)
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))

	// Another patient cannot read someone else's ticket.
	_, err = svc.Get(ctx, id, model.Requester{ID: "p2", Role: model.RolePatient}, visibility.ModeUnsuspended)
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))
}

func TestListNarrowsByVisibility(t *testing.T) {
	svc, ctx := newService(t)

	_, err := svc.Create(ctx, &model.CreateTicketRequest{Issue: "mine"}, patient)
	require.NoError(t, err)
	_, err = svc.Create(ctx, &model.CreateTicketRequest{
		Issue: "staff only", VisibleTo: []string{"admin"},
	}, doctor)
	require.NoError(t, err)

	all, err := svc.List(ctx, superadmin, visibility.ModeAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.List(ctx, patient, visibility.ModeUnsuspended)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0]["issue"])

	staff, err := svc.List(ctx, adminUser, visibility.ModeUnsuspended)
	require.NoError(t, err)
	assert.Len(t, staff, 2)
}

func TestDeleteRequiresStaffRole(t *testing.T) {
	svc, ctx := newService(t)

	doc, err := svc.Create(ctx, &model.CreateTicketRequest{Issue: "stale"}, patient)
	require.NoError(t, err)
	id := model.DocString(doc, "_id")

	err = svc.Delete(ctx, id, patient)
	assert.Equal(t, errors.ErrForbidden, errors.CodeOf(err))

	require.NoError(t, svc.Delete(ctx, id, adminUser))

	err = svc.Delete(ctx, id, superadmin)
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
}
