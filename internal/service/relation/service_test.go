package relation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository/memory"
	"github.com/caresync/hospital-api/pkg/errors"
)

func newFixture(t *testing.T) (*memory.Store, *Service, context.Context) {
	t.Helper()
	store := memory.NewStore()
	return store, NewService(store), context.Background()
}

func getDoc(t *testing.T, store *memory.Store, collection, id string) model.Document {
	t.Helper()
	doc, err := store.Get(context.Background(), collection, id)
	require.NoError(t, err)
	return doc
}

func TestLinkHospitalAdmin(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"admin": ""}))
	require.NoError(t, store.Insert(ctx, model.CollectionAdmins, "a1", model.Document{"hospital": ""}))

	require.NoError(t, svc.LinkHospitalAdmin(ctx, "h1", "a1"))

	assert.Equal(t, "a1", getDoc(t, store, model.CollectionHospitals, "h1")["admin"])
	assert.Equal(t, "h1", getDoc(t, store, model.CollectionAdmins, "a1")["hospital"])
}

func TestLinkHospitalAdminStealsFromPrevious(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"admin": "a1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h2", model.Document{"admin": ""}))
	require.NoError(t, store.Insert(ctx, model.CollectionAdmins, "a1", model.Document{"hospital": "h1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionAdmins, "a2", model.Document{"hospital": ""}))

	// a1 takes over h2: h1 loses its admin, h2's old state is empty.
	require.NoError(t, svc.LinkHospitalAdmin(ctx, "h2", "a1"))
	assert.Equal(t, "", getDoc(t, store, model.CollectionHospitals, "h1")["admin"])
	assert.Equal(t, "a1", getDoc(t, store, model.CollectionHospitals, "h2")["admin"])
	assert.Equal(t, "h2", getDoc(t, store, model.CollectionAdmins, "a1")["hospital"])

	// a2 takes over h2 from a1.
	require.NoError(t, svc.LinkHospitalAdmin(ctx, "h2", "a2"))
	assert.Equal(t, "a2", getDoc(t, store, model.CollectionHospitals, "h2")["admin"])
	assert.Equal(t, "", getDoc(t, store, model.CollectionAdmins, "a1")["hospital"])
	assert.Equal(t, "h2", getDoc(t, store, model.CollectionAdmins, "a2")["hospital"])
}

func TestLinkHospitalAdminIdempotent(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"admin": "a1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionAdmins, "a1", model.Document{"hospital": "h1"}))

	require.NoError(t, svc.LinkHospitalAdmin(ctx, "h1", "a1"))
	assert.Equal(t, "a1", getDoc(t, store, model.CollectionHospitals, "h1")["admin"])
}

func TestLinkHospitalAdminMissingParty(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{}))

	err := svc.LinkHospitalAdmin(ctx, "h1", "ghost")
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))

	err = svc.LinkHospitalAdmin(ctx, "ghost", "a1")
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
}

func TestUnlinkHospitalAdmin(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"admin": "a1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionAdmins, "a1", model.Document{"hospital": "h1"}))

	require.NoError(t, svc.UnlinkHospitalAdmin(ctx, "h1"))
	assert.Equal(t, "", getDoc(t, store, model.CollectionHospitals, "h1")["admin"])
	assert.Equal(t, "", getDoc(t, store, model.CollectionAdmins, "a1")["hospital"])

	// Unlinking an adminless hospital is a no-op.
	require.NoError(t, svc.UnlinkHospitalAdmin(ctx, "h1"))
}

func TestAddRemoveMember(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"doctors": []string{}}))

	require.NoError(t, svc.AddMember(ctx, "h1", "d1", KindDoctors))
	require.NoError(t, svc.AddMember(ctx, "h1", "d1", KindDoctors))
	assert.Equal(t, []string{"d1"}, model.DocStrings(getDoc(t, store, model.CollectionHospitals, "h1"), "doctors"))

	require.NoError(t, svc.RemoveMember(ctx, "h1", "d1", KindDoctors))
	assert.Empty(t, model.DocStrings(getDoc(t, store, model.CollectionHospitals, "h1"), "doctors"))

	err := svc.AddMember(ctx, "h1", "d1", Kind("nurses"))
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))

	err = svc.AddMember(ctx, "ghost", "d1", KindDoctors)
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
}

func TestMoveMember(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"patients": []string{"p1"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h2", model.Document{"patients": []string{}}))

	require.NoError(t, svc.MoveMember(ctx, "h1", "h2", "p1", KindPatients))
	assert.Empty(t, model.DocStrings(getDoc(t, store, model.CollectionHospitals, "h1"), "patients"))
	assert.Equal(t, []string{"p1"}, model.DocStrings(getDoc(t, store, model.CollectionHospitals, "h2"), "patients"))
}

func TestMoveMemberRejectsAppointments(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{}))
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h2", model.Document{}))

	err := svc.MoveMember(ctx, "h1", "h2", "ap1", KindAppointments)
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
}

func TestMoveMemberMissingHospital(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"patients": []string{"p1"}}))

	err := svc.MoveMember(ctx, "h1", "ghost", "p1", KindPatients)
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
	// Nothing moved.
	assert.Equal(t, []string{"p1"}, model.DocStrings(getDoc(t, store, model.CollectionHospitals, "h1"), "patients"))
}

func TestLinkUnlinkDoctorPatient(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"patients": []string{}}))
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{"doctors": []string{}}))

	require.NoError(t, svc.LinkDoctorPatient(ctx, "d1", "p1"))
	assert.Equal(t, []string{"p1"}, model.DocStrings(getDoc(t, store, model.CollectionDoctors, "d1"), "patients"))
	assert.Equal(t, []string{"d1"}, model.DocStrings(getDoc(t, store, model.CollectionPatients, "p1"), "doctors"))

	require.NoError(t, svc.UnlinkDoctorPatient(ctx, "d1", "p1"))
	assert.Empty(t, model.DocStrings(getDoc(t, store, model.CollectionDoctors, "d1"), "patients"))
	assert.Empty(t, model.DocStrings(getDoc(t, store, model.CollectionPatients, "p1"), "doctors"))
}

func TestLinkDoctorPatientMissingSide(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"patients": []string{}}))

	err := svc.LinkDoctorPatient(ctx, "d1", "ghost")
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
	// The doctor side did not change.
	assert.Empty(t, model.DocStrings(getDoc(t, store, model.CollectionDoctors, "d1"), "patients"))
}

func TestSwitchPatientDoctor(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"patients": []string{"p1"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d2", model.Document{"patients": []string{}}))
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{"doctor": "d1", "doctors": []string{"d1"}}))

	require.NoError(t, svc.SwitchPatientDoctor(ctx, "p1", "d1", "d2"))

	assert.Empty(t, model.DocStrings(getDoc(t, store, model.CollectionDoctors, "d1"), "patients"))
	assert.Equal(t, []string{"p1"}, model.DocStrings(getDoc(t, store, model.CollectionDoctors, "d2"), "patients"))
	patient := getDoc(t, store, model.CollectionPatients, "p1")
	assert.Equal(t, "d2", patient["doctor"])
	assert.Equal(t, []string{"d2"}, model.DocStrings(patient, "doctors"))
}

func TestSwitchPatientDoctorToNone(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"patients": []string{"p1"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{"doctor": "d1", "doctors": []string{"d1"}}))

	require.NoError(t, svc.SwitchPatientDoctor(ctx, "p1", "d1", ""))

	patient := getDoc(t, store, model.CollectionPatients, "p1")
	assert.Equal(t, "", patient["doctor"])
	assert.Empty(t, model.DocStrings(patient, "doctors"))
	assert.Empty(t, model.DocStrings(getDoc(t, store, model.CollectionDoctors, "d1"), "patients"))
}

func TestSwitchPatientDoctorMissingTarget(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"patients": []string{"p1"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{"doctor": "d1", "doctors": []string{"d1"}}))

	err := svc.SwitchPatientDoctor(ctx, "p1", "d1", "ghost")
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
	// Nothing changed on failure.
	assert.Equal(t, "d1", getDoc(t, store, model.CollectionPatients, "p1")["doctor"])
	assert.Equal(t, []string{"p1"}, model.DocStrings(getDoc(t, store, model.CollectionDoctors, "d1"), "patients"))
}
