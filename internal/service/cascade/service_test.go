package cascade

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/internal/repository/memory"
	"github.com/caresync/hospital-api/internal/service/relation"
	"github.com/caresync/hospital-api/pkg/errors"
	"github.com/caresync/hospital-api/pkg/logger"
)

func newFixture(t *testing.T) (*memory.Store, *Service, context.Context) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store, relation.NewService(store), memory.NewReconciliationRepository(), logger.NewLogger(nil))
	return store, svc, context.Background()
}

func mustGet(t *testing.T, store *memory.Store, collection, id string) model.Document {
	t.Helper()
	doc, err := store.Get(context.Background(), collection, id)
	require.NoError(t, err)
	return doc
}

func assertGone(t *testing.T, store *memory.Store, collection, id string) {
	t.Helper()
	_, err := store.Get(context.Background(), collection, id)
	assert.ErrorIs(t, err, repository.ErrNotFound, collection+"/"+id)
}

func TestDeleteHospitalCascades(t *testing.T) {
	store, svc, ctx := newFixture(t)

	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{
		"admin": "a1", "doctors": []string{"d1"}, "patients": []string{"p1"},
	}))
	require.NoError(t, store.Insert(ctx, model.CollectionAdmins, "a1", model.Document{"hospital": "h1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"hospital": "h1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{"hospital": "h1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionDevices, "dev1", model.Document{"hospital": "h1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionAppointments, "ap1", model.Document{"doctor": "d1", "patient": "p1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionTests, "t1", model.Document{"doctor": "d1", "patient": "p1"}))

	// An unrelated hospital and its staff survive.
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h2", model.Document{}))
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d2", model.Document{"hospital": "h2"}))

	require.NoError(t, svc.DeleteHospital(ctx, "h1"))

	assertGone(t, store, model.CollectionHospitals, "h1")
	assertGone(t, store, model.CollectionAdmins, "a1")
	assertGone(t, store, model.CollectionDoctors, "d1")
	assertGone(t, store, model.CollectionPatients, "p1")
	assertGone(t, store, model.CollectionDevices, "dev1")
	assertGone(t, store, model.CollectionAppointments, "ap1")
	assertGone(t, store, model.CollectionTests, "t1")

	mustGet(t, store, model.CollectionHospitals, "h2")
	mustGet(t, store, model.CollectionDoctors, "d2")
}

func TestDeleteHospitalNotFound(t *testing.T) {
	_, svc, ctx := newFixture(t)
	err := svc.DeleteHospital(ctx, "ghost")
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
}

func TestDeleteDoctorReleasesPatients(t *testing.T) {
	store, svc, ctx := newFixture(t)

	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"doctors": []string{"d1"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{
		"hospital": "h1", "patients": []string{"p1", "p2"},
	}))
	// p1 has d1 as primary doctor; p2 only carries the array reference.
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{
		"doctor": "d1", "doctors": []string{"d1", "d2"},
	}))
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p2", model.Document{
		"doctor": "d2", "doctors": []string{"d1", "d2"},
	}))
	require.NoError(t, store.Insert(ctx, model.CollectionAppointments, "ap1", model.Document{"doctor": "d1", "patient": "p1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionTests, "t1", model.Document{"doctor": "d1", "patient": "p2"}))

	require.NoError(t, svc.DeleteDoctor(ctx, "d1"))

	assertGone(t, store, model.CollectionDoctors, "d1")
	assertGone(t, store, model.CollectionAppointments, "ap1")
	assertGone(t, store, model.CollectionTests, "t1")

	p1 := mustGet(t, store, model.CollectionPatients, "p1")
	assert.Equal(t, "", p1["doctor"])
	assert.Equal(t, []string{"d2"}, model.DocStrings(p1, "doctors"))

	p2 := mustGet(t, store, model.CollectionPatients, "p2")
	assert.Equal(t, "d2", p2["doctor"])
	assert.Equal(t, []string{"d2"}, model.DocStrings(p2, "doctors"))

	hospital := mustGet(t, store, model.CollectionHospitals, "h1")
	assert.Empty(t, model.DocStrings(hospital, "doctors"))
}

func TestDeletePatientDetachesEverything(t *testing.T) {
	store, svc, ctx := newFixture(t)

	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"patients": []string{"p1"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"patients": []string{"p1", "p9"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{
		"hospital": "h1", "doctor": "d1", "doctors": []string{"d1"},
	}))
	require.NoError(t, store.Insert(ctx, model.CollectionDevices, "dev1", model.Document{
		"hospital": "h1", "patient": "p1", "status": "operational",
	}))
	require.NoError(t, store.Insert(ctx, model.CollectionAppointments, "ap1", model.Document{"doctor": "d1", "patient": "p1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionTests, "t1", model.Document{"doctor": "d1", "patient": "p1"}))

	require.NoError(t, svc.DeletePatient(ctx, "p1"))

	assertGone(t, store, model.CollectionPatients, "p1")
	assertGone(t, store, model.CollectionAppointments, "ap1")
	assertGone(t, store, model.CollectionTests, "t1")

	doctor := mustGet(t, store, model.CollectionDoctors, "d1")
	assert.Equal(t, []string{"p9"}, model.DocStrings(doctor, "patients"))

	device := mustGet(t, store, model.CollectionDevices, "dev1")
	assert.Equal(t, "", device["patient"])

	hospital := mustGet(t, store, model.CollectionHospitals, "h1")
	assert.Empty(t, model.DocStrings(hospital, "patients"))
}

func TestDeleteAdminClearsHospital(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"admin": "a1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionAdmins, "a1", model.Document{"hospital": "h1"}))

	require.NoError(t, svc.DeleteAdmin(ctx, "a1"))
	assertGone(t, store, model.CollectionAdmins, "a1")
	assert.Equal(t, "", mustGet(t, store, model.CollectionHospitals, "h1")["admin"])
}

func TestReassignDoctorHospital(t *testing.T) {
	store, svc, ctx := newFixture(t)

	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"doctors": []string{"d1"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h2", model.Document{"doctors": []string{}}))
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"hospital": "h1"}))

	future := time.Now().UTC().Add(48 * time.Hour)
	past := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, store.Insert(ctx, model.CollectionAppointments, "ap-future", model.Document{
		"doctor": "d1", "status": string(model.AppointmentStatusScheduled), "appointmentDate": future,
	}))
	require.NoError(t, store.Insert(ctx, model.CollectionAppointments, "ap-past", model.Document{
		"doctor": "d1", "status": string(model.AppointmentStatusScheduled), "appointmentDate": past,
	}))
	require.NoError(t, store.Insert(ctx, model.CollectionAppointments, "ap-done", model.Document{
		"doctor": "d1", "status": string(model.AppointmentStatusCompleted), "appointmentDate": future,
	}))

	require.NoError(t, svc.ReassignDoctorHospital(ctx, "d1", "h2"))

	assert.Equal(t, "h2", mustGet(t, store, model.CollectionDoctors, "d1")["hospital"])
	assert.Empty(t, model.DocStrings(mustGet(t, store, model.CollectionHospitals, "h1"), "doctors"))
	assert.Equal(t, []string{"d1"}, model.DocStrings(mustGet(t, store, model.CollectionHospitals, "h2"), "doctors"))

	// Only the future scheduled appointment is cancelled.
	assert.Equal(t, string(model.AppointmentStatusCancelled), mustGet(t, store, model.CollectionAppointments, "ap-future")["status"])
	assert.Equal(t, string(model.AppointmentStatusScheduled), mustGet(t, store, model.CollectionAppointments, "ap-past")["status"])
	assert.Equal(t, string(model.AppointmentStatusCompleted), mustGet(t, store, model.CollectionAppointments, "ap-done")["status"])
}

func TestReassignDoctorHospitalSameHospital(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"doctors": []string{"d1"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"hospital": "h1"}))

	require.NoError(t, svc.ReassignDoctorHospital(ctx, "d1", "h1"))
	assert.Equal(t, []string{"d1"}, model.DocStrings(mustGet(t, store, model.CollectionHospitals, "h1"), "doctors"))
}

func TestReassignDoctorHospitalMissingTarget(t *testing.T) {
	store, svc, ctx := newFixture(t)
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"doctors": []string{"d1"}}))
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"hospital": "h1"}))
	require.NoError(t, store.Insert(ctx, model.CollectionAppointments, "ap1", model.Document{
		"doctor": "d1", "status": string(model.AppointmentStatusScheduled),
		"appointmentDate": time.Now().UTC().Add(48 * time.Hour),
	}))

	err := svc.ReassignDoctorHospital(ctx, "d1", "ghost")
	assert.Equal(t, errors.ErrNotFound, errors.CodeOf(err))
	// The doctor stays where they were and no appointment was cancelled.
	assert.Equal(t, "h1", mustGet(t, store, model.CollectionDoctors, "d1")["hospital"])
	assert.Equal(t, []string{"d1"}, model.DocStrings(mustGet(t, store, model.CollectionHospitals, "h1"), "doctors"))
	assert.Equal(t, string(model.AppointmentStatusScheduled), mustGet(t, store, model.CollectionAppointments, "ap1")["status"])
}
