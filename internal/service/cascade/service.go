// Package cascade implements the multi-collection delete and reassignment
// workflows. Primary changes go through atomic batches; the trailing
// hospital-array cleanups are best-effort and fall back to the
// reconciliation queue when they fail.
package cascade

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/internal/service/relation"
	"github.com/caresync/hospital-api/pkg/errors"
	"github.com/caresync/hospital-api/pkg/logger"
)

type Service struct {
	store    repository.Store
	relation *relation.Service
	recon    repository.ReconciliationRepository
	logger   *logger.Logger
}

func NewService(store repository.Store, rel *relation.Service, recon repository.ReconciliationRepository, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		relation: rel,
		recon:    recon,
		logger:   log,
	}
}

// DeleteHospital deletes the hospital and everything affiliated with it:
// admins, doctors and patients whose hospital field references it, plus
// every appointment and test referencing those doctors or patients. All
// deletions go into one batch (chunked by the store's per-batch limit).
func (s *Service) DeleteHospital(ctx context.Context, id string) error {
	const op = "cascade-deleteHospital"

	if _, err := s.getDoc(ctx, model.CollectionHospitals, id, "hospital", op); err != nil {
		return err
	}

	adminIDs, err := s.idsReferencing(ctx, model.CollectionAdmins, "hospital", []string{id})
	if err != nil {
		return errors.Internal(err).WithOp(op)
	}
	doctorIDs, err := s.idsReferencing(ctx, model.CollectionDoctors, "hospital", []string{id})
	if err != nil {
		return errors.Internal(err).WithOp(op)
	}
	patientIDs, err := s.idsReferencing(ctx, model.CollectionPatients, "hospital", []string{id})
	if err != nil {
		return errors.Internal(err).WithOp(op)
	}
	deviceIDs, err := s.idsReferencing(ctx, model.CollectionDevices, "hospital", []string{id})
	if err != nil {
		return errors.Internal(err).WithOp(op)
	}

	dependents, err := s.dependentRecords(ctx, doctorIDs, patientIDs)
	if err != nil {
		return errors.Internal(err).WithOp(op)
	}

	batch := s.store.Batch()
	for _, adminID := range adminIDs {
		batch.Delete(model.CollectionAdmins, adminID)
	}
	for _, doctorID := range doctorIDs {
		batch.Delete(model.CollectionDoctors, doctorID)
	}
	for _, patientID := range patientIDs {
		batch.Delete(model.CollectionPatients, patientID)
	}
	for _, deviceID := range deviceIDs {
		batch.Delete(model.CollectionDevices, deviceID)
	}
	for collection, ids := range dependents {
		for _, depID := range ids {
			batch.Delete(collection, depID)
		}
	}
	batch.Delete(model.CollectionHospitals, id)

	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp(op)
	}
	s.logger.Info("hospital cascade delete complete", "hospital", id,
		"admins", len(adminIDs), "doctors", len(doctorIDs), "patients", len(patientIDs))
	return nil
}

// DeleteDoctor removes the doctor from every patient's doctors array,
// deletes their appointments, tests and the doctor document in a single
// batch. The hospital's doctors-array cleanup follows as a best-effort
// step: a failure there is logged and queued for reconciliation, not fatal,
// because the doctor is already gone.
func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	const op = "cascade-deleteDoctor"

	doctor, err := s.getDoc(ctx, model.CollectionDoctors, id, "doctor", op)
	if err != nil {
		return err
	}

	patients, err := s.store.FindArrayContains(ctx, model.CollectionPatients, "doctors", []string{id})
	if err != nil {
		return errors.Internal(err).WithOp(op)
	}
	dependents, err := s.dependentRecords(ctx, []string{id}, nil)
	if err != nil {
		return errors.Internal(err).WithOp(op)
	}

	batch := s.store.Batch()
	for _, patient := range patients {
		patientID := model.DocString(patient, "_id")
		batch.Pull(model.CollectionPatients, patientID, "doctors", id)
		if model.DocString(patient, "doctor") == id {
			batch.Update(model.CollectionPatients, patientID, model.Document{"doctor": ""})
		}
	}
	for collection, ids := range dependents {
		for _, depID := range ids {
			batch.Delete(collection, depID)
		}
	}
	batch.Delete(model.CollectionDoctors, id)

	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp(op)
	}

	if hospitalID := model.DocString(doctor, "hospital"); hospitalID != "" {
		s.cleanupHospitalArray(ctx, hospitalID, "doctors", id)
	}
	return nil
}

// DeletePatient deletes the patient's appointments and tests and the
// patient document in one batch, pulling the patient out of every doctor's
// patients array in the same unit and detaching any assigned devices. The
// hospital patients-array cleanup is best-effort.
func (s *Service) DeletePatient(ctx context.Context, id string) error {
	const op = "cascade-deletePatient"

	patient, err := s.getDoc(ctx, model.CollectionPatients, id, "patient", op)
	if err != nil {
		return err
	}

	dependents, err := s.dependentRecords(ctx, nil, []string{id})
	if err != nil {
		return errors.Internal(err).WithOp(op)
	}
	devices, err := s.idsReferencing(ctx, model.CollectionDevices, "patient", []string{id})
	if err != nil {
		return errors.Internal(err).WithOp(op)
	}

	batch := s.store.Batch()
	for collection, ids := range dependents {
		for _, depID := range ids {
			batch.Delete(collection, depID)
		}
	}
	for _, doctorID := range model.DocStrings(patient, "doctors") {
		batch.Pull(model.CollectionDoctors, doctorID, "patients", id)
	}
	for _, deviceID := range devices {
		batch.Update(model.CollectionDevices, deviceID, model.Document{"patient": ""})
	}
	batch.Delete(model.CollectionPatients, id)

	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp(op)
	}

	if hospitalID := model.DocString(patient, "hospital"); hospitalID != "" {
		s.cleanupHospitalArray(ctx, hospitalID, "patients", id)
	}
	return nil
}

// DeleteAdmin deletes the admin and clears the hospital's admin reference
// in the same batch.
func (s *Service) DeleteAdmin(ctx context.Context, id string) error {
	const op = "cascade-deleteAdmin"

	admin, err := s.getDoc(ctx, model.CollectionAdmins, id, "admin", op)
	if err != nil {
		return err
	}

	batch := s.store.Batch()
	if hospitalID := model.DocString(admin, "hospital"); hospitalID != "" {
		batch.Update(model.CollectionHospitals, hospitalID, model.Document{"admin": ""})
	}
	batch.Delete(model.CollectionAdmins, id)
	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp(op)
	}
	return nil
}

// ReassignDoctorHospital moves a doctor to a new hospital. Every future
// scheduled appointment of the doctor is cancelled first; if that fails the
// doctor stays on the original hospital and the caller gets a
// DependencyFailure. The membership move and the doctor's hospital field
// change land in one batch.
func (s *Service) ReassignDoctorHospital(ctx context.Context, doctorID, newHospitalID string) error {
	const op = "cascade-reassignDoctorHospital"

	doctor, err := s.getDoc(ctx, model.CollectionDoctors, doctorID, "doctor", op)
	if err != nil {
		return err
	}
	oldHospitalID := model.DocString(doctor, "hospital")
	if oldHospitalID == newHospitalID {
		return nil
	}

	// Both hospitals must exist before any appointment is touched; the
	// cancellation batch commits on its own and cannot be rolled back.
	if _, err := s.getDoc(ctx, model.CollectionHospitals, oldHospitalID, "hospital", op); err != nil {
		return err
	}
	if _, err := s.getDoc(ctx, model.CollectionHospitals, newHospitalID, "hospital", op); err != nil {
		return err
	}

	if err := s.cancelFutureAppointments(ctx, doctorID); err != nil {
		return errors.DependencyFailure("cancel-appointments", err).WithOp(op)
	}

	batch := s.store.Batch()
	if err := s.relation.AppendMove(ctx, batch, oldHospitalID, newHospitalID, doctorID, relation.KindDoctors, op); err != nil {
		return err
	}
	batch.Update(model.CollectionDoctors, doctorID, model.Document{
		"hospital":  newHospitalID,
		"updatedAt": time.Now().UTC(),
	})
	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp(op)
	}
	return nil
}

func (s *Service) cancelFutureAppointments(ctx context.Context, doctorID string) error {
	appointments, err := s.store.FindEquals(ctx, model.CollectionAppointments, "doctor", []string{doctorID})
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	batch := s.store.Batch()
	for _, appt := range appointments {
		if model.DocString(appt, "status") != string(model.AppointmentStatusScheduled) {
			continue
		}
		if !model.DocTime(appt, "appointmentDate").After(now) {
			continue
		}
		batch.Update(model.CollectionAppointments, model.DocString(appt, "_id"), model.Document{
			"status":    string(model.AppointmentStatusCancelled),
			"updatedAt": now,
		})
	}
	if batch.Len() == 0 {
		return nil
	}
	return batch.Commit(ctx)
}

// cleanupHospitalArray is the trailing best-effort step after a doctor or
// patient delete. A failure is logged and queued for the reconciliation
// worker; the primary delete has already committed.
func (s *Service) cleanupHospitalArray(ctx context.Context, hospitalID, field, entityID string) {
	batch := s.store.Batch()
	batch.Pull(model.CollectionHospitals, hospitalID, field, entityID)
	err := batch.Commit(ctx)
	if err == nil {
		return
	}

	s.logger.Error(err, "hospital array cleanup failed, queueing reconciliation",
		"hospital", hospitalID, "field", field, "entity", entityID)
	task := &model.ReconciliationTask{
		ID:         uuid.New().String(),
		Kind:       model.ReconcileHospitalArrayCleanup,
		Collection: model.CollectionHospitals,
		EntityID:   hospitalID,
		Field:      field,
		Remove:     []string{entityID},
	}
	if qerr := s.recon.Enqueue(ctx, task); qerr != nil {
		s.logger.Error(qerr, "failed to enqueue reconciliation task",
			"hospital", hospitalID, "field", field, "entity", entityID)
	}
}

// dependentRecords collects appointment and test IDs referencing any of the
// given doctors or patients, de-duplicated, with reference queries chunked
// to the store's per-query limit.
func (s *Service) dependentRecords(ctx context.Context, doctorIDs, patientIDs []string) (map[string][]string, error) {
	out := map[string][]string{
		model.CollectionAppointments: nil,
		model.CollectionTests:        nil,
	}
	for collection := range out {
		seen := make(map[string]bool)
		byDoctor, err := s.idsReferencing(ctx, collection, "doctor", doctorIDs)
		if err != nil {
			return nil, err
		}
		byPatient, err := s.idsReferencing(ctx, collection, "patient", patientIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range append(byDoctor, byPatient...) {
			if !seen[id] {
				seen[id] = true
				out[collection] = append(out[collection], id)
			}
		}
	}
	return out, nil
}

func (s *Service) idsReferencing(ctx context.Context, collection, field string, values []string) ([]string, error) {
	var out []string
	for start := 0; start < len(values); start += repository.MaxQueryValues {
		end := start + repository.MaxQueryValues
		if end > len(values) {
			end = len(values)
		}
		docs, err := s.store.FindEquals(ctx, collection, field, values[start:end])
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			out = append(out, model.DocString(doc, "_id"))
		}
	}
	return out, nil
}

func (s *Service) getDoc(ctx context.Context, collection, id, resource, op string) (model.Document, error) {
	doc, err := s.store.Get(ctx, collection, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound(resource).WithOp(op)
		}
		return nil, errors.Internal(err).WithOp(op)
	}
	return doc, nil
}
