// Package relation maintains the bidirectional references between
// hospitals, admins, doctors and patients. Every multi-document change is
// applied through a store batch or transaction so no one-sided reference
// can be observed after a crash.
package relation

import (
	"context"
	stderrors "errors"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/pkg/errors"
)

// Kind selects a hospital membership array.
type Kind string

const (
	KindDoctors      Kind = "doctors"
	KindPatients     Kind = "patients"
	KindAppointments Kind = "appointments"
)

func (k Kind) valid() bool {
	return k == KindDoctors || k == KindPatients || k == KindAppointments
}

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// LinkHospitalAdmin points hospital and admin at each other. A previous
// admin of the hospital, or a previous hospital of the admin, is unlinked
// in the same batch: all four writes land together or not at all.
func (s *Service) LinkHospitalAdmin(ctx context.Context, hospitalID, adminID string) error {
	const op = "relation-linkHospitalAdmin"

	hospital, err := s.getDoc(ctx, model.CollectionHospitals, hospitalID, "hospital", op)
	if err != nil {
		return err
	}
	admin, err := s.getDoc(ctx, model.CollectionAdmins, adminID, "admin", op)
	if err != nil {
		return err
	}

	currentAdmin := model.DocString(hospital, "admin")
	currentHospital := model.DocString(admin, "hospital")
	if currentAdmin == adminID && currentHospital == hospitalID {
		return nil
	}

	batch := s.store.Batch()
	if currentAdmin != "" && currentAdmin != adminID {
		batch.Update(model.CollectionAdmins, currentAdmin, model.Document{"hospital": ""})
	}
	if currentHospital != "" && currentHospital != hospitalID {
		batch.Update(model.CollectionHospitals, currentHospital, model.Document{"admin": ""})
	}
	batch.Update(model.CollectionHospitals, hospitalID, model.Document{"admin": adminID})
	batch.Update(model.CollectionAdmins, adminID, model.Document{"hospital": hospitalID})

	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp(op)
	}
	return nil
}

// UnlinkHospitalAdmin clears both sides of the hospital-admin link.
func (s *Service) UnlinkHospitalAdmin(ctx context.Context, hospitalID string) error {
	const op = "relation-unlinkHospitalAdmin"

	hospital, err := s.getDoc(ctx, model.CollectionHospitals, hospitalID, "hospital", op)
	if err != nil {
		return err
	}
	adminID := model.DocString(hospital, "admin")
	if adminID == "" {
		return nil
	}

	batch := s.store.Batch()
	batch.Update(model.CollectionHospitals, hospitalID, model.Document{"admin": ""})
	batch.Update(model.CollectionAdmins, adminID, model.Document{"hospital": ""})
	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp(op)
	}
	return nil
}

// AddMember adds an entity to a hospital membership array. Duplicate adds
// are no-ops.
func (s *Service) AddMember(ctx context.Context, hospitalID, entityID string, kind Kind) error {
	const op = "relation-addMember"
	if !kind.valid() {
		return errors.Validation("kind", "unknown membership kind").WithOp(op)
	}
	if _, err := s.getDoc(ctx, model.CollectionHospitals, hospitalID, "hospital", op); err != nil {
		return err
	}

	batch := s.store.Batch()
	batch.AddToSet(model.CollectionHospitals, hospitalID, string(kind), entityID)
	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp(op)
	}
	return nil
}

// RemoveMember removes an entity from a hospital membership array.
func (s *Service) RemoveMember(ctx context.Context, hospitalID, entityID string, kind Kind) error {
	const op = "relation-removeMember"
	if !kind.valid() {
		return errors.Validation("kind", "unknown membership kind").WithOp(op)
	}
	if _, err := s.getDoc(ctx, model.CollectionHospitals, hospitalID, "hospital", op); err != nil {
		return err
	}

	batch := s.store.Batch()
	batch.Pull(model.CollectionHospitals, hospitalID, string(kind), entityID)
	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp(op)
	}
	return nil
}

// MoveMember moves an entity between two hospitals' membership arrays as a
// single batch, so the entity is never in neither array. Appointments are
// not portable between hospitals.
func (s *Service) MoveMember(ctx context.Context, oldHospitalID, newHospitalID, entityID string, kind Kind) error {
	const op = "relation-moveMember"

	batch := s.store.Batch()
	if err := s.AppendMove(ctx, batch, oldHospitalID, newHospitalID, entityID, kind, op); err != nil {
		return err
	}
	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp(op)
	}
	return nil
}

// AppendMove validates a membership move and appends its writes to an
// existing batch so callers can commit it together with their own writes.
func (s *Service) AppendMove(ctx context.Context, batch repository.Batch, oldHospitalID, newHospitalID, entityID string, kind Kind, op string) error {
	if !kind.valid() {
		return errors.Validation("kind", "unknown membership kind").WithOp(op)
	}
	if kind == KindAppointments {
		return errors.Validation("kind", "appointments cannot move between hospitals").WithOp(op)
	}
	if _, err := s.getDoc(ctx, model.CollectionHospitals, oldHospitalID, "hospital", op); err != nil {
		return err
	}
	if _, err := s.getDoc(ctx, model.CollectionHospitals, newHospitalID, "hospital", op); err != nil {
		return err
	}

	batch.Pull(model.CollectionHospitals, oldHospitalID, string(kind), entityID)
	batch.AddToSet(model.CollectionHospitals, newHospitalID, string(kind), entityID)
	return nil
}

// EnsureExists confirms the referenced document is present. Registration
// paths call it before inserting, so a dangling reference is rejected
// before any write lands.
func (s *Service) EnsureExists(ctx context.Context, collection, id, resource, op string) error {
	_, err := s.getDoc(ctx, collection, id, resource, op)
	return err
}

// LinkDoctorPatient adds each side to the other's membership array in one
// transaction.
func (s *Service) LinkDoctorPatient(ctx context.Context, doctorID, patientID string) error {
	const op = "relation-linkDoctorPatient"
	return s.dualArrayTxn(ctx, op, doctorID, patientID, func(tx repository.Tx) error {
		if err := tx.AddToSet(model.CollectionDoctors, doctorID, "patients", patientID); err != nil {
			return err
		}
		return tx.AddToSet(model.CollectionPatients, patientID, "doctors", doctorID)
	})
}

// UnlinkDoctorPatient removes each side from the other's membership array
// in one transaction.
func (s *Service) UnlinkDoctorPatient(ctx context.Context, doctorID, patientID string) error {
	const op = "relation-unlinkDoctorPatient"
	return s.dualArrayTxn(ctx, op, doctorID, patientID, func(tx repository.Tx) error {
		if err := tx.Pull(model.CollectionDoctors, doctorID, "patients", patientID); err != nil {
			return err
		}
		return tx.Pull(model.CollectionPatients, patientID, "doctors", doctorID)
	})
}

// SwitchPatientDoctor rewires a patient's primary doctor from one doctor to
// another: both doctors' patients arrays, the patient's doctors array and
// the patient's doctor reference change in one transaction.
func (s *Service) SwitchPatientDoctor(ctx context.Context, patientID, fromDoctorID, toDoctorID string) error {
	const op = "relation-switchPatientDoctor"

	if toDoctorID != "" {
		if _, err := s.getDoc(ctx, model.CollectionDoctors, toDoctorID, "doctor", op); err != nil {
			return err
		}
	}

	err := s.store.Txn(ctx, func(tx repository.Tx) error {
		if _, err := tx.Get(model.CollectionPatients, patientID); err != nil {
			return err
		}
		if fromDoctorID != "" {
			if err := tx.Pull(model.CollectionDoctors, fromDoctorID, "patients", patientID); err != nil {
				return err
			}
			if err := tx.Pull(model.CollectionPatients, patientID, "doctors", fromDoctorID); err != nil {
				return err
			}
		}
		if toDoctorID != "" {
			if err := tx.AddToSet(model.CollectionDoctors, toDoctorID, "patients", patientID); err != nil {
				return err
			}
			if err := tx.AddToSet(model.CollectionPatients, patientID, "doctors", toDoctorID); err != nil {
				return err
			}
		}
		return tx.Update(model.CollectionPatients, patientID, model.Document{"doctor": toDoctorID})
	})
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound("patient").WithOp(op)
		}
		return errors.Internal(err).WithOp(op)
	}
	return nil
}

func (s *Service) dualArrayTxn(ctx context.Context, op, doctorID, patientID string, apply func(tx repository.Tx) error) error {
	err := s.store.Txn(ctx, func(tx repository.Tx) error {
		if _, err := tx.Get(model.CollectionDoctors, doctorID); err != nil {
			return err
		}
		if _, err := tx.Get(model.CollectionPatients, patientID); err != nil {
			return err
		}
		return apply(tx)
	})
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound("doctor or patient").WithOp(op)
		}
		return errors.Internal(err).WithOp(op)
	}
	return nil
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
