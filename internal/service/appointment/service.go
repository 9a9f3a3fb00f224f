package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/internal/schema"
	"github.com/caresync/hospital-api/internal/service/entity"
	"github.com/caresync/hospital-api/internal/service/relation"
	"github.com/caresync/hospital-api/internal/service/visibility"
	"github.com/caresync/hospital-api/pkg/errors"
)

type AppointmentService interface {
	Create(ctx context.Context, req *model.CreateAppointmentRequest, requester model.Requester) (model.Document, error)
	Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error)
	List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error)
	Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error)
	Delete(ctx context.Context, id string, requester model.Requester) error
}

type Service struct {
	store    repository.Store
	engine   *entity.Service
	relation *relation.Service
}

func NewService(store repository.Store, engine *entity.Service, rel *relation.Service) *Service {
	return &Service{store: store, engine: engine, relation: rel}
}

// Create books an appointment between an existing doctor and patient and
// records it in the doctor's hospital appointments array.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest, requester model.Requester) (model.Document, error) {
	doctor, err := s.getDoc(ctx, model.CollectionDoctors, req.Doctor, "doctor", "appointment-create")
	if err != nil {
		return nil, err
	}
	if _, err := s.getDoc(ctx, model.CollectionPatients, req.Patient, "patient", "appointment-create"); err != nil {
		return nil, err
	}
	if req.AppointmentDate.Before(time.Now().UTC()) {
		return nil, errors.Validation("appointmentDate", "must be in the future").WithOp("appointment-create")
	}

	appt := &model.Appointment{
		Base:            model.Base{ID: uuid.New().String()},
		Patient:         req.Patient,
		Doctor:          req.Doctor,
		AppointmentDate: req.AppointmentDate.UTC(),
		Purpose:         req.Purpose,
		Status:          string(model.AppointmentStatusScheduled),
	}
	doc, err := model.ToDocument(appt)
	if err != nil {
		return nil, errors.Internal(err).WithOp("appointment-create")
	}
	if err := s.engine.Insert(ctx, schema.EntityAppointment, appt.ID, doc, requester); err != nil {
		return nil, err
	}
	if hospitalID := model.DocString(doctor, "hospital"); hospitalID != "" {
		if err := s.relation.AddMember(ctx, hospitalID, appt.ID, relation.KindAppointments); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error) {
	return s.engine.Get(ctx, schema.EntityAppointment, id, requester, mode)
}

func (s *Service) List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error) {
	return s.engine.List(ctx, schema.EntityAppointment, requester, mode)
}

func (s *Service) Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error) {
	return s.engine.Update(ctx, schema.EntityAppointment, id, fields, requester)
}

// Delete removes the appointment and its hospital array entry. The array
// entry lives on the doctor's hospital, so the doctor is looked up first.
func (s *Service) Delete(ctx context.Context, id string, requester model.Requester) error {
	appt, err := s.getDoc(ctx, model.CollectionAppointments, id, "appointment", "appointment-delete")
	if err != nil {
		return err
	}
	if doctorID := model.DocString(appt, "doctor"); doctorID != "" {
		doctor, err := s.store.Get(ctx, model.CollectionDoctors, doctorID)
		if err == nil {
			if hospitalID := model.DocString(doctor, "hospital"); hospitalID != "" {
				if err := s.relation.RemoveMember(ctx, hospitalID, id, relation.KindAppointments); err != nil {
					return err
				}
			}
		} else if err != repository.ErrNotFound {
			return errors.Internal(err).WithOp("appointment-delete")
		}
	}
	if err := s.store.Delete(ctx, model.CollectionAppointments, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFound("appointment").WithOp("appointment-delete")
		}
		return errors.Internal(err).WithOp("appointment-delete")
	}
	return nil
}

func (s *Service) getDoc(ctx context.Context, collection, id, resource, op string) (model.Document, error) {
	doc, err := s.store.Get(ctx, collection, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound(resource).WithOp(op)
		}
		return nil, errors.Internal(err).WithOp(op)
	}
	return doc, nil
}
