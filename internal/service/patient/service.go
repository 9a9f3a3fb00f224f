package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/schema"
	"github.com/caresync/hospital-api/internal/service/cascade"
	"github.com/caresync/hospital-api/internal/service/entity"
	"github.com/caresync/hospital-api/internal/service/identity"
	"github.com/caresync/hospital-api/internal/service/relation"
	"github.com/caresync/hospital-api/internal/service/visibility"
	"github.com/caresync/hospital-api/pkg/errors"
	"github.com/caresync/hospital-api/pkg/security"
)

type PatientService interface {
	Register(ctx context.Context, req *model.RegisterPatientRequest, requester model.Requester) (model.Document, error)
	Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error)
	List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error)
	Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error)
	Delete(ctx context.Context, id string, requester model.Requester) error
}

type Service struct {
	engine   *entity.Service
	identity *identity.Service
	relation *relation.Service
	cascade  *cascade.Service
	hasher   security.PasswordHasher
}

func NewService(engine *entity.Service, identitySvc *identity.Service, rel *relation.Service, cascadeSvc *cascade.Service, hasher security.PasswordHasher) *Service {
	return &Service{
		engine:   engine,
		identity: identitySvc,
		relation: rel,
		cascade:  cascadeSvc,
		hasher:   hasher,
	}
}

// Register creates a patient, enrolls it in the hospital's patients array
// and, when a primary doctor is named, links the pair both ways.
func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest, requester model.Requester) (model.Document, error) {
	if err := s.identity.CheckUnique(ctx, identity.FieldEmail, []string{req.Email}, ""); err != nil {
		return nil, err
	}
	if err := s.identity.CheckUnique(ctx, identity.FieldMobileNumber, []string{req.MobileNumber}, ""); err != nil {
		return nil, err
	}
	if err := s.identity.CheckUnique(ctx, identity.FieldPersID, []string{req.PersID}, ""); err != nil {
		return nil, err
	}
	if err := s.relation.EnsureExists(ctx, model.CollectionHospitals, req.Hospital, "hospital", "patient-register"); err != nil {
		return nil, err
	}
	if req.Doctor != "" {
		if err := s.relation.EnsureExists(ctx, model.CollectionDoctors, req.Doctor, "doctor", "patient-register"); err != nil {
			return nil, err
		}
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Internal(err).WithOp("patient-register")
	}
	patient := &model.Patient{
		Base:           model.Base{ID: uuid.New().String()},
		PersID:         req.PersID,
		Password:       hashed,
		Name:           req.Name,
		Email:          req.Email,
		MobileNumber:   req.MobileNumber,
		BirthDate:      req.BirthDate,
		Hospital:       req.Hospital,
		Status:         string(model.PatientStatusActive),
		Diagnosis:      req.Diagnosis,
		MedicalHistory: []string{},
		Doctor:         req.Doctor,
		Doctors:        []string{},
		Role:           model.RolePatient,
	}
	doc, err := model.ToDocument(patient)
	if err != nil {
		return nil, errors.Internal(err).WithOp("patient-register")
	}
	if err := s.engine.Insert(ctx, schema.EntityPatient, patient.ID, doc, requester); err != nil {
		return nil, err
	}
	if err := s.relation.AddMember(ctx, req.Hospital, patient.ID, relation.KindPatients); err != nil {
		return nil, err
	}
	if req.Doctor != "" {
		if err := s.relation.LinkDoctorPatient(ctx, req.Doctor, patient.ID); err != nil {
			return nil, err
		}
		doc["doctors"] = []string{req.Doctor}
	}
	delete(doc, "password")
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error) {
	return s.engine.Get(ctx, schema.EntityPatient, id, requester, mode)
}

func (s *Service) List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error) {
	return s.engine.List(ctx, schema.EntityPatient, requester, mode)
}

func (s *Service) Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error) {
	return s.engine.Update(ctx, schema.EntityPatient, id, fields, requester)
}

func (s *Service) Delete(ctx context.Context, id string, requester model.Requester) error {
	if requester.Role != model.RoleSuperAdmin && requester.Role != model.RoleAdmin {
		return errors.Forbidden("insufficient role to delete patients").WithOp("patient-delete")
	}
	return s.cascade.DeletePatient(ctx, id)
}
