package doctor

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

type DoctorService interface {
	Register(ctx context.Context, req *model.RegisterDoctorRequest, requester model.Requester) (model.Document, error)
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

// Register creates a doctor inside its hospital. The hospital's doctors
// array gains the new id through the membership synchronizer.
func (s *Service) Register(ctx context.Context, req *model.RegisterDoctorRequest, requester model.Requester) (model.Document, error) {
	if err := validateSchedule(req.Schedule); err != nil {
		return nil, err
	}
	if err := s.identity.CheckUnique(ctx, identity.FieldEmail, []string{req.Email}, ""); err != nil {
		return nil, err
	}
	if err := s.identity.CheckUnique(ctx, identity.FieldMobileNumber, []string{req.MobileNumber}, ""); err != nil {
		return nil, err
	}
	if err := s.identity.CheckUnique(ctx, identity.FieldPersID, []string{req.PersID}, ""); err != nil {
		return nil, err
	}
	if err := s.relation.EnsureExists(ctx, model.CollectionHospitals, req.Hospital, "hospital", "doctor-register"); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Internal(err).WithOp("doctor-register")
	}
	doctor := &model.Doctor{
		Base:         model.Base{ID: uuid.New().String()},
		PersID:       req.PersID,
		Password:     hashed,
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		BirthDate:    req.BirthDate,
		Licenses:     req.Licenses,
		Description:  req.Description,
		Hospital:     req.Hospital,
		Patients:     []string{},
		Schedule:     req.Schedule,
		Role:         model.RoleDoctor,
	}
	if doctor.Licenses == nil {
		doctor.Licenses = []string{}
	}
	doc, err := model.ToDocument(doctor)
	if err != nil {
		return nil, errors.Internal(err).WithOp("doctor-register")
	}
	if err := s.engine.Insert(ctx, schema.EntityDoctor, doctor.ID, doc, requester); err != nil {
		return nil, err
	}
	if err := s.relation.AddMember(ctx, req.Hospital, doctor.ID, relation.KindDoctors); err != nil {
		return nil, err
	}
	delete(doc, "password")
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error) {
	return s.engine.Get(ctx, schema.EntityDoctor, id, requester, mode)
}

func (s *Service) List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error) {
	return s.engine.List(ctx, schema.EntityDoctor, requester, mode)
}

func (s *Service) Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error) {
	return s.engine.Update(ctx, schema.EntityDoctor, id, fields, requester)
}

func (s *Service) Delete(ctx context.Context, id string, requester model.Requester) error {
	if requester.Role != model.RoleSuperAdmin && requester.Role != model.RoleAdmin {
		return errors.Forbidden("insufficient role to delete doctors").WithOp("doctor-delete")
	}
	return s.cascade.DeleteDoctor(ctx, id)
}

func validateSchedule(slots []model.ScheduleSlot) error {
	rule := schema.Schedule()
	entries := make([]interface{}, 0, len(slots))
	for _, slot := range slots {
		entries = append(entries, map[string]interface{}{
			"day":   slot.Day,
			"start": slot.Start,
			"end":   slot.End,
		})
	}
	if reason := rule.Check(entries); reason != "" {
		return errors.Validation("schedule", reason).WithOp("doctor-register")
	}
	return nil
}
