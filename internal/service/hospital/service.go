package hospital

import (
	"context"

	"github.com/google/uuid"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/schema"
	"github.com/caresync/hospital-api/internal/service/cascade"
	"github.com/caresync/hospital-api/internal/service/entity"
	"github.com/caresync/hospital-api/internal/service/identity"
	"github.com/caresync/hospital-api/internal/service/visibility"
	"github.com/caresync/hospital-api/pkg/errors"
)

type HospitalService interface {
	Register(ctx context.Context, req *model.CreateHospitalRequest, requester model.Requester) (model.Document, error)
	Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error)
	List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error)
	Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error)
	Delete(ctx context.Context, id string, requester model.Requester) error
}

type Service struct {
	engine   *entity.Service
	identity *identity.Service
	cascade  *cascade.Service
}

func NewService(engine *entity.Service, identitySvc *identity.Service, cascadeSvc *cascade.Service) *Service {
	return &Service{
		engine:   engine,
		identity: identitySvc,
		cascade:  cascadeSvc,
	}
}

// Register creates a hospital after verifying that none of its contact
// values collide with any individual's identity fields or another
// hospital's arrays.
func (s *Service) Register(ctx context.Context, req *model.CreateHospitalRequest, requester model.Requester) (model.Document, error) {
	if err := s.identity.CheckUnique(ctx, identity.FieldEmail, req.Emails, ""); err != nil {
		return nil, err
	}
	if err := s.identity.CheckUnique(ctx, identity.FieldMobileNumber, req.MobileNumbers, ""); err != nil {
		return nil, err
	}

	hospital := &model.Hospital{
		Base:          model.Base{ID: uuid.New().String()},
		Name:          req.Name,
		Address:       req.Address,
		MobileNumbers: req.MobileNumbers,
		Emails:        req.Emails,
		Doctors:       []string{},
		Patients:      []string{},
	}
	doc, err := model.ToDocument(hospital)
	if err != nil {
		return nil, errors.Internal(err).WithOp("hospital-create")
	}
	if err := s.engine.Insert(ctx, schema.EntityHospital, hospital.ID, doc, requester); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error) {
	return s.engine.Get(ctx, schema.EntityHospital, id, requester, mode)
}

func (s *Service) List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error) {
	return s.engine.List(ctx, schema.EntityHospital, requester, mode)
}

func (s *Service) Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error) {
	return s.engine.Update(ctx, schema.EntityHospital, id, fields, requester)
}

func (s *Service) Delete(ctx context.Context, id string, requester model.Requester) error {
	if requester.Role != model.RoleSuperAdmin {
		return errors.Forbidden("only a superadmin may delete hospitals").WithOp("hospital-delete")
	}
	return s.cascade.DeleteHospital(ctx, id)
}
