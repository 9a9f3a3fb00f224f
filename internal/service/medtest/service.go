package medtest

import (
	"context"

	"github.com/google/uuid"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/internal/schema"
	"github.com/caresync/hospital-api/internal/service/entity"
	"github.com/caresync/hospital-api/internal/service/visibility"
	"github.com/caresync/hospital-api/pkg/errors"
)

type TestService interface {
	Create(ctx context.Context, req *model.CreateTestRequest, requester model.Requester) (model.Document, error)
	Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error)
	List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error)
	Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error)
	Delete(ctx context.Context, id string, requester model.Requester) error
}

type Service struct {
	store  repository.Store
	engine *entity.Service
}

func NewService(store repository.Store, engine *entity.Service) *Service {
	return &Service{store: store, engine: engine}
}

func (s *Service) Create(ctx context.Context, req *model.CreateTestRequest, requester model.Requester) (model.Document, error) {
	if _, err := s.getDoc(ctx, model.CollectionDoctors, req.Doctor, "doctor", "test-create"); err != nil {
		return nil, err
	}
	if _, err := s.getDoc(ctx, model.CollectionPatients, req.Patient, "patient", "test-create"); err != nil {
		return nil, err
	}
	if req.Device != "" {
		if _, err := s.getDoc(ctx, model.CollectionDevices, req.Device, "device", "test-create"); err != nil {
			return nil, err
		}
	}

	test := &model.Test{
		Base:       model.Base{ID: uuid.New().String()},
		Patient:    req.Patient,
		Doctor:     req.Doctor,
		Device:     req.Device,
		ResultDate: req.ResultDate,
		Purpose:    req.Purpose,
		Status:     string(model.TestStatusPending),
		Results:    []string{},
	}
	doc, err := model.ToDocument(test)
	if err != nil {
		return nil, errors.Internal(err).WithOp("test-create")
	}
	if err := s.engine.Insert(ctx, schema.EntityTest, test.ID, doc, requester); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error) {
	return s.engine.Get(ctx, schema.EntityTest, id, requester, mode)
}

func (s *Service) List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error) {
	return s.engine.List(ctx, schema.EntityTest, requester, mode)
}

func (s *Service) Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error) {
	return s.engine.Update(ctx, schema.EntityTest, id, fields, requester)
}

func (s *Service) Delete(ctx context.Context, id string, requester model.Requester) error {
	if requester.Role == model.RolePatient {
		return errors.Forbidden("patients may not delete test records").WithOp("test-delete")
	}
	if err := s.store.Delete(ctx, model.CollectionTests, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFound("test").WithOp("test-delete")
		}
		return errors.Internal(err).WithOp("test-delete")
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
