package superadmin

import (
	"context"

	"github.com/google/uuid"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/internal/schema"
	"github.com/caresync/hospital-api/internal/service/entity"
	"github.com/caresync/hospital-api/internal/service/identity"
	"github.com/caresync/hospital-api/internal/service/visibility"
	"github.com/caresync/hospital-api/pkg/errors"
	"github.com/caresync/hospital-api/pkg/security"
)

type SuperAdminService interface {
	Register(ctx context.Context, req *model.RegisterSuperAdminRequest, requester model.Requester) (model.Document, error)
	Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error)
	List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error)
	Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error)
	Delete(ctx context.Context, id string, requester model.Requester) error
}

type Service struct {
	store    repository.Store
	engine   *entity.Service
	identity *identity.Service
	hasher   security.PasswordHasher
}

func NewService(store repository.Store, engine *entity.Service, identitySvc *identity.Service, hasher security.PasswordHasher) *Service {
	return &Service{
		store:    store,
		engine:   engine,
		identity: identitySvc,
		hasher:   hasher,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterSuperAdminRequest, requester model.Requester) (model.Document, error) {
	if requester.Role != model.RoleSuperAdmin {
		return nil, errors.Forbidden("only a superadmin may register superadmins").WithOp("superadmin-register")
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

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Internal(err).WithOp("superadmin-register")
	}
	sa := &model.SuperAdmin{
		Base:         model.Base{ID: uuid.New().String()},
		PersID:       req.PersID,
		Password:     hashed,
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Role:         model.RoleSuperAdmin,
	}
	doc, err := model.ToDocument(sa)
	if err != nil {
		return nil, errors.Internal(err).WithOp("superadmin-register")
	}
	if err := s.engine.Insert(ctx, schema.EntitySuperAdmin, sa.ID, doc, requester); err != nil {
		return nil, err
	}
	delete(doc, "password")
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error) {
	if requester.Role != model.RoleSuperAdmin {
		return nil, errors.Forbidden("superadmin records are restricted").WithOp("superadmin-get")
	}
	return s.engine.Get(ctx, schema.EntitySuperAdmin, id, requester, mode)
}

func (s *Service) List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error) {
	if requester.Role != model.RoleSuperAdmin {
		return nil, errors.Forbidden("superadmin records are restricted").WithOp("superadmin-list")
	}
	return s.engine.List(ctx, schema.EntitySuperAdmin, requester, mode)
}

func (s *Service) Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error) {
	if requester.Role != model.RoleSuperAdmin {
		return nil, errors.Forbidden("superadmin records are restricted").WithOp("superadmin-update")
	}
	return s.engine.Update(ctx, schema.EntitySuperAdmin, id, fields, requester)
}

// Delete removes a superadmin. Nothing references superadmins, so there is
// no cascade to run.
func (s *Service) Delete(ctx context.Context, id string, requester model.Requester) error {
	if requester.Role != model.RoleSuperAdmin {
		return errors.Forbidden("superadmin records are restricted").WithOp("superadmin-delete")
	}
	if err := s.store.Delete(ctx, model.CollectionSuperAdmins, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFound("superadmin").WithOp("superadmin-delete")
		}
		return errors.Internal(err).WithOp("superadmin-delete")
	}
	return nil
}
