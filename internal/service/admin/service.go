package admin

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

type AdminService interface {
	Register(ctx context.Context, req *model.RegisterAdminRequest, requester model.Requester) (model.Document, error)
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

// Register creates an admin and, when a hospital is named in the request,
// links the two through the synchronizer so both sides agree.
func (s *Service) Register(ctx context.Context, req *model.RegisterAdminRequest, requester model.Requester) (model.Document, error) {
	if requester.Role != model.RoleSuperAdmin {
		return nil, errors.Forbidden("only a superadmin may register admins").WithOp("admin-register")
	}
	if err := s.checkIdentity(ctx, req); err != nil {
		return nil, err
	}
	if req.Hospital != "" {
		if err := s.relation.EnsureExists(ctx, model.CollectionHospitals, req.Hospital, "hospital", "admin-register"); err != nil {
			return nil, err
		}
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Internal(err).WithOp("admin-register")
	}
	admin := &model.Admin{
		Base:         model.Base{ID: uuid.New().String()},
		PersID:       req.PersID,
		Password:     hashed,
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Role:         model.RoleAdmin,
	}
	doc, err := model.ToDocument(admin)
	if err != nil {
		return nil, errors.Internal(err).WithOp("admin-register")
	}
	if err := s.engine.Insert(ctx, schema.EntityAdmin, admin.ID, doc, requester); err != nil {
		return nil, err
	}
	if req.Hospital != "" {
		if err := s.relation.LinkHospitalAdmin(ctx, req.Hospital, admin.ID); err != nil {
			return nil, err
		}
		doc["hospital"] = req.Hospital
	}
	delete(doc, "password")
	return doc, nil
}

func (s *Service) checkIdentity(ctx context.Context, req *model.RegisterAdminRequest) error {
	if err := s.identity.CheckUnique(ctx, identity.FieldEmail, []string{req.Email}, ""); err != nil {
		return err
	}
	if err := s.identity.CheckUnique(ctx, identity.FieldMobileNumber, []string{req.MobileNumber}, ""); err != nil {
		return err
	}
	return s.identity.CheckUnique(ctx, identity.FieldPersID, []string{req.PersID}, "")
}

func (s *Service) Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error) {
	return s.engine.Get(ctx, schema.EntityAdmin, id, requester, mode)
}

func (s *Service) List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error) {
	return s.engine.List(ctx, schema.EntityAdmin, requester, mode)
}

func (s *Service) Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error) {
	return s.engine.Update(ctx, schema.EntityAdmin, id, fields, requester)
}

func (s *Service) Delete(ctx context.Context, id string, requester model.Requester) error {
	if requester.Role != model.RoleSuperAdmin {
		return errors.Forbidden("only a superadmin may delete admins").WithOp("admin-delete")
	}
	return s.cascade.DeleteAdmin(ctx, id)
}
