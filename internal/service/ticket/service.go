package ticket

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

type TicketService interface {
	Create(ctx context.Context, req *model.CreateTicketRequest, requester model.Requester) (model.Document, error)
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

// Create opens a support ticket on behalf of the requester. When the
// request does not narrow visibility, the ticket is visible to staff roles.
func (s *Service) Create(ctx context.Context, req *model.CreateTicketRequest, requester model.Requester) (model.Document, error) {
	visibleTo := req.VisibleTo
	if len(visibleTo) == 0 {
		visibleTo = []string{string(model.RoleAdmin), string(model.RoleSuperAdmin)}
	}
	for _, r := range visibleTo {
		if !model.Role(r).Valid() {
			return nil, errors.Validation("visibleTo", "unknown role "+r).WithOp("ticket-create")
		}
	}

	ticket := &model.Ticket{
		Base:      model.Base{ID: uuid.New().String()},
		User:      requester.ID,
		Issue:     req.Issue,
		Role:      requester.Role,
		Status:    string(model.TicketStatusOpen),
		VisibleTo: visibleTo,
	}
	doc, err := model.ToDocument(ticket)
	if err != nil {
		return nil, errors.Internal(err).WithOp("ticket-create")
	}
	if err := s.engine.Insert(ctx, schema.EntityTicket, ticket.ID, doc, requester); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error) {
	doc, err := s.engine.Get(ctx, schema.EntityTicket, id, requester, mode)
	if err != nil {
		return nil, err
	}
	if !visibleTo(doc, requester) {
		return nil, errors.Forbidden("ticket is not visible to this role").WithOp("ticket-get")
	}
	return doc, nil
}

// List returns the tickets the requester may see: superadmins see all,
// everyone else sees their own tickets plus those shared with their role.
func (s *Service) List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error) {
	docs, err := s.engine.List(ctx, schema.EntityTicket, requester, mode)
	if err != nil {
		return nil, err
	}
	if requester.Role == model.RoleSuperAdmin {
		return docs, nil
	}
	out := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if visibleTo(doc, requester) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error) {
	return s.engine.Update(ctx, schema.EntityTicket, id, fields, requester)
}

func (s *Service) Delete(ctx context.Context, id string, requester model.Requester) error {
	if requester.Role != model.RoleSuperAdmin && requester.Role != model.RoleAdmin {
		return errors.Forbidden("insufficient role to delete tickets").WithOp("ticket-delete")
	}
	if err := s.store.Delete(ctx, model.CollectionTickets, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFound("ticket").WithOp("ticket-delete")
		}
		return errors.Internal(err).WithOp("ticket-delete")
	}
	return nil
}

func visibleTo(doc model.Document, requester model.Requester) bool {
	if requester.Role == model.RoleSuperAdmin {
		return true
	}
	if model.DocString(doc, "user") == requester.ID {
		return true
	}
	for _, r := range model.DocStrings(doc, "visibleTo") {
		if r == string(requester.Role) {
			return true
		}
	}
	return false
}
