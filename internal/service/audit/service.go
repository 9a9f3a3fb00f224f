// Package audit records every core write for later review. Logging is best
// effort: a failed audit write never fails the operation it describes.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/pkg/logger"
)

type Service struct {
	repo   repository.AuditRepository
	logger *logger.Logger
}

func NewService(repo repository.AuditRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// Log writes one audit entry for an action on collection/entityID.
func (s *Service) Log(ctx context.Context, requester model.Requester, action, collection, entityID string, changes interface{}) {
	entry := &model.AuditLog{
		ID:         uuid.New().String(),
		ActorID:    requester.ID,
		ActorRole:  string(requester.Role),
		Action:     action,
		Collection: collection,
		EntityID:   entityID,
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error(err, "failed to write audit log",
			"action", action, "collection", collection, "entity", entityID)
	}
}

// List returns audit entries for a collection since the given time.
func (s *Service) List(ctx context.Context, collection string, since time.Time) ([]*model.AuditLog, error) {
	return s.repo.List(ctx, collection, since)
}
