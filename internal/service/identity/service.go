// Package identity implements the cross-collection uniqueness checker for
// the scalar identity fields (email, mobileNumber, persId) and the
// hospitals' array-valued contact fields.
package identity

import (
	"context"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/pkg/errors"
)

// Field names accepted by CheckUnique.
const (
	FieldEmail        = "email"
	FieldMobileNumber = "mobileNumber"
	FieldPersID       = "persId"
)

// hospitalFields maps a scalar identity field to the hospital array field
// holding the same kind of value. persId has no hospital equivalent.
var hospitalFields = map[string]string{
	FieldEmail:        "emails",
	FieldMobileNumber: "mobileNumbers",
}

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// CheckUnique verifies that none of the candidate values for field are
// already claimed by any entity, excluding excludeID (the entity being
// updated in place). Values are checked disjunctively, chunked to the
// store's per-query value limit. The first collision fails with Conflict;
// nothing is written.
func (s *Service) CheckUnique(ctx context.Context, field string, values []string, excludeID string) error {
	if len(values) == 0 {
		return nil
	}
	if field != FieldEmail && field != FieldMobileNumber && field != FieldPersID {
		return errors.Validation(field, "not an identity field").WithOp("identity-checkUnique")
	}

	for _, chunk := range chunkValues(values, repository.MaxQueryValues) {
		for _, role := range model.IdentityRoles {
			docs, err := s.store.FindEquals(ctx, role.Collection(), field, chunk)
			if err != nil {
				return errors.Internal(err).WithOp("identity-checkUnique")
			}
			if conflict := firstConflict(docs, field, chunk, excludeID); conflict != nil {
				return conflict.WithOp("identity-checkUnique")
			}
		}

		arrayField, ok := hospitalFields[field]
		if !ok {
			continue
		}
		docs, err := s.store.FindArrayContains(ctx, model.CollectionHospitals, arrayField, chunk)
		if err != nil {
			return errors.Internal(err).WithOp("identity-checkUnique")
		}
		if conflict := firstArrayConflict(docs, arrayField, field, chunk, excludeID); conflict != nil {
			return conflict.WithOp("identity-checkUnique")
		}
	}
	return nil
}

// firstConflict finds the first document whose scalar field collides with a
// candidate value and that is not the excluded entity.
func firstConflict(docs []model.Document, field string, values []string, excludeID string) *errors.AppError {
	for _, doc := range docs {
		if model.DocString(doc, "_id") == excludeID {
			continue
		}
		stored := model.DocString(doc, field)
		for _, v := range values {
			if stored == v {
				return errors.Conflict(field, v)
			}
		}
	}
	return nil
}

func firstArrayConflict(docs []model.Document, arrayField, field string, values []string, excludeID string) *errors.AppError {
	for _, doc := range docs {
		if model.DocString(doc, "_id") == excludeID {
			continue
		}
		stored := model.DocStrings(doc, arrayField)
		for _, v := range values {
			for _, member := range stored {
				if member == v {
					return errors.Conflict(field, v)
				}
			}
		}
	}
	return nil
}

func chunkValues(values []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}
