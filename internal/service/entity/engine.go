// Package entity implements the shared update engine: whitelist and type
// checks against the static schemas, uniqueness re-checks, the
// superadmin-only suspension rule and the relationship side-effects a field
// change triggers. The per-entity services all funnel their writes through
// it.
package entity

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/internal/schema"
	"github.com/caresync/hospital-api/internal/service/audit"
	"github.com/caresync/hospital-api/internal/service/cascade"
	"github.com/caresync/hospital-api/internal/service/identity"
	"github.com/caresync/hospital-api/internal/service/relation"
	"github.com/caresync/hospital-api/internal/service/visibility"
	"github.com/caresync/hospital-api/pkg/errors"
	"github.com/caresync/hospital-api/pkg/security"
)

type Service struct {
	store    repository.Store
	identity *identity.Service
	relation *relation.Service
	cascade  *cascade.Service
	hasher   security.PasswordHasher
	auditor  *audit.Service
}

func NewService(
	store repository.Store,
	identitySvc *identity.Service,
	relationSvc *relation.Service,
	cascadeSvc *cascade.Service,
	hasher security.PasswordHasher,
	auditor *audit.Service,
) *Service {
	return &Service{
		store:    store,
		identity: identitySvc,
		relation: relationSvc,
		cascade:  cascadeSvc,
		hasher:   hasher,
		auditor:  auditor,
	}
}

// Update applies a whitelisted partial update to one entity. The checks run
// in a fixed order and the first violation aborts before any write:
// whitelist/immutability, per-field type and enum rules, suspension
// authority, uniqueness of identity fields, then the relationship
// side-effects. On success the merged document is returned with a fresh
// updatedAt.
func (s *Service) Update(ctx context.Context, et schema.EntityType, id string, fields model.Document, requester model.Requester) (model.Document, error) {
	op := string(et) + "-update"
	sch := schema.For(et)
	if sch == nil {
		return nil, errors.Validation("entityType", "unknown entity type").WithOp(op)
	}

	// Whitelist pass runs before anything else.
	for key := range fields {
		if schema.Immutable[key] {
			return nil, errors.ImmutableField(key).WithOp(op)
		}
		if _, ok := sch.Fields[key]; !ok {
			return nil, errors.FieldNotAllowed(key).WithOp(op)
		}
	}

	// Type/enum pass; the first bad field aborts the whole update.
	normalized := make(model.Document, len(fields))
	for key, value := range fields {
		rule := sch.Fields[key]
		if reason := rule.Check(value); reason != "" {
			return nil, errors.Validation(key, reason).WithOp(op)
		}
		if rule.Normalize != nil {
			value = rule.Normalize(value)
		}
		normalized[key] = value
	}

	current, err := s.getDoc(ctx, sch.Collection, id, string(et), op)
	if err != nil {
		return nil, err
	}

	if _, ok := normalized["suspended"]; ok && requester.Role != model.RoleSuperAdmin {
		return nil, errors.Forbidden("only a superadmin may change suspension").WithOp(op)
	}

	if err := s.checkIdentityFields(ctx, sch, normalized, id, op); err != nil {
		return nil, err
	}

	if raw, ok := normalized["password"]; ok {
		hashed, err := s.hasher.Hash(raw.(string))
		if err != nil {
			return nil, errors.Validation("password", err.Error()).WithOp(op)
		}
		normalized["password"] = hashed
	}

	if err := s.applySideEffects(ctx, et, id, current, normalized); err != nil {
		return nil, err
	}

	normalized["updatedAt"] = time.Now().UTC()
	if err := s.store.Update(ctx, sch.Collection, id, normalized); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound(string(et)).WithOp(op)
		}
		return nil, errors.Internal(err).WithOp(op)
	}

	merged, err := s.getDoc(ctx, sch.Collection, id, string(et), op)
	if err != nil {
		return nil, err
	}
	s.auditor.Log(ctx, requester, "update", sch.Collection, id, normalized)
	return merged, nil
}

// Get fetches one entity and applies the suspension rule for single
// records: a suspended record is a hard denial for non-superadmins.
func (s *Service) Get(ctx context.Context, et schema.EntityType, id string, requester model.Requester, mode visibility.Mode) (model.Document, error) {
	op := string(et) + "-get"
	sch := schema.For(et)
	doc, err := s.getDoc(ctx, sch.Collection, id, string(et), op)
	if err != nil {
		return nil, err
	}
	return visibility.FilterOne(doc, requester.Role, mode)
}

// List fetches all entities of a kind narrowed by the suspension filter.
func (s *Service) List(ctx context.Context, et schema.EntityType, requester model.Requester, mode visibility.Mode) ([]model.Document, error) {
	op := string(et) + "-list"
	sch := schema.For(et)
	docs, err := s.store.FindAll(ctx, sch.Collection)
	if err != nil {
		return nil, errors.Internal(err).WithOp(op)
	}
	return visibility.FilterList(docs, requester.Role, mode)
}

// Insert stores a new entity document with fresh timestamps.
func (s *Service) Insert(ctx context.Context, et schema.EntityType, id string, doc model.Document, requester model.Requester) error {
	op := string(et) + "-create"
	sch := schema.For(et)
	now := time.Now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now
	if err := s.store.Insert(ctx, sch.Collection, id, doc); err != nil {
		return errors.Internal(err).WithOp(op)
	}
	s.auditor.Log(ctx, requester, "create", sch.Collection, id, nil)
	return nil
}

// checkIdentityFields re-runs the uniqueness checker for every identity
// field present in the update, excluding the entity itself.
func (s *Service) checkIdentityFields(ctx context.Context, sch *schema.EntitySchema, fields model.Document, id, op string) error {
	for _, field := range sch.Identity {
		value, ok := fields[field]
		if !ok {
			continue
		}
		switch field {
		case "emails":
			if err := s.identity.CheckUnique(ctx, identity.FieldEmail, model.DocStrings(fields, field), id); err != nil {
				return err
			}
		case "mobileNumbers":
			if err := s.identity.CheckUnique(ctx, identity.FieldMobileNumber, model.DocStrings(fields, field), id); err != nil {
				return err
			}
		default:
			sv, _ := value.(string)
			if sv == "" {
				continue
			}
			if err := s.identity.CheckUnique(ctx, field, []string{sv}, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// applySideEffects routes the fields that rewire relationships through the
// synchronizer and cascade engines. Consumed fields are removed from the
// direct update; the engines own those writes.
func (s *Service) applySideEffects(ctx context.Context, et schema.EntityType, id string, current, fields model.Document) error {
	switch et {
	case schema.EntityDoctor:
		return s.doctorSideEffects(ctx, id, current, fields)
	case schema.EntityPatient:
		return s.patientSideEffects(ctx, id, current, fields)
	case schema.EntityHospital:
		return s.hospitalSideEffects(ctx, id, current, fields)
	case schema.EntityTicket:
		ticketSideEffects(current, fields)
	}
	return nil
}

func (s *Service) doctorSideEffects(ctx context.Context, id string, current, fields model.Document) error {
	if v, ok := fields["hospital"]; ok {
		newHospital := v.(string)
		delete(fields, "hospital")
		if newHospital != model.DocString(current, "hospital") {
			if err := s.cascade.ReassignDoctorHospital(ctx, id, newHospital); err != nil {
				return err
			}
		}
	}

	if v, ok := fields["patients"]; ok {
		desired := model.DocStrings(model.Document{"patients": v}, "patients")
		delete(fields, "patients")
		existing := model.DocStrings(current, "patients")
		for _, patientID := range diff(desired, existing) {
			if err := s.relation.LinkDoctorPatient(ctx, id, patientID); err != nil {
				return err
			}
		}
		for _, patientID := range diff(existing, desired) {
			if err := s.relation.UnlinkDoctorPatient(ctx, id, patientID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) patientSideEffects(ctx context.Context, id string, current, fields model.Document) error {
	if v, ok := fields["doctor"]; ok {
		newDoctor := v.(string)
		delete(fields, "doctor")
		oldDoctor := model.DocString(current, "doctor")
		if newDoctor != oldDoctor {
			if err := s.relation.SwitchPatientDoctor(ctx, id, oldDoctor, newDoctor); err != nil {
				return err
			}
		}
	}

	if v, ok := fields["hospital"]; ok {
		newHospital := v.(string)
		oldHospital := model.DocString(current, "hospital")
		if newHospital != oldHospital {
			delete(fields, "hospital")
			batch := s.store.Batch()
			if err := s.relation.AppendMove(ctx, batch, oldHospital, newHospital, id, relation.KindPatients, "patient-update"); err != nil {
				return err
			}
			batch.Update(model.CollectionPatients, id, model.Document{"hospital": newHospital})
			if err := batch.Commit(ctx); err != nil {
				return errors.Internal(err).WithOp("patient-update")
			}
		}
	}
	return nil
}

func (s *Service) hospitalSideEffects(ctx context.Context, id string, current, fields model.Document) error {
	if v, ok := fields["admin"]; ok {
		newAdmin := v.(string)
		delete(fields, "admin")
		if newAdmin == model.DocString(current, "admin") {
			return nil
		}
		if newAdmin == "" {
			return s.relation.UnlinkHospitalAdmin(ctx, id)
		}
		return s.relation.LinkHospitalAdmin(ctx, id, newAdmin)
	}
	return nil
}

// ticketSideEffects stamps solvedAt when a ticket transitions to resolved.
func ticketSideEffects(current, fields model.Document) {
	status, ok := fields["status"].(string)
	if !ok {
		return
	}
	if status == string(model.TicketStatusResolved) &&
		model.DocString(current, "status") != string(model.TicketStatusResolved) {
		fields["solvedAt"] = time.Now().UTC()
	}
}

// diff returns the elements of a not present in b.
func diff(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, v := range b {
		inB[v] = true
	}
	var out []string
	for _, v := range a {
		if !inB[v] {
			out = append(out, v)
		}
	}
	return out
}

func (s *Service) getDoc(ctx context.Context, collection, id, resource, op string) (model.Document, error) {
	doc, err := s.store.Get(ctx, collection, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound(resource).WithOp(op)
		}
		return nil, errors.Internal(err).WithOp(op)
	}
	return doc, nil
}
