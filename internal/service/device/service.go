package device

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

type DeviceService interface {
	Register(ctx context.Context, req *model.RegisterDeviceRequest, requester model.Requester) (model.Document, error)
	Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error)
	List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error)
	Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error)
	Delete(ctx context.Context, id string, requester model.Requester) error
	Assign(ctx context.Context, deviceID, patientID string, requester model.Requester) error
	Unassign(ctx context.Context, deviceID string, requester model.Requester) error
}

type Service struct {
	store  repository.Store
	engine *entity.Service
}

func NewService(store repository.Store, engine *entity.Service) *Service {
	return &Service{store: store, engine: engine}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterDeviceRequest, requester model.Requester) (model.Document, error) {
	if _, err := s.store.Get(ctx, model.CollectionHospitals, req.Hospital); err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("hospital").WithOp("device-register")
		}
		return nil, errors.Internal(err).WithOp("device-register")
	}
	status := req.Status
	if status == "" {
		status = string(model.DeviceStatusStandby)
	}
	device := &model.Device{
		Base:       model.Base{ID: uuid.New().String()},
		DeviceCode: req.DeviceCode,
		Hospital:   req.Hospital,
		Status:     status,
	}
	doc, err := model.ToDocument(device)
	if err != nil {
		return nil, errors.Internal(err).WithOp("device-register")
	}
	if err := s.engine.Insert(ctx, schema.EntityDevice, device.ID, doc, requester); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string, requester model.Requester, mode visibility.Mode) (model.Document, error) {
	return s.engine.Get(ctx, schema.EntityDevice, id, requester, mode)
}

func (s *Service) List(ctx context.Context, requester model.Requester, mode visibility.Mode) ([]model.Document, error) {
	return s.engine.List(ctx, schema.EntityDevice, requester, mode)
}

func (s *Service) Update(ctx context.Context, id string, fields model.Document, requester model.Requester) (model.Document, error) {
	return s.engine.Update(ctx, schema.EntityDevice, id, fields, requester)
}

func (s *Service) Delete(ctx context.Context, id string, requester model.Requester) error {
	if requester.Role != model.RoleSuperAdmin && requester.Role != model.RoleAdmin {
		return errors.Forbidden("insufficient role to delete devices").WithOp("device-delete")
	}
	if err := s.store.Delete(ctx, model.CollectionDevices, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFound("device").WithOp("device-delete")
		}
		return errors.Internal(err).WithOp("device-delete")
	}
	return nil
}

// Assign attaches the device to a patient. The patient must belong to the
// same hospital the device is stationed at.
func (s *Service) Assign(ctx context.Context, deviceID, patientID string, requester model.Requester) error {
	device, err := s.getDoc(ctx, model.CollectionDevices, deviceID, "device", "device-assign")
	if err != nil {
		return err
	}
	patient, err := s.getDoc(ctx, model.CollectionPatients, patientID, "patient", "device-assign")
	if err != nil {
		return err
	}
	if model.DocString(device, "hospital") != model.DocString(patient, "hospital") {
		return errors.Validation("patient", "patient is registered at a different hospital").WithOp("device-assign")
	}
	// Attaching steals: the device drops its previous patient and any other
	// device monitoring this patient is released, all in one batch.
	others, err := s.store.FindEquals(ctx, model.CollectionDevices, "patient", []string{patientID})
	if err != nil {
		return errors.Internal(err).WithOp("device-assign")
	}
	batch := s.store.Batch()
	for _, other := range others {
		otherID := model.DocString(other, "_id")
		if otherID == deviceID {
			continue
		}
		batch.Update(model.CollectionDevices, otherID, model.Document{
			"patient": "",
			"status":  string(model.DeviceStatusStandby),
		})
	}
	batch.Update(model.CollectionDevices, deviceID, model.Document{
		"patient": patientID,
		"status":  string(model.DeviceStatusOperational),
	})
	if err := batch.Commit(ctx); err != nil {
		return errors.Internal(err).WithOp("device-assign")
	}
	return nil
}

func (s *Service) Unassign(ctx context.Context, deviceID string, requester model.Requester) error {
	if _, err := s.getDoc(ctx, model.CollectionDevices, deviceID, "device", "device-unassign"); err != nil {
		return err
	}
	if err := s.store.Update(ctx, model.CollectionDevices, deviceID, model.Document{
		"patient": "",
		"status":  string(model.DeviceStatusStandby),
	}); err != nil {
		return errors.Internal(err).WithOp("device-unassign")
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
