// Package schema holds the static per-entity update schemas: the allowed
// field set and the validator for each field. Update requests are checked
// against these tables instead of inspecting document keys at runtime.
package schema

import (
	"github.com/caresync/hospital-api/internal/model"
)

// EntityType names a stored entity kind.
type EntityType string

const (
	EntityHospital    EntityType = "hospital"
	EntityAdmin       EntityType = "admin"
	EntityDoctor      EntityType = "doctor"
	EntityPatient     EntityType = "patient"
	EntitySuperAdmin  EntityType = "superadmin"
	EntityDevice      EntityType = "device"
	EntityAppointment EntityType = "appointment"
	EntityTest        EntityType = "test"
	EntityTicket      EntityType = "ticket"
)

// EntitySchema describes how one entity kind may be updated.
type EntitySchema struct {
	Collection string
	// Fields maps every updatable field to its rule. A key absent here and
	// not immutable fails with FieldNotAllowed.
	Fields map[string]Rule
	// Identity lists the fields that must stay unique across collections.
	Identity []string
}

// Immutable fields are rejected with ImmutableField on every entity kind.
var Immutable = map[string]bool{
	"_id":       true,
	"id":        true,
	"role":      true,
	"createdAt": true,
}

var schemas = map[EntityType]*EntitySchema{
	EntityHospital: {
		Collection: model.CollectionHospitals,
		Fields: map[string]Rule{
			"name":          NonEmptyString(),
			"address":       String(),
			"mobileNumbers": StringArray(),
			"emails":        StringArray(),
			"admin":         String(),
			"suspended":     Bool(),
		},
		Identity: []string{"emails", "mobileNumbers"},
	},
	EntityAdmin: {
		Collection: model.CollectionAdmins,
		Fields: map[string]Rule{
			"persId":       NonEmptyString(),
			"password":     NonEmptyString(),
			"name":         NonEmptyString(),
			"email":        NonEmptyString(),
			"mobileNumber": NonEmptyString(),
			"hospital":     String(),
			"suspended":    Bool(),
		},
		Identity: []string{"email", "mobileNumber", "persId"},
	},
	EntityDoctor: {
		Collection: model.CollectionDoctors,
		Fields: map[string]Rule{
			"persId":       NonEmptyString(),
			"password":     NonEmptyString(),
			"name":         NonEmptyString(),
			"email":        NonEmptyString(),
			"mobileNumber": NonEmptyString(),
			"birthDate":    DateString(),
			"licenses":     StringArray(),
			"description":  String(),
			"hospital":     NonEmptyString(),
			"patients":     StringArray(),
			"schedule":     Schedule(),
			"suspended":    Bool(),
		},
		Identity: []string{"email", "mobileNumber", "persId"},
	},
	EntityPatient: {
		Collection: model.CollectionPatients,
		Fields: map[string]Rule{
			"persId":       NonEmptyString(),
			"password":     NonEmptyString(),
			"name":         NonEmptyString(),
			"email":        NonEmptyString(),
			"mobileNumber": NonEmptyString(),
			"birthDate":    DateString(),
			"hospital":     NonEmptyString(),
			"status": Enum(
				string(model.PatientStatusRecovering),
				string(model.PatientStatusRecovered),
				string(model.PatientStatusActive),
				string(model.PatientStatusInactive),
			),
			"diagnosis":      String(),
			"medicalHistory": StringArray(),
			// doctor is a virtual field: it rewires the doctors membership
			// arrays instead of being stored as-is.
			"doctor":    String(),
			"suspended": Bool(),
		},
		Identity: []string{"email", "mobileNumber", "persId"},
	},
	EntitySuperAdmin: {
		Collection: model.CollectionSuperAdmins,
		Fields: map[string]Rule{
			"persId":       NonEmptyString(),
			"password":     NonEmptyString(),
			"name":         NonEmptyString(),
			"email":        NonEmptyString(),
			"mobileNumber": NonEmptyString(),
		},
		Identity: []string{"email", "mobileNumber", "persId"},
	},
	EntityDevice: {
		Collection: model.CollectionDevices,
		Fields: map[string]Rule{
			"device_code": NonEmptyString(),
			"hospital":    NonEmptyString(),
			"patient":     String(),
			"status": Enum(
				string(model.DeviceStatusOperational),
				string(model.DeviceStatusMalfunctioned),
				string(model.DeviceStatusStandby),
			),
			"suspended": Bool(),
		},
	},
	EntityAppointment: {
		Collection: model.CollectionAppointments,
		Fields: map[string]Rule{
			"appointmentDate": Date(),
			"purpose":         String(),
			"status": Enum(
				string(model.AppointmentStatusScheduled),
				string(model.AppointmentStatusCancelled),
				string(model.AppointmentStatusCompleted),
			),
			"suspended": Bool(),
		},
	},
	EntityTest: {
		Collection: model.CollectionTests,
		Fields: map[string]Rule{
			"device":     String(),
			"resultDate": Date(),
			"purpose":    String(),
			"status": Enum(
				string(model.TestStatusReviewed),
				string(model.TestStatusInProgress),
				string(model.TestStatusPending),
			),
			"review":    String(),
			"results":   StringArray(),
			"suspended": Bool(),
		},
	},
	EntityTicket: {
		Collection: model.CollectionTickets,
		Fields: map[string]Rule{
			"issue": NonEmptyString(),
			"status": Enum(
				string(model.TicketStatusOpen),
				string(model.TicketStatusInProgress),
				string(model.TicketStatusResolved),
				string(model.TicketStatusClosed),
			),
			"visibleTo": StringArray(),
			"review":    String(),
			"suspended": Bool(),
		},
	},
}

// For returns the schema for an entity kind.
func For(t EntityType) *EntitySchema {
	return schemas[t]
}
