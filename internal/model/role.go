package model

import "fmt"

// Role is the closed set of actor kinds. Each role maps to exactly one
// collection, which replaces the string-keyed collection switches the API
// would otherwise repeat at every call site.
type Role string

const (
	RolePatient    Role = "patient"
	RoleDoctor     Role = "doctor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
	RoleDevice     Role = "device"
)

// Collection names.
const (
	CollectionHospitals      = "hospitals"
	CollectionAdmins         = "admins"
	CollectionDoctors        = "doctors"
	CollectionPatients       = "patients"
	CollectionSuperAdmins    = "superadmins"
	CollectionDevices        = "devices"
	CollectionAppointments   = "appointments"
	CollectionTests          = "tests"
	CollectionTickets        = "tickets"
	CollectionAuditLogs      = "audit_logs"
	CollectionReconciliation = "reconciliation"
)

var roleCollections = map[Role]string{
	RolePatient:    CollectionPatients,
	RoleDoctor:     CollectionDoctors,
	RoleAdmin:      CollectionAdmins,
	RoleSuperAdmin: CollectionSuperAdmins,
	RoleDevice:     CollectionDevices,
}

// Collection returns the collection backing the role's entities.
func (r Role) Collection() string {
	return roleCollections[r]
}

func (r Role) Valid() bool {
	_, ok := roleCollections[r]
	return ok
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// IdentityRoles lists every role whose entities carry the scalar identity
// fields checked for cross-collection uniqueness.
var IdentityRoles = []Role{RolePatient, RoleDoctor, RoleAdmin, RoleSuperAdmin, RoleDevice}
