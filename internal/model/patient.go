package model

type PatientStatus string

const (
	PatientStatusRecovering PatientStatus = "recovering"
	PatientStatusRecovered  PatientStatus = "recovered"
	PatientStatusActive     PatientStatus = "active"
	PatientStatusInactive   PatientStatus = "inactive"
)

type Patient struct {
	Base           `bson:",inline"`
	PersID         string   `json:"persId" bson:"persId"`
	Password       string   `json:"-" bson:"password"`
	Name           string   `json:"name" bson:"name"`
	Email          string   `json:"email" bson:"email"`
	MobileNumber   string   `json:"mobileNumber" bson:"mobileNumber"`
	BirthDate      string   `json:"birthDate" bson:"birthDate"`
	Hospital       string   `json:"hospital" bson:"hospital"`
	Status         string   `json:"status" bson:"status"`
	Diagnosis      string   `json:"diagnosis" bson:"diagnosis"`
	MedicalHistory []string `json:"medicalHistory" bson:"medicalHistory"`
	// Doctor is the primary doctor; Doctors is the full membership set the
	// synchronizer keeps in step with each doctor's patients array.
	Doctor    string   `json:"doctor" bson:"doctor"`
	Doctors   []string `json:"doctors" bson:"doctors"`
	Suspended bool     `json:"suspended" bson:"suspended"`
	Role      Role     `json:"role" bson:"role"`
}

type RegisterPatientRequest struct {
	PersID       string `json:"persId" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	MobileNumber string `json:"mobileNumber" binding:"required"`
	BirthDate    string `json:"birthDate" binding:"required"`
	Hospital     string `json:"hospital" binding:"required"`
	Doctor       string `json:"doctor"`
	Diagnosis    string `json:"diagnosis"`
}
