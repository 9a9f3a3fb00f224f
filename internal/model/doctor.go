package model

// ScheduleSlot is one recurring working-hours entry on a doctor.
type ScheduleSlot struct {
	Day   string `json:"day" bson:"day"`
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

type Doctor struct {
	Base         `bson:",inline"`
	PersID       string         `json:"persId" bson:"persId"`
	Password     string         `json:"-" bson:"password"`
	Name         string         `json:"name" bson:"name"`
	Email        string         `json:"email" bson:"email"`
	MobileNumber string         `json:"mobileNumber" bson:"mobileNumber"`
	BirthDate    string         `json:"birthDate" bson:"birthDate"`
	Licenses     []string       `json:"licenses" bson:"licenses"`
	Description  string         `json:"description" bson:"description"`
	Hospital     string         `json:"hospital" bson:"hospital"`
	Patients     []string       `json:"patients" bson:"patients"`
	Schedule     []ScheduleSlot `json:"schedule" bson:"schedule"`
	Suspended    bool           `json:"suspended" bson:"suspended"`
	Role         Role           `json:"role" bson:"role"`
}

type RegisterDoctorRequest struct {
	PersID       string         `json:"persId" binding:"required"`
	Password     string         `json:"password" binding:"required,min=8"`
	Name         string         `json:"name" binding:"required"`
	Email        string         `json:"email" binding:"required,email"`
	MobileNumber string         `json:"mobileNumber" binding:"required"`
	BirthDate    string         `json:"birthDate" binding:"required"`
	Licenses     []string       `json:"licenses"`
	Description  string         `json:"description"`
	Hospital     string         `json:"hospital" binding:"required"`
	Schedule     []ScheduleSlot `json:"schedule"`
}
