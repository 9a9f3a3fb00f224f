package model

type Hospital struct {
	Base          `bson:",inline"`
	Name          string   `json:"name" bson:"name"`
	Address       string   `json:"address" bson:"address"`
	MobileNumbers []string `json:"mobileNumbers" bson:"mobileNumbers"`
	Emails        []string `json:"emails" bson:"emails"`
	Admin         string   `json:"admin" bson:"admin"`
	Doctors       []string `json:"doctors" bson:"doctors"`
	Patients      []string `json:"patients" bson:"patients"`
	Suspended     bool     `json:"suspended" bson:"suspended"`
}

type CreateHospitalRequest struct {
	Name          string   `json:"name" binding:"required"`
	Address       string   `json:"address" binding:"required"`
	MobileNumbers []string `json:"mobileNumbers" binding:"required,min=1"`
	Emails        []string `json:"emails" binding:"required,min=1,dive,email"`
}
