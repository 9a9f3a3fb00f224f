package model

type Admin struct {
	Base         `bson:",inline"`
	PersID       string `json:"persId" bson:"persId"`
	Password     string `json:"-" bson:"password"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	MobileNumber string `json:"mobileNumber" bson:"mobileNumber"`
	Hospital     string `json:"hospital" bson:"hospital"`
	Suspended    bool   `json:"suspended" bson:"suspended"`
	Role         Role   `json:"role" bson:"role"`
}

type RegisterAdminRequest struct {
	PersID       string `json:"persId" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	MobileNumber string `json:"mobileNumber" binding:"required"`
	Hospital     string `json:"hospital"`
}

type SuperAdmin struct {
	Base         `bson:",inline"`
	PersID       string `json:"persId" bson:"persId"`
	Password     string `json:"-" bson:"password"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	MobileNumber string `json:"mobileNumber" bson:"mobileNumber"`
	Role         Role   `json:"role" bson:"role"`
}

type RegisterSuperAdminRequest struct {
	PersID       string `json:"persId" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	MobileNumber string `json:"mobileNumber" binding:"required"`
}
