package model

import "time"

type TestStatus string

const (
	TestStatusReviewed   TestStatus = "reviewed"
	TestStatusInProgress TestStatus = "in_progress"
	TestStatusPending    TestStatus = "pending"
)

// Test is a lab/device test record tied to a patient and ordering doctor.
type Test struct {
	Base       `bson:",inline"`
	Patient    string    `json:"patient" bson:"patient"`
	Doctor     string    `json:"doctor" bson:"doctor"`
	Device     string    `json:"device" bson:"device"`
	ResultDate time.Time `json:"resultDate" bson:"resultDate"`
	Purpose    string    `json:"purpose" bson:"purpose"`
	Status     string    `json:"status" bson:"status"`
	Review     string    `json:"review" bson:"review"`
	Results    []string  `json:"results" bson:"results"`
	Suspended  bool      `json:"suspended" bson:"suspended"`
}

type CreateTestRequest struct {
	Patient    string    `json:"patient" binding:"required"`
	Doctor     string    `json:"doctor" binding:"required"`
	Device     string    `json:"device"`
	ResultDate time.Time `json:"resultDate"`
	Purpose    string    `json:"purpose" binding:"required"`
}
