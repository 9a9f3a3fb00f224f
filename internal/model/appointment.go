package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	Base            `bson:",inline"`
	Patient         string    `json:"patient" bson:"patient"`
	Doctor          string    `json:"doctor" bson:"doctor"`
	AppointmentDate time.Time `json:"appointmentDate" bson:"appointmentDate"`
	Purpose         string    `json:"purpose" bson:"purpose"`
	Status          string    `json:"status" bson:"status"`
	Suspended       bool      `json:"suspended" bson:"suspended"`
}

type CreateAppointmentRequest struct {
	Patient         string    `json:"patient" binding:"required"`
	Doctor          string    `json:"doctor" binding:"required"`
	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
	Purpose         string    `json:"purpose" binding:"required"`
}
