package model

type DeviceStatus string

const (
	DeviceStatusOperational   DeviceStatus = "operational"
	DeviceStatusMalfunctioned DeviceStatus = "malfunctioned"
	DeviceStatusStandby       DeviceStatus = "standby"
)

// Device is a monitoring unit owned by a hospital, optionally attached to a
// single patient at a time.
type Device struct {
	Base         `bson:",inline"`
	DeviceCode   string `json:"device_code" bson:"device_code"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty" bson:"mobileNumber,omitempty"`
	Hospital     string `json:"hospital" bson:"hospital"`
	Patient      string `json:"patient" bson:"patient"`
	Status       string `json:"status" bson:"status"`
	Suspended    bool   `json:"suspended" bson:"suspended"`
}

type RegisterDeviceRequest struct {
	DeviceCode string `json:"device_code" binding:"required"`
	Hospital   string `json:"hospital" binding:"required"`
	Status     string `json:"status"`
}
