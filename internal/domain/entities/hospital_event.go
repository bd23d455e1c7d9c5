package entities

import (
	"time"

	"github.com/google/uuid"
)

// HospitalEventType represents the type of hospital event
type HospitalEventType string

const (
	HospitalEventTypeCapacityUpdate HospitalEventType = "capacity_update"
	HospitalEventTypeWaitTimeUpdate HospitalEventType = "wait_time_update"
)

// HospitalEvent represents a real-time status change for a hospital
type HospitalEvent struct {
	ID            string                 `json:"id"`
	HospitalID    string                 `json:"hospital_id"`
	EventType     HospitalEventType      `json:"event_type"`
	Timestamp     time.Time              `json:"timestamp"`
	Location      Location               `json:"location"`
	ChangedFields map[string]interface{} `json:"changed_fields"`
}

// NewHospitalEvent creates a new hospital event
func NewHospitalEvent(hospitalID string, eventType HospitalEventType, location Location, changedFields map[string]interface{}) *HospitalEvent {
	return &HospitalEvent{
		ID:            uuid.New().String(),
		HospitalID:    hospitalID,
		EventType:     eventType,
		Timestamp:     time.Now(),
		Location:      location,
		ChangedFields: changedFields,
	}
}
