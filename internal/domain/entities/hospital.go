package entities

import (
	"math"
	"time"
)

// Hospital represents an emergency-capable hospital in the catalog
type Hospital struct {
	ID                string       `json:"id" db:"id" yaml:"id"`
	Name              string       `json:"name" db:"name" yaml:"name"`
	Address           string       `json:"address" db:"address" yaml:"address"`
	Location          Location     `json:"location" db:"-" yaml:"location"`
	Distance          float64      `json:"distance" db:"distance_miles" yaml:"distance"`
	EstimatedWaitTime int          `json:"estimated_wait_time" db:"estimated_wait_minutes" yaml:"estimated_wait_time"`
	Capabilities      Capabilities `json:"capabilities" db:"-" yaml:"capabilities"`
	UpdatedAt         time.Time    `json:"updated_at,omitempty" db:"updated_at" yaml:"-"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"lat" db:"latitude" yaml:"lat"`
	Longitude float64 `json:"lng" db:"longitude" yaml:"lng"`
}

// Capabilities is the live capacity and specialty set of a hospital
type Capabilities struct {
	BedsAvailable           int      `json:"beds_available" db:"beds_available" yaml:"beds_available"`
	ICUBedsAvailable        int      `json:"icu_beds_available" db:"icu_beds_available" yaml:"icu_beds_available"`
	OperatingRoomsAvailable int      `json:"operating_rooms_available" db:"operating_rooms_available" yaml:"operating_rooms_available"`
	Specialties             []string `json:"specialties" db:"-" yaml:"specialties"`
	HasHelicopterPad        bool     `json:"has_helicopter_landing_pad" db:"has_helicopter_pad" yaml:"has_helicopter_landing_pad"`
}

const (
	SpecialtyTrauma = "Trauma"
	SpecialtyStroke = "Stroke Center"
)

// HasSpecialty reports whether the hospital carries the exact specialty tag.
func (h *Hospital) HasSpecialty(tag string) bool {
	for _, s := range h.Capabilities.Specialties {
		if s == tag {
			return true
		}
	}
	return false
}

// IsICUCapable reports whether any ICU bed is free.
func (h *Hospital) IsICUCapable() bool {
	return h.Capabilities.ICUBedsAvailable > 0
}

// IsEmergencyReady reports whether the hospital can take a trauma admission right now.
func (h *Hospital) IsEmergencyReady() bool {
	return h.Capabilities.BedsAvailable > 5 &&
		h.Capabilities.OperatingRoomsAvailable > 0 &&
		h.HasSpecialty(SpecialtyTrauma)
}

// Clone returns a deep copy so callers can annotate or adjust a record
// without touching the catalog it came from.
func (h *Hospital) Clone() *Hospital {
	c := *h
	c.Capabilities.Specialties = append([]string(nil), h.Capabilities.Specialties...)
	return &c
}

// HospitalStatusUpdate carries the admin-editable live status fields
type HospitalStatusUpdate struct {
	BedsAvailable           int `json:"beds_available"`
	ICUBedsAvailable        int `json:"icu_beds_available"`
	OperatingRoomsAvailable int `json:"operating_rooms_available"`
	EstimatedWaitTime       int `json:"estimated_wait_time"`
}

// SystemStatus summarises catalog-wide readiness
type SystemStatus struct {
	HospitalsNearby int `json:"hospitals_nearby"`
	ICUCapable      int `json:"icu_capable"`
	EmergencyReady  int `json:"emergency_ready"`
}

// KilometersPerMile converts provider distances to the miles shown to users.
const KilometersPerMile = 1.609344

// KilometersToMiles converts km to miles rounded to one decimal.
func KilometersToMiles(km float64) float64 {
	return math.Round(km/KilometersPerMile*10) / 10
}
