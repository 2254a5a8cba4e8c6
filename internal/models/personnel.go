package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PersonnelAvailable  = "available"
	PersonnelResponding = "responding"
	PersonnelEnRoute    = "en-route"
	PersonnelOnScene    = "on-scene"
)

// Personnel - сотрудник экстренных служб.
// AssignedIncidentID - слабая ссылка: nil тогда и только тогда, когда Status == available.
type Personnel struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Role               string     `json:"role"`
	Status             string     `json:"status"`
	Latitude           *float64   `json:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty"`
	AssignedIncidentID *uuid.UUID `json:"assigned_incident_id,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// LocationUpdateResult - новое положение сотрудника и результат проверки геозон
type LocationUpdateResult struct {
	Personnel *Personnel      `json:"personnel"`
	Geofence  *GeofenceResult `json:"geofence"`
}
