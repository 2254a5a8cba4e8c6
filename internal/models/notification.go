package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationIncidentUpdate = "incident_update"
	NotificationGeofenceAlert  = "geofence_alert"
)

type Notification struct {
	ID         uuid.UUID  `json:"id"`
	IncidentID *uuid.UUID `json:"incident_id,omitempty"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Type       string     `json:"type"`
	Priority   string     `json:"priority"`
	CreatedAt  time.Time  `json:"created_at"`
}
