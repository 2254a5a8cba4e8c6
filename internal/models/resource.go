package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ResourceAvailable   = "available"
	ResourceEnRoute     = "en-route"
	ResourceDeployed    = "deployed"
	ResourceMaintenance = "maintenance"
)

type Resource struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	Status             string     `json:"status"`
	AssignedIncidentID *uuid.UUID `json:"assigned_incident_id,omitempty"`
	IsPublic           bool       `json:"is_public"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
