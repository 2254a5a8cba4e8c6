package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы событий хронологии инцидента
const (
	EventIncidentCreated     = "incident_created"
	EventDuplicateReport     = "duplicate_report"
	EventSOSMeshReport       = "sosmesh_report"
	EventResolutionSubmitted = "resolution_submitted"
	EventIncidentResolved    = "incident_resolved"
	EventResourcesAssigned   = "resources_assigned"
	EventAttachmentAdded     = "attachment_added"
	EventAIVerification      = "ai_verification"
	EventGeofenceCreated     = "geofence_created"
)

type TimelineEvent struct {
	ID          uuid.UUID `json:"id"`
	IncidentID  uuid.UUID `json:"incident_id"`
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	UserName    string    `json:"user_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Авторы записей хронологии
const (
	ActorSystem     = "System"
	ActorSMSGateway = "System (SMS Gateway)"
	ActorSOSMesh    = "SOS Mesh"
	ActorResponder  = "Responder"
	ActorSupervisor = "Supervisor"
	ActorDispatcher = "Dispatcher"
	ActorAI         = "AI Verification"
)

const SubmittedForReviewDescription = "Incident submitted for resolution. Review required."

// ResolvedDescription - текст записи о подтвержденном разрешении
func ResolvedDescription(personnel, resources int) string {
	return fmt.Sprintf("Incident resolution confirmed. Released %d personnel and %d resources.", personnel, resources)
}

// AssignedDescription - текст записи о назначении сил и средств
func AssignedDescription(personnel, resources int) string {
	return fmt.Sprintf("Assigned %d personnel and %d resources.", personnel, resources)
}
