package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

// CreateIncidentRequest DTO для сообщения о происшествии из веб-консоли
// @Description DTO для сообщения о происшествии из веб-консоли
type CreateIncidentRequest struct {
	Title        string  `json:"title,omitempty" validate:"max=255"`
	Description  string  `json:"description,omitempty"`
	Type         string  `json:"type" validate:"required,max=64"`
	Severity     string  `json:"severity,omitempty" validate:"omitempty,oneof=critical high medium low"`
	Latitude     float64 `json:"latitude" validate:"latitude"`
	Longitude    float64 `json:"longitude" validate:"longitude"`
	LocationName string  `json:"location_name,omitempty" validate:"max=255"`
	VictimsCount int     `json:"victims_count,omitempty" validate:"gte=0"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                   uuid.UUID           `json:"id"`
	Title                string              `json:"title"`
	Description          string              `json:"description,omitempty"`
	Type                 string              `json:"type"`
	Severity             string              `json:"severity"`
	Status               string              `json:"status"`
	Latitude             float64             `json:"latitude"`
	Longitude            float64             `json:"longitude"`
	LocationName         string              `json:"location_name"`
	ReportSource         string              `json:"report_source"`
	ReportCount          int                 `json:"report_count"`
	VictimsCount         int                 `json:"victims_count"`
	Verification         int                 `json:"verification"`
	VerificationLabel    string              `json:"verification_label"`
	VerificationScore    int                 `json:"verification_score"`
	VerificationAnalysis string              `json:"verification_analysis,omitempty"`
	MeshMessages         []models.SOSMessage `json:"sosmesh_messages,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
	ResolvedAt           *time.Time          `json:"resolved_at,omitempty"`
}

// IngestResponse DTO для ответа на входящее сообщение
// @Description DTO для ответа на входящее сообщение
type IngestResponse struct {
	Status       string               `json:"status"`
	IncidentID   uuid.UUID            `json:"incident_id"`
	ReportCount  int                  `json:"report_count"`
	Incident     *IncidentResponse    `json:"incident"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// ResolveRequest DTO для перехода по машине состояний разрешения
// @Description confirm=false отправляет на проверку, confirm=true подтверждает разрешение
type ResolveRequest struct {
	Confirm bool   `json:"confirm"`
	User    string `json:"user,omitempty" validate:"max=128"`
}

// AssignRequest DTO для назначения сил и средств
// @Description DTO для назначения сил и средств
type AssignRequest struct {
	PersonnelIDs []uuid.UUID `json:"personnel_ids"`
	ResourceIDs  []uuid.UUID `json:"resource_ids"`
}

// LocationCheckRequest DTO для проверки координат по геозонам
// @Description DTO для проверки координат по геозонам
type LocationCheckRequest struct {
	UserID    string  `json:"user_id" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// LocationUpdateRequest DTO для обновления положения сотрудника
// @Description DTO для обновления положения сотрудника
type LocationUpdateRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// CreateZoneRequest DTO для создания геозоны
// @Description DTO для создания геозоны
type CreateZoneRequest struct {
	Name         string     `json:"name" validate:"required,min=2,max=255"`
	Latitude     float64    `json:"latitude" validate:"latitude"`
	Longitude    float64    `json:"longitude" validate:"longitude"`
	RadiusMeters float64    `json:"radius_meters" validate:"required,gt=0"`
	ZoneType     string     `json:"zone_type,omitempty" validate:"max=64"`
	IncidentID   *uuid.UUID `json:"incident_id,omitempty"`
}

// SOSMeshRequest DTO сообщения из Bluetooth mesh сети
// @Description DTO сообщения из Bluetooth mesh сети
type SOSMeshRequest struct {
	MsgID     string  `json:"msg_id" validate:"required,max=128"`
	Name      string  `json:"name" validate:"required,max=255"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Emergency string  `json:"emergency" validate:"required,max=128"`
	// Время устройства: поле обязательно, ноль допустим
	Timestamp *int64  `json:"timestamp" validate:"required,gte=0"`
	Delivered bool    `json:"delivered"`
}

// SOSMeshResponse DTO ответа ретранслятору mesh сети
// @Description DTO ответа ретранслятору mesh сети
type SOSMeshResponse struct {
	Success      bool                 `json:"success"`
	Status       string               `json:"status"`
	IncidentID   uuid.UUID            `json:"incident_id"`
	MsgID        string               `json:"msg_id"`
	Message      string               `json:"message"`
	ReportCount  int                  `json:"report_count"`
	Notification *models.Notification `json:"notification,omitempty"`
}
