package models

import "github.com/google/uuid"

// Report - нормализованное сообщение о происшествии из любого канала
type Report struct {
	Title         string
	Description   string
	Type          string
	Severity      string
	Latitude      float64
	Longitude     float64
	LocationName  string
	Source        string
	ReporterPhone string
	VictimsCount  int
	Mesh          *SOSMessage
}

// IngestOutcome - результат корреляции сообщения
type IngestOutcome string

const (
	OutcomeCreated       IngestOutcome = "created"
	OutcomeMerged        IngestOutcome = "merged"
	OutcomeAlreadyExists IngestOutcome = "already_exists"
)

type IngestResult struct {
	Incident     *Incident     `json:"incident"`
	Outcome      IngestOutcome `json:"status"`
	ReportCount  int           `json:"report_count"`
	Notification *Notification `json:"notification,omitempty"`
}

// MergeOutcome возвращается хранилищем после попытки слияния
type MergeOutcome struct {
	ReportCount int
	Duplicate   bool
}

// ResolutionResult - итог перехода в машине состояний разрешения инцидента
type ResolutionResult struct {
	IncidentID        uuid.UUID `json:"incident_id"`
	Status            string    `json:"status"`
	ReleasedPersonnel int       `json:"released_personnel"`
	ReleasedResources int       `json:"released_resources"`
	AlreadyResolved   bool      `json:"already_resolved"`
}

// AssignmentResult - идентификаторы закрепленных за инцидентом сущностей
type AssignmentResult struct {
	Personnel []uuid.UUID `json:"personnel"`
	Resources []uuid.UUID `json:"resources"`
}
