package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_broadcasting_system/internal/geo"
)

// Статусы жизненного цикла инцидента
const (
	StatusActive        = "active"
	StatusPendingReview = "pending_review"
	StatusResolved      = "resolved"
)

// Уровни серьезности
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Источники сообщений
const (
	SourceWeb     = "web"
	SourceSMS     = "sms"
	SourceSOSMesh = "sosmesh"
)

// Значения трехзначной верификации
const (
	VerificationFake       = -1
	VerificationUnverified = 0
	VerificationVerified   = 1
)

type Incident struct {
	ID                   uuid.UUID    `json:"id"`
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Type                 string       `json:"type"`
	Severity             string       `json:"severity"`
	Status               string       `json:"status"`
	Latitude             float64      `json:"latitude"`
	Longitude            float64      `json:"longitude"`
	LocationName         string       `json:"location_name"`
	ReportSource         string       `json:"report_source"`
	ReporterPhone        string       `json:"reporter_phone,omitempty"`
	ReportCount          int          `json:"report_count"`
	VictimsCount         int          `json:"victims_count"`
	Verification         int          `json:"verification"`
	VerificationScore    int          `json:"verification_score"`
	VerificationAnalysis string       `json:"verification_analysis,omitempty"`
	MeshMessages         []SOSMessage `json:"sosmesh_messages,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
	ResolvedAt           *time.Time   `json:"resolved_at,omitempty"`
}

// IsValidSeverity проверяет, что уровень серьезности входит в допустимый набор
func IsValidSeverity(s string) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// NotificationPriority возвращает приоритет рассылки для инцидента
func (i *Incident) NotificationPriority() string {
	if i.Severity == SeverityCritical {
		return SeverityCritical
	}
	return SeverityHigh
}

// Location - координаты инцидента
func (i *Incident) Location() geo.Point {
	return geo.Point{Lat: i.Latitude, Lng: i.Longitude}
}
