package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Image - изображение для внешнего анализа
type Image struct {
	Data      []byte
	MediaType string
}

// Verdict - структурированный ответ сервиса анализа изображений
type Verdict struct {
	Verified         bool    `json:"is_verified"`
	Fake             bool    `json:"is_fake"`
	Confidence       float64 `json:"confidence_score"`
	Analysis         string  `json:"analysis"`
	SeverityEstimate string  `json:"severity_estimate"`
}

// TriState сворачивает пару verified/fake в трехзначное значение: fake имеет приоритет
func (v *Verdict) TriState() int {
	switch {
	case v.Fake:
		return VerificationFake
	case v.Verified:
		return VerificationVerified
	default:
		return VerificationUnverified
	}
}

// Score возвращает уверенность, округленную и ограниченную диапазоном 0..100
func (v *Verdict) Score() int {
	switch {
	case math.IsNaN(v.Confidence) || v.Confidence < 0:
		return 0
	case v.Confidence > 100:
		return 100
	}
	return int(math.Round(v.Confidence))
}

// VerificationContext - данные инцидента, нужные для анализа
type VerificationContext struct {
	IncidentID  uuid.UUID
	Type        string
	Description string
}

// VerificationRecord - вердикт, который записывается в инцидент
type VerificationRecord struct {
	IncidentID uuid.UUID
	Status     int
	Score      int
	Analysis   string
}

// VerificationJob - задача для пула верификации
type VerificationJob struct {
	IncidentID uuid.UUID
	Path       string
	MediaType  string
}

// VerificationLabel - человекочитаемое имя трехзначного статуса
func VerificationLabel(status int) string {
	switch status {
	case VerificationVerified:
		return "VERIFIED"
	case VerificationFake:
		return "FAKE"
	default:
		return "UNVERIFIED"
	}
}

// Description - текст записи хронологии для сохраненного вердикта
func (r *VerificationRecord) Description() string {
	return strings.TrimSpace(fmt.Sprintf("AI verification: %s (confidence %d%%). %s", VerificationLabel(r.Status), r.Score, r.Analysis))
}
