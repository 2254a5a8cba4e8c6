// Package intake превращает сообщения внешних каналов (SMS, Bluetooth mesh) в models.Report.
// Классификация эвристическая: по ключевым словам, без гарантий точности.
package intake

import (
	"fmt"
	"strings"

	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

// SMSLocationFallback - название места, если в тексте нет конструкции "at <место>"
const SMSLocationFallback = "SMS Reported Location"

// SMSReport - результат разбора текста SMS
type SMSReport struct {
	Type         string
	Severity     string
	Title        string
	Description  string
	LocationName string
	// HasLocation - место найдено в тексте и его можно геокодировать
	HasLocation bool
}

type keywordRule struct {
	incidentType string
	words        []string
}

// порядок важен: первое совпадение определяет тип
var typeRules = []keywordRule{
	{"fire", []string{"fire"}},
	{"accident", []string{"accident", "crash"}},
	{"medical", []string{"medical", "ambulance", "sick"}},
	{"rescue", []string{"rescue", "trapped"}},
}

var (
	highSeverityWords = []string{"urgent", "critical", "dying", "trapped", "huge", "help me"}
	lowSeverityWords  = []string{"small", "minor"}
)

// ParseSMS разбирает свободный текст вида "Fire at Connaught Place. 3rd floor."
func ParseSMS(body string) SMSReport {
	body = strings.TrimSpace(body)
	lower := strings.ToLower(body)

	r := SMSReport{
		Type:         "general",
		Severity:     models.SeverityMedium,
		Description:  body,
		LocationName: SMSLocationFallback,
	}

	for _, rule := range typeRules {
		if containsAny(lower, rule.words) {
			r.Type = rule.incidentType
			break
		}
	}

	switch {
	case containsAny(lower, highSeverityWords):
		r.Severity = models.SeverityHigh
	case containsAny(lower, lowSeverityWords):
		r.Severity = models.SeverityLow
	}

	if _, rest, ok := strings.Cut(body, " at "); ok {
		rest, _, _ = strings.Cut(rest, ".")
		if name := strings.TrimSpace(rest); name != "" {
			r.LocationName = name
			r.HasLocation = true
		}
	}

	r.Title = fmt.Sprintf("SMS: %s Report", capitalize(r.Type))
	return r
}

// Report собирает сообщение для движка корреляции
func (r SMSReport) Report(lat, lng float64, phone string) models.Report {
	return models.Report{
		Title:         r.Title,
		Description:   r.Description,
		Type:          r.Type,
		Severity:      r.Severity,
		Latitude:      lat,
		Longitude:     lng,
		LocationName:  r.LocationName,
		Source:        models.SourceSMS,
		ReporterPhone: phone,
	}
}

type meshClass struct {
	incidentType string
	severity     string
}

var meshEmergencies = map[string]meshClass{
	"Medical Emergency": {"medical", models.SeverityCritical},
	"Fire":              {"fire", models.SeverityCritical},
	"Accident":          {"accident", models.SeverityHigh},
	"Crime":             {"security", models.SeverityHigh},
	"Natural Disaster":  {"natural_disaster", models.SeverityCritical},
	"Other":             {"other", models.SeverityMedium},
}

// ClassifyMeshEmergency сопоставляет категорию mesh-устройства типу и критичности инцидента.
// Неизвестная категория считается высокой критичности.
func ClassifyMeshEmergency(emergency string) (incidentType, severity string) {
	if c, ok := meshEmergencies[emergency]; ok {
		return c.incidentType, c.severity
	}
	return "other", models.SeverityHigh
}

// MeshTitle - заголовок инцидента, созданного по mesh-сообщению
func MeshTitle(emergency, name string) string {
	return fmt.Sprintf("SOS: %s - %s", emergency, name)
}

// MeshReport собирает сообщение для движка корреляции из mesh-сообщения
func MeshReport(msg *models.SOSMessage) models.Report {
	incidentType, severity := ClassifyMeshEmergency(msg.Emergency)
	description := fmt.Sprintf("Emergency reported via SOS Bluetooth Mesh Network.\n\nReporter: %s\nEmergency Type: %s\nMessage ID: %s",
		msg.Name, msg.Emergency, msg.MsgID)
	return models.Report{
		Title:       MeshTitle(msg.Emergency, msg.Name),
		Description: description,
		Type:        incidentType,
		Severity:    severity,
		Latitude:    msg.Latitude,
		Longitude:   msg.Longitude,
		Source:      models.SourceSOSMesh,
		Mesh:        msg,
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
