package intake

import (
	"testing"

	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseSMS(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantType     string
		wantSeverity string
		wantLocation string
		wantTitle    string
	}{
		{
			name:         "fire with location",
			body:         "Fire at Connaught Place. 3rd floor.",
			wantType:     "fire",
			wantSeverity: models.SeverityMedium,
			wantLocation: "Connaught Place",
			wantTitle:    "SMS: Fire Report",
		},
		{
			name:         "crash is an accident",
			body:         "Huge crash at Ring Road near the flyover",
			wantType:     "accident",
			wantSeverity: models.SeverityHigh,
			wantLocation: "Ring Road near the flyover",
			wantTitle:    "SMS: Accident Report",
		},
		{
			name:         "ambulance is medical",
			body:         "need an ambulance, grandfather very sick",
			wantType:     "medical",
			wantSeverity: models.SeverityMedium,
			wantLocation: SMSLocationFallback,
			wantTitle:    "SMS: Medical Report",
		},
		{
			name:         "trapped is rescue and high",
			body:         "people trapped under debris",
			wantType:     "rescue",
			wantSeverity: models.SeverityHigh,
			wantLocation: SMSLocationFallback,
			wantTitle:    "SMS: Rescue Report",
		},
		{
			name:         "first keyword rule wins",
			body:         "minor fire after a crash",
			wantType:     "fire",
			wantSeverity: models.SeverityLow,
			wantLocation: SMSLocationFallback,
			wantTitle:    "SMS: Fire Report",
		},
		{
			name:         "nothing recognised",
			body:         "help me please",
			wantType:     "general",
			wantSeverity: models.SeverityHigh,
			wantLocation: SMSLocationFallback,
			wantTitle:    "SMS: General Report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSMS(tt.body)

			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantSeverity, got.Severity)
			assert.Equal(t, tt.wantLocation, got.LocationName)
			assert.Equal(t, tt.wantLocation != SMSLocationFallback, got.HasLocation)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.body, got.Description)
		})
	}
}

func TestSMSReport_Report(t *testing.T) {
	parsed := ParseSMS("Fire at Connaught Place.")

	r := parsed.Report(28.63, 77.22, "+911234567890")

	assert.Equal(t, models.SourceSMS, r.Source)
	assert.Equal(t, "+911234567890", r.ReporterPhone)
	assert.Equal(t, "Connaught Place", r.LocationName)
	assert.Equal(t, 28.63, r.Latitude)
	assert.Nil(t, r.Mesh)
}

func TestClassifyMeshEmergency(t *testing.T) {
	tests := []struct {
		emergency    string
		wantType     string
		wantSeverity string
	}{
		{"Medical Emergency", "medical", models.SeverityCritical},
		{"Fire", "fire", models.SeverityCritical},
		{"Accident", "accident", models.SeverityHigh},
		{"Crime", "security", models.SeverityHigh},
		{"Natural Disaster", "natural_disaster", models.SeverityCritical},
		{"Other", "other", models.SeverityMedium},
		{"Alien Invasion", "other", models.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.emergency, func(t *testing.T) {
			gotType, gotSeverity := ClassifyMeshEmergency(tt.emergency)

			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantSeverity, gotSeverity)
		})
	}
}

func TestMeshReport(t *testing.T) {
	msg := &models.SOSMessage{
		MsgID:     "89d19edd",
		Name:      "John Doe",
		Latitude:  28.6139,
		Longitude: 77.2090,
		Emergency: "Medical Emergency",
	}

	r := MeshReport(msg)

	assert.Equal(t, "SOS: Medical Emergency - John Doe", r.Title)
	assert.Equal(t, "medical", r.Type)
	assert.Equal(t, models.SeverityCritical, r.Severity)
	assert.Equal(t, models.SourceSOSMesh, r.Source)
	assert.Same(t, msg, r.Mesh)
	assert.Contains(t, r.Description, "Message ID: 89d19edd")
	assert.Empty(t, r.LocationName)
}
