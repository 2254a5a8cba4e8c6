package v1

import (
	"time"

	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

// DTOToReport преобразует запрос веб-консоли в сообщение для движка корреляции
func DTOToReport(dto CreateIncidentRequest) *models.Report {
	return &models.Report{
		Title:        dto.Title,
		Description:  dto.Description,
		Type:         dto.Type,
		Severity:     dto.Severity,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
		LocationName: dto.LocationName,
		Source:       models.SourceWeb,
		VictimsCount: dto.VictimsCount,
	}
}

// DTOToSOSMessage преобразует запрос mesh-ретранслятора в доменное сообщение
func DTOToSOSMessage(dto SOSMeshRequest, receivedAt time.Time) *models.SOSMessage {
	var ts int64
	if dto.Timestamp != nil {
		ts = *dto.Timestamp
	}
	return &models.SOSMessage{
		MsgID:      dto.MsgID,
		Name:       dto.Name,
		Latitude:   dto.Latitude,
		Longitude:  dto.Longitude,
		Emergency:  dto.Emergency,
		Timestamp:  ts,
		Delivered:  dto.Delivered,
		ReceivedAt: receivedAt,
	}
}

// DTOToZone преобразует запрос создания геозоны в доменную модель
func DTOToZone(dto CreateZoneRequest) *models.GeofenceZone {
	return &models.GeofenceZone{
		Name:         dto.Name,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
		RadiusMeters: dto.RadiusMeters,
		ZoneType:     dto.ZoneType,
		IncidentID:   dto.IncidentID,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	if model == nil {
		return nil
	}
	return &IncidentResponse{
		ID:                   model.ID,
		Title:                model.Title,
		Description:          model.Description,
		Type:                 model.Type,
		Severity:             model.Severity,
		Status:               model.Status,
		Latitude:             model.Latitude,
		Longitude:            model.Longitude,
		LocationName:         model.LocationName,
		ReportSource:         model.ReportSource,
		ReportCount:          model.ReportCount,
		VictimsCount:         model.VictimsCount,
		Verification:         model.Verification,
		VerificationLabel:    models.VerificationLabel(model.Verification),
		VerificationScore:    model.VerificationScore,
		VerificationAnalysis: model.VerificationAnalysis,
		MeshMessages:         model.MeshMessages,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
		ResolvedAt:           model.ResolvedAt,
	}
}

// ModelToIngestResponse преобразует результат корреляции в DTO для ответа
func ModelToIngestResponse(result *models.IngestResult) *IngestResponse {
	resp := &IngestResponse{
		Status:       string(result.Outcome),
		ReportCount:  result.ReportCount,
		Incident:     ModelToIncidentResponse(result.Incident),
		Notification: result.Notification,
	}
	if result.Incident != nil {
		resp.IncidentID = result.Incident.ID
	}
	return resp
}
