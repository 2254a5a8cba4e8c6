package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shenikar/crisis_broadcasting_system/internal/broadcast"
	"github.com/shenikar/crisis_broadcasting_system/internal/geo"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/sirupsen/logrus"
)

var sourceLabels = map[string]string{
	models.SourceWeb:     "Web",
	models.SourceSMS:     "SMS",
	models.SourceSOSMesh: "SOS Mesh",
}

// IngestReport коррелирует сообщение с активными инцидентами того же типа.
// Целью слияния становится первый кандидат в радиусе, а не ближайший.
func (s *incidentService) IngestReport(ctx context.Context, report *models.Report) (*models.IngestResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "IngestReport",
		"source":  report.Source,
		"type":    report.Type,
	})
	log.Info("Ingesting report")

	if err := normalizeReport(report); err != nil {
		log.WithError(err).Warn("Invalid report")
		return nil, err
	}

	candidates, err := s.repo.FindActiveByType(ctx, report.Type)
	if err != nil {
		log.WithError(err).Error("Failed to load active incidents")
		return nil, fmt.Errorf("service: could not load active incidents: %w", err)
	}

	point := geo.Point{Lat: report.Latitude, Lng: report.Longitude}
	for _, candidate := range candidates {
		if geo.WithinRadius(point, candidate.Location(), s.cfg.MergeRadiusMeters) {
			return s.mergeInto(ctx, log, candidate, report)
		}
	}
	return s.createFromReport(ctx, log, report)
}

func (s *incidentService) mergeInto(ctx context.Context, log *logrus.Entry, target *models.Incident, report *models.Report) (*models.IngestResult, error) {
	log = log.WithField("incident_id", target.ID)

	outcome, err := s.repo.MergeReport(ctx, target.ID, report.Mesh)
	if err != nil {
		log.WithError(err).Error("Failed to merge report")
		return nil, fmt.Errorf("service: could not merge report: %w", err)
	}
	target.ReportCount = outcome.ReportCount

	if outcome.Duplicate {
		log.WithField("msg_id", report.Mesh.MsgID).Info("Mesh message already recorded")
		s.metrics.observeIngest(models.OutcomeAlreadyExists, report.Source)
		return &models.IngestResult{
			Incident:    target,
			Outcome:     models.OutcomeAlreadyExists,
			ReportCount: outcome.ReportCount,
		}, nil
	}

	s.invalidateCache(ctx, log, target.ID)

	event := &models.TimelineEvent{
		IncidentID:  target.ID,
		EventType:   models.EventDuplicateReport,
		Description: fmt.Sprintf("Additional report received. Total reports: %d", outcome.ReportCount),
		UserName:    models.ActorSystem,
	}
	if report.Mesh != nil {
		event.EventType = models.EventSOSMeshReport
		event.Description = fmt.Sprintf("SOS Mesh report from %s - %s. Total reports: %d",
			report.Mesh.Name, report.Mesh.Emergency, outcome.ReportCount)
		event.UserName = models.ActorSOSMesh
	}
	if err := s.repo.AddTimelineEvent(ctx, event); err != nil {
		log.WithError(err).Error("Failed to add merge timeline event")
	}

	merged := s.reloadMerged(ctx, log, target, report)
	notification := s.notify(ctx, log, merged, report)
	s.hub.Publish(broadcast.EventIncidentUpdated, merged, broadcast.GlobalRoom, broadcast.IncidentRoom(merged.ID))
	s.metrics.observeIngest(models.OutcomeMerged, report.Source)

	log.WithField("report_count", outcome.ReportCount).Info("Report merged into existing incident")
	return &models.IngestResult{
		Incident:     merged,
		Outcome:      models.OutcomeMerged,
		ReportCount:  outcome.ReportCount,
		Notification: notification,
	}, nil
}

// reloadMerged перечитывает инцидент после слияния вместе с журналом mesh-сообщений.
// При ошибке чтения возвращается кандидат с добавленным сообщением.
func (s *incidentService) reloadMerged(ctx context.Context, log *logrus.Entry, target *models.Incident, report *models.Report) *models.Incident {
	fresh, err := s.repo.GetByID(ctx, target.ID)
	if err == nil {
		return fresh
	}
	log.WithError(err).Warn("Failed to reload merged incident")
	if report.Mesh != nil {
		target.MeshMessages = append(target.MeshMessages, *report.Mesh)
	}
	return target
}

func (s *incidentService) createFromReport(ctx context.Context, log *logrus.Entry, report *models.Report) (*models.IngestResult, error) {
	incident := &models.Incident{
		Title:         report.Title,
		Description:   report.Description,
		Type:          report.Type,
		Severity:      report.Severity,
		Status:        models.StatusActive,
		Latitude:      report.Latitude,
		Longitude:     report.Longitude,
		LocationName:  report.LocationName,
		ReportSource:  report.Source,
		ReporterPhone: report.ReporterPhone,
		ReportCount:   1,
		VictimsCount:  report.VictimsCount,
		Verification:  models.VerificationUnverified,
	}

	if err := s.repo.Create(ctx, incident, report.Mesh); err != nil {
		log.WithError(err).Error("Failed to create incident")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}
	log = log.WithField("incident_id", incident.ID)

	event := &models.TimelineEvent{
		IncidentID:  incident.ID,
		EventType:   models.EventIncidentCreated,
		Description: fmt.Sprintf("Incident reported: %s", incident.Title),
		UserName:    models.ActorSystem,
	}
	switch report.Source {
	case models.SourceSMS:
		event.Description = fmt.Sprintf("Incident reported via SMS from %s", report.ReporterPhone)
		event.UserName = models.ActorSMSGateway
	case models.SourceSOSMesh:
		event.Description = fmt.Sprintf("Incident created from SOS Mesh: %s reported by %s", report.Mesh.Emergency, report.Mesh.Name)
		event.UserName = models.ActorSOSMesh
	}
	if err := s.repo.AddTimelineEvent(ctx, event); err != nil {
		log.WithError(err).Error("Failed to add creation timeline event")
	}

	notification := s.notify(ctx, log, incident, report)
	s.hub.Publish(broadcast.EventIncidentCreated, incident, broadcast.GlobalRoom, broadcast.IncidentRoom(incident.ID))
	s.metrics.observeIngest(models.OutcomeCreated, report.Source)

	log.Info("Incident created")
	return &models.IngestResult{
		Incident:     incident,
		Outcome:      models.OutcomeCreated,
		ReportCount:  1,
		Notification: notification,
	}, nil
}

// notify сохраняет широковещательное уведомление и рассылает его в глобальную комнату.
// Ошибка записи не отменяет уже зафиксированное сообщение.
func (s *incidentService) notify(ctx context.Context, log *logrus.Entry, incident *models.Incident, report *models.Report) *models.Notification {
	id := incident.ID
	n := &models.Notification{
		IncidentID: &id,
		Title:      fmt.Sprintf("New %s Incident", strings.ToUpper(incident.Severity)),
		Message:    incident.Title,
		Type:       models.NotificationIncidentUpdate,
		Priority:   incident.NotificationPriority(),
	}
	if report.Mesh != nil {
		n.Title = fmt.Sprintf("SOS MESH ALERT: %s", strings.ToUpper(report.Severity))
		n.Message = fmt.Sprintf("%s - %s", report.Mesh.Emergency, report.Mesh.Name)
	}

	if err := s.repo.CreateNotification(ctx, n); err != nil {
		log.WithError(err).Error("Failed to save notification")
		return nil
	}
	s.hub.Publish(broadcast.EventNotification, n, broadcast.GlobalRoom)
	return n
}

// normalizeReport проверяет сообщение и заполняет значения по умолчанию
func normalizeReport(r *models.Report) error {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	if r.Type == "" {
		return fmt.Errorf("service: incident type is required: %w", models.ErrValidation)
	}

	r.Severity = strings.ToLower(strings.TrimSpace(r.Severity))
	if r.Severity == "" {
		r.Severity = models.SeverityMedium
	}
	if !models.IsValidSeverity(r.Severity) {
		return fmt.Errorf("service: unknown severity %q: %w", r.Severity, models.ErrValidation)
	}

	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("service: latitude %v out of range: %w", r.Latitude, models.ErrValidation)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("service: longitude %v out of range: %w", r.Longitude, models.ErrValidation)
	}

	if r.Source == "" {
		r.Source = models.SourceWeb
	}
	label, ok := sourceLabels[r.Source]
	if !ok {
		return fmt.Errorf("service: unknown report source %q: %w", r.Source, models.ErrValidation)
	}

	if r.Source == models.SourceSOSMesh {
		if r.Mesh == nil || strings.TrimSpace(r.Mesh.MsgID) == "" {
			return fmt.Errorf("service: mesh report requires msg_id: %w", models.ErrValidation)
		}
	} else {
		r.Mesh = nil
	}

	if r.VictimsCount < 0 {
		return fmt.Errorf("service: victims_count must not be negative: %w", models.ErrValidation)
	}

	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = fmt.Sprintf("%s %s incident", strings.ToUpper(r.Severity[:1])+r.Severity[1:], r.Type)
	}
	if strings.TrimSpace(r.LocationName) == "" {
		r.LocationName = fmt.Sprintf("%s Location (%.4f, %.4f)", label, r.Latitude, r.Longitude)
	}
	return nil
}
