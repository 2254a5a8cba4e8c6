package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shenikar/crisis_broadcasting_system/internal/broadcast"
	"github.com/shenikar/crisis_broadcasting_system/internal/config"
	"github.com/shenikar/crisis_broadcasting_system/internal/geo"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/shenikar/crisis_broadcasting_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// GeofenceRepository определяет контракт хранилища геозон и оповещений
type GeofenceRepository interface {
	ListZones(ctx context.Context, activeOnly bool) ([]*models.GeofenceZone, error)
	CreateZone(ctx context.Context, zone *models.GeofenceZone) error
	CreateAlert(ctx context.Context, alert *models.Alert) error
	ListUnexpiredAlerts(ctx context.Context, box geo.BoundingBox) ([]*models.Alert, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
	AddTimelineEvent(ctx context.Context, event *models.TimelineEvent) error
	SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error
}

// GeofenceService проверяет точки по активным зонам и управляет зонами
type GeofenceService interface {
	Evaluate(ctx context.Context, actorID string, lat, lng float64) (*models.GeofenceResult, error)
	CreateZone(ctx context.Context, zone *models.GeofenceZone) error
	ListZones(ctx context.Context, activeOnly bool) ([]*models.GeofenceZone, error)
	NearbyAlerts(ctx context.Context, lat, lng, radiusMeters float64) ([]*models.NearbyAlert, error)
}

type geofenceService struct {
	repo      GeofenceRepository
	hub       Broadcaster
	publisher webhook.WebhookPublisher
	logger    *logrus.Logger
	cfg       *config.Config
	metrics   *Metrics
	now       func() time.Time
}

// NewGeofenceService - publisher может быть nil, тогда вебхуки не отправляются
func NewGeofenceService(repo GeofenceRepository, logger *logrus.Logger, cfg *config.Config, hub Broadcaster, publisher webhook.WebhookPublisher, metrics *Metrics) GeofenceService {
	return &geofenceService{
		repo:      repo,
		hub:       hub,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		metrics:   metrics,
		now:       time.Now,
	}
}

func validatePoint(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("service: latitude %v out of range: %w", lat, models.ErrValidation)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("service: longitude %v out of range: %w", lng, models.ErrValidation)
	}
	return nil
}

// Evaluate проверяет точку по всем активным зонам. Для каждой нарушенной зоны создаются
// оповещение и уведомление; повторные вызовы создают их заново.
func (s *geofenceService) Evaluate(ctx context.Context, actorID string, lat, lng float64) (*models.GeofenceResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "geofence",
		"method":   "Evaluate",
		"actor_id": actorID,
	})
	log.Info("Checking location against geofence zones")

	if err := validatePoint(lat, lng); err != nil {
		log.WithError(err).Warn("Invalid location")
		return nil, err
	}

	zones, err := s.repo.ListZones(ctx, true)
	if err != nil {
		log.WithError(err).Error("Failed to list active zones")
		return nil, fmt.Errorf("service: could not list zones: %w", err)
	}

	point := geo.Point{Lat: lat, Lng: lng}
	result := &models.GeofenceResult{
		Zones:         make([]*models.GeofenceZone, 0),
		Alerts:        make([]*models.Alert, 0),
		Notifications: make([]*models.Notification, 0),
	}
	for _, zone := range zones {
		if !geo.BoundingBoxFor(zone.Location(), zone.RadiusMeters).Contains(point) {
			continue
		}
		if !geo.WithinRadius(point, zone.Location(), zone.RadiusMeters) {
			continue
		}

		alert, notification, err := s.raiseAlert(ctx, zone, point)
		if err != nil {
			log.WithError(err).WithField("zone_id", zone.ID).Error("Failed to raise geofence alert")
			return nil, fmt.Errorf("service: could not raise geofence alert: %w", err)
		}
		result.Zones = append(result.Zones, zone)
		result.Alerts = append(result.Alerts, alert)
		result.Notifications = append(result.Notifications, notification)
	}
	result.Breached = len(result.Zones) > 0

	check := &models.LocationCheck{
		ActorID:     actorID,
		Latitude:    lat,
		Longitude:   lng,
		IsDangerous: result.Breached,
		ZoneCount:   len(result.Zones),
	}
	if err := s.repo.SaveLocationCheck(ctx, check); err != nil {
		log.WithError(err).Error("Failed to save location check")
	}

	if result.Breached {
		s.metrics.observeBreaches(len(result.Zones))
		s.publishBreach(ctx, log, actorID, point, result)
	}

	log.WithField("breached_zones", len(result.Zones)).Info("Location check completed")
	return result, nil
}

func (s *geofenceService) raiseAlert(ctx context.Context, zone *models.GeofenceZone, point geo.Point) (*models.Alert, *models.Notification, error) {
	zoneID := zone.ID
	alert := &models.Alert{
		IncidentID:   zone.IncidentID,
		ZoneID:       &zoneID,
		Latitude:     point.Lat,
		Longitude:    point.Lng,
		RadiusMeters: zone.RadiusMeters,
		Message:      fmt.Sprintf("You are entering %s. Please exercise caution.", zone.Name),
		Severity:     models.SeverityCritical,
	}
	if s.cfg.AlertTTL > 0 {
		expires := s.now().Add(s.cfg.AlertTTL)
		alert.ExpiresAt = &expires
	}
	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		return nil, nil, err
	}

	notification := &models.Notification{
		IncidentID: zone.IncidentID,
		Title:      fmt.Sprintf("Entering %s Zone", strings.ToUpper(zone.ZoneType)),
		Message:    alert.Message,
		Type:       models.NotificationGeofenceAlert,
		Priority:   models.SeverityCritical,
	}
	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		return nil, nil, err
	}
	return alert, notification, nil
}

// publishBreach рассылает оповещения по комнатам и ставит событие в очередь вебхуков
func (s *geofenceService) publishBreach(ctx context.Context, log *logrus.Entry, actorID string, point geo.Point, result *models.GeofenceResult) {
	for i, zone := range result.Zones {
		payload := map[string]any{
			"actor_id":     actorID,
			"zone":         zone,
			"alert":        result.Alerts[i],
			"notification": result.Notifications[i],
		}
		rooms := []string{broadcast.GlobalRoom}
		if zone.IncidentID != nil {
			rooms = append(rooms, broadcast.IncidentRoom(*zone.IncidentID))
		}
		s.hub.Publish(broadcast.EventGeofenceAlert, payload, rooms...)
	}

	if s.publisher == nil {
		return
	}
	event := webhook.WebhookEvent{
		Event:     webhook.EventGeofenceBreach,
		ActorID:   actorID,
		Latitude:  point.Lat,
		Longitude: point.Lng,
		Timestamp: s.now().UTC(),
		Zones:     result.Zones,
		Alerts:    result.Alerts,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish webhook event")
	}
}

// CreateZone создает активную геозону, при привязке к инциденту добавляет запись в хронологию
func (s *geofenceService) CreateZone(ctx context.Context, zone *models.GeofenceZone) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "geofence",
		"method":  "CreateZone",
		"name":    zone.Name,
	})
	log.Info("Attempting to create a new geofence zone")

	zone.Name = strings.TrimSpace(zone.Name)
	if zone.Name == "" {
		return fmt.Errorf("service: zone name is required: %w", models.ErrValidation)
	}
	if zone.RadiusMeters <= 0 {
		return fmt.Errorf("service: zone radius must be positive: %w", models.ErrValidation)
	}
	if err := validatePoint(zone.Latitude, zone.Longitude); err != nil {
		return err
	}
	if zone.ZoneType == "" {
		zone.ZoneType = models.ZoneTypeDanger
	}
	zone.Active = true

	if err := s.repo.CreateZone(ctx, zone); err != nil {
		log.WithError(err).Warn("Failed to create zone in repository")
		return fmt.Errorf("service: could not create zone: %w", err)
	}
	log = log.WithField("zone_id", zone.ID)

	rooms := []string{broadcast.GlobalRoom}
	if zone.IncidentID != nil {
		event := &models.TimelineEvent{
			IncidentID:  *zone.IncidentID,
			EventType:   models.EventGeofenceCreated,
			Description: fmt.Sprintf("Geofence zone %q created (radius %.0f m)", zone.Name, zone.RadiusMeters),
			UserName:    models.ActorDispatcher,
		}
		if err := s.repo.AddTimelineEvent(ctx, event); err != nil {
			log.WithError(err).Error("Failed to add zone timeline event")
		}
		rooms = append(rooms, broadcast.IncidentRoom(*zone.IncidentID))
	}
	s.hub.Publish(broadcast.EventGeofenceCreated, zone, rooms...)

	log.Info("Geofence zone created successfully")
	return nil
}

// ListZones возвращает зоны, при activeOnly только активные
func (s *geofenceService) ListZones(ctx context.Context, activeOnly bool) ([]*models.GeofenceZone, error) {
	zones, err := s.repo.ListZones(ctx, activeOnly)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "geofence",
			"method":  "ListZones",
		}).WithError(err).Error("Failed to list zones")
		return nil, fmt.Errorf("service: could not list zones: %w", err)
	}
	return zones, nil
}

// NearbyAlerts возвращает непросроченные оповещения в радиусе, ближайшие первыми
func (s *geofenceService) NearbyAlerts(ctx context.Context, lat, lng, radiusMeters float64) ([]*models.NearbyAlert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "geofence",
		"method":  "NearbyAlerts",
	})

	if err := validatePoint(lat, lng); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		radiusMeters = s.cfg.NearbyAlertRadiusMeters
	}

	origin := geo.Point{Lat: lat, Lng: lng}
	alerts, err := s.repo.ListUnexpiredAlerts(ctx, geo.BoundingBoxFor(origin, radiusMeters))
	if err != nil {
		log.WithError(err).Error("Failed to list alerts")
		return nil, fmt.Errorf("service: could not list alerts: %w", err)
	}

	hits := geo.Nearby(origin, alerts, radiusMeters)
	out := make([]*models.NearbyAlert, 0, len(hits))
	for _, hit := range hits {
		out = append(out, &models.NearbyAlert{Alert: hit.Item, DistanceMeters: hit.Distance})
	}
	log.WithField("count", len(out)).Info("Nearby alerts listed")
	return out, nil
}
