package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_broadcasting_system/internal/broadcast"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/sirupsen/logrus"
)

type PersonnelRepository interface {
	UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) (*models.Personnel, error)
}

type PersonnelService interface {
	UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) (*models.LocationUpdateResult, error)
}

type personnelService struct {
	repo     PersonnelRepository
	geofence GeofenceService
	hub      Broadcaster
	logger   *logrus.Logger
}

func NewPersonnelService(repo PersonnelRepository, geofence GeofenceService, hub Broadcaster, logger *logrus.Logger) PersonnelService {
	return &personnelService{
		repo:     repo,
		geofence: geofence,
		hub:      hub,
		logger:   logger,
	}
}

// UpdateLocation сохраняет координаты сотрудника, рассылает их в глобальную комнату и,
// если сотрудник закреплен за инцидентом, в комнату инцидента. Затем точка проверяется по геозонам.
func (s *personnelService) UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) (*models.LocationUpdateResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "personnel",
		"method":       "UpdateLocation",
		"personnel_id": id,
	})
	log.Info("Updating personnel location")

	if err := validatePoint(lat, lng); err != nil {
		log.WithError(err).Warn("Invalid location")
		return nil, err
	}

	p, err := s.repo.UpdateLocation(ctx, id, lat, lng)
	if err != nil {
		log.WithError(err).Warn("Failed to update personnel location")
		return nil, fmt.Errorf("service: could not update location: %w", err)
	}

	rooms := []string{broadcast.GlobalRoom}
	if p.AssignedIncidentID != nil {
		rooms = append(rooms, broadcast.IncidentRoom(*p.AssignedIncidentID))
	}
	s.hub.Publish(broadcast.EventPersonnelLocation, p, rooms...)

	result := &models.LocationUpdateResult{Personnel: p}
	geofence, err := s.geofence.Evaluate(ctx, id.String(), lat, lng)
	if err != nil {
		log.WithError(err).Error("Geofence check failed after location update")
		return result, nil
	}
	result.Geofence = geofence

	log.Info("Personnel location updated")
	return result, nil
}
