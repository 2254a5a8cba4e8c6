package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_broadcasting_system/internal/broadcast"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Resolve - единая точка входа двухфазного разрешения: confirm=false отправляет на проверку,
// confirm=true завершает инцидент
func (s *incidentService) Resolve(ctx context.Context, id uuid.UUID, confirm bool, actor string) (*models.ResolutionResult, error) {
	if confirm {
		return s.ConfirmResolution(ctx, id, actor)
	}
	return s.SubmitResolution(ctx, id, actor)
}

// SubmitResolution переводит инцидент в pending_review. Закрепленные силы не освобождаются.
func (s *incidentService) SubmitResolution(ctx context.Context, id uuid.UUID, actor string) (*models.ResolutionResult, error) {
	if actor == "" {
		actor = models.ActorResponder
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "SubmitResolution",
		"incident_id": id,
	})
	log.Info("Submitting incident for review")

	changed, err := s.repo.SubmitForReview(ctx, id, actor)
	if err != nil {
		log.WithError(err).Warn("Failed to submit incident for review")
		return nil, fmt.Errorf("service: could not submit resolution: %w", err)
	}

	result := &models.ResolutionResult{IncidentID: id, Status: models.StatusPendingReview}
	if !changed {
		log.Info("Incident already pending review")
		return result, nil
	}

	s.invalidateCache(ctx, log, id)
	s.hub.Publish(broadcast.EventIncidentStatusChanged, result, broadcast.GlobalRoom, broadcast.IncidentRoom(id))
	s.metrics.observeResolution(models.StatusPendingReview)

	log.Info("Incident submitted for review")
	return result, nil
}

// ConfirmResolution завершает инцидент и освобождает всех закрепленных сотрудников и ресурсы
// в одной транзакции. Повторное подтверждение ничего не освобождает.
func (s *incidentService) ConfirmResolution(ctx context.Context, id uuid.UUID, actor string) (*models.ResolutionResult, error) {
	if actor == "" {
		actor = models.ActorSupervisor
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ConfirmResolution",
		"incident_id": id,
	})
	log.Info("Confirming incident resolution")

	result, err := s.repo.ResolveIncident(ctx, id, actor)
	if err != nil {
		log.WithError(err).Warn("Failed to resolve incident")
		return nil, fmt.Errorf("service: could not confirm resolution: %w", err)
	}
	if result.AlreadyResolved {
		log.Info("Incident already resolved")
		return result, nil
	}

	s.invalidateCache(ctx, log, id)
	s.hub.Publish(broadcast.EventIncidentStatusChanged, result, broadcast.GlobalRoom, broadcast.IncidentRoom(id))
	s.metrics.observeResolution(models.StatusResolved)

	log.WithFields(logrus.Fields{
		"released_personnel": result.ReleasedPersonnel,
		"released_resources": result.ReleasedResources,
	}).Info("Incident resolved")
	return result, nil
}

// AssignEntities закрепляет сотрудников и ресурсы за незавершенным инцидентом
func (s *incidentService) AssignEntities(ctx context.Context, id uuid.UUID, personnelIDs, resourceIDs []uuid.UUID) (*models.AssignmentResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "AssignEntities",
		"incident_id": id,
	})

	personnelIDs = dedupeIDs(personnelIDs)
	resourceIDs = dedupeIDs(resourceIDs)
	if len(personnelIDs) == 0 && len(resourceIDs) == 0 {
		return nil, fmt.Errorf("service: nothing to assign: %w", models.ErrValidation)
	}
	log.WithFields(logrus.Fields{
		"personnel": len(personnelIDs),
		"resources": len(resourceIDs),
	}).Info("Assigning personnel and resources")

	result, err := s.repo.AssignEntities(ctx, id, personnelIDs, resourceIDs, models.ActorDispatcher)
	if err != nil {
		log.WithError(err).Warn("Failed to assign entities")
		return nil, fmt.Errorf("service: could not assign entities: %w", err)
	}

	s.hub.Publish(broadcast.EventResourcesAssigned, result, broadcast.GlobalRoom, broadcast.IncidentRoom(id))

	log.Info("Entities assigned")
	return result, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
