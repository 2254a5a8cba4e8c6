package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_broadcasting_system/internal/broadcast"
	"github.com/shenikar/crisis_broadcasting_system/internal/config"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident, mesh *models.SOSMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	FindActiveByType(ctx context.Context, incidentType string) ([]*models.Incident, error)
	MergeReport(ctx context.Context, id uuid.UUID, mesh *models.SOSMessage) (*models.MergeOutcome, error)
	AddTimelineEvent(ctx context.Context, event *models.TimelineEvent) error
	ListTimeline(ctx context.Context, id uuid.UUID) ([]*models.TimelineEvent, error)
	SubmitForReview(ctx context.Context, id uuid.UUID, actor string) (bool, error)
	ResolveIncident(ctx context.Context, id uuid.UUID, actor string) (*models.ResolutionResult, error)
	AssignEntities(ctx context.Context, id uuid.UUID, personnelIDs, resourceIDs []uuid.UUID, actor string) (*models.AssignmentResult, error)
	AddAttachment(ctx context.Context, attachment *models.Attachment) error
	FindSOSMessage(ctx context.Context, msgID string) (*models.SOSMessage, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// IncidentService определяет контракт бизнес-логики инцидентов:
// корреляция входящих сообщений, двухфазное разрешение, назначение сил и вложения
type IncidentService interface {
	IngestReport(ctx context.Context, report *models.Report) (*models.IngestResult, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	GetTimeline(ctx context.Context, id uuid.UUID) ([]*models.TimelineEvent, error)
	SubmitResolution(ctx context.Context, id uuid.UUID, actor string) (*models.ResolutionResult, error)
	ConfirmResolution(ctx context.Context, id uuid.UUID, actor string) (*models.ResolutionResult, error)
	Resolve(ctx context.Context, id uuid.UUID, confirm bool, actor string) (*models.ResolutionResult, error)
	AssignEntities(ctx context.Context, id uuid.UUID, personnelIDs, resourceIDs []uuid.UUID) (*models.AssignmentResult, error)
	AddAttachment(ctx context.Context, attachment *models.Attachment) (*models.UploadResult, error)
	GetSOSMessage(ctx context.Context, msgID string) (*models.SOSMessage, error)
}

type incidentService struct {
	repo    IncidentRepository
	hub     Broadcaster
	queue   VerificationQueue
	logger  *logrus.Logger
	cfg     *config.Config
	metrics *Metrics
}

// NewIncidentService - queue может быть nil, тогда вложения не отправляются на верификацию
func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, cfg *config.Config, hub Broadcaster, queue VerificationQueue, metrics *Metrics) IncidentService {
	return &incidentService{
		repo:    repo,
		hub:     hub,
		queue:   queue,
		logger:  logger,
		cfg:     cfg,
		metrics: metrics,
	}
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

// GetTimeline возвращает хронологию инцидента
func (s *incidentService) GetTimeline(ctx context.Context, id uuid.UUID) ([]*models.TimelineEvent, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetTimeline",
		"incident_id": id,
	})

	if _, err := s.GetIncident(ctx, id); err != nil {
		return nil, err
	}

	events, err := s.repo.ListTimeline(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to list timeline")
		return nil, fmt.Errorf("service: could not list timeline: %w", err)
	}
	return events, nil
}

// GetSOSMessage ищет mesh-сообщение по msg_id
func (s *incidentService) GetSOSMessage(ctx context.Context, msgID string) (*models.SOSMessage, error) {
	if msgID == "" {
		return nil, fmt.Errorf("service: msg_id is required: %w", models.ErrValidation)
	}
	msg, err := s.repo.FindSOSMessage(ctx, msgID)
	if err != nil {
		return nil, fmt.Errorf("service: could not find sosmesh message: %w", err)
	}
	return msg, nil
}

// AddAttachment сохраняет вложение и ставит изображения в очередь верификации.
// Переполненная очередь не ошибка загрузки: вложение уже сохранено.
func (s *incidentService) AddAttachment(ctx context.Context, attachment *models.Attachment) (*models.UploadResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "AddAttachment",
		"incident_id": attachment.IncidentID,
		"media_type":  attachment.MediaType,
	})
	log.Info("Saving attachment")

	if err := s.repo.AddAttachment(ctx, attachment); err != nil {
		log.WithError(err).Warn("Failed to save attachment")
		return nil, fmt.Errorf("service: could not save attachment: %w", err)
	}

	event := &models.TimelineEvent{
		IncidentID:  attachment.IncidentID,
		EventType:   models.EventAttachmentAdded,
		Description: fmt.Sprintf("File uploaded: %s", attachment.Filename),
		UserName:    "User",
	}
	if err := s.repo.AddTimelineEvent(ctx, event); err != nil {
		log.WithError(err).Error("Failed to add attachment timeline event")
	}
	s.hub.Publish(broadcast.EventAttachmentAdded, attachment, broadcast.IncidentRoom(attachment.IncidentID))

	result := &models.UploadResult{Attachment: attachment}
	if !attachment.IsImage() || s.queue == nil {
		return result, nil
	}

	err := s.queue.Enqueue(models.VerificationJob{
		IncidentID: attachment.IncidentID,
		Path:       attachment.Filepath,
		MediaType:  attachment.MediaType,
	})
	switch {
	case err == nil:
		result.VerificationQueued = true
	case errors.Is(err, models.ErrQueueFull):
		log.Warn("Verification queue is full, image will not be verified")
	default:
		log.WithError(err).Error("Failed to enqueue verification")
	}

	log.WithField("verification_queued", result.VerificationQueued).Info("Attachment saved")
	return result, nil
}

func (s *incidentService) invalidateCache(ctx context.Context, log *logrus.Entry, id uuid.UUID) {
	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
}
