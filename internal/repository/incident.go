package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

const incidentCacheTTL = 5 * time.Minute

const incidentColumns = `
	id,
	title,
	description,
	type,
	severity,
	status,
	latitude,
	longitude,
	location_name,
	report_source,
	reporter_phone,
	report_count,
	victims_count,
	verification,
	verification_score,
	verification_analysis,
	created_at,
	updated_at,
	resolved_at`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

// NewIncidentRepository - redisClient может быть nil, тогда кеш отключен
func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) *IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.Type,
		&incident.Severity,
		&incident.Status,
		&incident.Latitude,
		&incident.Longitude,
		&incident.LocationName,
		&incident.ReportSource,
		&incident.ReporterPhone,
		&incident.ReportCount,
		&incident.VictimsCount,
		&incident.Verification,
		&incident.VerificationScore,
		&incident.VerificationAnalysis,
		&incident.CreatedAt,
		&incident.UpdatedAt,
		&incident.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// Create создает инцидент и, для mesh-сообщений, первую запись журнала в одной транзакции
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident, mesh *models.SOSMessage) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO incidents (
			title, description, type, severity, status, latitude, longitude,
			location_name, report_source, reporter_phone, report_count, victims_count
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at;
	`
	err = tx.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.Type,
		incident.Severity,
		incident.Status,
		incident.Latitude,
		incident.Longitude,
		incident.LocationName,
		incident.ReportSource,
		incident.ReporterPhone,
		incident.ReportCount,
		incident.VictimsCount,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}

	if mesh != nil {
		if _, err := insertSOSMessage(ctx, tx, incident.ID, mesh); err != nil {
			return err
		}
		incident.MeshMessages = []models.SOSMessage{*mesh}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit incident creation: %w", err)
	}
	return nil
}

// insertSOSMessage добавляет сообщение в журнал инцидента; false, если msg_id уже есть
func insertSOSMessage(ctx context.Context, tx pgx.Tx, incidentID uuid.UUID, mesh *models.SOSMessage) (bool, error) {
	query := `
		INSERT INTO sosmesh_messages (incident_id, msg_id, name, latitude, longitude, emergency, device_ts, delivered)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (incident_id, msg_id) DO NOTHING
		RETURNING received_at;
	`
	err := tx.QueryRow(ctx, query,
		incidentID,
		mesh.MsgID,
		mesh.Name,
		mesh.Latitude,
		mesh.Longitude,
		mesh.Emergency,
		mesh.Timestamp,
		mesh.Delivered,
	).Scan(&mesh.ReceivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to append sosmesh message: %w", err)
	}
	mesh.IncidentID = incidentID
	return true, nil
}

// GetByID возвращает инцидент по его UUID вместе с журналом mesh-сообщений
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE id = $1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}

	messages, err := r.listSOSMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	incident.MeshMessages = messages
	return incident, nil
}

func (r *IncidentRepository) listSOSMessages(ctx context.Context, incidentID uuid.UUID) ([]models.SOSMessage, error) {
	query := `
		SELECT msg_id, incident_id, name, latitude, longitude, emergency, device_ts, delivered, received_at
		FROM sosmesh_messages
		WHERE incident_id = $1
		ORDER BY received_at, id;
	`
	rows, err := r.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sosmesh messages: %w", err)
	}
	defer rows.Close()

	var messages []models.SOSMessage
	for rows.Next() {
		var m models.SOSMessage
		if err := rows.Scan(&m.MsgID, &m.IncidentID, &m.Name, &m.Latitude, &m.Longitude,
			&m.Emergency, &m.Timestamp, &m.Delivered, &m.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sosmesh message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error sosmesh iteration: %w", err)
	}
	return messages, nil
}

// FindSOSMessage ищет mesh-сообщение по его идентификатору (самое раннее, если их несколько)
func (r *IncidentRepository) FindSOSMessage(ctx context.Context, msgID string) (*models.SOSMessage, error) {
	query := `
		SELECT msg_id, incident_id, name, latitude, longitude, emergency, device_ts, delivered, received_at
		FROM sosmesh_messages
		WHERE msg_id = $1
		ORDER BY received_at, id
		LIMIT 1;
	`
	m := &models.SOSMessage{}
	err := r.db.QueryRow(ctx, query, msgID).Scan(&m.MsgID, &m.IncidentID, &m.Name, &m.Latitude,
		&m.Longitude, &m.Emergency, &m.Timestamp, &m.Delivered, &m.ReceivedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sosmesh message %s: %w", msgID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find sosmesh message: %w", err)
	}
	return m, nil
}

// FindActiveByType возвращает активные инциденты категории в стабильном порядке (created_at, id)
func (r *IncidentRepository) FindActiveByType(ctx context.Context, incidentType string) ([]*models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE status = 'active' AND type = $1
		ORDER BY created_at, id;
	`
	rows, err := r.db.Query(ctx, query, incidentType)
	if err != nil {
		return nil, fmt.Errorf("failed to find active incidents by type: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row in FindActiveByType: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in FindActiveByType: %w", err)
	}
	return incidents, nil
}

// MergeReport засчитывает повторное сообщение. Строка инцидента блокируется на время транзакции,
// поэтому параллельные слияния не теряют инкременты. Повторный msg_id ничего не меняет.
func (r *IncidentRepository) MergeReport(ctx context.Context, id uuid.UUID, mesh *models.SOSMessage) (*models.MergeOutcome, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var count int
	err = tx.QueryRow(ctx, `SELECT report_count FROM incidents WHERE id = $1 FOR UPDATE;`, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock incident for merge: %w", err)
	}

	if mesh != nil {
		inserted, err := insertSOSMessage(ctx, tx, id, mesh)
		if err != nil {
			return nil, err
		}
		if !inserted {
			return &models.MergeOutcome{ReportCount: count, Duplicate: true}, nil
		}
	}

	query := `
		UPDATE incidents SET
			report_count = report_count + 1,
			updated_at = NOW()
		WHERE id = $1
		RETURNING report_count;
	`
	if err := tx.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to increment report count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit merge: %w", err)
	}
	return &models.MergeOutcome{ReportCount: count}, nil
}

// AddTimelineEvent добавляет запись в хронологию инцидента
func (r *IncidentRepository) AddTimelineEvent(ctx context.Context, event *models.TimelineEvent) error {
	return insertTimelineEvent(ctx, r.db, event)
}

// ListTimeline возвращает хронологию инцидента от старых записей к новым
func (r *IncidentRepository) ListTimeline(ctx context.Context, id uuid.UUID) ([]*models.TimelineEvent, error) {
	query := `
		SELECT id, incident_id, event_type, description, user_name, created_at
		FROM incident_timeline
		WHERE incident_id = $1
		ORDER BY created_at, id;
	`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline: %w", err)
	}
	defer rows.Close()

	events := make([]*models.TimelineEvent, 0)
	for rows.Next() {
		e := &models.TimelineEvent{}
		if err := rows.Scan(&e.ID, &e.IncidentID, &e.EventType, &e.Description, &e.UserName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan timeline row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error timeline iteration: %w", err)
	}
	return events, nil
}

// lockIncidentStatus блокирует строку инцидента и возвращает его статус
func lockIncidentStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID) (string, error) {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM incidents WHERE id = $1 FOR UPDATE;`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return "", fmt.Errorf("failed to lock incident: %w", err)
	}
	return status, nil
}

// SubmitForReview переводит active -> pending_review. Возвращает false, если инцидент уже ожидает проверки.
func (r *IncidentRepository) SubmitForReview(ctx context.Context, id uuid.UUID, actor string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	status, err := lockIncidentStatus(ctx, tx, id)
	if err != nil {
		return false, err
	}

	switch status {
	case models.StatusPendingReview:
		return false, nil
	case models.StatusResolved:
		return false, fmt.Errorf("incident %s is resolved: %w", id, models.ErrInvalidTransition)
	}

	if _, err := tx.Exec(ctx, `UPDATE incidents SET status = $1, updated_at = NOW() WHERE id = $2;`,
		models.StatusPendingReview, id); err != nil {
		return false, fmt.Errorf("failed to submit incident for review: %w", err)
	}

	event := &models.TimelineEvent{
		IncidentID:  id,
		EventType:   models.EventResolutionSubmitted,
		Description: models.SubmittedForReviewDescription,
		UserName:    actor,
	}
	if err := insertTimelineEvent(ctx, tx, event); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit submission: %w", err)
	}
	return true, nil
}

// ResolveIncident завершает инцидент и освобождает закрепленных сотрудников и ресурсы одной транзакцией.
// Для уже завершенного инцидента ничего не освобождается.
func (r *IncidentRepository) ResolveIncident(ctx context.Context, id uuid.UUID, actor string) (*models.ResolutionResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	status, err := lockIncidentStatus(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	result := &models.ResolutionResult{IncidentID: id, Status: models.StatusResolved}
	if status == models.StatusResolved {
		result.AlreadyResolved = true
		return result, nil
	}

	if _, err := tx.Exec(ctx, `
		UPDATE incidents SET
			status = $1,
			resolved_at = NOW(),
			updated_at = NOW()
		WHERE id = $2;`, models.StatusResolved, id); err != nil {
		return nil, fmt.Errorf("failed to resolve incident: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE personnel SET
			status = $1,
			assigned_incident_id = NULL,
			updated_at = NOW()
		WHERE assigned_incident_id = $2;`, models.PersonnelAvailable, id)
	if err != nil {
		return nil, fmt.Errorf("failed to release personnel: %w", err)
	}
	result.ReleasedPersonnel = int(tag.RowsAffected())

	tag, err = tx.Exec(ctx, `
		UPDATE resources SET
			status = $1,
			assigned_incident_id = NULL,
			updated_at = NOW()
		WHERE assigned_incident_id = $2;`, models.ResourceAvailable, id)
	if err != nil {
		return nil, fmt.Errorf("failed to release resources: %w", err)
	}
	result.ReleasedResources = int(tag.RowsAffected())

	event := &models.TimelineEvent{
		IncidentID:  id,
		EventType:   models.EventIncidentResolved,
		Description: models.ResolvedDescription(result.ReleasedPersonnel, result.ReleasedResources),
		UserName:    actor,
	}
	if err := insertTimelineEvent(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resolution: %w", err)
	}
	return result, nil
}

// AssignEntities закрепляет сотрудников и ресурсы за инцидентом. Если хотя бы одного id нет,
// транзакция откатывается целиком.
func (r *IncidentRepository) AssignEntities(ctx context.Context, id uuid.UUID, personnelIDs, resourceIDs []uuid.UUID, actor string) (*models.AssignmentResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	status, err := lockIncidentStatus(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if status == models.StatusResolved {
		return nil, fmt.Errorf("incident %s is resolved: %w", id, models.ErrInvalidTransition)
	}

	if len(personnelIDs) > 0 {
		tag, err := tx.Exec(ctx, `
			UPDATE personnel SET
				assigned_incident_id = $1,
				status = $2,
				updated_at = NOW()
			WHERE id = ANY($3);`, id, models.PersonnelEnRoute, personnelIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to assign personnel: %w", err)
		}
		if int(tag.RowsAffected()) != len(personnelIDs) {
			return nil, fmt.Errorf("some personnel not found: %w", models.ErrNotFound)
		}
	}

	if len(resourceIDs) > 0 {
		tag, err := tx.Exec(ctx, `
			UPDATE resources SET
				assigned_incident_id = $1,
				status = $2,
				updated_at = NOW()
			WHERE id = ANY($3);`, id, models.ResourceEnRoute, resourceIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to assign resources: %w", err)
		}
		if int(tag.RowsAffected()) != len(resourceIDs) {
			return nil, fmt.Errorf("some resources not found: %w", models.ErrNotFound)
		}
	}

	event := &models.TimelineEvent{
		IncidentID:  id,
		EventType:   models.EventResourcesAssigned,
		Description: models.AssignedDescription(len(personnelIDs), len(resourceIDs)),
		UserName:    actor,
	}
	if err := insertTimelineEvent(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit assignment: %w", err)
	}
	return &models.AssignmentResult{Personnel: personnelIDs, Resources: resourceIDs}, nil
}

// AddAttachment сохраняет метаданные вложения
func (r *IncidentRepository) AddAttachment(ctx context.Context, attachment *models.Attachment) error {
	query := `
		INSERT INTO attachments (incident_id, filename, filepath, file_type, media_type, file_size)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE EXISTS (SELECT 1 FROM incidents WHERE id = $1)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		attachment.IncidentID,
		attachment.Filename,
		attachment.Filepath,
		attachment.FileType,
		attachment.MediaType,
		attachment.FileSize,
	).Scan(&attachment.ID, &attachment.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("incident with id %s: %w", attachment.IncidentID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to save attachment: %w", err)
	}
	return nil
}

// CreateNotification сохраняет широковещательное уведомление
func (r *IncidentRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return insertNotification(ctx, r.db, n)
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	if r.redisClient == nil {
		return nil, nil
	}
	val, err := r.redisClient.Get(ctx, incidentCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	if r.redisClient == nil {
		return nil
	}
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentCacheKey(incident.ID), val, incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	if r.redisClient == nil {
		return nil
	}
	if err := r.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}

func incidentCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}
