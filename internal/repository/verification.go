package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

// GetVerificationContext читает категорию и описание инцидента для анализа изображения
func (r *IncidentRepository) GetVerificationContext(ctx context.Context, id uuid.UUID) (*models.VerificationContext, error) {
	vc := &models.VerificationContext{IncidentID: id}
	err := r.db.QueryRow(ctx, `SELECT type, description FROM incidents WHERE id = $1;`, id).
		Scan(&vc.Type, &vc.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load verification context: %w", err)
	}
	return vc, nil
}

// SaveVerification записывает вердикт и запись хронологии. Блокировка берется с NOWAIT:
// занятая строка дает models.ErrContention, повтор остается за вызывающим.
func (r *IncidentRepository) SaveVerification(ctx context.Context, rec *models.VerificationRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", classifyContention(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM incidents WHERE id = $1 FOR UPDATE NOWAIT;`, rec.IncidentID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("incident with id %s: %w", rec.IncidentID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to lock incident for verification: %w", classifyContention(err))
	}

	_, err = tx.Exec(ctx, `
		UPDATE incidents SET
			verification = $1,
			verification_score = $2,
			verification_analysis = $3,
			updated_at = NOW()
		WHERE id = $4;`, rec.Status, rec.Score, rec.Analysis, rec.IncidentID)
	if err != nil {
		return fmt.Errorf("failed to save verification: %w", classifyContention(err))
	}

	event := &models.TimelineEvent{
		IncidentID:  rec.IncidentID,
		EventType:   models.EventAIVerification,
		Description: rec.Description(),
		UserName:    models.ActorAI,
	}
	if err := insertTimelineEvent(ctx, tx, event); err != nil {
		return classifyContention(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit verification: %w", classifyContention(err))
	}
	return nil
}
