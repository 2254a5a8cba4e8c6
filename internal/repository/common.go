package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

// querier - общее подмножество pgxpool.Pool и pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertTimelineEvent(ctx context.Context, q querier, event *models.TimelineEvent) error {
	if event.UserName == "" {
		event.UserName = models.ActorSystem
	}
	query := `
		INSERT INTO incident_timeline (incident_id, event_type, description, user_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`
	err := q.QueryRow(ctx, query,
		event.IncidentID,
		event.EventType,
		event.Description,
		event.UserName,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add timeline event: %w", err)
	}
	return nil
}

func insertNotification(ctx context.Context, q querier, n *models.Notification) error {
	query := `
		INSERT INTO notifications (incident_id, title, message, type, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`
	err := q.QueryRow(ctx, query,
		n.IncidentID,
		n.Title,
		n.Message,
		n.Type,
		n.Priority,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// classifyContention оборачивает ошибки блокировок в models.ErrContention
func classifyContention(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return fmt.Errorf("%s: %w", pgErr.Message, models.ErrContention)
		}
	}
	return err
}
