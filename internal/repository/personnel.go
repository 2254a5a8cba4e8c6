package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

type PersonnelRepository struct {
	db *pgxpool.Pool
}

func NewPersonnelRepository(db *pgxpool.Pool) *PersonnelRepository {
	return &PersonnelRepository{db: db}
}

// UpdateLocation сохраняет координаты сотрудника и возвращает его актуальное состояние
func (r *PersonnelRepository) UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) (*models.Personnel, error) {
	query := `
		UPDATE personnel SET
			latitude = $1,
			longitude = $2,
			updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, role, status, latitude, longitude, assigned_incident_id, updated_at;
	`
	p := &models.Personnel{}
	err := r.db.QueryRow(ctx, query, lat, lng, id).Scan(
		&p.ID,
		&p.Name,
		&p.Role,
		&p.Status,
		&p.Latitude,
		&p.Longitude,
		&p.AssignedIncidentID,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("personnel with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update personnel location: %w", err)
	}
	return p, nil
}
