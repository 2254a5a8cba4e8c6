package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/crisis_broadcasting_system/internal/geo"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
)

type GeofenceRepository struct {
	db *pgxpool.Pool
}

func NewGeofenceRepository(db *pgxpool.Pool) *GeofenceRepository {
	return &GeofenceRepository{db: db}
}

// ListZones возвращает зоны в порядке создания
func (r *GeofenceRepository) ListZones(ctx context.Context, activeOnly bool) ([]*models.GeofenceZone, error) {
	query := `
		SELECT id, name, latitude, longitude, radius_meters, zone_type, active, incident_id, created_at
		FROM geofence_zones
		WHERE active OR NOT $1
		ORDER BY created_at, id;
	`
	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list geofence zones: %w", err)
	}
	defer rows.Close()

	zones := make([]*models.GeofenceZone, 0)
	for rows.Next() {
		z := &models.GeofenceZone{}
		if err := rows.Scan(&z.ID, &z.Name, &z.Latitude, &z.Longitude, &z.RadiusMeters,
			&z.ZoneType, &z.Active, &z.IncidentID, &z.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan geofence zone: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error zone iteration: %w", err)
	}
	return zones, nil
}

// CreateZone создает геозону
func (r *GeofenceRepository) CreateZone(ctx context.Context, zone *models.GeofenceZone) error {
	query := `
		INSERT INTO geofence_zones (name, latitude, longitude, radius_meters, zone_type, active, incident_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		zone.Name,
		zone.Latitude,
		zone.Longitude,
		zone.RadiusMeters,
		zone.ZoneType,
		zone.Active,
		zone.IncidentID,
	).Scan(&zone.ID, &zone.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("incident for geofence zone: %w", models.ErrNotFound)
		}
		return fmt.Errorf("failed to create geofence zone: %w", err)
	}
	return nil
}

// CreateAlert сохраняет оповещение; после вставки запись не меняется
func (r *GeofenceRepository) CreateAlert(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (incident_id, zone_id, latitude, longitude, radius_meters, message, severity, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		alert.IncidentID,
		alert.ZoneID,
		alert.Latitude,
		alert.Longitude,
		alert.RadiusMeters,
		alert.Message,
		alert.Severity,
		alert.ExpiresAt,
	).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// ListUnexpiredAlerts возвращает непросроченные оповещения внутри прямоугольника.
// Прямоугольник лишь сужает выборку, точное расстояние считает вызывающий.
func (r *GeofenceRepository) ListUnexpiredAlerts(ctx context.Context, box geo.BoundingBox) ([]*models.Alert, error) {
	query := `
		SELECT id, incident_id, zone_id, latitude, longitude, radius_meters, message, severity, expires_at, created_at
		FROM alerts
		WHERE (expires_at IS NULL OR expires_at > NOW())
			AND latitude BETWEEN $1 AND $2
			AND longitude BETWEEN $3 AND $4
		ORDER BY created_at, id;
	`
	rows, err := r.db.Query(ctx, query, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*models.Alert, 0)
	for rows.Next() {
		a := &models.Alert{}
		if err := rows.Scan(&a.ID, &a.IncidentID, &a.ZoneID, &a.Latitude, &a.Longitude, &a.RadiusMeters,
			&a.Message, &a.Severity, &a.ExpiresAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error alert iteration: %w", err)
	}
	return alerts, nil
}

// CreateNotification сохраняет уведомление о входе в зону
func (r *GeofenceRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return insertNotification(ctx, r.db, n)
}

// AddTimelineEvent добавляет запись в хронологию инцидента, к которому привязана зона
func (r *GeofenceRepository) AddTimelineEvent(ctx context.Context, event *models.TimelineEvent) error {
	return insertTimelineEvent(ctx, r.db, event)
}

// SaveLocationCheck сохраняет запись о проверке местоположения в бд
func (r *GeofenceRepository) SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error {
	query := `
		INSERT INTO location_checks (actor_id, latitude, longitude, is_dangerous, zone_count)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, checked_at;
	`
	err := r.db.QueryRow(ctx, query,
		check.ActorID,
		check.Latitude,
		check.Longitude,
		check.IsDangerous,
		check.ZoneCount,
	).Scan(&check.ID, &check.CheckedAt)
	if err != nil {
		return fmt.Errorf("failed to save location check: %w", err)
	}
	return nil
}
