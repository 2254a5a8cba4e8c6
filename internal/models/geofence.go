package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_broadcasting_system/internal/geo"
)

const ZoneTypeDanger = "danger"

// GeofenceZone - круговая зона опасности
type GeofenceZone struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	RadiusMeters float64    `json:"radius_meters"`
	ZoneType     string     `json:"zone_type"`
	Active       bool       `json:"active"`
	IncidentID   *uuid.UUID `json:"incident_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Alert создается один раз и больше не изменяется
type Alert struct {
	ID           uuid.UUID  `json:"id"`
	IncidentID   *uuid.UUID `json:"incident_id,omitempty"`
	ZoneID       *uuid.UUID `json:"zone_id,omitempty"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	RadiusMeters float64    `json:"radius_meters"`
	Message      string     `json:"message"`
	Severity     string     `json:"severity"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// GeofenceResult - результат проверки точки по активным зонам
type GeofenceResult struct {
	Breached      bool            `json:"breached"`
	Zones         []*GeofenceZone `json:"zones"`
	Alerts        []*Alert        `json:"alerts"`
	Notifications []*Notification `json:"notifications"`
}

// Location - центр зоны
func (z *GeofenceZone) Location() geo.Point {
	return geo.Point{Lat: z.Latitude, Lng: z.Longitude}
}

// Location - центр оповещения
func (a *Alert) Location() geo.Point {
	return geo.Point{Lat: a.Latitude, Lng: a.Longitude}
}

// NearbyAlert - оповещение с расстоянием до точки запроса
type NearbyAlert struct {
	*Alert
	DistanceMeters float64 `json:"distance_meters"`
}
