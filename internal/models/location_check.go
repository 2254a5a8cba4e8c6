package models

import (
	"time"
)

// LocationCheck представляет запись о проверке местоположения по геозонам
type LocationCheck struct {
	ID          int64     `json:"id"`
	ActorID     string    `json:"actor_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsDangerous bool      `json:"is_dangerous"`
	ZoneCount   int       `json:"zone_count"`
	CheckedAt   time.Time `json:"checked_at"`
}
