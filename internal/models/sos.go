package models

import (
	"time"

	"github.com/google/uuid"
)

// SOSMessage - сырое сообщение устройства из Bluetooth mesh сети.
// MsgID задается отправителем и служит ключом идемпотентности в пределах одного инцидента.
type SOSMessage struct {
	MsgID      string    `json:"msg_id"`
	IncidentID uuid.UUID `json:"incident_id"`
	Name       string    `json:"name"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Emergency  string    `json:"emergency"`
	Timestamp  int64     `json:"timestamp"`
	Delivered  bool      `json:"delivered"`
	ReceivedAt time.Time `json:"received_at"`
}
