// Package broadcast рассылает доменные события подключенным websocket-клиентам.
// Есть одна глобальная комната и по комнате на инцидент; комнаты создаются при первом входе
// и исчезают, когда из них выходит последний клиент. История не хранится.
package broadcast

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	GlobalRoom = "global"

	relayChannelPrefix = "broadcast:"
	relayQueueSize     = 1024
)

// Имена событий
const (
	EventIncidentCreated       = "incident_created"
	EventIncidentUpdated       = "incident_updated"
	EventIncidentStatusChanged = "incident_status_changed"
	EventIncidentVerified      = "incident_verified"
	EventNotification          = "notification"
	EventResourcesAssigned     = "resources_assigned"
	EventAttachmentAdded       = "attachment_added"
	EventPersonnelLocation     = "personnel_location_updated"
	EventGeofenceAlert         = "geofence_alert"
	EventGeofenceCreated       = "geofence_created"
	EventJoinedIncident        = "joined_incident"
	EventLeftIncident          = "left_incident"
	EventError                 = "error"
)

// IncidentRoom - имя комнаты конкретного инцидента
func IncidentRoom(id uuid.UUID) string {
	return "incident:" + id.String()
}

// Envelope - сообщение, которое получает клиент. Для каждой комнаты создается свой конверт.
type Envelope struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Room      string          `json:"room"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	Origin    string          `json:"origin,omitempty"`
}

// Sink получает копию каждого локально опубликованного конверта (например, журнал в Kafka)
type Sink interface {
	Write(ctx context.Context, env Envelope) error
}

type relayMessage struct {
	channel string
	data    []byte
}

// Hub хранит клиентов и их комнаты
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	instanceID string
	redis      *redis.Client
	relayQueue chan relayMessage
	sink       Sink

	logger  *logrus.Logger
	metrics *Metrics
}

// Option настраивает Hub
type Option func(*Hub)

// WithRedisRelay включает межинстансную ретрансляцию через Redis Pub/Sub
func WithRedisRelay(client *redis.Client) Option {
	return func(h *Hub) { h.redis = client }
}

// WithSink добавляет приемник копий конвертов
func WithSink(sink Sink) Option {
	return func(h *Hub) { h.sink = sink }
}

// WithMetrics подключает метрики
func WithMetrics(m *Metrics) Option {
	return func(h *Hub) { h.metrics = m }
}

func NewHub(logger *logrus.Logger, opts ...Option) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		instanceID: ulid.Make().String(),
		relayQueue: make(chan relayMessage, relayQueueSize),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Publish рассылает событие в указанные комнаты (по умолчанию в глобальную).
// Не блокируется: медленные клиенты отключаются, а не задерживают публикацию.
func (h *Hub) Publish(event string, payload any, rooms ...string) {
	log := h.logger.WithFields(logrus.Fields{"component": "broadcast", "event": event})

	raw, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Failed to marshal broadcast payload")
		return
	}

	if len(rooms) == 0 {
		rooms = []string{GlobalRoom}
	}

	seen := make(map[string]struct{}, len(rooms))
	for _, room := range rooms {
		if _, dup := seen[room]; dup {
			continue
		}
		seen[room] = struct{}{}

		env := Envelope{
			ID:        ulid.Make().String(),
			Event:     event,
			Room:      room,
			Payload:   raw,
			Timestamp: time.Now().UTC(),
			Origin:    h.instanceID,
		}
		data, err := json.Marshal(env)
		if err != nil {
			log.WithError(err).Error("Failed to marshal envelope")
			continue
		}

		h.deliver(room, data)
		h.metrics.published(event, room)

		if h.sink != nil {
			if err := h.sink.Write(context.Background(), env); err != nil {
				log.WithError(err).Warn("Failed to write envelope to sink")
			}
		}
		if h.redis != nil {
			select {
			case h.relayQueue <- relayMessage{channel: relayChannelPrefix + room, data: data}:
			default:
				log.Warn("Relay queue is full, envelope not relayed")
			}
		}
	}
}

// deliver кладет данные в буферы клиентов комнаты. Отправка идет под RLock,
// а закрытие канала клиента только под Lock, поэтому запись в закрытый канал невозможна.
func (h *Hub) deliver(room string, data []byte) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.rooms[room] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.WithFields(logrus.Fields{"component": "broadcast", "client_id": c.id}).Warn("Client buffer is full, disconnecting")
		h.metrics.droppedClient()
		h.unregister(c)
	}
}

// register добавляет клиента и сразу подписывает его на глобальную комнату
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.joinLocked(c, GlobalRoom)
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.setClients(count)
	h.logger.WithFields(logrus.Fields{"component": "broadcast", "client_id": c.id}).Info("Client connected")
}

// unregister безопасен для повторного вызова
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	delete(h.clients, c)
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.setClients(count)
	h.logger.WithFields(logrus.Fields{"component": "broadcast", "client_id": c.id}).Info("Client disconnected")
}

// Join подписывает клиента на комнату
func (h *Hub) Join(c *Client, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	h.joinLocked(c, room)
	return true
}

// Leave отписывает клиента от комнаты. Глобальную комнату покинуть нельзя.
func (h *Hub) Leave(c *Client, room string) {
	if room == GlobalRoom {
		return
	}
	h.mu.Lock()
	h.leaveLocked(c, room)
	h.mu.Unlock()
}

func (h *Hub) joinLocked(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) leaveLocked(c *Client, room string) {
	delete(c.rooms, room)
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// ClientCount возвращает число подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize возвращает число клиентов в комнате
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Run обслуживает Redis-ретрансляцию до отмены контекста. Без Redis сразу возвращается.
func (h *Hub) Run(ctx context.Context) {
	if h.redis == nil {
		return
	}
	log := h.logger.WithFields(logrus.Fields{"component": "broadcast", "instance_id": h.instanceID})
	log.Info("Starting broadcast relay")

	pubsub := h.redis.PSubscribe(ctx, relayChannelPrefix+"*")
	defer pubsub.Close()
	incoming := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping broadcast relay")
			return
		case out := <-h.relayQueue:
			if err := h.redis.Publish(ctx, out.channel, out.data).Err(); err != nil {
				log.WithError(err).Warn("Failed to relay envelope to Redis")
			}
		case msg, ok := <-incoming:
			if !ok {
				log.Warn("Relay subscription closed")
				return
			}
			h.handleRelayed([]byte(msg.Payload))
		}
	}
}

// handleRelayed доставляет конверт другого инстанса; собственное эхо пропускается
func (h *Hub) handleRelayed(data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.logger.WithError(err).Warn("Failed to decode relayed envelope")
		return
	}
	if env.Origin == h.instanceID {
		return
	}
	h.deliver(env.Room, data)
	h.metrics.relayed(env.Event)
}
