package broadcast

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 256
)

// Действия, которые клиент присылает по websocket
const (
	ActionJoinIncident  = "join_incident"
	ActionLeaveIncident = "leave_incident"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client - одно websocket-подключение. rooms защищено мьютексом хаба.
type Client struct {
	id    string
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]struct{}
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:    ulid.Make().String(),
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		rooms: make(map[string]struct{}),
	}
}

// ID возвращает идентификатор подключения
func (c *Client) ID() string {
	return c.id
}

type clientMessage struct {
	Action     string `json:"action"`
	IncidentID string `json:"incident_id"`
}

// ServeWS переводит запрос в websocket и подписывает клиента на глобальную комнату.
// Для подписки на инцидент клиент присылает {"action":"join_incident","incident_id":"..."}.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}

	client := newClient(h, conn)
	h.register(client)

	go client.writePump()
	go client.readPump()
}

// handleMessage обрабатывает управляющее сообщение клиента и отвечает подтверждением
func (h *Hub) handleMessage(c *Client, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.reply(c, EventError, map[string]string{"error": "invalid message"})
		return
	}

	switch msg.Action {
	case ActionJoinIncident, ActionLeaveIncident:
	default:
		h.reply(c, EventError, map[string]string{"error": "unknown action"})
		return
	}

	id, err := uuid.Parse(msg.IncidentID)
	if err != nil {
		h.reply(c, EventError, map[string]string{"error": "invalid incident_id"})
		return
	}
	room := IncidentRoom(id)

	if msg.Action == ActionJoinIncident {
		if h.Join(c, room) {
			h.reply(c, EventJoinedIncident, map[string]string{"incident_id": id.String(), "room": room})
		}
		return
	}
	h.Leave(c, room)
	h.reply(c, EventLeftIncident, map[string]string{"incident_id": id.String(), "room": room})
}

// reply отправляет сообщение только этому клиенту
func (h *Hub) reply(c *Client, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	data, err := json.Marshal(Envelope{
		ID:        ulid.Make().String(),
		Event:     event,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	_, connected := h.clients[c]
	full := false
	if connected {
		select {
		case c.send <- data:
		default:
			full = true
		}
	}
	h.mu.RUnlock()

	if full {
		h.unregister(c)
	}
}

// readPump читает управляющие сообщения клиента до разрыва соединения
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithFields(logrus.Fields{"component": "broadcast", "client_id": c.id}).
					WithError(err).Warn("Websocket closed unexpectedly")
			}
			return
		}
		c.hub.handleMessage(c, message)
	}
}

// writePump пишет конверты клиенту; каждый конверт уходит отдельным кадром
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
