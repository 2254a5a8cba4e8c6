package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu   sync.Mutex
	envs []Envelope
}

func (s *recordingSink) Write(_ context.Context, env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envs = append(s.envs, env)
	return nil
}

func newTestHub(t *testing.T, opts ...Option) *Hub {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewHub(logger, opts...)
}

// connect регистрирует клиента без сетевого соединения
func connect(h *Hub) *Client {
	c := newClient(h, nil)
	h.register(c)
	return c
}

func drain(t *testing.T, c *Client) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var env Envelope
			require.NoError(t, json.Unmarshal(data, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func TestHub_GlobalPublishReachesEveryone(t *testing.T) {
	h := newTestHub(t)
	a, b := connect(h), connect(h)

	h.Publish(EventNotification, map[string]string{"title": "New CRITICAL Incident"})

	for _, c := range []*Client{a, b} {
		envs := drain(t, c)
		require.Len(t, envs, 1)
		assert.Equal(t, EventNotification, envs[0].Event)
		assert.Equal(t, GlobalRoom, envs[0].Room)
		assert.JSONEq(t, `{"title":"New CRITICAL Incident"}`, string(envs[0].Payload))
	}
}

func TestHub_IncidentRoomIsScoped(t *testing.T) {
	h := newTestHub(t)
	incidentID := uuid.New()
	watcher, dashboard := connect(h), connect(h)
	require.True(t, h.Join(watcher, IncidentRoom(incidentID)))

	h.Publish(EventIncidentUpdated, map[string]int{"report_count": 2}, IncidentRoom(incidentID))

	assert.Len(t, drain(t, watcher), 1)
	assert.Empty(t, drain(t, dashboard))
}

func TestHub_DualScopeDeliversOncePerView(t *testing.T) {
	h := newTestHub(t)
	incidentID := uuid.New()
	room := IncidentRoom(incidentID)
	dashboard := connect(h)
	detail := connect(h)
	require.True(t, h.Join(detail, room))

	h.Publish(EventPersonnelLocation, map[string]string{"id": "p1"}, GlobalRoom, room, room)

	dashEnvs := drain(t, dashboard)
	require.Len(t, dashEnvs, 1)
	assert.Equal(t, GlobalRoom, dashEnvs[0].Room)

	detailEnvs := drain(t, detail)
	require.Len(t, detailEnvs, 2)
	rooms := map[string]int{}
	for _, env := range detailEnvs {
		rooms[env.Room]++
	}
	assert.Equal(t, 1, rooms[GlobalRoom])
	assert.Equal(t, 1, rooms[room])
}

func TestHub_LateSubscriberGetsNoHistory(t *testing.T) {
	h := newTestHub(t)
	h.Publish(EventIncidentCreated, map[string]string{"id": "x"})

	late := connect(h)
	assert.Empty(t, drain(t, late))
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newTestHub(t, WithMetrics(NewMetrics(reg)))
	slow := connect(h)
	fast := connect(h)

	for i := 0; i < sendBufferSize+1; i++ {
		h.Publish(EventNotification, i)
		drain(t, fast)
	}

	assert.Equal(t, 1, h.ClientCount())
	assert.Equal(t, 1, h.RoomSize(GlobalRoom))
	assert.Len(t, drain(t, slow), sendBufferSize)
	_, ok := <-slow.send
	assert.False(t, ok, "send channel of a dropped client must be closed")
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.dropped))
}

func TestHub_RoomsRemovedWhenEmpty(t *testing.T) {
	h := newTestHub(t)
	room := IncidentRoom(uuid.New())
	c := connect(h)
	require.True(t, h.Join(c, room))
	assert.Equal(t, 1, h.RoomSize(room))

	h.unregister(c)
	h.unregister(c)

	assert.Equal(t, 0, h.RoomSize(room))
	assert.Equal(t, 0, h.RoomSize(GlobalRoom))
	assert.Equal(t, 0, h.ClientCount())
	h.mu.RLock()
	assert.Empty(t, h.rooms)
	h.mu.RUnlock()
}

func TestHub_HandleMessageJoinAndLeave(t *testing.T) {
	h := newTestHub(t)
	c := connect(h)
	id := uuid.New()

	h.handleMessage(c, []byte(`{"action":"join_incident","incident_id":"`+id.String()+`"}`))
	envs := drain(t, c)
	require.Len(t, envs, 1)
	assert.Equal(t, EventJoinedIncident, envs[0].Event)
	assert.Equal(t, 1, h.RoomSize(IncidentRoom(id)))

	h.handleMessage(c, []byte(`{"action":"leave_incident","incident_id":"`+id.String()+`"}`))
	envs = drain(t, c)
	require.Len(t, envs, 1)
	assert.Equal(t, EventLeftIncident, envs[0].Event)
	assert.Equal(t, 0, h.RoomSize(IncidentRoom(id)))

	h.handleMessage(c, []byte(`{"action":"join_incident","incident_id":"nope"}`))
	h.handleMessage(c, []byte(`not json`))
	h.handleMessage(c, []byte(`{"action":"dance"}`))
	envs = drain(t, c)
	require.Len(t, envs, 3)
	for _, env := range envs {
		assert.Equal(t, EventError, env.Event)
	}

	h.Leave(c, GlobalRoom)
	assert.Equal(t, 1, h.RoomSize(GlobalRoom))
}

func TestHub_SinkReceivesEnvelopePerRoom(t *testing.T) {
	sink := &recordingSink{}
	h := newTestHub(t, WithSink(sink))
	room := IncidentRoom(uuid.New())

	h.Publish(EventIncidentStatusChanged, map[string]string{"status": "resolved"}, GlobalRoom, room)

	require.Len(t, sink.envs, 2)
	assert.Equal(t, GlobalRoom, sink.envs[0].Room)
	assert.Equal(t, room, sink.envs[1].Room)
	assert.NotEqual(t, sink.envs[0].ID, sink.envs[1].ID)
}

func TestHub_RelayedEnvelopeSkipsOwnEcho(t *testing.T) {
	h := newTestHub(t)
	c := connect(h)

	own, err := json.Marshal(Envelope{Event: EventNotification, Room: GlobalRoom, Origin: h.instanceID, Payload: json.RawMessage(`{}`)})
	require.NoError(t, err)
	h.handleRelayed(own)
	assert.Empty(t, drain(t, c))

	foreign, err := json.Marshal(Envelope{Event: EventNotification, Room: GlobalRoom, Origin: "other-instance", Payload: json.RawMessage(`{}`)})
	require.NoError(t, err)
	h.handleRelayed(foreign)
	envs := drain(t, c)
	require.Len(t, envs, 1)
	assert.Equal(t, "other-instance", envs[0].Origin)

	h.handleRelayed([]byte("garbage"))
	assert.Empty(t, drain(t, c))
}

func TestHub_PublishConcurrentWithChurn(t *testing.T) {
	h := newTestHub(t)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h.Publish(EventNotification, j)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c := connect(h)
				h.Join(c, IncidentRoom(uuid.New()))
				h.unregister(c)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, h.ClientCount())
}
