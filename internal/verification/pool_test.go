package verification

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_broadcasting_system/internal/broadcast"
	"github.com/shenikar/crisis_broadcasting_system/internal/config"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu          sync.Mutex
	contention  int // сколько первых записей отклонить с ErrContention
	saveErr     error
	saveCalls   int
	saved       []*models.VerificationRecord
	invalidated []uuid.UUID
}

func (s *fakeStore) GetVerificationContext(_ context.Context, id uuid.UUID) (*models.VerificationContext, error) {
	return &models.VerificationContext{IncidentID: id, Type: "fire", Description: "Smoke over the market"}, nil
}

func (s *fakeStore) SaveVerification(_ context.Context, rec *models.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.saveCalls <= s.contention {
		return models.ErrContention
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *fakeStore) InvalidateIncidentCache(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, id)
	return nil
}

type fakeAnalyzer struct {
	verdict *models.Verdict
	err     error
	got     models.Image
}

func (a *fakeAnalyzer) Analyze(_ context.Context, image models.Image, incidentType, description string) (*models.Verdict, error) {
	a.got = image
	return a.verdict, a.err
}

type fakeHub struct {
	mu     sync.Mutex
	events []string
	rooms  [][]string
	last   any
}

func (h *fakeHub) Publish(event string, payload any, rooms ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	h.rooms = append(h.rooms, rooms)
	h.last = payload
}

func (h *fakeHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func newTestPool(t *testing.T, store *fakeStore, analyzer *fakeAnalyzer, hub *fakeHub) (*Pool, *[]time.Duration) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		VerifyWorkers:     2,
		VerifyQueueSize:   2,
		VerifyMaxAttempts: 5,
		VerifyBaseDelay:   100 * time.Millisecond,
		VerifyTimeout:     time.Second,
	}
	p := NewPool(store, analyzer, hub, logger, cfg, nil)

	var delays []time.Duration
	p.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return p, &delays
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "evidence.jpg")
	require.NoError(t, os.WriteFile(path, []byte("\xff\xd8\xff\xe0fake-jpeg"), 0o600))
	return path
}

func TestProcess_SavesVerdictAndPublishes(t *testing.T) {
	store := &fakeStore{}
	analyzer := &fakeAnalyzer{verdict: &models.Verdict{Verified: true, Fake: true, Confidence: 140, Analysis: "Edited image"}}
	hub := &fakeHub{}
	p, _ := newTestPool(t, store, analyzer, hub)
	id := uuid.New()

	p.process(context.Background(), models.VerificationJob{IncidentID: id, Path: writeImage(t), MediaType: "image/jpeg"})

	require.Len(t, store.saved, 1)
	rec := store.saved[0]
	assert.Equal(t, models.VerificationFake, rec.Status, "fake wins over verified")
	assert.Equal(t, 100, rec.Score)
	assert.Equal(t, "Edited image", rec.Analysis)
	assert.Equal(t, "image/jpeg", analyzer.got.MediaType)
	assert.Equal(t, []uuid.UUID{id}, store.invalidated)

	require.Equal(t, []string{broadcast.EventIncidentVerified}, hub.events)
	assert.Equal(t, []string{broadcast.GlobalRoom, broadcast.IncidentRoom(id)}, hub.rooms[0])
	result, ok := hub.last.(*Result)
	require.True(t, ok)
	assert.Equal(t, models.VerificationFake, result.Verification)
}

func TestProcess_RetriesOnContention(t *testing.T) {
	store := &fakeStore{contention: 2}
	analyzer := &fakeAnalyzer{verdict: &models.Verdict{Verified: true, Confidence: 80}}
	hub := &fakeHub{}
	p, delays := newTestPool(t, store, analyzer, hub)

	p.process(context.Background(), models.VerificationJob{IncidentID: uuid.New(), Path: writeImage(t)})

	assert.Equal(t, 3, store.saveCalls)
	require.Len(t, store.saved, 1)
	assert.Equal(t, models.VerificationVerified, store.saved[0].Status)
	require.Len(t, *delays, 2)
	// base*2^attempt + jitter в пределах [0, base/2]
	assert.GreaterOrEqual(t, (*delays)[0], 100*time.Millisecond)
	assert.LessOrEqual(t, (*delays)[0], 150*time.Millisecond)
	assert.GreaterOrEqual(t, (*delays)[1], 200*time.Millisecond)
	assert.LessOrEqual(t, (*delays)[1], 250*time.Millisecond)
	assert.Equal(t, 1, hub.count())
}

func TestProcess_GivesUpAfterMaxAttempts(t *testing.T) {
	store := &fakeStore{contention: 100}
	analyzer := &fakeAnalyzer{verdict: &models.Verdict{Verified: true}}
	hub := &fakeHub{}
	p, delays := newTestPool(t, store, analyzer, hub)

	p.process(context.Background(), models.VerificationJob{IncidentID: uuid.New(), Path: writeImage(t)})

	assert.Equal(t, 5, store.saveCalls)
	assert.Len(t, *delays, 4)
	assert.Empty(t, store.saved)
	assert.Zero(t, hub.count())
}

func TestProcess_NonContentionErrorIsNotRetried(t *testing.T) {
	store := &fakeStore{saveErr: models.ErrNotFound}
	analyzer := &fakeAnalyzer{verdict: &models.Verdict{}}
	hub := &fakeHub{}
	p, delays := newTestPool(t, store, analyzer, hub)

	p.process(context.Background(), models.VerificationJob{IncidentID: uuid.New(), Path: writeImage(t)})

	assert.Equal(t, 1, store.saveCalls)
	assert.Empty(t, *delays)
	assert.Zero(t, hub.count())
}

func TestProcess_AnalyzerFailureWritesNothing(t *testing.T) {
	store := &fakeStore{}
	analyzer := &fakeAnalyzer{err: errors.New("upstream 529")}
	hub := &fakeHub{}
	p, _ := newTestPool(t, store, analyzer, hub)

	p.process(context.Background(), models.VerificationJob{IncidentID: uuid.New(), Path: writeImage(t)})

	assert.Zero(t, store.saveCalls)
	assert.Zero(t, hub.count())
}

func TestProcess_MissingFileWritesNothing(t *testing.T) {
	store := &fakeStore{}
	hub := &fakeHub{}
	p, _ := newTestPool(t, store, &fakeAnalyzer{}, hub)

	p.process(context.Background(), models.VerificationJob{IncidentID: uuid.New(), Path: filepath.Join(t.TempDir(), "missing.jpg")})

	assert.Zero(t, store.saveCalls)
	assert.Zero(t, hub.count())
}

func TestEnqueue_QueueFull(t *testing.T) {
	p, _ := newTestPool(t, &fakeStore{}, &fakeAnalyzer{}, &fakeHub{})
	job := models.VerificationJob{IncidentID: uuid.New()}

	require.NoError(t, p.Enqueue(job))
	require.NoError(t, p.Enqueue(job))

	err := p.Enqueue(job)
	assert.ErrorIs(t, err, models.ErrQueueFull)
}

func TestPool_StartProcessesQueuedJobs(t *testing.T) {
	store := &fakeStore{}
	analyzer := &fakeAnalyzer{verdict: &models.Verdict{Verified: true, Confidence: 90}}
	hub := &fakeHub{}
	p, _ := newTestPool(t, store, analyzer, hub)
	path := writeImage(t)

	require.NoError(t, p.Enqueue(models.VerificationJob{IncidentID: uuid.New(), Path: path}))
	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool { return hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestPool_StopIsIdempotent(t *testing.T) {
	p, _ := newTestPool(t, &fakeStore{}, &fakeAnalyzer{}, &fakeHub{})

	p.Stop()
	p.Start(context.Background())
	p.Stop()
	p.Stop()
}
