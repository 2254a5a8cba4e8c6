package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB поднимает схему в базе из TEST_DATABASE_URL; без нее интеграционные тесты пропускаются
func newTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration test")
	}

	m, err := migrate.New("file://../../migrations", strings.Replace(dsn, "postgres://", "pgx5://", 1))
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `TRUNCATE location_checks, attachments, incident_timeline, notifications,
			alerts, geofence_zones, resources, personnel, sosmesh_messages, incidents CASCADE;`)
		pool.Close()
	})
	return pool
}

func newIncident(incidentType string, lat, lng float64) *models.Incident {
	return &models.Incident{
		Title:        "test " + incidentType,
		Type:         incidentType,
		Severity:     models.SeverityHigh,
		Status:       models.StatusActive,
		Latitude:     lat,
		Longitude:    lng,
		ReportSource: models.SourceWeb,
		ReportCount:  1,
	}
}

func insertPersonnel(t *testing.T, pool *pgxpool.Pool, assigned *uuid.UUID) uuid.UUID {
	t.Helper()
	status := models.PersonnelAvailable
	if assigned != nil {
		status = models.PersonnelOnScene
	}
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO personnel (name, role, status, assigned_incident_id) VALUES ('Responder', 'medic', $1, $2) RETURNING id;`,
		status, assigned).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertResource(t *testing.T, pool *pgxpool.Pool, assigned *uuid.UUID) uuid.UUID {
	t.Helper()
	status := models.ResourceAvailable
	if assigned != nil {
		status = models.ResourceDeployed
	}
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO resources (name, type, status, assigned_incident_id) VALUES ('Ambulance', 'vehicle', $1, $2) RETURNING id;`,
		status, assigned).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestIncidentRepository_MergeReport_MeshIdempotent(t *testing.T) {
	pool := newTestDB(t)
	repo := NewIncidentRepository(pool, nil)
	ctx := context.Background()

	mesh := &models.SOSMessage{MsgID: "msg-1", Name: "Asha", Latitude: 10, Longitude: 10, Emergency: "Fire"}
	incident := newIncident("fire", 10, 10)
	incident.ReportSource = models.SourceSOSMesh
	require.NoError(t, repo.Create(ctx, incident, mesh))

	out, err := repo.MergeReport(ctx, incident.ID, &models.SOSMessage{MsgID: "msg-1", Latitude: 10, Longitude: 10})
	require.NoError(t, err)
	assert.True(t, out.Duplicate)
	assert.Equal(t, 1, out.ReportCount)

	out, err = repo.MergeReport(ctx, incident.ID, &models.SOSMessage{MsgID: "msg-2", Latitude: 10, Longitude: 10})
	require.NoError(t, err)
	assert.False(t, out.Duplicate)
	assert.Equal(t, 2, out.ReportCount)

	out, err = repo.MergeReport(ctx, incident.ID, &models.SOSMessage{MsgID: "msg-2", Latitude: 10, Longitude: 10})
	require.NoError(t, err)
	assert.True(t, out.Duplicate)
	assert.Equal(t, 2, out.ReportCount)

	stored, err := repo.GetByID(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ReportCount)
	require.Len(t, stored.MeshMessages, 2)
	assert.Equal(t, "msg-1", stored.MeshMessages[0].MsgID)
	assert.Equal(t, "msg-2", stored.MeshMessages[1].MsgID)
}

func TestIncidentRepository_FindActiveByType_Ordered(t *testing.T) {
	pool := newTestDB(t)
	repo := NewIncidentRepository(pool, nil)
	ctx := context.Background()

	first := newIncident("fire", 10, 10)
	second := newIncident("fire", 10.001, 10)
	flood := newIncident("flood", 10, 10)
	require.NoError(t, repo.Create(ctx, first, nil))
	require.NoError(t, repo.Create(ctx, second, nil))
	require.NoError(t, repo.Create(ctx, flood, nil))

	found, err := repo.FindActiveByType(ctx, "fire")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.ID, found[0].ID)
	assert.Equal(t, second.ID, found[1].ID)
}

func TestIncidentRepository_TwoPhaseResolution(t *testing.T) {
	pool := newTestDB(t)
	repo := NewIncidentRepository(pool, nil)
	ctx := context.Background()

	incident := newIncident("fire", 10, 10)
	require.NoError(t, repo.Create(ctx, incident, nil))
	p1 := insertPersonnel(t, pool, &incident.ID)
	p2 := insertPersonnel(t, pool, &incident.ID)
	insertPersonnel(t, pool, nil)
	r1 := insertResource(t, pool, &incident.ID)

	changed, err := repo.SubmitForReview(ctx, incident.ID, models.ActorResponder)
	require.NoError(t, err)
	assert.True(t, changed)

	var pinned int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM personnel WHERE assigned_incident_id = $1 AND status = 'on-scene';`, incident.ID).Scan(&pinned))
	assert.Equal(t, 2, pinned)

	changed, err = repo.SubmitForReview(ctx, incident.ID, models.ActorResponder)
	require.NoError(t, err)
	assert.False(t, changed)

	result, err := repo.ResolveIncident(ctx, incident.ID, models.ActorSupervisor)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ReleasedPersonnel)
	assert.Equal(t, 1, result.ReleasedResources)
	assert.False(t, result.AlreadyResolved)

	for _, id := range []uuid.UUID{p1, p2} {
		var status string
		var assigned *uuid.UUID
		require.NoError(t, pool.QueryRow(ctx, `SELECT status, assigned_incident_id FROM personnel WHERE id = $1;`, id).Scan(&status, &assigned))
		assert.Equal(t, models.PersonnelAvailable, status)
		assert.Nil(t, assigned)
	}
	var resStatus string
	require.NoError(t, pool.QueryRow(ctx, `SELECT status FROM resources WHERE id = $1;`, r1).Scan(&resStatus))
	assert.Equal(t, models.ResourceAvailable, resStatus)

	again, err := repo.ResolveIncident(ctx, incident.ID, models.ActorSupervisor)
	require.NoError(t, err)
	assert.True(t, again.AlreadyResolved)
	assert.Zero(t, again.ReleasedPersonnel)
	assert.Zero(t, again.ReleasedResources)

	_, err = repo.SubmitForReview(ctx, incident.ID, models.ActorResponder)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	stored, err := repo.GetByID(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, stored.Status)
	assert.NotNil(t, stored.ResolvedAt)

	timeline, err := repo.ListTimeline(ctx, incident.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, models.EventResolutionSubmitted, timeline[0].EventType)
	assert.Equal(t, models.ResolvedDescription(2, 1), timeline[1].Description)
}

func TestIncidentRepository_AssignEntities_RollsBackOnMissingID(t *testing.T) {
	pool := newTestDB(t)
	repo := NewIncidentRepository(pool, nil)
	ctx := context.Background()

	incident := newIncident("medical", 10, 10)
	require.NoError(t, repo.Create(ctx, incident, nil))
	p := insertPersonnel(t, pool, nil)

	_, err := repo.AssignEntities(ctx, incident.ID, []uuid.UUID{p}, []uuid.UUID{uuid.New()}, models.ActorDispatcher)
	require.ErrorIs(t, err, models.ErrNotFound)

	var status string
	require.NoError(t, pool.QueryRow(ctx, `SELECT status FROM personnel WHERE id = $1;`, p).Scan(&status))
	assert.Equal(t, models.PersonnelAvailable, status)

	res, err := repo.AssignEntities(ctx, incident.ID, []uuid.UUID{p}, nil, models.ActorDispatcher)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p}, res.Personnel)
}

func TestIncidentRepository_SaveVerification_NoWaitContention(t *testing.T) {
	pool := newTestDB(t)
	repo := NewIncidentRepository(pool, nil)
	ctx := context.Background()

	incident := newIncident("fire", 10, 10)
	require.NoError(t, repo.Create(ctx, incident, nil))

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `SELECT id FROM incidents WHERE id = $1 FOR UPDATE;`, incident.ID)
	require.NoError(t, err)

	rec := &models.VerificationRecord{IncidentID: incident.ID, Status: models.VerificationVerified, Score: 90, Analysis: "smoke visible"}
	err = repo.SaveVerification(ctx, rec)
	assert.ErrorIs(t, err, models.ErrContention)

	require.NoError(t, tx.Rollback(ctx))

	require.NoError(t, repo.SaveVerification(ctx, rec))
	stored, err := repo.GetByID(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, stored.Verification)
	assert.Equal(t, 90, stored.VerificationScore)
}
