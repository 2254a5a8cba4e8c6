package v1

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/crisis_broadcasting_system/internal/config"
	"github.com/shenikar/crisis_broadcasting_system/internal/geo"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/shenikar/crisis_broadcasting_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testAPIKey = "test-api-key"

var apiKeyHeader = map[string]string{"X-API-Key": testAPIKey}

type testDeps struct {
	incidents *mocks.MockIncidentService
	geofences *mocks.MockGeofenceService
	personnel *mocks.MockPersonnelService
	geocoder  *fakeGeocoder
	router    *gin.Engine
	cfg       *config.Config
}

type fakeGeocoder struct {
	point geo.Point
	found bool
	calls []string
}

func (g *fakeGeocoder) Resolve(_ context.Context, name string) (geo.Point, bool) {
	g.calls = append(g.calls, name)
	return g.point, g.found
}

// newTestHandler создает Handler с мокированными сервисами и настраивает роутер
func newTestHandler(t *testing.T, tweak ...func(*config.Config)) *testDeps {
	ctrl := gomock.NewController(t)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys:          []string{testAPIKey},
		DefaultLatitude:  28.6139,
		DefaultLongitude: 77.2090,
		UploadDir:        t.TempDir(),
		MaxUploadBytes:   1 << 20,
	}
	for _, fn := range tweak {
		fn(cfg)
	}

	d := &testDeps{
		incidents: mocks.NewMockIncidentService(ctrl),
		geofences: mocks.NewMockGeofenceService(ctrl),
		personnel: mocks.NewMockPersonnelService(ctrl),
		geocoder:  &fakeGeocoder{},
		cfg:       cfg,
	}
	handler := NewHandler(Services{
		Incidents: d.incidents,
		Geofences: d.geofences,
		Personnel: d.personnel,
		Geocoder:  d.geocoder,
	}, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	d.router = gin.New()
	handler.RegisterRoutes(d.router.Group("/api/v1"))
	return d
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func makeFormRequest(router *gin.Engine, target string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateIncident_Created(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := CreateIncidentRequest{
		Type:      "fire",
		Severity:  "high",
		Latitude:  28.7041,
		Longitude: 77.1025,
	}

	d.incidents.EXPECT().
		IngestReport(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Report) (*models.IngestResult, error) {
			assert.Equal(t, models.SourceWeb, r.Source)
			assert.Equal(t, "fire", r.Type)
			return &models.IngestResult{
				Incident:    &models.Incident{ID: incidentID, Type: "fire", Status: models.StatusActive, ReportCount: 1},
				Outcome:     models.OutcomeCreated,
				ReportCount: 1,
			}, nil
		}).Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents", jsonBody(t, reqBody), apiKeyHeader)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "created", resp.Status)
	assert.Equal(t, incidentID, resp.IncidentID)
	assert.Equal(t, "UNVERIFIED", resp.Incident.VerificationLabel)
}

func TestCreateIncident_Merged(t *testing.T) {
	d := newTestHandler(t)
	incident := &models.Incident{ID: uuid.New(), ReportCount: 2}

	d.incidents.EXPECT().
		IngestReport(gomock.Any(), gomock.Any()).
		Return(&models.IngestResult{Incident: incident, Outcome: models.OutcomeMerged, ReportCount: 2}, nil).
		Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents",
		jsonBody(t, CreateIncidentRequest{Type: "fire", Latitude: 28.7041, Longitude: 77.1025}), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"merged"`)
	assert.Contains(t, w.Body.String(), `"report_count":2`)
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().IngestReport(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents", bytes.NewBufferString(`{"type": "fire"`), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateIncident_ValidationError(t *testing.T) {
	d := newTestHandler(t)
	reqBody := CreateIncidentRequest{ // Отсутствует Type
		Latitude:  10.0,
		Longitude: 20.0,
	}

	d.incidents.EXPECT().IngestReport(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents", jsonBody(t, reqBody), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Type' failed on the 'required' tag")
}

func TestCreateIncident_OutOfRangeLatitude(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().IngestReport(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents",
		jsonBody(t, CreateIncidentRequest{Type: "fire", Latitude: 91, Longitude: 0}), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'latitude' tag")
}

func TestCreateIncident_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", fmt.Errorf("service: bad severity: %w", models.ErrValidation), http.StatusBadRequest, "validation failed"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestHandler(t)
			d.incidents.EXPECT().IngestReport(gomock.Any(), gomock.Any()).Return(nil, tt.err).Times(1)

			w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents",
				jsonBody(t, CreateIncidentRequest{Type: "fire"}), apiKeyHeader)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestGetIncident_Success(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()
	expected := &models.Incident{
		ID:           incidentID,
		Title:        "Warehouse fire",
		Status:       models.StatusActive,
		Verification: models.VerificationFake,
	}

	d.incidents.EXPECT().GetIncident(gomock.Any(), incidentID).Return(expected, nil).Times(1)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, expected.Title, resp.Title)
	assert.Equal(t, "FAKE", resp.VerificationLabel)
}

func TestGetIncident_InvalidID(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(d.router, http.MethodGet, "/api/v1/incidents/invalid-uuid", nil, apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestGetIncident_NotFound(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()

	d.incidents.EXPECT().GetIncident(gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("service: could not get incident: %w", models.ErrNotFound)).Times(1)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil, apiKeyHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetIncident_ServiceError(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()

	d.incidents.EXPECT().GetIncident(gomock.Any(), incidentID).Return(nil, errors.New("database error")).Times(1)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil, apiKeyHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestGetTimeline_Success(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()
	events := []*models.TimelineEvent{
		{IncidentID: incidentID, EventType: models.EventIncidentCreated, UserName: models.ActorSystem},
		{IncidentID: incidentID, EventType: models.EventDuplicateReport, UserName: models.ActorSystem},
	}

	d.incidents.EXPECT().GetTimeline(gomock.Any(), incidentID).Return(events, nil).Times(1)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/incidents/"+incidentID.String()+"/timeline", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []models.TimelineEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, models.EventDuplicateReport, resp[1].EventType)
}

func TestResolveIncident_SubmitForReview(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()

	d.incidents.EXPECT().
		Resolve(gomock.Any(), incidentID, false, "Officer Rao").
		Return(&models.ResolutionResult{IncidentID: incidentID, Status: models.StatusPendingReview}, nil).
		Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents/"+incidentID.String()+"/resolve",
		jsonBody(t, ResolveRequest{Confirm: false, User: "Officer Rao"}), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending_review"`)
}

func TestResolveIncident_Confirm(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()

	d.incidents.EXPECT().
		Resolve(gomock.Any(), incidentID, true, "").
		Return(&models.ResolutionResult{
			IncidentID:        incidentID,
			Status:            models.StatusResolved,
			ReleasedPersonnel: 2,
			ReleasedResources: 1,
		}, nil).
		Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents/"+incidentID.String()+"/resolve",
		jsonBody(t, ResolveRequest{Confirm: true}), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.ResolutionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.ReleasedPersonnel)
	assert.Equal(t, 1, resp.ReleasedResources)
}

func TestResolveIncident_InvalidTransition(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()

	d.incidents.EXPECT().
		Resolve(gomock.Any(), incidentID, false, "").
		Return(nil, fmt.Errorf("service: incident already resolved: %w", models.ErrInvalidTransition)).
		Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents/"+incidentID.String()+"/resolve",
		jsonBody(t, ResolveRequest{}), apiKeyHeader)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssignEntities_Success(t *testing.T) {
	d := newTestHandler(t)
	incidentID, personnelID, resourceID := uuid.New(), uuid.New(), uuid.New()

	d.incidents.EXPECT().
		AssignEntities(gomock.Any(), incidentID, []uuid.UUID{personnelID}, []uuid.UUID{resourceID}).
		Return(&models.AssignmentResult{Personnel: []uuid.UUID{personnelID}, Resources: []uuid.UUID{resourceID}}, nil).
		Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents/"+incidentID.String()+"/assign",
		jsonBody(t, AssignRequest{PersonnelIDs: []uuid.UUID{personnelID}, ResourceIDs: []uuid.UUID{resourceID}}), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), personnelID.String())
}

func TestAssignEntities_UnknownEntity(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()

	d.incidents.EXPECT().
		AssignEntities(gomock.Any(), incidentID, gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: could not assign: %w", models.ErrNotFound)).
		Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents/"+incidentID.String()+"/assign",
		jsonBody(t, AssignRequest{PersonnelIDs: []uuid.UUID{uuid.New()}}), apiKeyHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func newUploadRequest(t *testing.T, target, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", testAPIKey)
	return req
}

func TestUploadAttachment_ImageIsSniffedAndStored(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

	var stored *models.Attachment
	d.incidents.EXPECT().
		AddAttachment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.Attachment) (*models.UploadResult, error) {
			stored = a
			return &models.UploadResult{Attachment: a, VerificationQueued: true}, nil
		}).Times(1)

	w := httptest.NewRecorder()
	// расширение в имени файла не влияет на определение типа
	d.router.ServeHTTP(w, newUploadRequest(t, "/api/v1/incidents/"+incidentID.String()+"/upload", "evidence.txt", png))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, stored)
	assert.Equal(t, incidentID, stored.IncidentID)
	assert.Equal(t, "image/png", stored.MediaType)
	assert.Equal(t, models.FileTypeImage, stored.FileType)
	assert.Equal(t, "evidence.txt", stored.Filename)
	assert.True(t, strings.HasSuffix(stored.Filepath, ".png"))
	onDisk, err := os.ReadFile(stored.Filepath)
	require.NoError(t, err)
	assert.Equal(t, png, onDisk)
	assert.Contains(t, w.Body.String(), `"verification_queued":true`)
}

func TestUploadAttachment_IncidentMissingRemovesFile(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()

	var stored *models.Attachment
	d.incidents.EXPECT().
		AddAttachment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.Attachment) (*models.UploadResult, error) {
			stored = a
			return nil, fmt.Errorf("service: could not add attachment: %w", models.ErrNotFound)
		}).Times(1)

	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, newUploadRequest(t, "/api/v1/incidents/"+incidentID.String()+"/upload", "notes.txt", []byte("plain text notes")))

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, stored)
	assert.Equal(t, models.FileTypeDocument, stored.FileType)
	_, err := os.Stat(stored.Filepath)
	assert.True(t, os.IsNotExist(err))
}

func TestUploadAttachment_MissingFile(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().AddAttachment(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/incidents/"+uuid.NewString()+"/upload", nil, apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")
}

func TestCheckGeofence_Breached(t *testing.T) {
	d := newTestHandler(t)
	zone := &models.GeofenceZone{ID: uuid.New(), Name: "Chemical Spill", RadiusMeters: 500}
	result := &models.GeofenceResult{Breached: true, Zones: []*models.GeofenceZone{zone}}

	d.geofences.EXPECT().Evaluate(gomock.Any(), "responder-7", 28.7041, 77.1025).Return(result, nil).Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/alerts/geofence/check",
		jsonBody(t, LocationCheckRequest{UserID: "responder-7", Latitude: 28.7041, Longitude: 77.1025}), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"breached":true`)
	assert.Contains(t, w.Body.String(), "Chemical Spill")
}

func TestCheckGeofence_ValidationError(t *testing.T) {
	d := newTestHandler(t)

	d.geofences.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/alerts/geofence/check",
		jsonBody(t, LocationCheckRequest{Latitude: 1, Longitude: 2}), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'UserID' failed on the 'required' tag")
}

func TestCreateZone_Success(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()

	d.geofences.EXPECT().
		CreateZone(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, z *models.GeofenceZone) error {
			assert.Equal(t, "Flood Area", z.Name)
			assert.Equal(t, &incidentID, z.IncidentID)
			z.ID = uuid.New()
			z.Active = true
			return nil
		}).Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/alerts/geofence", jsonBody(t, CreateZoneRequest{
		Name:         "Flood Area",
		Latitude:     28.7,
		Longitude:    77.1,
		RadiusMeters: 300,
		IncidentID:   &incidentID,
	}), apiKeyHeader)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"active":true`)
}

func TestCreateZone_ZeroRadius(t *testing.T) {
	d := newTestHandler(t)

	d.geofences.EXPECT().CreateZone(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/alerts/geofence",
		jsonBody(t, CreateZoneRequest{Name: "Flood Area", Latitude: 28.7, Longitude: 77.1}), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListZones(t *testing.T) {
	d := newTestHandler(t)

	d.geofences.EXPECT().ListZones(gomock.Any(), true).Return([]*models.GeofenceZone{}, nil).Times(1)
	d.geofences.EXPECT().ListZones(gomock.Any(), false).Return([]*models.GeofenceZone{{Name: "Old"}}, nil).Times(1)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/alerts/geofence", nil, apiKeyHeader)
	assert.Equal(t, http.StatusOK, w.Code)

	w = makeRequest(d.router, http.MethodGet, "/api/v1/alerts/geofence?all=true", nil, apiKeyHeader)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Old")
}

func TestNearbyAlerts(t *testing.T) {
	d := newTestHandler(t)
	alerts := []*models.NearbyAlert{{Alert: &models.Alert{Message: "You are entering Gas Leak."}, DistanceMeters: 120}}

	d.geofences.EXPECT().NearbyAlerts(gomock.Any(), 28.7, 77.1, 2000.0).Return(alerts, nil).Times(1)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/alerts/nearby?lat=28.7&lng=77.1&radius=2000", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"distance_meters":120`)
}

func TestNearbyAlerts_DefaultRadius(t *testing.T) {
	d := newTestHandler(t)

	d.geofences.EXPECT().NearbyAlerts(gomock.Any(), 28.7, 77.1, 0.0).Return(nil, nil).Times(1)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/alerts/nearby?lat=28.7&lng=77.1", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNearbyAlerts_BadCoordinates(t *testing.T) {
	d := newTestHandler(t)

	d.geofences.EXPECT().NearbyAlerts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/alerts/nearby?lat=north&lng=77.1", nil, apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePersonnelLocation(t *testing.T) {
	d := newTestHandler(t)
	personnelID := uuid.New()
	result := &models.LocationUpdateResult{
		Personnel: &models.Personnel{ID: personnelID, Status: models.PersonnelEnRoute},
		Geofence:  &models.GeofenceResult{},
	}

	d.personnel.EXPECT().UpdateLocation(gomock.Any(), personnelID, 28.7041, 77.1025).Return(result, nil).Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/personnel/"+personnelID.String()+"/location",
		jsonBody(t, LocationUpdateRequest{Latitude: 28.7041, Longitude: 77.1025}), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), personnelID.String())
}

func TestUpdatePersonnelLocation_NotFound(t *testing.T) {
	d := newTestHandler(t)
	personnelID := uuid.New()

	d.personnel.EXPECT().UpdateLocation(gomock.Any(), personnelID, 1.0, 2.0).Return(nil, models.ErrNotFound).Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/personnel/"+personnelID.String()+"/location",
		jsonBody(t, LocationUpdateRequest{Latitude: 1, Longitude: 2}), apiKeyHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReceiveSOSMesh_Created(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := SOSMeshRequest{
		MsgID:     "89d19edd",
		Name:      "John Doe",
		Latitude:  28.6139,
		Longitude: 77.2090,
		Emergency: "Medical Emergency",
		Timestamp: int64Ptr(1770233307256),
	}

	d.incidents.EXPECT().
		IngestReport(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Report) (*models.IngestResult, error) {
			assert.Equal(t, models.SourceSOSMesh, r.Source)
			assert.Equal(t, "medical", r.Type)
			assert.Equal(t, models.SeverityCritical, r.Severity)
			assert.Equal(t, "SOS: Medical Emergency - John Doe", r.Title)
			require.NotNil(t, r.Mesh)
			assert.Equal(t, "89d19edd", r.Mesh.MsgID)
			assert.False(t, r.Mesh.ReceivedAt.IsZero())
			return &models.IngestResult{
				Incident:    &models.Incident{ID: incidentID},
				Outcome:     models.OutcomeCreated,
				ReportCount: 1,
			}, nil
		}).Times(1)

	// ретранслятор mesh сети не передает API-ключ
	w := makeRequest(d.router, http.MethodPost, "/api/v1/sosmesh", jsonBody(t, reqBody))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp SOSMeshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "created", resp.Status)
	assert.Equal(t, incidentID, resp.IncidentID)
	assert.Equal(t, "89d19edd", resp.MsgID)
}

func TestReceiveSOSMesh_AlreadyExists(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().
		IngestReport(gomock.Any(), gomock.Any()).
		Return(&models.IngestResult{
			Incident:    &models.Incident{ID: uuid.New()},
			Outcome:     models.OutcomeAlreadyExists,
			ReportCount: 3,
		}, nil).Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/sosmesh", jsonBody(t, SOSMeshRequest{
		MsgID: "dup", Name: "A", Latitude: 1, Longitude: 1, Emergency: "Fire", Timestamp: int64Ptr(1),
	}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SOS message already received")
}

func TestReceiveSOSMesh_MissingMsgID(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().IngestReport(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/sosmesh", jsonBody(t, SOSMeshRequest{
		Name: "A", Latitude: 1, Longitude: 1, Emergency: "Fire", Timestamp: int64Ptr(1),
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'MsgID' failed on the 'required' tag")
}

func TestReceiveSOSMesh_ZeroTimestampAccepted(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().
		IngestReport(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Report) (*models.IngestResult, error) {
			require.NotNil(t, r.Mesh)
			assert.Equal(t, int64(0), r.Mesh.Timestamp)
			return &models.IngestResult{
				Incident:    &models.Incident{ID: uuid.New()},
				Outcome:     models.OutcomeCreated,
				ReportCount: 1,
			}, nil
		}).Times(1)

	// узел без синхронизированных часов; поле type устройства игнорируется
	body := `{"msg_id":"n1-0","type":"SOS","name":"A","latitude":1,"longitude":1,"emergency":"Fire","timestamp":0}`
	w := makeRequest(d.router, http.MethodPost, "/api/v1/sosmesh", strings.NewReader(body))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReceiveSOSMesh_MissingTimestamp(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().IngestReport(gomock.Any(), gomock.Any()).Times(0)

	body := `{"msg_id":"n1-1","name":"A","latitude":1,"longitude":1,"emergency":"Fire"}`
	w := makeRequest(d.router, http.MethodPost, "/api/v1/sosmesh", strings.NewReader(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'Timestamp' failed on the 'required' tag")
}

func TestReceiveSOSMesh_NegativeTimestamp(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().IngestReport(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/sosmesh", jsonBody(t, SOSMeshRequest{
		MsgID: "n1-2", Name: "A", Latitude: 1, Longitude: 1, Emergency: "Fire", Timestamp: int64Ptr(-5),
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'Timestamp' failed on the 'gte' tag")
}

func TestGetSOSMessage(t *testing.T) {
	d := newTestHandler(t)
	msg := &models.SOSMessage{MsgID: "89d19edd", IncidentID: uuid.New(), Name: "John Doe"}

	d.incidents.EXPECT().GetSOSMessage(gomock.Any(), "89d19edd").Return(msg, nil).Times(1)
	d.incidents.EXPECT().GetSOSMessage(gomock.Any(), "missing").Return(nil, models.ErrNotFound).Times(1)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/sosmesh/messages/89d19edd", nil, apiKeyHeader)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "John Doe")

	w = makeRequest(d.router, http.MethodGet, "/api/v1/sosmesh/messages/missing", nil, apiKeyHeader)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSMSWebhook_GeocodesAndReplies(t *testing.T) {
	d := newTestHandler(t)
	d.geocoder.point = geo.Point{Lat: 28.6315, Lng: 77.2167}
	d.geocoder.found = true
	incidentID := uuid.New()

	d.incidents.EXPECT().
		IngestReport(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Report) (*models.IngestResult, error) {
			assert.Equal(t, models.SourceSMS, r.Source)
			assert.Equal(t, "fire", r.Type)
			assert.Equal(t, "Connaught Place", r.LocationName)
			assert.Equal(t, "+911234567890", r.ReporterPhone)
			assert.Equal(t, 28.6315, r.Latitude)
			assert.Equal(t, 77.2167, r.Longitude)
			return &models.IngestResult{Incident: &models.Incident{ID: incidentID}, Outcome: models.OutcomeCreated, ReportCount: 1}, nil
		}).Times(1)

	w := makeFormRequest(d.router, "/api/v1/sms/webhook", url.Values{
		"Body": {"Fire at Connaught Place. 3rd floor."},
		"From": {"+911234567890"},
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "<Response>")
	assert.Contains(t, w.Body.String(), fmt.Sprintf("Incident #%s created", incidentID))
	assert.Equal(t, []string{"Connaught Place"}, d.geocoder.calls)
}

func TestSMSWebhook_NoLocationUsesDefault(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().
		IngestReport(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Report) (*models.IngestResult, error) {
			assert.Equal(t, 28.6139, r.Latitude)
			assert.Equal(t, 77.2090, r.Longitude)
			return &models.IngestResult{Incident: &models.Incident{ID: uuid.New()}, Outcome: models.OutcomeMerged, ReportCount: 4}, nil
		}).Times(1)

	w := makeFormRequest(d.router, "/api/v1/sms/webhook", url.Values{"Body": {"someone is trapped"}}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "(4 reports)")
	assert.Empty(t, d.geocoder.calls)
}

func TestSMSWebhook_EmptyBody(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().IngestReport(gomock.Any(), gomock.Any()).Times(0)

	w := makeFormRequest(d.router, "/api/v1/sms/webhook", url.Values{"Body": {"  "}}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please provide incident details.")
}

func TestSMSWebhook_IngestFailureStillReplies(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().IngestReport(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down")).Times(1)

	w := makeFormRequest(d.router, "/api/v1/sms/webhook", url.Values{"Body": {"minor accident"}}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Error processing report. Please try again.")
}

// twilioSignature повторяет алгоритм подписи Twilio: HMAC-SHA1 от URL и отсортированных параметров
func twilioSignature(token, fullURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(fullURL)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(form.Get(k))
	}
	mac := hmac.New(sha1.New, []byte(token))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestSMSWebhook_Signature(t *testing.T) {
	const token = "twilio-token"
	d := newTestHandler(t, func(cfg *config.Config) {
		cfg.TwilioAuthToken = token
		cfg.PublicBaseURL = "https://crisis.example.com"
	})
	form := url.Values{"Body": {"fire"}, "From": {"+100"}}

	d.incidents.EXPECT().
		IngestReport(gomock.Any(), gomock.Any()).
		Return(&models.IngestResult{Incident: &models.Incident{ID: uuid.New()}, Outcome: models.OutcomeCreated}, nil).
		Times(1)

	// Без подписи
	w := makeFormRequest(d.router, "/api/v1/sms/webhook", form, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// С корректной подписью
	sig := twilioSignature(token, "https://crisis.example.com/api/v1/sms/webhook", form)
	w = makeFormRequest(d.router, "/api/v1/sms/webhook", form, map[string]string{"X-Twilio-Signature": sig})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_RejectsBurstOverflow(t *testing.T) {
	d := newTestHandler(t, func(cfg *config.Config) {
		cfg.IngestRatePerSecond = 0.001
		cfg.IngestBurst = 1
	})
	body := SOSMeshRequest{MsgID: "m1", Name: "A", Latitude: 1, Longitude: 1, Emergency: "Fire", Timestamp: int64Ptr(1)}

	d.incidents.EXPECT().
		IngestReport(gomock.Any(), gomock.Any()).
		Return(&models.IngestResult{Incident: &models.Incident{ID: uuid.New()}, Outcome: models.OutcomeCreated}, nil).
		Times(1)

	w := makeRequest(d.router, http.MethodPost, "/api/v1/sosmesh", jsonBody(t, body))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = makeRequest(d.router, http.MethodPost, "/api/v1/sosmesh", jsonBody(t, body))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestServeWS_Disabled(t *testing.T) {
	d := newTestHandler(t)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/ws", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthCheck_Success(t *testing.T) {
	d := newTestHandler(t)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAPIKeyAuthMiddleware_Success(t *testing.T) {
	d := newTestHandler(t)
	incidentID := uuid.New()

	d.incidents.EXPECT().GetIncident(gomock.Any(), incidentID).Return(&models.Incident{ID: incidentID}, nil).Times(1)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil,
		map[string]string{"Authorization": "Bearer " + testAPIKey})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthMiddleware_MissingKey(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/incidents/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")
}

func TestAPIKeyAuthMiddleware_InvalidKey(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, http.MethodGet, "/api/v1/incidents/"+uuid.NewString(), nil,
		map[string]string{"X-API-Key": "wrong-key"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}
