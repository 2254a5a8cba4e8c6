package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/crisis_broadcasting_system/internal/config"
	"github.com/shenikar/crisis_broadcasting_system/internal/geo"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/shenikar/crisis_broadcasting_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Geocoder переводит название места в координаты. Второе значение false означает точку по умолчанию.
type Geocoder interface {
	Resolve(ctx context.Context, name string) (geo.Point, bool)
}

// Services - зависимости обработчиков
type Services struct {
	Incidents service.IncidentService
	Geofences service.GeofenceService
	Personnel service.PersonnelService
	Geocoder  Geocoder
	// Stream обслуживает websocket-подписку
	Stream gin.HandlerFunc
}

type Handler struct {
	incidentService  service.IncidentService
	geofenceService  service.GeofenceService
	personnelService service.PersonnelService
	geocoder         Geocoder
	stream           gin.HandlerFunc
	logger           *logrus.Logger
	validate         *validator.Validate
	cfg              *config.Config
}

func NewHandler(services Services, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService:  services.Incidents,
		geofenceService:  services.Geofences,
		personnelService: services.Personnel,
		geocoder:         services.Geocoder,
		stream:           services.Stream,
		logger:           logger,
		validate:         validator.New(),
		cfg:              cfg,
	}
}

// bindJSON разбирает и валидирует тело запроса. При ошибке ответ уже отправлен.
func (h *Handler) bindJSON(c *gin.Context, log *logrus.Entry, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s ID", what)})
		return uuid.Nil, false
	}
	return id, true
}

// respondError переводит ошибку сервиса в HTTP-ответ
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		log.WithError(err).Warn("Request rejected by service")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		log.WithError(err).Warn("Entity not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrInvalidTransition):
		log.WithError(err).Warn("Invalid status transition")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrQueueFull):
		log.WithError(err).Warn("Queue is full")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service busy, retry later"})
	default:
		log.WithError(err).Error("Service call failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// @Summary Report an incident
// @Description Submit a web report. Nearby active incidents of the same type absorb the report, otherwise a new incident is created. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param incident body CreateIncidentRequest true "Incident report"
// @Success 201 {object} IngestResponse "Incident created"
// @Success 200 {object} IngestResponse "Report merged into an existing incident"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if !h.bindJSON(c, log, &input) {
		return
	}

	result, err := h.incidentService.IngestReport(c.Request.Context(), DTOToReport(input))
	if err != nil {
		respondError(c, log, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == models.OutcomeCreated {
		status = http.StatusCreated
	}
	c.JSON(status, ModelToIngestResponse(result))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Served from cache when possible. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := parseID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get incident timeline
// @Description Get the ordered timeline of an incident. Requires API key.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {array} models.TimelineEvent
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/timeline [get]
func (h *Handler) getTimeline(c *gin.Context) {
	id, ok := parseID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getTimeline").WithField("id", id)

	events, err := h.incidentService.GetTimeline(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// @Summary Assign personnel and resources
// @Description Assign personnel and resources to an incident in one transaction. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param assignment body AssignRequest true "Entities to assign"
// @Success 200 {object} models.AssignmentResult
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Incident, personnel or resource not found"
// @Failure 409 {object} map[string]string "Incident already resolved"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/assign [post]
func (h *Handler) assignEntities(c *gin.Context) {
	id, ok := parseID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "assignEntities").WithField("id", id)

	var input AssignRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	result, err := h.incidentService.AssignEntities(c.Request.Context(), id, input.PersonnelIDs, input.ResourceIDs)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Resolve an incident
// @Description confirm=false submits the incident for review, confirm=true resolves it and releases every assigned entity. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param resolution body ResolveRequest true "Resolution step"
// @Success 200 {object} models.ResolutionResult
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/resolve [post]
func (h *Handler) resolveIncident(c *gin.Context) {
	id, ok := parseID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "resolveIncident").WithField("id", id)

	var input ResolveRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	result, err := h.incidentService.Resolve(c.Request.Context(), id, input.Confirm, input.User)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Upload evidence
// @Description Attach a file to an incident. Images are queued for background verification. Requires API key.
// @Tags Incidents
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param file formData file true "Evidence file"
// @Success 201 {object} models.UploadResult
// @Failure 400 {object} map[string]string "Missing or unreadable file"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 413 {object} map[string]string "File too large"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/upload [post]
func (h *Handler) uploadAttachment(c *gin.Context) {
	id, ok := parseID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "uploadAttachment").WithField("id", id)

	if h.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.WithError(err).Warn("Upload exceeds size limit")
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		log.WithError(err).Warn("No file in request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.WithError(err).Warn("Failed to open uploaded file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	mtype, err := mimetype.DetectReader(file)
	_ = file.Close()
	if err != nil {
		log.WithError(err).Warn("Failed to detect media type")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	mediaType, _, _ := strings.Cut(mtype.String(), ";")

	attachmentID := uuid.New()
	dst := filepath.Join(h.cfg.UploadDir, attachmentID.String()+mtype.Extension())
	if err := os.MkdirAll(h.cfg.UploadDir, 0o750); err != nil {
		log.WithError(err).Error("Failed to create upload directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		log.WithError(err).Error("Failed to store uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	attachment := &models.Attachment{
		ID:         attachmentID,
		IncidentID: id,
		Filename:   filepath.Base(fileHeader.Filename),
		Filepath:   dst,
		FileType:   fileTypeOf(mediaType),
		MediaType:  mediaType,
		FileSize:   fileHeader.Size,
	}
	result, err := h.incidentService.AddAttachment(c.Request.Context(), attachment)
	if err != nil {
		if rmErr := os.Remove(dst); rmErr != nil {
			log.WithError(rmErr).Warn("Failed to remove orphaned upload")
		}
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func fileTypeOf(mediaType string) string {
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return models.FileTypeImage
	case strings.HasPrefix(mediaType, "video/"):
		return models.FileTypeVideo
	default:
		return models.FileTypeDocument
	}
}

// @Summary Subscribe to live events
// @Description Upgrade to a websocket. Every connection receives the global room; send {"action":"join_incident","incident_id":"..."} to follow one incident.
// @Tags System
// @Router /ws [get]
func (h *Handler) serveWS(c *gin.Context) {
	if h.stream == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "streaming disabled"})
		return
	}
	h.stream(c)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
