package v1

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/crisis_broadcasting_system/internal/geo"
	"github.com/shenikar/crisis_broadcasting_system/internal/intake"
	"github.com/shenikar/crisis_broadcasting_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go/twiml"
)

var meshMessages = map[models.IngestOutcome]string{
	models.OutcomeCreated:       "New incident created from SOS mesh message",
	models.OutcomeMerged:        "SOS message merged with existing incident",
	models.OutcomeAlreadyExists: "SOS message already received",
}

// @Summary Receive an SOS mesh message
// @Description Relay endpoint for the Bluetooth mesh network. Messages are idempotent per msg_id within an incident. Rate limited.
// @Tags Channels
// @Accept json
// @Produce json
// @Param message body SOSMeshRequest true "Mesh message"
// @Success 201 {object} SOSMeshResponse "Incident created"
// @Success 200 {object} SOSMeshResponse "Merged or already recorded"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sosmesh [post]
func (h *Handler) receiveSOSMesh(c *gin.Context) {
	var input SOSMeshRequest
	log := h.logger.WithField("method", "receiveSOSMesh")

	if !h.bindJSON(c, log, &input) {
		return
	}

	msg := DTOToSOSMessage(input, time.Now().UTC())
	report := intake.MeshReport(msg)
	result, err := h.incidentService.IngestReport(c.Request.Context(), &report)
	if err != nil {
		respondError(c, log, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == models.OutcomeCreated {
		status = http.StatusCreated
	}
	c.JSON(status, SOSMeshResponse{
		Success:      true,
		Status:       string(result.Outcome),
		IncidentID:   result.Incident.ID,
		MsgID:        msg.MsgID,
		Message:      meshMessages[result.Outcome],
		ReportCount:  result.ReportCount,
		Notification: result.Notification,
	})
}

// @Summary Look up an SOS mesh message
// @Description Find a relayed mesh message by its device message id. Requires API key.
// @Tags Channels
// @Produce json
// @Security ApiKeyAuth
// @Param msg_id path string true "Mesh message ID"
// @Success 200 {object} models.SOSMessage
// @Failure 404 {object} map[string]string "Message not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sosmesh/messages/{msg_id} [get]
func (h *Handler) getSOSMessage(c *gin.Context) {
	msgID := c.Param("msg_id")
	log := h.logger.WithField("method", "getSOSMessage").WithField("msg_id", msgID)

	msg, err := h.incidentService.GetSOSMessage(c.Request.Context(), msgID)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// @Summary Twilio SMS webhook
// @Description Accepts a form-encoded Twilio message, classifies it, geocodes the place name and replies with TwiML. Signed and rate limited.
// @Tags Channels
// @Accept x-www-form-urlencoded
// @Produce xml
// @Param Body formData string true "Message text"
// @Param From formData string false "Sender phone number"
// @Success 200 {string} string "TwiML reply"
// @Failure 403 {object} map[string]string "Invalid signature"
// @Router /sms/webhook [post]
func (h *Handler) smsWebhook(c *gin.Context) {
	body := strings.TrimSpace(c.PostForm("Body"))
	from := c.DefaultPostForm("From", "Unknown")
	log := h.logger.WithFields(logrus.Fields{
		"method": "smsWebhook",
		"from":   from,
	})

	if body == "" {
		h.replySMS(c, log, "Please provide incident details.")
		return
	}

	parsed := intake.ParseSMS(body)
	point := h.resolveSMSLocation(c, parsed)
	report := parsed.Report(point.Lat, point.Lng, from)

	result, err := h.incidentService.IngestReport(c.Request.Context(), &report)
	if err != nil {
		log.WithError(err).Error("Failed to ingest SMS report")
		h.replySMS(c, log, "Error processing report. Please try again.")
		return
	}

	switch result.Outcome {
	case models.OutcomeCreated:
		h.replySMS(c, log, fmt.Sprintf("Report received. Incident #%s created. Emergency services alerted.", result.Incident.ID))
	default:
		h.replySMS(c, log, fmt.Sprintf("Report received. Added to incident #%s (%d reports). Emergency services alerted.",
			result.Incident.ID, result.ReportCount))
	}
}

// resolveSMSLocation геокодирует место из текста, иначе берет точку по умолчанию
func (h *Handler) resolveSMSLocation(c *gin.Context, parsed intake.SMSReport) geo.Point {
	if !parsed.HasLocation || h.geocoder == nil {
		return geo.Point{Lat: h.cfg.DefaultLatitude, Lng: h.cfg.DefaultLongitude}
	}
	point, _ := h.geocoder.Resolve(c.Request.Context(), parsed.LocationName)
	return point
}

func (h *Handler) replySMS(c *gin.Context, log *logrus.Entry, text string) {
	xml, err := twiml.Messages([]twiml.Element{&twiml.MessagingMessage{Body: text}})
	if err != nil {
		log.WithError(err).Error("Failed to render TwiML")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(xml))
}
