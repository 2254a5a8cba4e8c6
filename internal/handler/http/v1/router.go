package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := APIKeyAuthMiddleware(h.cfg.APIKeys, h.logger)
	limit := RateLimitMiddleware(h.cfg.IngestRatePerSecond, h.cfg.IngestBurst, h.logger)

	// Инциденты: прием сообщений, разрешение, назначения, доказательства
	incidents := api.Group("/incidents", auth)
	{
		incidents.POST("", limit, h.createIncident)
		incidents.GET("/:id", h.getIncident)
		incidents.GET("/:id/timeline", h.getTimeline)
		incidents.POST("/:id/assign", h.assignEntities)
		incidents.POST("/:id/resolve", h.resolveIncident)
		incidents.POST("/:id/upload", h.uploadAttachment)
	}

	api.POST("/personnel/:id/location", auth, h.updatePersonnelLocation)

	// Геозоны и оповещения
	alerts := api.Group("/alerts", auth)
	{
		alerts.POST("/geofence/check", h.checkGeofence)
		alerts.POST("/geofence", h.createZone)
		alerts.GET("/geofence", h.listZones)
		alerts.GET("/nearby", h.nearbyAlerts)
	}

	// Внешние каналы: ретранслятор mesh сети и SMS-шлюз
	api.POST("/sosmesh", limit, h.receiveSOSMesh)
	api.GET("/sosmesh/messages/:msg_id", auth, h.getSOSMessage)
	api.POST("/sms/webhook", limit, TwilioSignatureMiddleware(h.cfg.TwilioAuthToken, h.cfg.PublicBaseURL, h.logger), h.smsWebhook)

	api.GET("/ws", h.serveWS)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
