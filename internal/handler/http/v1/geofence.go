package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary Check location against geofences
// @Description Evaluate a point against every active zone. Each breached zone produces an alert and a notification. Requires API key.
// @Tags Geofence
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param location body LocationCheckRequest true "Location check request"
// @Success 200 {object} models.GeofenceResult
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/geofence/check [post]
func (h *Handler) checkGeofence(c *gin.Context) {
	var input LocationCheckRequest
	log := h.logger.WithField("method", "checkGeofence")

	if !h.bindJSON(c, log, &input) {
		return
	}

	result, err := h.geofenceService.Evaluate(c.Request.Context(), input.UserID, input.Latitude, input.Longitude)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Create a geofence zone
// @Description Create a circular zone. A zone bound to an incident is recorded in its timeline. Requires API key.
// @Tags Geofence
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param zone body CreateZoneRequest true "Zone"
// @Success 201 {object} models.GeofenceZone
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/geofence [post]
func (h *Handler) createZone(c *gin.Context) {
	var input CreateZoneRequest
	log := h.logger.WithField("method", "createZone")

	if !h.bindJSON(c, log, &input) {
		return
	}

	zone := DTOToZone(input)
	if err := h.geofenceService.CreateZone(c.Request.Context(), zone); err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, zone)
}

// @Summary List geofence zones
// @Description List zones, only active ones unless all=true. Requires API key.
// @Tags Geofence
// @Produce json
// @Security ApiKeyAuth
// @Param all query bool false "Include inactive zones"
// @Success 200 {array} models.GeofenceZone
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/geofence [get]
func (h *Handler) listZones(c *gin.Context) {
	log := h.logger.WithField("method", "listZones")
	all, _ := strconv.ParseBool(c.DefaultQuery("all", "false"))

	zones, err := h.geofenceService.ListZones(c.Request.Context(), !all)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, zones)
}

// @Summary Nearby alerts
// @Description Unexpired alerts around a point, nearest first. Requires API key.
// @Tags Geofence
// @Produce json
// @Security ApiKeyAuth
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query number false "Radius in meters"
// @Success 200 {array} models.NearbyAlert
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts/nearby [get]
func (h *Handler) nearbyAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "nearbyAlerts")

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required numbers"})
		return
	}
	var radius float64
	if raw := c.Query("radius"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
			return
		}
		radius = r
	}

	alerts, err := h.geofenceService.NearbyAlerts(c.Request.Context(), lat, lng, radius)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// @Summary Update personnel location
// @Description Store a responder position, broadcast it and run the geofence check for that responder. Requires API key.
// @Tags Personnel
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Personnel ID"
// @Param location body LocationUpdateRequest true "New position"
// @Success 200 {object} models.LocationUpdateResult
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Personnel not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /personnel/{id}/location [post]
func (h *Handler) updatePersonnelLocation(c *gin.Context) {
	id, ok := parseID(c, "personnel")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updatePersonnelLocation").WithField("id", id)

	var input LocationUpdateRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	result, err := h.personnelService.UpdateLocation(c.Request.Context(), id, input.Latitude, input.Longitude)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
