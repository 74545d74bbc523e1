package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taximeter/internal/domain"
	internalRedis "taximeter/internal/redis"
	"taximeter/internal/service"
)

// FixHandler ingests device fixes into the Redis fix stream that backs the
// live sample source.
type FixHandler struct {
	stream *internalRedis.FixStream
}

// NewFixHandler creates a new FixHandler.
func NewFixHandler(stream *internalRedis.FixStream) *FixHandler {
	return &FixHandler{stream: stream}
}

// Publish handles POST /v1/fixes
func (h *FixHandler) Publish(c *gin.Context) {
	var body PositionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, service.ErrInvalidLocation)
		return
	}
	pos := domain.Position{Lat: body.Lat, Lng: body.Lng, Timestamp: body.Timestamp}
	if !pos.Valid() {
		respondError(c, service.ErrInvalidLocation)
		return
	}
	if err := h.stream.Publish(c.Request.Context(), pos); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusAccepted, body)
}

// LastFix handles GET /v1/fixes/last
func (h *FixHandler) LastFix(c *gin.Context) {
	pos, err := h.stream.LastFix(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if pos == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: service.ErrNoFix.Error()})
		return
	}
	respondJSON(c, http.StatusOK, PositionBody{Lat: pos.Lat, Lng: pos.Lng, Timestamp: pos.Timestamp})
}
