package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taximeter/internal/domain"
	"taximeter/internal/service"
)

// MeterHandler exposes the trip session to the presentation layer.
type MeterHandler struct {
	session *service.Session
}

// NewMeterHandler creates a new MeterHandler.
func NewMeterHandler(session *service.Session) *MeterHandler {
	return &MeterHandler{session: session}
}

// MeterResponse is the observable meter state.
type MeterResponse struct {
	Phase          string        `json:"phase"`
	TripType       TripTypeInfo  `json:"trip_type"`
	DistanceKm     float64       `json:"distance_km"`
	Cost           float64       `json:"cost"`
	WaitingSeconds int           `json:"waiting_seconds"`
	SampleMode     string        `json:"sample_mode,omitempty"`
	SourceStatus   string        `json:"source_status"`
	LastFix        *PositionBody `json:"last_fix,omitempty"`
}

// TripTypeInfo describes a trip type in responses.
type TripTypeInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	FixedPrice  float64 `json:"fixed_price,omitempty"`
}

// PositionBody is a GPS fix in requests and responses.
type PositionBody struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"ts"`
}

// SummaryResponse is the trip summary returned by stop.
type SummaryResponse struct {
	ID             string  `json:"id"`
	TripTypeName   string  `json:"trip_type_name"`
	DistanceKm     float64 `json:"distance_km"`
	WaitingSeconds int     `json:"waiting_seconds"`
	Cost           float64 `json:"cost"`
	EndedAt        string  `json:"ended_at"`
}

// GetState handles GET /v1/meter
func (h *MeterHandler) GetState(c *gin.Context) {
	respondJSON(c, http.StatusOK, meterResponse(h.session.Snapshot()))
}

// Start handles POST /v1/meter/start
func (h *MeterHandler) Start(c *gin.Context) {
	if err := h.session.Start(); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, meterResponse(h.session.Snapshot()))
}

// Pause handles POST /v1/meter/pause
func (h *MeterHandler) Pause(c *gin.Context) {
	if !h.session.Pause() {
		respondError(c, service.ErrNoActiveTrip)
		return
	}
	respondJSON(c, http.StatusOK, meterResponse(h.session.Snapshot()))
}

// Resume handles POST /v1/meter/resume
func (h *MeterHandler) Resume(c *gin.Context) {
	if !h.session.Resume() {
		respondError(c, service.ErrTripNotPaused)
		return
	}
	respondJSON(c, http.StatusOK, meterResponse(h.session.Snapshot()))
}

// Stop handles POST /v1/meter/stop
func (h *MeterHandler) Stop(c *gin.Context) {
	summary := h.session.Stop()
	if summary == nil {
		respondError(c, service.ErrNoActiveTrip)
		return
	}
	respondJSON(c, http.StatusOK, SummaryResponse{
		ID:             summary.ID,
		TripTypeName:   summary.TripTypeName,
		DistanceKm:     summary.DistanceKm,
		WaitingSeconds: summary.WaitingSeconds,
		Cost:           summary.Cost,
		EndedAt:        summary.EndedAt.Format(time.RFC3339),
	})
}

// SelectTripTypeRequest is the body for trip type selection.
type SelectTripTypeRequest struct {
	ID string `json:"id" binding:"required"`
}

// SelectTripType handles POST /v1/meter/trip-type
func (h *MeterHandler) SelectTripType(c *gin.Context) {
	var req SelectTripTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrUnknownTripType)
		return
	}
	if err := h.session.SelectTripType(req.ID); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, meterResponse(h.session.Snapshot()))
}

// SetModeRequest is the body for sample mode selection.
type SetModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SetMode handles POST /v1/meter/mode
func (h *MeterHandler) SetMode(c *gin.Context) {
	var req SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrUnknownSampleMode)
		return
	}
	if err := h.session.SetSampleMode(req.Mode); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, meterResponse(h.session.Snapshot()))
}

// InjectPosition handles POST /v1/meter/position, feeding a fix straight to
// the session. Useful to seed the Idle position before the first trip and
// for manual testing.
func (h *MeterHandler) InjectPosition(c *gin.Context) {
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
	h.session.Accept(pos)
	respondJSON(c, http.StatusAccepted, meterResponse(h.session.Snapshot()))
}

// ListTripTypes handles GET /v1/trip-types
func (h *MeterHandler) ListTripTypes(c *gin.Context) {
	types := domain.BuiltinTripTypes()
	response := make([]TripTypeInfo, 0, len(types))
	for _, t := range types {
		response = append(response, TripTypeInfo{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			FixedPrice:  t.FixedPrice,
		})
	}
	respondJSON(c, http.StatusOK, response)
}

func meterResponse(snap service.Snapshot) MeterResponse {
	resp := MeterResponse{
		Phase: string(snap.State.Phase),
		TripType: TripTypeInfo{
			ID:         snap.State.TripType.ID,
			Name:       snap.State.TripType.Name,
			FixedPrice: snap.State.TripType.FixedPrice,
		},
		DistanceKm:     snap.State.DistanceKm,
		Cost:           snap.State.Cost,
		WaitingSeconds: snap.State.WaitingSeconds,
		SampleMode:     snap.SampleMode,
		SourceStatus:   string(snap.SourceStatus),
	}
	if snap.LastFix != nil {
		resp.LastFix = &PositionBody{
			Lat:       snap.LastFix.Lat,
			Lng:       snap.LastFix.Lng,
			Timestamp: snap.LastFix.Timestamp,
		}
	}
	return resp
}
