package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// LocationHandler serves HTTP endpoints for courier positions.
type LocationHandler struct {
	telemetry telemetryUsecase
	locations locationUsecase
	logger    logx.Logger
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(logger logx.Logger, telemetry telemetryUsecase, locations locationUsecase) *LocationHandler {
	return &LocationHandler{telemetry: telemetry, locations: locations, logger: logger}
}

// Update handles POST /couriers/{id}/location. It is the HTTP twin of the
// Kafka telemetry path and goes through the same ingest pipeline.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateLocationRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	p := domain.Position{
		CourierID: id,
		Lat:       req.Lat,
		Lng:       req.Lng,
		SpeedKmh:  req.Speed,
		AccuracyM: req.Accuracy,
	}
	if req.Timestamp != nil {
		p.RecordedAt = req.Timestamp.UTC()
	} else {
		p.RecordedAt = time.Now().UTC()
	}

	err = h.telemetry.Ingest(r.Context(), p)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.Invalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid coordinates")
	case errors.Is(err, apperr.Unavailable):
		writeError(h.logger, w, r, http.StatusServiceUnavailable, "location store unavailable")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Current handles GET /couriers/{id}/location.
func (h *LocationHandler) Current(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.locations.Current(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, positionToResponse(*p))
	case errors.Is(err, apperr.UnknownLocation):
		writeError(h.logger, w, r, http.StatusNotFound, "courier location unknown")
	case errors.Is(err, apperr.Unavailable):
		writeError(h.logger, w, r, http.StatusServiceUnavailable, "location store unavailable")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// History handles GET /couriers/{id}/location/history.
func (h *LocationHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	list, err := h.locations.History(r.Context(), id, limit)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, positionsToResponse(list))
}
