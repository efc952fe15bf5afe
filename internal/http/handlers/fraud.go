package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// FraudHandler serves the fraud review endpoints.
type FraudHandler struct {
	usecase fraudUsecase
	logger  logx.Logger
}

// NewFraudHandler creates a new FraudHandler.
func NewFraudHandler(logger logx.Logger, uc fraudUsecase) *FraudHandler {
	return &FraudHandler{usecase: uc, logger: logger}
}

// List handles GET /fraud/events.
func (h *FraudHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.FraudFilter

	if s := q.Get("courier_id"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v <= 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid courier_id")
			return
		}
		filter.CourierID = v
	}
	if s := q.Get("type"); s != "" {
		filter.Type = domain.FraudType(s)
	}
	if s := q.Get("resolved"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid resolved")
			return
		}
		filter.Resolved = &v
	}
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = v
	}

	list, err := h.usecase.Events(r.Context(), filter)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, fraudEventsToResponse(list))
}

// Resolve handles POST /fraud/events/{id}/resolve.
func (h *FraudHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req resolveRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	err = h.usecase.Resolve(r.Context(), id, req.Notes)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "resolved"})
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "event not found or already resolved")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// RiskScore handles GET /couriers/{id}/fraud-score.
func (h *FraudHandler) RiskScore(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	score, err := h.usecase.RiskScore(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, score)
}
