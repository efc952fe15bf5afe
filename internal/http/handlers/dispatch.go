package handlers

import (
	"context"
	"errors"
	"net/http"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/logx"
)

// DispatchHandler handles HTTP requests for order assignment.
type DispatchHandler struct {
	usecase dispatchUsecase
	logger  logx.Logger
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(logger logx.Logger, uc dispatchUsecase) *DispatchHandler {
	return &DispatchHandler{usecase: uc, logger: logger}
}

// Assign handles POST /orders/{id}/assign.
// @Summary Назначить курьера на заказ
// @Tags dispatch
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} assignResponse
// @Failure 404 {object} ErrorResponse "order not found"
// @Failure 409 {object} ErrorResponse "order not pending or no candidates"
// @Router /orders/{id}/assign [post]
func (h *DispatchHandler) Assign(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromURL(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	res, err := h.usecase.Assign(r.Context(), orderID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, assignResultToResponse(res))
	case errors.Is(err, apperr.Invalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, apperr.NoCandidates):
		writeError(h.logger, w, r, http.StatusConflict, "no candidates available")
	case errors.Is(err, apperr.Conflict):
		writeError(h.logger, w, r, http.StatusConflict, "order is not pending")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Reassign handles POST /orders/{id}/reassign.
// @Summary Переназначить заказ на другого курьера
// @Tags dispatch
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} assignResponse
// @Failure 404 {object} ErrorResponse "no active assignment"
// @Router /orders/{id}/reassign [post]
func (h *DispatchHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromURL(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	res, err := h.usecase.Reassign(r.Context(), orderID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, assignResultToResponse(res))
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "no active assignment")
	case errors.Is(err, apperr.NoCandidates):
		writeError(h.logger, w, r, http.StatusConflict, "no candidates available")
	case errors.Is(err, apperr.Conflict):
		writeError(h.logger, w, r, http.StatusConflict, "conflict")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Candidates handles GET /orders/{id}/candidates.
func (h *DispatchHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromURL(r)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	list, err := h.usecase.Candidates(r.Context(), orderID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, candidatesToResponse(list))
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "order not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Accept handles POST /assignments/{id}/accept.
func (h *DispatchHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.assignmentAction(w, r, h.usecase.Accept)
}

// Reject handles POST /assignments/{id}/reject.
func (h *DispatchHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.assignmentAction(w, r, h.usecase.Reject)
}

// Complete handles POST /assignments/{id}/complete. Refused when the courier
// is outside the drop geofence or its position cannot be established.
func (h *DispatchHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.assignmentAction(w, r, h.usecase.Complete)
}

func (h *DispatchHandler) assignmentAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, assignmentID, courierID int64) error,
) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req assignmentActionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.CourierID <= 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid courier_id")
		return
	}

	err = action(r.Context(), id, req.CourierID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "assignment not found")
	case errors.Is(err, apperr.UnknownLocation):
		writeError(h.logger, w, r, http.StatusConflict, "courier location unknown")
	case errors.Is(err, apperr.Conflict):
		writeError(h.logger, w, r, http.StatusConflict, "conflict")
	case errors.Is(err, apperr.Unavailable):
		writeError(h.logger, w, r, http.StatusServiceUnavailable, "upstream unavailable")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
