package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hollis-labs/rotation/internal/core/domain"
)

type scheduleRequest struct {
	Days int `json:"days"`
}

// ScheduleBacklog handles POST /users/{id}/schedule
func (h *Handler) ScheduleBacklog(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	userID := r.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	scheduled, err := h.svc.ScheduleBacklog(r.Context(), userID, req.Days)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDayCount) {
			writeError(w, http.StatusBadRequest, "days must not be negative")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scheduled == nil {
		scheduled = []domain.ScheduledListen{}
	}
	writeJSON(w, http.StatusCreated, scheduled)
}

// Upcoming handles GET /users/{id}/upcoming
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	scheduled, err := h.svc.Upcoming(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scheduled == nil {
		scheduled = []domain.ScheduledListen{}
	}
	writeJSON(w, http.StatusOK, scheduled)
}
