package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hollis-labs/rotation/internal/core/domain"
	"github.com/hollis-labs/rotation/internal/core/ports"
)

const (
	errCodeMissingTrackData = "MISSING_TRACK_DATA"
	errCodeNoUserToken      = "NO_USER_TOKEN"

	dateParamLayout = "2006-01-02"
)

type analyzeDayRequest struct {
	Date string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today (UTC)
}

// AnalyzeDay handles POST /users/{id}/analyze
func (h *Handler) AnalyzeDay(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	day := time.Now().UTC()
	if r.Body != nil && r.ContentLength != 0 {
		if !isJSONContentType(r) {
			writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		var req analyzeDayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Date != "" {
			parsed, err := time.ParseInLocation(dateParamLayout, req.Date, time.UTC)
			if err != nil {
				writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
				return
			}
			day = parsed
		}
	}

	listens, err := h.svc.RecordDay(r.Context(), userID, day)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingTrackData):
			writeErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), errCodeMissingTrackData)
		case errors.Is(err, ports.ErrNoUserToken):
			writeErrorWithCode(w, http.StatusUnauthorized, err.Error(), errCodeNoUserToken)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if listens == nil {
		listens = []domain.AlbumListen{}
	}
	writeJSON(w, http.StatusOK, listens)
}

// ListListens handles GET /users/{id}/listens
func (h *Handler) ListListens(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	listens, err := h.svc.History(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if listens == nil {
		listens = []domain.AlbumListen{}
	}
	writeJSON(w, http.StatusOK, listens)
}

type logListenRequest struct {
	AlbumID   string `json:"albumId"`
	AlbumName string `json:"albumName"`
	Date      string `json:"date"` // YYYY-MM-DD
	Order     string `json:"order,omitempty"`
	Method    string `json:"method"`
}

// LogListen handles POST /users/{id}/listens
func (h *Handler) LogListen(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	userID := r.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	var req logListenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AlbumID == "" || req.AlbumName == "" {
		writeError(w, http.StatusBadRequest, "albumId and albumName are required")
		return
	}

	day := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.ParseInLocation(dateParamLayout, req.Date, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	method := domain.ListenMethod(req.Method)
	if method != domain.MethodStreaming && method != domain.MethodVinyl {
		writeError(w, http.StatusBadRequest, "method must be streaming or vinyl")
		return
	}

	order := domain.ListenOrder(req.Order)
	if order != "" && order != domain.ListenOrderOrdered && order != domain.ListenOrderShuffled && order != domain.ListenOrderInterrupted {
		writeError(w, http.StatusBadRequest, "order must be ordered, shuffled or interrupted")
		return
	}

	listen, err := h.svc.LogListen(r.Context(), userID, req.AlbumID, req.AlbumName, day, order, method)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, listen)
}
