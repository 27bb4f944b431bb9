package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hollis-labs/rotation/internal/core/domain"
)

type addBacklogRequest struct {
	SpotifyID string `json:"spotifyId"`
	Name      string `json:"name"`
	Artists   string `json:"artists,omitempty"`
}

// GetBacklog handles GET /users/{id}/backlog
func (h *Handler) GetBacklog(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	items, err := h.svc.Backlog(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []domain.BacklogItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// AddBacklogItem handles POST /users/{id}/backlog
func (h *Handler) AddBacklogItem(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	userID := r.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	var req addBacklogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SpotifyID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "spotifyId and name are required")
		return
	}

	item, err := h.svc.AddToBacklog(r.Context(), userID, domain.BacklogItem{
		SpotifyID: req.SpotifyID,
		Name:      req.Name,
		Artists:   req.Artists,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// RemoveBacklogItem handles DELETE /users/{id}/backlog/{spotifyID}
func (h *Handler) RemoveBacklogItem(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	spotifyID := r.PathValue("spotifyID")
	if userID == "" || spotifyID == "" {
		writeError(w, http.StatusBadRequest, "user id and spotify id are required")
		return
	}

	if err := h.svc.RemoveFromBacklog(r.Context(), userID, spotifyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "backlog item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
