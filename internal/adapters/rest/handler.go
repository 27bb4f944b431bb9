package rest

import (
	"encoding/json"
	"net/http"

	"github.com/hollis-labs/rotation/internal/core/services"
)

// Handler manages the HTTP interface for the tracker.
type Handler struct {
	svc    *services.Tracker
	router *http.ServeMux
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Tracker) *Handler {
	h := &Handler{
		svc:    svc,
		router: http.NewServeMux(),
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)
	// Listening history
	h.router.HandleFunc("POST /users/{id}/analyze", h.AnalyzeDay)
	h.router.HandleFunc("GET /users/{id}/listens", h.ListListens)
	h.router.HandleFunc("POST /users/{id}/listens", h.LogListen)
	// Backlog & scheduling
	h.router.HandleFunc("GET /users/{id}/backlog", h.GetBacklog)
	h.router.HandleFunc("POST /users/{id}/backlog", h.AddBacklogItem)
	h.router.HandleFunc("DELETE /users/{id}/backlog/{spotifyID}", h.RemoveBacklogItem)
	h.router.HandleFunc("POST /users/{id}/schedule", h.ScheduleBacklog)
	h.router.HandleFunc("GET /users/{id}/upcoming", h.Upcoming)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
