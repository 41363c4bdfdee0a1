package handler

import "net/http"

// HealthHandler serves the liveness probe endpoint. The relay holds no
// connections between dispatches, so liveness is process liveness.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
