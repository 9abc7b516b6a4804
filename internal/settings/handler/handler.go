// Package handler exposes the event settings endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	"github.com/YoungStar1994/VibeVote-Live/pkg/platform/httputil"
)

// Service defines the settings operations the handler depends on.
type Service interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, settings domain.Settings) (domain.Settings, error)
}

// Handler wires settings endpoints to the settings service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public read endpoint.
func (h *Handler) Register(r chi.Router) {
	r.Get("/settings", h.HandleGet)
}

// RegisterAdmin mounts the update endpoint; the router wraps it in the
// admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/settings", h.HandleUpdate)
}

// HandleGet handles GET /api/settings requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.Get(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, current)
}

// HandleUpdate handles POST /api/settings requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[domain.Settings](w, r, h.logger)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}
