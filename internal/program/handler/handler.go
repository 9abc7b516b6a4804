// Package handler exposes the program roster endpoints. Reads are public;
// mutations sit behind the admin token middleware.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
	"github.com/YoungStar1994/VibeVote-Live/pkg/platform/httputil"
	"github.com/YoungStar1994/VibeVote-Live/pkg/requestcontext"
)

// Service defines the roster operations the handler depends on.
type Service interface {
	List(ctx context.Context) ([]domain.Program, error)
	Create(ctx context.Context, name, category string) (domain.Program, error)
	Update(ctx context.Context, id int64, name, category string, votes *int64) (domain.Program, error)
	Delete(ctx context.Context, id int64) error
}

// Handler wires roster endpoints to the program service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a program handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public read endpoint.
func (h *Handler) Register(r chi.Router) {
	r.Get("/programs", h.HandleList)
}

// RegisterAdmin mounts the mutation endpoints; the router wraps them in the
// admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/programs", h.HandleCreate)
	r.Put("/programs/{id}", h.HandleUpdate)
	r.Delete("/programs/{id}", h.HandleDelete)
}

// HandleList handles GET /api/programs requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	programs, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, programs)
}

// HandleCreate handles POST /api/programs requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[CreateRequest](w, r, h.logger)
	if !ok {
		return
	}

	program, err := h.service.Create(ctx, req.Name, req.Category)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "program created",
		"request_id", requestcontext.RequestID(ctx),
		"program_id", program.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, program)
}

// HandleUpdate handles PUT /api/programs/{id} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := programID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.Decode[UpdateRequest](w, r, h.logger)
	if !ok {
		return
	}

	program, err := h.service.Update(ctx, id, req.Name, req.Category, req.Votes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, program)
}

// HandleDelete handles DELETE /api/programs/{id} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := programID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "program deleted",
		"request_id", requestcontext.RequestID(ctx),
		"program_id", id,
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func programID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeInvalidRequest, "invalid program id"))
		return 0, false
	}
	return id, true
}
