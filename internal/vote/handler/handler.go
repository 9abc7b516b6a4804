// Package handler exposes the voting endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	"github.com/YoungStar1994/VibeVote-Live/pkg/platform/httputil"
	"github.com/YoungStar1994/VibeVote-Live/pkg/requestcontext"
)

// Service defines the voting operations the handler depends on.
type Service interface {
	Cast(ctx context.Context, programID int64, userToken, fingerprint string) ([]domain.Program, error)
	Revoke(ctx context.Context, userToken, fingerprint string) ([]domain.Program, error)
	Status(ctx context.Context, userToken, fingerprint string) (domain.VoteStatus, error)
	ResetAll(ctx context.Context) ([]domain.Program, error)
}

// Handler wires voting endpoints to the vote service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a vote handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public voting endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/vote", h.HandleCast)
	r.Post("/vote/revoke", h.HandleRevoke)
	r.Get("/vote/status", h.HandleStatus)
}

// RegisterAdmin mounts the reset endpoint; the router wraps it in the admin
// token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/reset", h.HandleReset)
}

// HandleCast handles POST /api/vote requests.
func (h *Handler) HandleCast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[CastRequest](w, r, h.logger)
	if !ok {
		return
	}

	programs, err := h.service.Cast(ctx, req.ProgramID, req.UserID, req.Fingerprint)
	if err != nil {
		h.logger.InfoContext(ctx, "vote rejected",
			"request_id", requestcontext.RequestID(ctx),
			"program_id", req.ProgramID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TallyResponse{Success: true, Programs: programs})
}

// HandleRevoke handles POST /api/vote/revoke requests.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[RevokeRequest](w, r, h.logger)
	if !ok {
		return
	}

	programs, err := h.service.Revoke(ctx, req.UserID, req.Fingerprint)
	if err != nil {
		h.logger.InfoContext(ctx, "revoke rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TallyResponse{Success: true, Programs: programs})
}

// HandleStatus handles GET /api/vote/status requests. Identity material
// arrives as query parameters since status checks must not mutate anything.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	status, err := h.service.Status(ctx, q.Get("userId"), q.Get("fingerprint"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		HasVoted:  status.HasVoted,
		ProgramID: status.ProgramID,
	})
}

// HandleReset handles POST /api/reset requests.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.service.ResetAll(ctx); err != nil {
		h.logger.ErrorContext(ctx, "reset failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "votes reset",
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, ResetResponse{Success: true})
}
