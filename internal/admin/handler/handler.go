// Package handler exposes the admin login endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YoungStar1994/VibeVote-Live/pkg/platform/httputil"
	"github.com/YoungStar1994/VibeVote-Live/pkg/requestcontext"
)

// Service defines the authentication operation the handler depends on.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token for subsequent admin calls.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Handler wires the login endpoint to the admin service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the login endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/login", h.HandleLogin)
}

// HandleLogin handles POST /api/admin/login requests.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[LoginRequest](w, r, h.logger)
	if !ok {
		return
	}

	token, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.InfoContext(ctx, "login failed",
			"request_id", requestcontext.RequestID(ctx),
			"username", req.Username,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Success: true, Token: token})
}
