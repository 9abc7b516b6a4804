// Package httptransport assembles the HTTP surface: public voting and tally
// endpoints, admin management endpoints behind token auth, the websocket
// push channel and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "github.com/YoungStar1994/VibeVote-Live/internal/admin/handler"
	"github.com/YoungStar1994/VibeVote-Live/internal/broadcast"
	"github.com/YoungStar1994/VibeVote-Live/internal/platform/middleware"
	programhandler "github.com/YoungStar1994/VibeVote-Live/internal/program/handler"
	settingshandler "github.com/YoungStar1994/VibeVote-Live/internal/settings/handler"
	votehandler "github.com/YoungStar1994/VibeVote-Live/internal/vote/handler"
	"github.com/YoungStar1994/VibeVote-Live/pkg/platform/httputil"
)

// Deps carries everything the router mounts.
type Deps struct {
	Votes     *votehandler.Handler
	Programs  *programhandler.Handler
	Settings  *settingshandler.Handler
	Admin     *adminhandler.Handler
	Push      http.Handler
	Validator middleware.TokenValidator
	Logger    *slog.Logger
	Health    func() error
}

// NewRouter wires all endpoints with the shared middleware chain.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(d.Logger))

	r.Route("/api", func(r chi.Router) {
		d.Votes.Register(r)
		d.Programs.Register(r)
		d.Settings.Register(r)
		d.Admin.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(d.Validator, d.Logger))
			d.Votes.RegisterAdmin(r)
			d.Programs.RegisterAdmin(r)
			d.Settings.RegisterAdmin(r)
		})
	})

	r.Handle("/ws", d.Push)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", handleHealth(d.Health))

	return r
}

func handleHealth(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// PushHandler adapts the broadcast handler so main does not import the
// websocket plumbing directly.
func PushHandler(hub *broadcast.Hub, state broadcast.StateFunc, logger *slog.Logger) http.Handler {
	return broadcast.Handler(hub, state, logger)
}
