package broadcast

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/net/websocket"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
)

// StateFunc supplies the current full tally for the initial push.
type StateFunc func(ctx context.Context) ([]domain.Program, error)

// Handler upgrades a request to a websocket session: register, push the
// current full state, then hold the connection until the client goes away.
// Inbound frames are ignored; the channel is push-only.
func Handler(hub *Hub, state StateFunc, logger *slog.Logger) http.Handler {
	return websocket.Handler(func(ws *websocket.Conn) {
		sess := NewSession(wsConn{ws: ws})
		hub.Register(sess)
		defer hub.Unregister(sess)

		tally, err := state(ws.Request().Context())
		if err != nil {
			logger.Error("initial state fetch failed", "session_id", sess.ID(), "error", err)
			return
		}
		hub.SendTo(sess, Event{Event: EventInitData, Data: tally})

		// Reading is only how we learn the peer hung up.
		for {
			var discard string
			if err := websocket.Message.Receive(ws, &discard); err != nil {
				return
			}
		}
	})
}
