// Package broadcast fans ledger and settings changes out to every connected
// viewer. It replaces the implicit emit-to-all event bus of the old stack
// with an explicit hub owning a concurrency-safe session registry;
// register, unregister, and broadcast are its only mutators.
package broadcast

import (
	"log/slog"
	"sync"

	"github.com/YoungStar1994/VibeVote-Live/internal/platform/metrics"
)

// Hub is the process-wide registry of live sessions. Its lifetime is the
// server process: the registry empties as sessions disconnect and needs no
// teardown beyond process shutdown.
type Hub struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		logger:   logger,
		metrics:  m,
		sessions: make(map[string]*Session),
	}
}

// Register adds a session to the registry and starts its writer.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	h.sessions[s.id] = s
	count := len(h.sessions)
	h.mu.Unlock()

	go s.writeLoop(func(err error) {
		h.logger.Warn("session write failed, dropping",
			"session_id", s.id,
			"error", err,
		)
		h.metrics.BroadcastFailures.Inc()
		h.Unregister(s)
	})

	h.metrics.BroadcastSessions.Set(float64(count))
	h.logger.Info("session connected", "session_id", s.id, "sessions", count)
}

// Unregister removes a session and releases its connection. Safe to call
// more than once for the same session.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	_, present := h.sessions[s.id]
	delete(h.sessions, s.id)
	count := len(h.sessions)
	h.mu.Unlock()

	s.close()
	if present {
		h.metrics.BroadcastSessions.Set(float64(count))
		h.logger.Info("session disconnected", "session_id", s.id, "sessions", count)
	}
}

// Broadcast pushes an event to every registered session. Delivery failure to
// one session drops that session and never affects the others, and no error
// propagates back to the mutation that triggered the push.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	snapshot := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		snapshot = append(snapshot, s)
	}
	h.mu.Unlock()

	h.metrics.BroadcastEvents.WithLabelValues(string(ev.Event)).Inc()

	for _, s := range snapshot {
		if !s.Enqueue(ev) {
			h.logger.Warn("session queue full or closed, dropping",
				"session_id", s.id,
				"event", ev.Event,
			)
			h.metrics.BroadcastFailures.Inc()
			h.Unregister(s)
		}
	}
}

// SendTo delivers one event to a single session, with the same lazy-drop
// semantics as Broadcast. Used for the initial full-state push.
func (h *Hub) SendTo(s *Session, ev Event) {
	if !s.Enqueue(ev) {
		h.metrics.BroadcastFailures.Inc()
		h.Unregister(s)
	}
}

// SessionCount reports the registry size.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
