package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

// Conn is the transport a session writes events to. The websocket wrapper is
// the production implementation; tests substitute in-process fakes.
type Conn interface {
	WriteEvent(Event) error
	Close() error
}

// sessionBuffer bounds the per-session outbound queue. A viewer that cannot
// drain this many frames is effectively gone and gets dropped.
const sessionBuffer = 16

// Session is one live connection to a viewer or voter client. It owns a
// buffered outbound queue and a writer goroutine so one slow consumer never
// stalls a broadcast.
type Session struct {
	id        string
	conn      Conn
	out       chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession wraps a connection. The session does nothing until the hub
// registers it and starts its writer.
func NewSession(conn Conn) *Session {
	return &Session{
		id:   uuid.NewString(),
		conn: conn,
		out:  make(chan Event, sessionBuffer),
		done: make(chan struct{}),
	}
}

// ID returns the session's registry key.
func (s *Session) ID() string { return s.id }

// Enqueue offers an event to the session without blocking. It reports false
// when the session is closed or its buffer is full; the hub treats either as
// a dead session.
func (s *Session) Enqueue(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- ev:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

// writeLoop drains the outbound queue onto the connection. It exits on close
// or on the first write error, reporting the error to the hub.
func (s *Session) writeLoop(failed func(error)) {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.out:
			if err := s.conn.WriteEvent(ev); err != nil {
				failed(err)
				return
			}
		}
	}
}

// close releases the session exactly once.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// wsConn adapts a websocket connection to the Conn interface.
type wsConn struct {
	ws *websocket.Conn
}

func (c wsConn) WriteEvent(ev Event) error {
	return websocket.JSON.Send(c.ws, ev)
}

func (c wsConn) Close() error {
	return c.ws.Close()
}
