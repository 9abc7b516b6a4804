package broadcast

// EventKind names the push events a connected client can receive. The values
// are part of the wire contract with the display and voter clients.
type EventKind string

const (
	// EventInitData carries the full tally to a freshly connected session
	// so it renders before the next vote arrives.
	EventInitData EventKind = "init_data"
	// EventVoteUpdate carries the full tally after any mutation. Full-state
	// replacement keeps the protocol self-healing: one missed message is
	// corrected by the next.
	EventVoteUpdate EventKind = "vote_update"
	// EventResetVotedStatus tells voter clients to forget their local
	// "already voted" memory after an administrative reset.
	EventResetVotedStatus EventKind = "reset_voted_status"
	// EventSettingsUpdate carries display configuration changes separately
	// from the tally so viewers can skip redundant re-renders.
	EventSettingsUpdate EventKind = "settings_update"
)

// Event is one push-channel frame.
type Event struct {
	Event EventKind `json:"event"`
	Data  any       `json:"data,omitempty"`
}
