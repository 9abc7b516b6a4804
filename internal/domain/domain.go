// Package domain holds the shared types of the voting system. Keeping them
// free of storage and transport concerns lets stores, services, and handlers
// exchange values without import cycles.
package domain

import "time"

// Program is a competing entry that accumulates votes. JSON field names match
// the display and voter clients.
type Program struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Votes    int64  `json:"votes"`
}

// VoteRecord binds one identity to one program. Records are append-only
// between resets; the uniqueness of IdentityKey (and UserToken when present)
// is what enforces the one-vote-per-identity invariant.
type VoteRecord struct {
	ID          string    // uuid
	IdentityKey string    // unique
	UserToken   string    // unique when non-empty
	ProgramID   int64
	CreatedAt   time.Time
}

// VoteStatus reports whether an identity currently holds a vote, and for
// which program. Voter clients use it to resynchronize local state after an
// administrative reset.
type VoteStatus struct {
	HasVoted  bool  `json:"hasVoted"`
	ProgramID int64 `json:"programId,omitempty"`
}

// Settings carries the non-tally display configuration.
type Settings struct {
	EventTitle string `json:"event_title"`
}

// DefaultEventTitle seeds the settings store on first boot.
const DefaultEventTitle = "2026 年会节目表演实时投票"
