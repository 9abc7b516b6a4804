// Package ledger is the authoritative store of programs and vote records.
//
// The program table and the vote log are the only shared mutable state in
// the system, and every mutation of either goes through one Store call that
// executes as a single atomic unit — a mutex section in the in-memory
// implementation, a SQL transaction in the Postgres one. Nothing outside
// this package touches them directly.
package ledger

import (
	"context"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	"github.com/YoungStar1994/VibeVote-Live/internal/identity"
)

// Store is the atomic boundary around the program table and the vote log.
//
// Implementations return pkg/sentinel errors for factual failures:
// ErrNotFound (program missing), ErrDuplicate (identity or token already
// holds a record), ErrNoVote (nothing to revoke). Services translate those
// into domain errors.
type Store interface {
	// ListPrograms returns the full tally ordered by program ID.
	ListPrograms(ctx context.Context) ([]domain.Program, error)
	// GetProgram returns one program or ErrNotFound.
	GetProgram(ctx context.Context, id int64) (domain.Program, error)
	// CreateProgram adds a program with zero votes and assigns its ID.
	CreateProgram(ctx context.Context, name, category string) (domain.Program, error)
	// UpdateProgram rewrites name and category; a non-nil votes pointer
	// overwrites the count (admin override — the vote log is deliberately
	// left alone). Returns ErrNotFound for unknown IDs.
	UpdateProgram(ctx context.Context, id int64, name, category string, votes *int64) (domain.Program, error)
	// DeleteProgram removes a program and cascades deletion of its vote
	// records, so the affected identities may vote again.
	DeleteProgram(ctx context.Context, id int64) error

	// CastVote applies one vote as a single atomic unit: duplicate check on
	// the identity key OR the user token, program existence check, count
	// increment, and record append. Under concurrent calls sharing one
	// identity exactly one succeeds; the rest get ErrDuplicate. Returns the
	// full updated tally on success.
	CastVote(ctx context.Context, programID int64, key identity.Key, userToken string) ([]domain.Program, error)
	// RevokeVote atomically removes the record matching the identity key or
	// user token and decrements the recorded program. ErrNoVote when no
	// record matches.
	RevokeVote(ctx context.Context, key identity.Key, userToken string) ([]domain.Program, error)
	// Status reports whether the identity currently holds a vote.
	Status(ctx context.Context, key identity.Key, userToken string) (domain.VoteStatus, error)
	// ResetAll zeroes every count and clears the vote log in one unit, so a
	// stale record can never block a legitimate re-vote after reset.
	ResetAll(ctx context.Context) ([]domain.Program, error)
}
