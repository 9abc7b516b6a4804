package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors with the right
// HTTP semantics.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: the program does not exist in the ledger
// - ErrDuplicate: the identity already holds a vote record
// - ErrNoVote: no vote record exists for the identity (revoke/status)
// - ErrUnavailable: backing store temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicate   = errors.New("duplicate")
	ErrNoVote      = errors.New("no vote")
	ErrUnavailable = errors.New("unavailable")
)
