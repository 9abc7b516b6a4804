package handler

import "github.com/YoungStar1994/VibeVote-Live/internal/domain"

// TallyResponse is returned by cast and revoke: the mutation outcome plus
// the full standings so the caller can render without a second fetch.
type TallyResponse struct {
	Success  bool             `json:"success"`
	Programs []domain.Program `json:"programs"`
}

// StatusResponse is returned by GET /api/vote/status. ProgramID is omitted
// when the identity holds no vote.
type StatusResponse struct {
	HasVoted  bool  `json:"hasVoted"`
	ProgramID int64 `json:"programId,omitempty"`
}

// ResetResponse is returned by POST /api/reset.
type ResetResponse struct {
	Success bool `json:"success"`
}
