package handler

// CastRequest is the body of POST /api/vote. UserID is the persistent token
// the voter client stores locally; Fingerprint is the browser fingerprint.
type CastRequest struct {
	ProgramID   int64  `json:"programId"`
	UserID      string `json:"userId"`
	Fingerprint string `json:"fingerprint"`
}

// RevokeRequest is the body of POST /api/vote/revoke.
type RevokeRequest struct {
	UserID      string `json:"userId"`
	Fingerprint string `json:"fingerprint"`
}
