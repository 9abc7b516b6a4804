package handler

// CreateRequest is the body of POST /api/programs.
type CreateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// UpdateRequest is the body of PUT /api/programs/{id}. Votes, when present,
// overrides the tally for that program.
type UpdateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Votes    *int64 `json:"votes,omitempty"`
}
