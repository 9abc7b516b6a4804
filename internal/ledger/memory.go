package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	"github.com/YoungStar1994/VibeVote-Live/internal/identity"
	"github.com/YoungStar1994/VibeVote-Live/pkg/requestcontext"
	"github.com/YoungStar1994/VibeVote-Live/pkg/sentinel"
)

// InMemory keeps the whole ledger behind one mutex. A single lock is the
// atomic unit here: every Store call holds it for its full duration, which
// gives the check-and-increment exactly-once semantics without a database.
type InMemory struct {
	mu       sync.Mutex
	programs map[int64]*domain.Program
	records  map[identity.Key]*domain.VoteRecord
	byToken  map[string]identity.Key
}

// NewInMemory creates an empty in-memory ledger.
func NewInMemory() *InMemory {
	return &InMemory{
		programs: make(map[int64]*domain.Program),
		records:  make(map[identity.Key]*domain.VoteRecord),
		byToken:  make(map[string]identity.Key),
	}
}

func (s *InMemory) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tallyLocked(), nil
}

func (s *InMemory) GetProgram(ctx context.Context, id int64) (domain.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.programs[id]
	if !ok {
		return domain.Program{}, sentinel.ErrNotFound
	}
	return *p, nil
}

func (s *InMemory) CreateProgram(ctx context.Context, name, category string) (domain.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for id := range s.programs {
		if id > maxID {
			maxID = id
		}
	}
	p := &domain.Program{ID: maxID + 1, Name: name, Category: category}
	s.programs[p.ID] = p
	return *p, nil
}

func (s *InMemory) UpdateProgram(ctx context.Context, id int64, name, category string, votes *int64) (domain.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.programs[id]
	if !ok {
		return domain.Program{}, sentinel.ErrNotFound
	}
	p.Name = name
	p.Category = category
	if votes != nil {
		p.Votes = *votes
	}
	return *p, nil
}

func (s *InMemory) DeleteProgram(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.programs[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.programs, id)

	// Cascade: records pointing at the deleted program no longer block
	// their identities from voting again.
	for key, rec := range s.records {
		if rec.ProgramID == id {
			if rec.UserToken != "" {
				delete(s.byToken, rec.UserToken)
			}
			delete(s.records, key)
		}
	}
	return nil
}

func (s *InMemory) CastVote(ctx context.Context, programID int64, key identity.Key, userToken string) ([]domain.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.records[key]; dup {
		return nil, sentinel.ErrDuplicate
	}
	if userToken != "" {
		if _, dup := s.byToken[userToken]; dup {
			return nil, sentinel.ErrDuplicate
		}
	}

	p, ok := s.programs[programID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	p.Votes++
	rec := &domain.VoteRecord{
		ID:          uuid.NewString(),
		IdentityKey: string(key),
		UserToken:   userToken,
		ProgramID:   programID,
		CreatedAt:   requestcontext.Now(ctx),
	}
	s.records[key] = rec
	if userToken != "" {
		s.byToken[userToken] = key
	}
	return s.tallyLocked(), nil
}

func (s *InMemory) RevokeVote(ctx context.Context, key identity.Key, userToken string) ([]domain.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok && userToken != "" {
		if k, found := s.byToken[userToken]; found {
			rec, ok = s.records[k]
		}
	}
	if !ok {
		return nil, sentinel.ErrNoVote
	}

	if p, exists := s.programs[rec.ProgramID]; exists && p.Votes > 0 {
		p.Votes--
	}
	if rec.UserToken != "" {
		delete(s.byToken, rec.UserToken)
	}
	delete(s.records, identity.Key(rec.IdentityKey))
	return s.tallyLocked(), nil
}

func (s *InMemory) Status(ctx context.Context, key identity.Key, userToken string) (domain.VoteStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok && userToken != "" {
		if k, found := s.byToken[userToken]; found {
			rec, ok = s.records[k]
		}
	}
	if !ok {
		return domain.VoteStatus{}, nil
	}
	return domain.VoteStatus{HasVoted: true, ProgramID: rec.ProgramID}, nil
}

func (s *InMemory) ResetAll(ctx context.Context) ([]domain.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.programs {
		p.Votes = 0
	}
	s.records = make(map[identity.Key]*domain.VoteRecord)
	s.byToken = make(map[string]identity.Key)
	return s.tallyLocked(), nil
}

// RecordCount reports the vote-log size. Tests use it to assert the
// sum-of-counts == number-of-records invariant.
func (s *InMemory) RecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// tallyLocked snapshots the full program list ordered by ID. Callers hold
// s.mu.
func (s *InMemory) tallyLocked() []domain.Program {
	tally := make([]domain.Program, 0, len(s.programs))
	for _, p := range s.programs {
		tally = append(tally, *p)
	}
	sort.Slice(tally, func(i, j int) bool { return tally[i].ID < tally[j].ID })
	return tally
}

var _ Store = (*InMemory)(nil)
