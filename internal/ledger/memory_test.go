package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	"github.com/YoungStar1994/VibeVote-Live/internal/identity"
	"github.com/YoungStar1994/VibeVote-Live/pkg/sentinel"
)

type MemoryLedgerSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	prog1 domain.Program
	prog2 domain.Program
}

func (s *MemoryLedgerSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()

	var err error
	s.prog1, err = s.store.CreateProgram(s.ctx, "开场瑜伽舞", "瑜伽")
	s.Require().NoError(err)
	s.prog2, err = s.store.CreateProgram(s.ctx, "普拉提器械展示", "普拉提")
	s.Require().NoError(err)
}

func TestMemoryLedgerSuite(t *testing.T) {
	suite.Run(t, new(MemoryLedgerSuite))
}

// sumVotes totals the displayed counts across the tally.
func sumVotes(tally []domain.Program) int64 {
	var sum int64
	for _, p := range tally {
		sum += p.Votes
	}
	return sum
}

func (s *MemoryLedgerSuite) TestCastVote() {
	s.Run("first vote increments and returns full tally", func() {
		tally, err := s.store.CastVote(s.ctx, s.prog1.ID, "key-a", "")
		s.Require().NoError(err)

		s.Len(tally, 2)
		s.Equal(int64(1), tally[0].Votes)
		s.Equal(int64(0), tally[1].Votes)
	})

	s.Run("same identity key is rejected even for another program", func() {
		_, err := s.store.CastVote(s.ctx, s.prog2.ID, "key-a", "")
		s.Require().ErrorIs(err, sentinel.ErrDuplicate)

		tally, err := s.store.ListPrograms(s.ctx)
		s.Require().NoError(err)
		s.Equal(int64(1), sumVotes(tally), "rejected vote must not mutate")
	})

	s.Run("same user token under a fresh identity key is rejected", func() {
		_, err := s.store.CastVote(s.ctx, s.prog1.ID, "key-b", "token-1")
		s.Require().NoError(err)

		_, err = s.store.CastVote(s.ctx, s.prog2.ID, "key-c", "token-1")
		s.Require().ErrorIs(err, sentinel.ErrDuplicate)
	})

	s.Run("unknown program leaves the ledger untouched", func() {
		_, err := s.store.CastVote(s.ctx, 999, "key-d", "")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		tally, err := s.store.ListPrograms(s.ctx)
		s.Require().NoError(err)
		s.Equal(int64(2), sumVotes(tally))
		s.Equal(2, s.store.RecordCount(), "failed vote must not append a record")
	})
}

// TestCountsMatchRecords pins the no-lost-no-double-increment invariant:
// the sum of displayed counts always equals the number of log records.
func (s *MemoryLedgerSuite) TestCountsMatchRecords() {
	for i := 0; i < 10; i++ {
		target := s.prog1.ID
		if i%2 == 0 {
			target = s.prog2.ID
		}
		tally, err := s.store.CastVote(s.ctx, target, identity.Key(fmt.Sprintf("key-%d", i)), "")
		s.Require().NoError(err)
		s.Equal(int64(i+1), sumVotes(tally))
		s.Equal(i+1, s.store.RecordCount())
	}
}

func (s *MemoryLedgerSuite) TestRevokeVote() {
	s.Run("revoke removes the record and decrements the voted program", func() {
		_, err := s.store.CastVote(s.ctx, s.prog1.ID, "key-a", "token-1")
		s.Require().NoError(err)

		tally, err := s.store.RevokeVote(s.ctx, "key-a", "")
		s.Require().NoError(err)
		s.Equal(int64(0), sumVotes(tally))
		s.Equal(0, s.store.RecordCount())
	})

	s.Run("after revoke the identity can vote again", func() {
		tally, err := s.store.CastVote(s.ctx, s.prog2.ID, "key-a", "token-1")
		s.Require().NoError(err)
		s.Equal(int64(1), tally[1].Votes)
	})

	s.Run("revoke by token alone finds the record", func() {
		tally, err := s.store.RevokeVote(s.ctx, "key-somebody-else", "token-1")
		s.Require().NoError(err)
		s.Equal(int64(0), sumVotes(tally))
	})

	s.Run("revoke with no matching record fails", func() {
		_, err := s.store.RevokeVote(s.ctx, "key-unknown", "token-unknown")
		s.Require().ErrorIs(err, sentinel.ErrNoVote)
	})
}

func (s *MemoryLedgerSuite) TestStatus() {
	s.Run("unvoted identity reports hasVoted false", func() {
		status, err := s.store.Status(s.ctx, "key-a", "")
		s.Require().NoError(err)
		s.False(status.HasVoted)
	})

	s.Run("voted identity reports its program", func() {
		_, err := s.store.CastVote(s.ctx, s.prog2.ID, "key-a", "token-1")
		s.Require().NoError(err)

		status, err := s.store.Status(s.ctx, "key-a", "")
		s.Require().NoError(err)
		s.True(status.HasVoted)
		s.Equal(s.prog2.ID, status.ProgramID)
	})

	s.Run("token alone resolves the status", func() {
		status, err := s.store.Status(s.ctx, "key-other-device", "token-1")
		s.Require().NoError(err)
		s.True(status.HasVoted)
		s.Equal(s.prog2.ID, status.ProgramID)
	})
}

func (s *MemoryLedgerSuite) TestResetAll() {
	_, err := s.store.CastVote(s.ctx, s.prog1.ID, "key-a", "token-1")
	s.Require().NoError(err)
	_, err = s.store.CastVote(s.ctx, s.prog2.ID, "key-b", "")
	s.Require().NoError(err)

	tally, err := s.store.ResetAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), sumVotes(tally))
	s.Equal(0, s.store.RecordCount(), "reset must clear the vote log with the counts")

	// The prior record no longer blocks a re-vote.
	tally, err = s.store.CastVote(s.ctx, s.prog1.ID, "key-a", "token-1")
	s.Require().NoError(err)
	s.Equal(int64(1), tally[0].Votes)
}

func (s *MemoryLedgerSuite) TestDeleteProgramCascades() {
	_, err := s.store.CastVote(s.ctx, s.prog1.ID, "key-a", "token-1")
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteProgram(s.ctx, s.prog1.ID))

	tally, err := s.store.ListPrograms(s.ctx)
	s.Require().NoError(err)
	s.Len(tally, 1)
	s.Equal(0, s.store.RecordCount(), "cascade must drop the program's records")

	// The identity whose record was cascaded away may vote again.
	_, err = s.store.CastVote(s.ctx, s.prog2.ID, "key-a", "token-1")
	s.Require().NoError(err)
}

func (s *MemoryLedgerSuite) TestAdminVoteOverride() {
	votes := int64(100)
	p, err := s.store.UpdateProgram(s.ctx, s.prog1.ID, "改名", "瑜伽", &votes)
	s.Require().NoError(err)
	s.Equal(int64(100), p.Votes)
	s.Equal("改名", p.Name)

	// Override does not touch the vote log; a later revoke still works and
	// never drives the count negative elsewhere.
	s.Equal(0, s.store.RecordCount())
}

// TestConcurrentSameIdentity is the core exactly-once property: many
// concurrent votes sharing one identity produce exactly one success, and the
// target gains exactly one vote.
func TestConcurrentSameIdentity(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	prog, err := store.CreateProgram(ctx, "空中瑜伽", "瑜伽")
	if err != nil {
		t.Fatal(err)
	}

	const goroutines = 50
	var wg sync.WaitGroup
	var successCount, duplicateCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CastVote(ctx, prog.ID, "contested-key", "contested-token")
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrDuplicate):
				duplicateCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("expected exactly 1 success, got %d", successCount.Load())
	}
	if duplicateCount.Load() != goroutines-1 {
		t.Errorf("expected %d duplicates, got %d", goroutines-1, duplicateCount.Load())
	}

	tally, err := store.ListPrograms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tally[0].Votes != 1 {
		t.Errorf("expected 1 vote on the program, got %d", tally[0].Votes)
	}
	if store.RecordCount() != 1 {
		t.Errorf("expected 1 vote record, got %d", store.RecordCount())
	}
}

// TestConcurrentDistinctIdentities verifies no increments are lost when the
// contention is on the counts rather than the identities.
func TestConcurrentDistinctIdentities(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	prog, err := store.CreateProgram(ctx, "禅修与呼吸", "冥想")
	if err != nil {
		t.Fatal(err)
	}

	const goroutines = 50
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := store.CastVote(ctx, prog.ID, identity.Key(fmt.Sprintf("key-%d", n)), ""); err != nil {
				t.Errorf("vote %d failed: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	tally, err := store.ListPrograms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tally[0].Votes != goroutines {
		t.Errorf("expected %d votes, got %d", goroutines, tally[0].Votes)
	}
	if store.RecordCount() != goroutines {
		t.Errorf("expected %d records, got %d", goroutines, store.RecordCount())
	}
}
