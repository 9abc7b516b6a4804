package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
	"github.com/YoungStar1994/VibeVote-Live/internal/platform/logger"
	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
	"github.com/YoungStar1994/VibeVote-Live/pkg/testutil"
)

// fakeService returns canned results per operation.
type fakeService struct {
	castFn   func(ctx context.Context, programID int64, userToken, fingerprint string) ([]domain.Program, error)
	revokeFn func(ctx context.Context, userToken, fingerprint string) ([]domain.Program, error)
	statusFn func(ctx context.Context, userToken, fingerprint string) (domain.VoteStatus, error)
	resetFn  func(ctx context.Context) ([]domain.Program, error)
}

func (f *fakeService) Cast(ctx context.Context, programID int64, userToken, fingerprint string) ([]domain.Program, error) {
	return f.castFn(ctx, programID, userToken, fingerprint)
}

func (f *fakeService) Revoke(ctx context.Context, userToken, fingerprint string) ([]domain.Program, error) {
	return f.revokeFn(ctx, userToken, fingerprint)
}

func (f *fakeService) Status(ctx context.Context, userToken, fingerprint string) (domain.VoteStatus, error) {
	return f.statusFn(ctx, userToken, fingerprint)
}

func (f *fakeService) ResetAll(ctx context.Context) ([]domain.Program, error) {
	return f.resetFn(ctx)
}

func newRouter(svc Service) http.Handler {
	h := New(svc, logger.New())
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.Register(r)
		h.RegisterAdmin(r)
	})
	return r
}

func TestHandleCast(t *testing.T) {
	tally := []domain.Program{{ID: 1, Name: "开场瑜伽舞", Votes: 1}}

	t.Run("accepted vote returns full tally", func(t *testing.T) {
		svc := &fakeService{
			castFn: func(_ context.Context, programID int64, userToken, fingerprint string) ([]domain.Program, error) {
				assert.Equal(t, int64(1), programID)
				assert.Equal(t, "user-1", userToken)
				assert.Equal(t, "fp-1", fingerprint)
				return tally, nil
			},
		}

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/vote", CastRequest{
			ProgramID: 1, UserID: "user-1", Fingerprint: "fp-1",
		})
		rr := testutil.DoRequest(newRouter(svc), req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[TallyResponse](t, rr)
		require.True(t, resp.Success)
		require.Len(t, resp.Programs, 1)
		assert.Equal(t, int64(1), resp.Programs[0].Votes)
	})

	t.Run("duplicate vote returns 403", func(t *testing.T) {
		svc := &fakeService{
			castFn: func(context.Context, int64, string, string) ([]domain.Program, error) {
				return nil, domainerrors.New(domainerrors.CodeDuplicateVote, "this device has already voted")
			},
		}

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/vote", CastRequest{ProgramID: 1, Fingerprint: "fp-1"})
		rr := testutil.DoRequest(newRouter(svc), req)

		testutil.AssertStatus(t, rr, http.StatusForbidden)
		testutil.AssertErrorCode(t, rr, "duplicate_vote")
	})

	t.Run("unknown program returns 404", func(t *testing.T) {
		svc := &fakeService{
			castFn: func(context.Context, int64, string, string) ([]domain.Program, error) {
				return nil, domainerrors.New(domainerrors.CodeNotFound, "program not found")
			},
		}

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/vote", CastRequest{ProgramID: 99, Fingerprint: "fp-1"})
		rr := testutil.DoRequest(newRouter(svc), req)

		testutil.AssertStatus(t, rr, http.StatusNotFound)
		testutil.AssertErrorCode(t, rr, "not_found")
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		svc := &fakeService{}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/vote", nil)
		rr := testutil.DoRequest(newRouter(svc), req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		testutil.AssertErrorCode(t, rr, "invalid_request")
	})
}

func TestHandleRevoke(t *testing.T) {
	t.Run("revoked vote returns tally", func(t *testing.T) {
		svc := &fakeService{
			revokeFn: func(context.Context, string, string) ([]domain.Program, error) {
				return []domain.Program{{ID: 1, Votes: 0}}, nil
			},
		}

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/vote/revoke", RevokeRequest{Fingerprint: "fp-1"})
		rr := testutil.DoRequest(newRouter(svc), req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[TallyResponse](t, rr)
		assert.True(t, resp.Success)
	})

	t.Run("no vote on record returns 404", func(t *testing.T) {
		svc := &fakeService{
			revokeFn: func(context.Context, string, string) ([]domain.Program, error) {
				return nil, domainerrors.New(domainerrors.CodeNoVoteFound, "no vote on record for this device")
			},
		}

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/vote/revoke", RevokeRequest{Fingerprint: "fp-1"})
		rr := testutil.DoRequest(newRouter(svc), req)

		testutil.AssertStatus(t, rr, http.StatusNotFound)
		testutil.AssertErrorCode(t, rr, "no_vote_found")
	})
}

func TestHandleStatus(t *testing.T) {
	svc := &fakeService{
		statusFn: func(_ context.Context, userToken, fingerprint string) (domain.VoteStatus, error) {
			assert.Equal(t, "user-1", userToken)
			assert.Equal(t, "fp-1", fingerprint)
			return domain.VoteStatus{HasVoted: true, ProgramID: 2}, nil
		},
	}

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/vote/status?userId=user-1&fingerprint=fp-1", nil)
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[StatusResponse](t, rr)
	assert.True(t, resp.HasVoted)
	assert.Equal(t, int64(2), resp.ProgramID)
}

func TestHandleReset(t *testing.T) {
	called := false
	svc := &fakeService{
		resetFn: func(context.Context) ([]domain.Program, error) {
			called = true
			return []domain.Program{}, nil
		},
	}

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/reset", nil)
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.True(t, called)
	resp := testutil.UnmarshalResponse[ResetResponse](t, rr)
	assert.True(t, resp.Success)
}
