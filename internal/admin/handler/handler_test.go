package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoungStar1994/VibeVote-Live/internal/platform/logger"
	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
	"github.com/YoungStar1994/VibeVote-Live/pkg/testutil"
)

type fakeService struct {
	loginFn func(ctx context.Context, username, password string) (string, error)
}

func (f *fakeService) Login(ctx context.Context, username, password string) (string, error) {
	return f.loginFn(ctx, username, password)
}

func newRouter(svc Service) http.Handler {
	h := New(svc, logger.New())
	r := chi.NewRouter()
	r.Route("/api", h.Register)
	return r
}

func TestHandleLogin(t *testing.T) {
	t.Run("valid credentials return a token", func(t *testing.T) {
		svc := &fakeService{
			loginFn: func(_ context.Context, username, password string) (string, error) {
				assert.Equal(t, "admin", username)
				assert.Equal(t, "admin123", password)
				return "signed-token", nil
			},
		}

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/login", LoginRequest{
			Username: "admin", Password: "admin123",
		})
		rr := testutil.DoRequest(newRouter(svc), req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[LoginResponse](t, rr)
		require.True(t, resp.Success)
		assert.Equal(t, "signed-token", resp.Token)
	})

	t.Run("invalid credentials return 401", func(t *testing.T) {
		svc := &fakeService{
			loginFn: func(context.Context, string, string) (string, error) {
				return "", domainerrors.New(domainerrors.CodeUnauthorized, "invalid credentials")
			},
		}

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/login", LoginRequest{
			Username: "admin", Password: "wrong",
		})
		rr := testutil.DoRequest(newRouter(svc), req)

		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		testutil.AssertErrorCode(t, rr, "unauthorized")
	})
}
