// Package admin authenticates the event operator. A single credential pair
// from configuration is enough; there is no admin user store.
package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
)

// Service verifies admin credentials and issues session tokens.
type Service struct {
	username     string
	passwordHash []byte
	tokens       *TokenService
	logger       *slog.Logger
}

func NewService(username, passwordHash string, tokens *TokenService, logger *slog.Logger) *Service {
	return &Service{
		username:     username,
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
		logger:       logger,
	}
}

// Login verifies the credential pair and returns a signed session token.
// Username and password failures are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		s.logger.WarnContext(ctx, "admin login rejected", "username", username)
		return "", domainerrors.New(domainerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "issue admin token")
	}

	s.logger.InfoContext(ctx, "admin login accepted", "username", username)
	return token, nil
}

// ValidateToken delegates to the token service so the admin service can be
// plugged into the router's auth middleware directly.
func (s *Service) ValidateToken(tokenString string) error {
	return s.tokens.ValidateToken(tokenString)
}
