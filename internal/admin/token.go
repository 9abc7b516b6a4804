package admin

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainerrors "github.com/YoungStar1994/VibeVote-Live/pkg/domain-errors"
)

// Claims are the JWT claims carried by admin session tokens.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService signs and validates admin session tokens.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
}

func NewTokenService(signingKey string, ttl time.Duration) *TokenService {
	return &TokenService{signingKey: []byte(signingKey), ttl: ttl}
}

// Issue creates a signed token for the given admin username.
func (s *TokenService) Issue(username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "vibevote",
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken checks signature, expiry and claim shape. It satisfies the
// middleware's TokenValidator.
func (s *TokenService) ValidateToken(tokenString string) error {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domainerrors.New(domainerrors.CodeUnauthorized, "token has expired")
		}
		return domainerrors.New(domainerrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return domainerrors.New(domainerrors.CodeUnauthorized, "invalid token")
	}
	if _, ok := parsed.Claims.(*Claims); !ok {
		return domainerrors.New(domainerrors.CodeUnauthorized, "invalid token claims")
	}
	return nil
}
