package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// DatabaseURL selects the Postgres-backed ledger when set; the server
	// falls back to the in-memory ledger otherwise.
	DatabaseURL string

	// RedisURL selects the Redis-backed settings store when set.
	RedisURL string

	AdminUsername     string
	AdminPasswordHash string
	JWTSigningKey     string
	AdminTokenTTL     time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. A .env file in the working directory is honored for development.
func FromEnv() Server {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	addr := os.Getenv("VIBEVOTE_ADDR")
	if addr == "" {
		addr = ":3001"
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	// bcrypt of "admin123", the development default. Override in production.
	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if passwordHash == "" {
		passwordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	}

	signingKey := os.Getenv("JWT_SIGNING_KEY")
	if signingKey == "" {
		signingKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:              addr,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		AdminUsername:     username,
		AdminPasswordHash: passwordHash,
		JWTSigningKey:     signingKey,
		AdminTokenTTL:     12 * time.Hour,
	}
}
