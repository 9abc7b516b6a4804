package settings

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/YoungStar1994/VibeVote-Live/internal/domain"
)

const eventTitleKey = "vibevote:settings:event_title"

// RedisStore persists settings in Redis so they survive restarts and are
// shared when several instances sit behind one load balancer.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context) (domain.Settings, error) {
	title, err := s.client.Get(ctx, eventTitleKey).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Settings{EventTitle: domain.DefaultEventTitle}, nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	return domain.Settings{EventTitle: title}, nil
}

func (s *RedisStore) Set(ctx context.Context, settings domain.Settings) error {
	// No TTL; settings live until overwritten.
	return s.client.Set(ctx, eventTitleKey, settings.EventTitle, 0).Err()
}
