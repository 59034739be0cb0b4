package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSlot is a Redis-backed one-shot slot.
type RedisSlot struct {
	client   *redis.Client
	prefix   string
	newToken TokenGenerator
}

// NewRedisSlot creates a Redis-backed slot using newToken to mint tokens.
func NewRedisSlot(client *redis.Client, newToken TokenGenerator) *RedisSlot {
	return &RedisSlot{
		client:   client,
		prefix:   "handoff:",
		newToken: newToken,
	}
}

func (s *RedisSlot) Stash(ctx context.Context, bundle *Bundle) (string, error) {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return "", fmt.Errorf("encode bundle: %w", err)
	}

	token := s.newToken()

	if err := s.client.Set(ctx, s.prefix+token, payload, 0).Err(); err != nil {
		return "", fmt.Errorf("stash bundle: %w", err)
	}

	return token, nil
}

func (s *RedisSlot) Take(ctx context.Context, token string) (*Bundle, error) {
	// GETDEL makes read-and-clear a single atomic step.
	payload, err := s.client.GetDel(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("take bundle: %w", err)
	}

	var bundle Bundle
	if err := json.Unmarshal([]byte(payload), &bundle); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}

	return &bundle, nil
}

// Compile-time check.
var _ Slot = (*RedisSlot)(nil)
