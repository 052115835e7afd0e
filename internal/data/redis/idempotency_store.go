// Package redis keeps request idempotency reservations in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

const (
	keyPrefix        = "idempotency:v1:"
	inProgressMarker = "__in_progress__"
)

// ErrRequestInProgress is returned while another request holds the same key
var ErrRequestInProgress = shared.ErrRequestInProgress

// IdempotencyStore maps (scope, key) pairs to the identifier of the resource
// the first request created.
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewIdempotencyStore(logger *slog.Logger, client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(scope, key string) string {
	return keyPrefix + scope + ":" + key
}

// Reserve claims the key for a new request. When the key was already completed
// the stored identifier is returned with reserved set to false.
func (s *IdempotencyStore) Reserve(ctx context.Context, scope, key string) (string, bool, error) {
	ck := cacheKey(scope, key)

	ok, err := s.client.SetNX(ctx, ck, inProgressMarker, s.ttl).Result()
	if err != nil {
		s.logger.Error("Idempotency reservation failed", "scope", scope, "error", err)
		return "", false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	existing, err := s.client.Get(ctx, ck).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			// expired between SETNX and GET
			return s.Reserve(ctx, scope, key)
		}
		s.logger.Error("Idempotency lookup failed", "scope", scope, "error", err)
		return "", false, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	if existing == inProgressMarker {
		return "", false, ErrRequestInProgress
	}

	return existing, false, nil
}

// Complete records the identifier produced by the request that reserved the key
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key, id string) error {
	if err := s.client.Set(ctx, cacheKey(scope, key), id, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to persist idempotent result", "scope", scope, "error", err)
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release drops a reservation so the request can be retried
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) {
	if err := s.client.Del(ctx, cacheKey(scope, key)).Err(); err != nil {
		s.logger.Warn("Failed to release idempotency key", "scope", scope, "error", err)
	}
}
