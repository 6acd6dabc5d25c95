// Package idempotency remembers which order a checkout Idempotency-Key produced, so a retried
// commit returns the first order instead of placing a second one.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	pendingValue = "pending"
	donePrefix   = "done:"
)

var (
	ErrInProgress = errors.New("a checkout with this idempotency key is in progress")
	ErrEmptyKey   = errors.New("idempotency key is empty")
)

type Store struct {
	client     *redis.Client
	pendingTTL time.Duration
	doneTTL    time.Duration
}

func NewStore(client *redis.Client) *Store {
	return &Store{
		client:     client,
		pendingTTL: time.Minute,
		doneTTL:    24 * time.Hour,
	}
}

// Begin claims key for scope. It returns started=true when the caller owns the key and must
// finish with Complete or Abort. When a previous call completed, it returns that order id.
func (s *Store) Begin(ctx context.Context, scope, key string) (orderID uuid.UUID, started bool, err error) {
	if strings.TrimSpace(key) == "" {
		return uuid.Nil, false, ErrEmptyKey
	}
	k := redisKey(scope, key)

	ok, err := s.client.SetNX(ctx, k, pendingValue, s.pendingTTL).Result()
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("redis setnx failed: %w", err)
	}
	if ok {
		return uuid.Nil, true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between the two calls
		return s.Begin(ctx, scope, key)
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	if !strings.HasPrefix(val, donePrefix) {
		return uuid.Nil, false, ErrInProgress
	}

	orderID, err = uuid.Parse(strings.TrimPrefix(val, donePrefix))
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("uuid.Parse: %w", err)
	}

	return orderID, false, nil
}

func (s *Store) Complete(ctx context.Context, scope, key string, orderID uuid.UUID) error {
	if err := s.client.Set(ctx, redisKey(scope, key), donePrefix+orderID.String(), s.doneTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Abort releases the key so the client may retry a failed checkout.
func (s *Store) Abort(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, redisKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func redisKey(scope, key string) string {
	return fmt.Sprintf("checkout:idempotency:%s:%s", scope, key)
}
