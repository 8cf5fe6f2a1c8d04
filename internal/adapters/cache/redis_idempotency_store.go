package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/domain"
	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/ports"
)

const idempotencyKeyPrefix = "escrow:idem:"

// RedisIdempotencyStore keeps request fingerprints and captured responses so
// that a retried mutation replays the original outcome instead of running
// twice.
type RedisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore creates the idempotency cache adapter.
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	raw, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out ports.IdempotencyRecord
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key, requestHash string, ttl time.Duration) error {
	record := ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Status:      "in_flight",
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, raw, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return nil
}

func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, responseCode int, responseBody []byte) error {
	raw, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Reservation expired mid-request; the mutation already committed,
			// so losing the replay record is acceptable.
			return nil
		}
		return err
	}
	var record ports.IdempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return err
	}
	record.Status = "completed"
	record.ResponseCode = responseCode
	record.ResponseBody = responseBody
	updated, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, idempotencyKeyPrefix+key, updated, redis.KeepTTL).Err()
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}
