package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
	"github.com/ariefcatur/go-storage-samples/internal/redisx"
)

// SetEntry stores a JSON value under an arbitrary key. ttl <= 0 keeps it forever.
func (s *Service) SetEntry(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	if key == "" {
		return apperr.NewBadRequest("key is required")
	}
	if !json.Valid(value) {
		return apperr.NewBadRequest("value must be valid JSON")
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, key, []byte(value), ttl).Err(); err != nil {
		return apperr.NewInternal("set entry", err)
	}
	return nil
}

// Entry returns the stored value. Values that are not JSON (e.g. written by
// another client) come back as a JSON string.
func (s *Service) Entry(ctx context.Context, key string) (json.RawMessage, bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperr.NewInternal("get entry", err)
	}
	if json.Valid(raw) {
		return json.RawMessage(raw), true, nil
	}
	quoted, err := json.Marshal(string(raw))
	if err != nil {
		return nil, false, apperr.NewInternal("encode entry", err)
	}
	return quoted, true, nil
}

func (s *Service) DeleteEntry(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, apperr.NewInternal("delete entry", err)
	}
	return n > 0, nil
}

func (s *Service) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := redisx.Exists(ctx, s.rdb, key)
	if err != nil {
		return false, apperr.NewInternal("exists", err)
	}
	return ok, nil
}

// TTL reports the remaining lifetime; -1 means no expiry, -2 a missing key.
func (s *Service) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, apperr.NewInternal("ttl", err)
	}
	return d, nil
}
