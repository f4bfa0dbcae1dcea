// Package cache holds the Redis-backed session features: profiles with a TTL,
// a bounded recent-items list, a cart set, view counters and generic entries.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
	"github.com/ariefcatur/go-storage-samples/internal/redisx"
)

// marshal is swapped in tests to exercise the swallowed-serialization path.
var marshal = json.Marshal

// pushRecent prepends an item and drops one tail element once the list grows
// past the limit. Running it as a script keeps push and trim atomic.
var pushRecent = redis.NewScript(`
redis.call('LPUSH', KEYS[1], ARGV[1])
if redis.call('LLEN', KEYS[1]) > tonumber(ARGV[2]) then
  redis.call('RPOP', KEYS[1])
end
return redis.call('LLEN', KEYS[1])
`)

type Service struct {
	rdb *redis.Client
	log *slog.Logger
	now func() time.Time
}

func NewService(rdb *redis.Client, log *slog.Logger) *Service {
	return &Service{rdb: rdb, log: log, now: time.Now}
}

// CreateProfile stores the profile under user:{id} for one hour, replacing any
// previous value. A profile that cannot be serialized is logged and the
// unsaved profile is still returned.
func (s *Service) CreateProfile(ctx context.Context, p Profile) (Profile, error) {
	now := s.now()
	if p.ID == "" {
		p.ID = "user_" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	p.CreatedAt = LocalTime{now}
	p.UpdatedAt = LocalTime{now}

	b, err := marshal(p)
	if err != nil {
		s.log.ErrorContext(ctx, "profile serialization failed", "id", p.ID, "err", err)
		return p, nil
	}
	key := fmt.Sprintf(redisx.KeyProfile, p.ID)
	if err := s.rdb.Set(ctx, key, b, redisx.TTLProfile).Err(); err != nil {
		return Profile{}, apperr.NewInternal("store profile", err)
	}
	s.log.InfoContext(ctx, "profile stored", "key", key, "ttl", redisx.TTLProfile.String())
	return p, nil
}

// GetProfile returns nil when the profile is absent or expired.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	raw, err := s.rdb.Get(ctx, fmt.Sprintf(redisx.KeyProfile, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.NewInternal("load profile", err)
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, apperr.NewInternal("decode profile", err)
	}
	return &p, nil
}

func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, fmt.Sprintf(redisx.KeyProfile, id)).Err(); err != nil {
		return apperr.NewInternal("delete profile", err)
	}
	return nil
}

func (s *Service) AddRecentItem(ctx context.Context, userID, itemID string) error {
	key := fmt.Sprintf(redisx.KeyRecent, userID)
	n, err := pushRecent.Run(ctx, s.rdb, []string{key}, itemID, redisx.RecentLimit).Int64()
	if err != nil {
		return apperr.NewInternal("push recent item", err)
	}
	s.log.DebugContext(ctx, "recent item added", "key", key, "size", n)
	return nil
}

// RecentItems returns up to ten item ids, newest first.
func (s *Service) RecentItems(ctx context.Context, userID string) ([]string, error) {
	items, err := s.rdb.LRange(ctx, fmt.Sprintf(redisx.KeyRecent, userID), 0, redisx.RecentLimit-1).Result()
	if err != nil {
		return nil, apperr.NewInternal("read recent items", err)
	}
	return items, nil
}

func (s *Service) AddToCart(ctx context.Context, userID string, itemIDs ...string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if err := s.rdb.SAdd(ctx, fmt.Sprintf(redisx.KeyCart, userID), toAny(itemIDs)...).Err(); err != nil {
		return apperr.NewInternal("add to cart", err)
	}
	return nil
}

// Cart returns the members sorted for stable output; the set itself is unordered.
func (s *Service) Cart(ctx context.Context, userID string) ([]string, error) {
	items, err := s.rdb.SMembers(ctx, fmt.Sprintf(redisx.KeyCart, userID)).Result()
	if err != nil {
		return nil, apperr.NewInternal("read cart", err)
	}
	sort.Strings(items)
	return items, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, userID string, itemIDs ...string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if err := s.rdb.SRem(ctx, fmt.Sprintf(redisx.KeyCart, userID), toAny(itemIDs)...).Err(); err != nil {
		return apperr.NewInternal("remove from cart", err)
	}
	return nil
}

func (s *Service) IncrementViewCount(ctx context.Context, itemID string) (int64, error) {
	n, err := s.rdb.Incr(ctx, fmt.Sprintf(redisx.KeyViews, itemID)).Result()
	if err != nil {
		return 0, apperr.NewInternal("increment views", err)
	}
	return n, nil
}

func (s *Service) ViewCount(ctx context.Context, itemID string) (int64, error) {
	n, err := s.rdb.Get(ctx, fmt.Sprintf(redisx.KeyViews, itemID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.NewInternal("read views", err)
	}
	return n, nil
}

// SearchKeys walks the entire keyspace with SCAN. Cost grows with the number
// of keys; it is an administrative endpoint.
func (s *Service) SearchKeys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	seen := map[string]struct{}{}
	iter := s.rdb.Scan(ctx, 0, pattern, 200).Iterator()
	for iter.Next(ctx) {
		seen[iter.Val()] = struct{}{}
	}
	if err := iter.Err(); err != nil {
		return nil, apperr.NewInternal("scan keys", err)
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
