package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"learnhub_backend/internal/model"
	"learnhub_backend/pkg/monitoring"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// CacheEntry is one memoized recommendation payload. Entries are
// superseded whenever the profile fingerprint changes; a learner holds
// at most one live entry at a time.
type CacheEntry struct {
	Fingerprint string                       `json:"fingerprint"`
	Payload     model.RecommendationResponse `json:"payload"`
	CreatedAt   time.Time                    `json:"createdAt"`
}

// CacheStore is the injected backing store for the recommendation
// cache. The memory store is the default; the Redis store suits
// deployments that already run Redis for other reasons. Concurrent
// writes to the same user resolve last-write-wins; a stale read within
// the TTL is acceptable by design of the caller.
type CacheStore interface {
	Get(ctx context.Context, userID uint) (*CacheEntry, bool)
	Set(ctx context.Context, userID uint, entry CacheEntry)
	Invalidate(ctx context.Context, userID uint)
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[uint]CacheEntry
}

func NewMemoryCacheStore() CacheStore {
	return &memoryStore{entries: make(map[uint]CacheEntry)}
}

func (m *memoryStore) Get(_ context.Context, userID uint) (*CacheEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[userID]
	if !ok {
		return nil, false
	}
	return &entry, true
}

// Set replaces whatever the user had before, which is exactly the
// "evict all other entries of this user" rule: one slot per user.
func (m *memoryStore) Set(_ context.Context, userID uint, entry CacheEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = entry
}

func (m *memoryStore) Invalidate(_ context.Context, userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
}

const recommendationCacheKeyPrefix = "rec_cache:"

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCacheStore(rdb *redis.Client, ttl time.Duration) CacheStore {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func (r *redisStore) key(userID uint) string {
	return recommendationCacheKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

func (r *redisStore) Get(ctx context.Context, userID uint) (*CacheEntry, bool) {
	val, err := r.rdb.Get(ctx, r.key(userID)).Result()
	if err != nil {
		return nil, false
	}
	var entry CacheEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

func (r *redisStore) Set(ctx context.Context, userID uint, entry CacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	r.rdb.Set(ctx, r.key(userID), data, r.ttl)
}

func (r *redisStore) Invalidate(ctx context.Context, userID uint) {
	r.rdb.Del(ctx, r.key(userID))
}

// RecommendationCache memoizes narrative-gateway responses per learner
// within one TTL window so repeated reads under an unchanged profile
// skip the provider entirely.
type RecommendationCache struct {
	store CacheStore
	ttl   time.Duration
}

func NewRecommendationCache(store CacheStore, ttl time.Duration) *RecommendationCache {
	return &RecommendationCache{store: store, ttl: ttl}
}

// Fingerprint hashes the ordered profile field list. Skills and goals
// are sorted first so insertion order never changes the key.
func Fingerprint(p model.LearnerProfile) string {
	skills := append([]string(nil), p.Skills...)
	sort.Strings(skills)
	goals := append([]string(nil), p.LearningGoals...)
	sort.Strings(goals)

	canonical := strings.Join([]string{
		string(p.Level),
		string(p.CareerStage),
		strings.Join(skills, ","),
		strings.Join(goals, ","),
		string(p.TimeAvailability),
		fmt.Sprintf("%t", p.HasPreferences),
	}, "|")

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached payload when the fingerprint matches and
// the entry is still inside the TTL.
func (c *RecommendationCache) Lookup(ctx context.Context, userID uint, fingerprint string) (*model.RecommendationResponse, bool) {
	entry, ok := c.store.Get(ctx, userID)
	if !ok {
		monitoring.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	if entry.Fingerprint != fingerprint || time.Since(entry.CreatedAt) >= c.ttl {
		monitoring.CacheHits.WithLabelValues("stale").Inc()
		return nil, false
	}
	monitoring.CacheHits.WithLabelValues("hit").Inc()
	payload := entry.Payload
	return &payload, true
}

// Store writes through under the current fingerprint, superseding any
// previous entry for the user.
func (c *RecommendationCache) Store(ctx context.Context, userID uint, fingerprint string, payload model.RecommendationResponse) {
	c.store.Set(ctx, userID, CacheEntry{
		Fingerprint: fingerprint,
		Payload:     payload,
		CreatedAt:   time.Now(),
	})
}

// Invalidate drops every cached entry the user holds.
func (c *RecommendationCache) Invalidate(ctx context.Context, userID uint) {
	monitoring.CacheHits.WithLabelValues("invalidate").Inc()
	c.store.Invalidate(ctx, userID)
}
