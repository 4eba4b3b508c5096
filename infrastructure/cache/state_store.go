package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateTTL bounds how long an issued OAuth state remains valid.
const StateTTL = 10 * time.Minute

// IStateStore stores anti-forgery states issued with consent URLs.
// Consume reports whether the state was known and unexpired, and
// removes it so it cannot be replayed.
type IStateStore interface {
	Put(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) bool
}

type memoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time // state -> expiry
}

// NewMemoryStateStore keeps states in process memory. Used when Redis
// is not configured; states do not survive a restart.
func NewMemoryStateStore() IStateStore {
	return &memoryStateStore{states: map[string]time.Time{}}
}

func (s *memoryStateStore) Put(_ context.Context, state string) error {
	s.mu.Lock()
	s.states[state] = time.Now().Add(StateTTL)
	s.mu.Unlock()
	return nil
}

func (s *memoryStateStore) Consume(_ context.Context, state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	if ok {
		delete(s.states, state)
	}
	if ok && time.Now().After(exp) {
		ok = false
	}
	return ok
}

type redisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore keeps states in Redis with a TTL so multiple
// relay instances can share them.
func NewRedisStateStore(client *redis.Client) IStateStore {
	return &redisStateStore{client: client}
}

func (s *redisStateStore) Put(ctx context.Context, state string) error {
	return s.client.Set(ctx, "oauth_state:"+state, "1", StateTTL).Err()
}

func (s *redisStateStore) Consume(ctx context.Context, state string) bool {
	res, err := s.client.GetDel(ctx, "oauth_state:"+state).Result()
	return err == nil && res != ""
}
