package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"civicsync/models"
)

// ErrNoSession means the session id holds no identity.
var ErrNoSession = errors.New("no active session")

// Store maps a session id to the single identity it holds.
type Store interface {
	Save(ctx context.Context, sessionID string, identity models.Identity, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (models.Identity, error)
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	identity models.Identity
	expires  time.Time
}

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// on read and by Sweep.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: now}
}

func (m *MemoryStore) Save(ctx context.Context, sessionID string, identity models.Identity, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = memoryEntry{identity: identity, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[sessionID]
	if !ok {
		return models.Identity{}, ErrNoSession
	}
	if !m.now().Before(entry.expires) {
		delete(m.sessions, sessionID)
		return models.Identity{}, ErrNoSession
	}
	return entry.identity, nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Sweep removes every expired session.
func (m *MemoryStore) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, entry := range m.sessions {
		if !now.Before(entry.expires) {
			delete(m.sessions, id)
		}
	}
}

// Len is the number of sessions held, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// RedisStore keeps sessions in Redis as JSON with a TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + ":" + sessionID
}

func (r *RedisStore) Save(ctx context.Context, sessionID string, identity models.Identity, ttl time.Duration) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sessionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis error saving session: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) (models.Identity, error) {
	payload, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Identity{}, ErrNoSession
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("redis error loading session: %w", err)
	}

	var identity models.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return models.Identity{}, fmt.Errorf("decode session: %w", err)
	}
	return identity, nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis error deleting session: %w", err)
	}
	return nil
}
