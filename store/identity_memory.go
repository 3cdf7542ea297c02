package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"civicsync/models"
)

// MemoryIdentityStore is the in-process identity directory. Registered
// accounts carry a bcrypt hash; seeded identities have no password and
// cannot log in through the directory.
type MemoryIdentityStore struct {
	mu      sync.RWMutex
	users   map[int64]*models.User
	byEmail map[string]int64
	nextID  int64
	now     Clock
}

func NewMemoryIdentityStore(now Clock, seed ...models.Identity) *MemoryIdentityStore {
	if now == nil {
		now = time.Now
	}
	s := &MemoryIdentityStore{
		users:   make(map[int64]*models.User),
		byEmail: make(map[string]int64),
		nextID:  1,
		now:     now,
	}
	for _, id := range seed {
		s.users[id.ID] = &models.User{Identity: id, CreatedAt: now()}
		s.byEmail[normalizeEmail(id.Email)] = id.ID
		if id.ID >= s.nextID {
			s.nextID = id.ID + 1
		}
	}
	return s
}

func (s *MemoryIdentityStore) GetIdentity(ctx context.Context, id int64) (models.Identity, error) {
	if err := ctx.Err(); err != nil {
		return models.Identity{}, unavailable("get identity", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.Identity{}, fmt.Errorf("identity %d: %w", id, models.ErrNotFound)
	}
	return u.Identity, nil
}

// Register creates an account. The email is matched case-insensitively.
func (s *MemoryIdentityStore) Register(ctx context.Context, name, email, password string) (models.Identity, error) {
	if err := ctx.Err(); err != nil {
		return models.Identity{}, err
	}
	key := normalizeEmail(email)

	user := &models.User{
		Identity: models.Identity{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)},
		Password: password,
	}
	if err := user.HashPassword(); err != nil {
		return models.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[key]; taken {
		return models.Identity{}, models.ErrEmailTaken
	}
	user.ID = s.nextID
	user.CreatedAt = s.now()
	s.nextID++
	s.users[user.ID] = user
	s.byEmail[key] = user.ID
	return user.Identity, nil
}

// Verify checks credentials against the stored hash.
func (s *MemoryIdentityStore) Verify(ctx context.Context, creds models.Credentials) (models.Identity, error) {
	if err := ctx.Err(); err != nil {
		return models.Identity{}, err
	}
	s.mu.RLock()
	id, ok := s.byEmail[normalizeEmail(creds.Email)]
	var user models.User
	if ok {
		user = *s.users[id]
	}
	s.mu.RUnlock()

	if !ok || user.Password == "" || !user.ComparePassword(creds.Password) {
		return models.Identity{}, models.ErrInvalidCredentials
	}
	return user.Identity, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
