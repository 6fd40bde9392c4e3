package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"

	"everjourney/internal/domain"
)

const sessionPrefix = "session:"

// DefaultLocalSessions bounds the in-memory store when no size is configured.
const DefaultLocalSessions = 10000

// Sessions stores logged-in users under random ids. Redis is used when a
// client is given; otherwise sessions live in process memory and are lost on restart.
// The in-memory store is an LRU of localMax entries: past that, the least
// recently used sessions are dropped and those visitors must log in again.
type Sessions struct {
	c     *redis.Client
	local *ccache.Cache[domain.SessionUser]
	ttl   time.Duration
}

func NewSessions(c *redis.Client, ttl time.Duration, localMax int) *Sessions {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &Sessions{c: c, ttl: ttl}
	if c == nil {
		if localMax <= 0 {
			localMax = DefaultLocalSessions
		}
		s.local = ccache.New(ccache.Configure[domain.SessionUser]().
			MaxSize(int64(localMax)).
			ItemsToPrune(uint32(localMax/100 + 1)))
	}
	return s
}

func (s *Sessions) Create(ctx context.Context, u domain.SessionUser) (string, error) {
	id := uuid.NewString()
	if s.c == nil {
		s.local.Set(id, u, s.ttl)
		return id, nil
	}
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	if err := s.c.Set(ctx, sessionPrefix+id, b, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return id, nil
}

// Get returns domain.ErrNotFound for unknown or expired ids.
func (s *Sessions) Get(ctx context.Context, id string) (domain.SessionUser, error) {
	if id == "" {
		return domain.SessionUser{}, domain.ErrNotFound
	}
	if s.c == nil {
		it := s.local.Get(id)
		if it == nil || it.Expired() {
			return domain.SessionUser{}, domain.ErrNotFound
		}
		return it.Value(), nil
	}
	b, err := s.c.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SessionUser{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SessionUser{}, fmt.Errorf("session get: %w", err)
	}
	var u domain.SessionUser
	if err := json.Unmarshal(b, &u); err != nil {
		return domain.SessionUser{}, fmt.Errorf("session decode: %w", err)
	}
	return u, nil
}

func (s *Sessions) Delete(ctx context.Context, id string) error {
	if s.c == nil {
		s.local.Delete(id)
		return nil
	}
	return s.c.Del(ctx, sessionPrefix+id).Err()
}
