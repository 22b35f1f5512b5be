package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRegistry records the admin sessions that are still active. A token
// whose session id is absent from the registry is rejected even when its
// signature and expiry are valid, which is how logout revokes a token.
type SessionRegistry interface {
	Add(ctx context.Context, sessionID string, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Remove(ctx context.Context, sessionID string) error
}

// MemorySessions is an in-process SessionRegistry.
type MemorySessions struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[string]time.Time // session id -> expiry
}

// NewMemorySessions creates an empty in-memory registry.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{now: time.Now, sessions: make(map[string]time.Time)}
}

func (m *MemorySessions) Add(_ context.Context, sessionID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = m.now().Add(ttl)
	return nil
}

// Exists reports whether the session is active. Expired sessions are removed on lookup.
func (m *MemorySessions) Exists(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.sessions[sessionID]
	if !ok {
		return false, nil
	}
	if !m.now().Before(expiry) {
		delete(m.sessions, sessionID)
		return false, nil
	}
	return true, nil
}

func (m *MemorySessions) Remove(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Purge drops every expired session and returns how many were removed.
func (m *MemorySessions) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, expiry := range m.sessions {
		if !now.Before(expiry) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

const sessionKeyPrefix = "resume-builder:admin_session:"

// RedisSessions stores sessions as Redis keys that expire with the token.
type RedisSessions struct {
	rdb *redis.Client
}

// NewRedisSessions wraps an existing client.
func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

// ConnectRedis parses a redis:// URL, connects and pings the server.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}
	return rdb, nil
}

func (r *RedisSessions) Add(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, sessionKeyPrefix+sessionID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *RedisSessions) Exists(ctx context.Context, sessionID string) (bool, error) {
	err := r.rdb.Get(ctx, sessionKeyPrefix+sessionID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up session: %w", err)
	}
	return true, nil
}

func (r *RedisSessions) Remove(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
