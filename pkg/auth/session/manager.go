package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront/pkg/config"
	redisclient "github.com/angelmondragon/storefront/pkg/redis"
)

var ErrSessionNotFound = errors.New("session not found")

// Store is the key/value backend sessions are persisted to. The Redis client
// satisfies it.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
}

// Manager loads and persists sessions in Redis.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return NewManagerWithStore(client, cfg.TTL())
}

// NewManagerWithStore constructs a session manager over an arbitrary store.
func NewManagerWithStore(store Store, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// New returns an empty session with a fresh identifier. Nothing is written
// until Save.
func (m *Manager) New() *Session {
	return New(NewID())
}

// Load fetches the session stored under id.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrSessionNotFound
	}
	payload, err := m.store.Get(ctx, m.store.SessionKey(id))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	data := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &Session{id: id, data: data}, nil
}

// Save writes the session and refreshes its TTL.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("session is required")
	}
	payload, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, m.store.SessionKey(s.id), string(payload), m.ttl); err != nil {
		return err
	}
	s.modified = false
	return nil
}

// Cycle moves the session data to a new identifier and drops the old key.
func (m *Manager) Cycle(ctx context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("session is required")
	}
	if err := m.store.Del(ctx, m.store.SessionKey(s.id)); err != nil {
		return err
	}
	s.id = NewID()
	s.issued = true
	s.modified = true
	return nil
}

// Login attaches userID to the session under a cycled identifier. Existing
// slots such as the cart are kept.
func (m *Manager) Login(ctx context.Context, s *Session, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("user id is required")
	}
	if err := m.Cycle(ctx, s); err != nil {
		return err
	}
	return s.setUserID(userID)
}

// Flush deletes the stored session and resets s to an empty session with a
// new identifier.
func (m *Manager) Flush(ctx context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("session is required")
	}
	if err := m.store.Del(ctx, m.store.SessionKey(s.id)); err != nil {
		return err
	}
	s.id = NewID()
	s.data = map[string]json.RawMessage{}
	s.issued = true
	s.modified = false
	return nil
}

// NewID produces the identifier used as the token jti and Redis key.
func NewID() string {
	return uuid.NewString()
}
