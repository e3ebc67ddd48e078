// Package sessiontest provides an in-memory session store for tests.
package sessiontest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront/pkg/auth/session"
)

// MemoryStore keeps session payloads in a map and reports misses with
// redis.Nil like the real client.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

func (m *MemoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *MemoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *MemoryStore) SessionKey(id string) string {
	return "test:session:" + id
}

// Len reports how many sessions are stored.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// NewManager returns a manager backed by a fresh MemoryStore.
func NewManager(t *testing.T) (*session.Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	mgr, err := session.NewManagerWithStore(store, time.Hour)
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}
	return mgr, store
}
