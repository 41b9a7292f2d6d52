package session

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"sync"
	"time"

	"studyhub/backend/models"

	"github.com/pkg/errors"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Values are stored JSON encoded so callers
// never share mutable state with the store.
type MemoryStore struct {
	mu      sync.Mutex
	locks   [64]sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]entry), now: time.Now}
}

func (m *MemoryStore) put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding session value")
	}
	m.mu.Lock()
	m.entries[key] = entry{data: data, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) get(key string, v interface{}) error {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return errors.Wrap(json.Unmarshal(e.data, v), "decoding session value")
}

func (m *MemoryStore) SaveSession(_ context.Context, s *models.TestSession) error {
	return m.put(sessionKey(s.ID), s)
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (*models.TestSession, error) {
	var s models.TestSession
	if err := m.get(sessionKey(id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, sessionKey(id))
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) SaveResult(_ context.Context, r *models.TestResult) error {
	return m.put(resultKey(r.SessionID), r)
}

func (m *MemoryStore) GetResult(_ context.Context, id string) (*models.TestResult, error) {
	var r models.TestResult
	if err := m.get(resultKey(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Lock takes one of a fixed set of mutexes picked by hashing id.
func (m *MemoryStore) Lock(_ context.Context, id string) (func(), error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	l := &m.locks[h.Sum32()%uint32(len(m.locks))]
	l.Lock()
	return l.Unlock, nil
}

// Purge drops expired entries and returns how many were removed.
func (m *MemoryStore) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

func sessionKey(id string) string { return "study_hub:test_session:" + id }
func resultKey(id string) string  { return "study_hub:test_result:" + id }
func lockKey(id string) string    { return "study_hub:test_session_lock:" + id }
