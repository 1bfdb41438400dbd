package archive

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps archives in process memory. Used for tests and for
// deployments without an S3 or Postgres backend; downloads are served by
// the gateway.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.RWMutex
	data map[string]memoryEntry
}

type memoryEntry struct {
	content  []byte
	storedAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Put(_ context.Context, runID, name string, content []byte) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	key, err := objectKey(runID, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = memoryEntry{
		content:  append([]byte(nil), content...),
		storedAt: s.now(),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, runID, name string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	key, err := objectKey(runID, name)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.data[key]
	if !ok || s.now().Sub(entry.storedAt) >= s.ttl {
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.content...), nil
}

func (s *MemoryStore) GetURL(context.Context, string, string) (string, error) {
	return "", nil
}

func (s *MemoryStore) PurgeExpired(context.Context) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for key, entry := range s.data {
		if s.now().Sub(entry.storedAt) >= s.ttl {
			delete(s.data, key)
			purged++
		}
	}
	return purged, nil
}
