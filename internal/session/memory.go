package session

import (
	"context"
	"sync"
	"time"

	"github.com/ziadkadry99/agentic/internal/llm"
)

type memoryEntry struct {
	history   []llm.Message
	expiresAt time.Time
}

// MemoryStore is an in-process session store. It serves single-instance
// deployments without Redis and the tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore. ttl of 0 uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) ([]llm.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return nil, nil
	}

	history := make([]llm.Message, len(entry.history))
	copy(history, entry.history)
	return history, nil
}

func (s *MemoryStore) Set(_ context.Context, id string, history []llm.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]llm.Message, len(history))
	copy(stored, history)
	s.entries[id] = memoryEntry{
		history:   stored,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Clear(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.entries))
	s.entries = make(map[string]memoryEntry)
	return n, nil
}

func (s *MemoryStore) Close() error { return nil }
