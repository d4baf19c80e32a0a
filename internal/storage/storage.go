package storage

import (
	"sync"
	"sync/atomic"

	"github.com/eugenenazirov/packer/internal/packer"
)

// DefaultCapacity is the number of lines kept when no capacity is configured.
const DefaultCapacity = 1024

// Entry is the cached outcome of selecting a pack for one raw line.
type Entry struct {
	Pack     packer.Pack
	Selected bool
}

// Stats summarises cache usage.
type Stats struct {
	Entries  int    `json:"entries"`
	Capacity int    `json:"capacity"`
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
}

// Storage caches selection results by raw line. Lines are processed purely, so an
// identical line always maps to an identical entry.
type Storage interface {
	Get(line string) (Entry, bool)
	Put(line string, entry Entry)
	Stats() Stats
}

// MemoryStorage keeps entries in-memory, evicting the oldest line once capacity is reached.
// A capacity of zero disables caching.
type MemoryStorage struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	order    []string
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewMemoryStorage creates a cache holding at most capacity lines.
func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity < 0 {
		capacity = 0
	}
	return &MemoryStorage{
		entries:  make(map[string]Entry),
		capacity: capacity,
	}
}

// Get returns the cached entry for line and records a hit or miss.
func (s *MemoryStorage) Get(line string) (Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[line]
	s.mu.RUnlock()

	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return entry, ok
}

// Put stores entry for line. Re-storing a known line does not change its eviction position.
func (s *MemoryStorage) Put(line string, entry Entry) {
	if s.capacity == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[line]; !exists {
		s.order = append(s.order, line)
	}
	s.entries[line] = entry

	for len(s.entries) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
	}
}

// Stats reports the current cache size and hit counters.
func (s *MemoryStorage) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Entries:  len(s.entries),
		Capacity: s.capacity,
		Hits:     s.hits.Load(),
		Misses:   s.misses.Load(),
	}
}
