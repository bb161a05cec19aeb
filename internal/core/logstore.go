package core

import "sync"

// DefaultLogCapacity is the number of entries the security log retains.
const DefaultLogCapacity = 50

// LogStore is a bounded, newest-first store of SecurityLog entries. Appending
// past capacity silently evicts the oldest entry.
type LogStore struct {
	mu       sync.RWMutex
	entries  []*SecurityLog
	capacity int
}

// NewLogStore creates a store that holds up to capacity entries. A
// non-positive capacity falls back to DefaultLogCapacity.
func NewLogStore(capacity int) *LogStore {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogStore{
		entries:  make([]*SecurityLog, 0, capacity),
		capacity: capacity,
	}
}

// Append front-inserts an entry, truncating to capacity.
func (s *LogStore) Append(entry *SecurityLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]*SecurityLog{entry}, s.entries...)
	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
}

// Snapshot returns a copy of the current entries, newest first.
func (s *LogStore) Snapshot() []*SecurityLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*SecurityLog, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear discards all entries.
func (s *LogStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}

// Len returns the number of stored entries.
func (s *LogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
