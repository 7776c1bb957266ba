package store

import (
	"sort"
	"sync"
	"time"
)

// Check is a completed note-generation outcome retained for follow-up reads.
// Result holds the full response document as the API returned it.
type Check struct {
	ID        string
	CreatedAt time.Time
	Result    any
}

// CheckStore is a volatile store of completed checks keyed by request id.
// It is safe for concurrent access. Stored results are treated as immutable
// snapshots; callers must not mutate a Result after saving it.
type CheckStore struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewCheckStore constructs an empty in-memory check store.
func NewCheckStore() *CheckStore {
	return &CheckStore{checks: make(map[string]Check)}
}

// Save records (or overwrites) the check outcome for the given request id.
func (s *CheckStore) Save(id string, result any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[id] = Check{ID: id, CreatedAt: time.Now().UTC(), Result: result}
}

// Get returns the stored check or ErrNotFound.
func (s *CheckStore) Get(id string) (Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.checks[id]
	if !ok {
		return Check{}, ErrNotFound
	}
	return c, nil
}

// List returns all stored checks ordered most recent first. The slice is a
// snapshot and safe for caller mutation.
func (s *CheckStore) List() []Check {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Check, 0, len(s.checks))
	for _, c := range s.checks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
