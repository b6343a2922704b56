package media

import "sync"

// SeenIDSet accumulates every candidate id accepted during one run so the
// same source asset is never used for two scenes. Its lifetime is exactly
// one run; concurrent resolvers share one instance.
type SeenIDSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewSeenIDSet creates an empty set
func NewSeenIDSet() *SeenIDSet {
	return &SeenIDSet{ids: make(map[string]struct{})}
}

// Claim atomically records id and reports whether this caller won it.
// The check and the insert are a single operation under the lock.
func (s *SeenIDSet) Claim(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Release forgets a claimed id, used when a claimed candidate's download
// fails and the asset was never actually accepted
func (s *SeenIDSet) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

// Contains reports whether id has been accepted already
func (s *SeenIDSet) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of accepted ids
func (s *SeenIDSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
