package collection

import (
	"context"
	"sync"

	"qbank/internal/model"
)

// Store is the in-memory ordered copy of one scope's collection. It only ever
// holds records the remote service has returned. Safe for concurrent use.
type Store[R Resource] struct {
	mu      sync.RWMutex
	records []R
	closed  bool
}

func NewStore[R Resource]() *Store[R] {
	return &Store[R]{records: []R{}}
}

// Load replaces the whole collection with a fresh listing. On error the
// collection is emptied and the error returned.
func (s *Store[R]) Load(ctx context.Context, lister Lister[R], scopeID string) error {
	list, err := lister.List(ctx, scopeID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if err != nil {
		s.records = []R{}
		return err
	}
	s.records = append(make([]R, 0, len(list)), list...)
	return nil
}

// Insert appends an authoritative record.
func (s *Store[R]) Insert(r R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.records = append(s.records, r)
}

// Replace swaps the record with the given id in place.
func (s *Store[R]) Replace(id string, r R) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	s.records[i] = r
	return nil
}

// Remove deletes the record with the given id, keeping the order of the rest.
// It reports whether anything was removed.
func (s *Store[R]) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return true
}

// Records returns a copy of the current snapshot.
func (s *Store[R]) Records() []R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]R, 0, len(s.records)), s.records...)
}

func (s *Store[R]) Find(id string) (R, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.records[i], true
	}
	var zero R
	return zero, false
}

func (s *Store[R]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// HasTitle reports whether a record other than exceptID already uses title
// once both are normalized.
func (s *Store[R]) HasTitle(title, exceptID string) bool {
	want := model.NormalizeTitle(title)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ResourceID() == exceptID {
			continue
		}
		if model.NormalizeTitle(r.ResourceTitle()) == want {
			return true
		}
	}
	return false
}

// Close detaches the store from its view. Later reconciliation is ignored.
func (s *Store[R]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Store[R]) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store[R]) indexLocked(id string) int {
	for i, r := range s.records {
		if r.ResourceID() == id {
			return i
		}
	}
	return -1
}
