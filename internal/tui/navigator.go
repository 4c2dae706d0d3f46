package tui

import (
	"sync"

	"qbank/internal/nav"
)

type navRequest struct {
	path  string
	state map[string]string
}

// navQueue is the Navigator handed to managers and toggles. Requests may
// arrive from command goroutines (after-create hooks), so they are queued
// and applied by Update.
type navQueue struct {
	mu      sync.Mutex
	pending []navRequest
}

var _ nav.Navigator = (*navQueue)(nil)

func (q *navQueue) NavigateTo(path string, state map[string]string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, navRequest{path: path, state: state})
}

func (q *navQueue) drain() []navRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}
