package collection

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"qbank/internal/model"
)

type item struct {
	ID    string
	Title string
	Scope string
}

func (i item) ResourceID() string      { return i.ID }
func (i item) ResourceTitle() string   { return i.Title }
func (i item) ResourceScopeID() string { return i.Scope }

var errRemoteDown = errors.New("remote down")

// fakeRemote is an in-memory remote with call counters and failure switches.
type fakeRemote struct {
	mu      sync.Mutex
	nextID  int
	records []item
	calls   map[Op]int

	failList, failCreate, failRename, failDelete bool
	// foreignScope makes create and rename answer with a record from another scope.
	foreignScope bool
}

func newFakeRemote(seed ...item) *fakeRemote {
	f := &fakeRemote{calls: map[Op]int{}, nextID: len(seed) + 1}
	f.records = append(f.records, seed...)
	return f
}

func (f *fakeRemote) List(_ context.Context, scopeID string) ([]item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[OpLoad]++
	if f.failList {
		return nil, errRemoteDown
	}
	out := []item{}
	for _, r := range f.records {
		if r.Scope == scopeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRemote) Create(_ context.Context, d model.Draft) (item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[OpCreate]++
	if f.failCreate {
		return item{}, errRemoteDown
	}
	r := item{ID: strconv.Itoa(f.nextID), Title: d.Title, Scope: d.ScopeID}
	if f.foreignScope {
		r.Scope = "elsewhere"
	}
	f.nextID++
	f.records = append(f.records, r)
	return r, nil
}

func (f *fakeRemote) Rename(_ context.Context, id, title string) (item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[OpRename]++
	if f.failRename {
		return item{}, errRemoteDown
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records[i].Title = title
			out := f.records[i]
			if f.foreignScope {
				out.Scope = "elsewhere"
			}
			return out, nil
		}
	}
	return item{}, ErrNotFound
}

func (f *fakeRemote) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[OpDelete]++
	if f.failDelete {
		return errRemoteDown
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRemote) count(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

type recordingNavigator struct {
	paths  []string
	states []map[string]string
}

func (n *recordingNavigator) NavigateTo(path string, state map[string]string) {
	n.paths = append(n.paths, path)
	n.states = append(n.states, state)
}
