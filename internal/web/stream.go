package web

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/starfederation/datastar-go/datastar"
)

const keepAliveInterval = 25 * time.Second

// resourceKey names one live list: a kind plus its owning scope.
type resourceKey struct {
	kind  string
	scope string
}

func (k resourceKey) String() string {
	kind := strings.TrimSpace(k.kind)
	scope := strings.TrimSpace(k.scope)
	if scope == "" {
		return kind
	}
	return kind + ":" + scope
}

type resourceHub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newResourceHub() *resourceHub {
	return &resourceHub{subs: map[chan struct{}]struct{}{}}
}

func (h *resourceHub) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
}

func (h *resourceHub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

// resourceBroadcaster fans reconciled mutations out to every open stream of
// the affected list.
type resourceBroadcaster struct {
	mu   sync.Mutex
	hubs map[string]*resourceHub
}

func newResourceBroadcaster() *resourceBroadcaster {
	return &resourceBroadcaster{hubs: map[string]*resourceHub{}}
}

func (b *resourceBroadcaster) hubFor(key resourceKey) *resourceHub {
	k := key.String()
	b.mu.Lock()
	h := b.hubs[k]
	if h == nil {
		h = newResourceHub()
		b.hubs[k] = h
	}
	b.mu.Unlock()
	return h
}

func (b *resourceBroadcaster) notify(key resourceKey) {
	b.hubFor(key).broadcast()
}

// serveListStream patches #qbank-main with render's output on connect and
// after every mutation of key, until the client goes away.
func (s *Server) serveListStream(w http.ResponseWriter, r *http.Request, key resourceKey, render func() (string, error)) {
	ch, cancel := s.bc.hubFor(key).subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	patch := func() {
		html, err := render()
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		if strings.TrimSpace(html) == "" {
			return
		}
		_ = sse.PatchElements(html, datastar.WithSelector("#qbank-main"), datastar.WithMode(datastar.ElementPatchModeOuter))
	}
	patch()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			patch()
		}
	}
}
