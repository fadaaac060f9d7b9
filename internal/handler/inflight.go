package handler

import (
	"sync"

	"github.com/google/uuid"
)

const inFlightMessage = "A request is already in progress."

// Inflight rejects a second submission of a form while the first is still
// being processed. Forms are identified by the form_id they were rendered with.
type Inflight struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewInflight() *Inflight {
	return &Inflight{ids: make(map[string]struct{})}
}

// Acquire marks id as in flight. It reports false if id already is. Forms
// submitted without an id are never deduplicated.
func (g *Inflight) Acquire(id string) (release func(), ok bool) {
	if id == "" {
		return func() {}, true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.ids[id]; busy {
		return nil, false
	}
	g.ids[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.ids, id)
			g.mu.Unlock()
		})
	}, true
}

func newFormID() string {
	return uuid.NewString()
}
