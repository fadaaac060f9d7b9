package session

import (
	"sync"
	"time"
)

// Jar is the persisted storage medium for the session entries.
type Jar interface {
	// Get returns the value of name. A missing, expired or undecodable
	// entry reports ok == false.
	Get(name string) (value string, ok bool)
	// Has reports whether an unexpired entry named name is stored,
	// readable or not.
	Has(name string) bool
	Set(name, value string, maxAge time.Duration) error
	Remove(name string) error
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryJar keeps entries in process memory with the same expiry rules as
// the cookie jar.
type MemoryJar struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryJar() *MemoryJar {
	return &MemoryJar{entries: make(map[string]memoryEntry), now: time.Now}
}

// WithClock replaces the clock used for expiry. Returns j for chaining.
func (j *MemoryJar) WithClock(now func() time.Time) *MemoryJar {
	j.now = now
	return j
}

func (j *MemoryJar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	e, ok := j.entries[name]
	if !ok {
		return "", false
	}
	if !j.now().Before(e.expires) {
		delete(j.entries, name)
		return "", false
	}
	return e.value, true
}

func (j *MemoryJar) Has(name string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	e, ok := j.entries[name]
	return ok && j.now().Before(e.expires)
}

func (j *MemoryJar) Set(name, value string, maxAge time.Duration) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries[name] = memoryEntry{value: value, expires: j.now().Add(maxAge)}
	return nil
}

func (j *MemoryJar) Remove(name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	delete(j.entries, name)
	return nil
}

// Len is the number of stored entries, expired ones included.
func (j *MemoryJar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

