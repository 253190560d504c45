package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-notices/pkg/types"
)

// Registry maps notice ids to entries. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	seq     uint64
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register inserts the notice keyed by its id. Registering an id a second
// time replaces the previous entry but keeps its original insertion slot.
// Nil notices and empty ids are ignored.
func (r *Registry) Register(notice types.Notice, opts ...Option) bool {
	if r == nil || notice == nil {
		return false
	}
	id := strings.TrimSpace(notice.ID())
	if id == "" {
		return false
	}
	entry := Entry{
		ID:       id,
		Notice:   notice,
		Priority: types.DefaultPriority,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&entry)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]Entry)
	}
	if existing, ok := r.entries[id]; ok {
		entry.Seq = existing.Seq
	} else {
		r.seq++
		entry.Seq = r.seq
	}
	r.entries[id] = entry
	return true
}

// Unregister removes the entry for id and reports whether it existed.
func (r *Registry) Unregister(id string) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

// Get returns the entry registered under id.
func (r *Registry) Get(id string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	return entry, ok
}

// Notice returns the notice registered under id.
func (r *Registry) Notice(id string) (types.Notice, bool) {
	entry, ok := r.Get(id)
	if !ok {
		return nil, false
	}
	return entry.Notice, true
}

// Len returns the number of registered notices.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns a snapshot of the registered entries ordered by priority,
// then by insertion order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// IDs returns the registered ids in render order.
func (r *Registry) IDs() []string {
	entries := r.Entries()
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}
