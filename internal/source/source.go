// Package source assigns stable identifiers to source files and models
// spans into them. Identifiers are scoped to the registry they were
// created in, so the same logical file under two roots carries two
// distinct identifiers.
package source

import (
	"sync"
)

// ID is an opaque identifier for a registered source file
type ID uint32

// InvalidID is never returned by ResolveOrCreate
const InvalidID ID = 0

// Span references a byte range within a registered source file
type Span struct {
	Source ID
	Start  int
	End    int
}

// NewSpan builds a span over [start, end) in the given source
func NewSpan(src ID, start, end int) Span {
	return Span{Source: src, Start: start, End: end}
}

// Registry maps file paths to source IDs. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byPath map[string]ID
	byID   map[ID]string
	next   ID
}

// NewRegistry creates an empty source registry
func NewRegistry() *Registry {
	return &Registry{
		byPath: make(map[string]ID),
		byID:   make(map[ID]string),
		next:   1,
	}
}

// ResolveOrCreate returns the ID for a path, allocating one on first use.
func (r *Registry) ResolveOrCreate(path string) ID {
	r.mu.RLock()
	id, ok := r.byPath[path]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byPath[path]; ok {
		return id
	}
	id = r.next
	r.next++
	r.byPath[path] = id
	r.byID[id] = path
	return id
}

// PathOf returns the path a source ID was registered under.
func (r *Registry) PathOf(id ID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	path, ok := r.byID[id]
	return path, ok
}

// Len returns the number of registered sources
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPath)
}
