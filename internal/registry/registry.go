// Package registry tracks the directory roots of a single shadow session.
package registry

import (
	"sync"

	"sws/internal/errors"
)

// Role identifies a directory root within a session
type Role int

const (
	// ManifestRoot is the real project directory containing the manifest
	ManifestRoot Role = iota
	// ShadowRoot is the generated mirror directory
	ShadowRoot
)

// String returns a string representation of the role
func (r Role) String() string {
	switch r {
	case ManifestRoot:
		return "manifest"
	case ShadowRoot:
		return "shadow"
	default:
		return "unknown"
	}
}

// Registry is a concurrency-safe mapping from directory roles to absolute
// paths. There is one Registry per session; it is the only shared mutable
// state in the subsystem and serializes access internally.
type Registry struct {
	mu    sync.RWMutex
	roots map[Role]string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		roots: make(map[Role]string, 2),
	}
}

// Set records the absolute path for a role, overwriting any previous value.
func (r *Registry) Set(role Role, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots[role] = path
}

// Get returns the path registered for a role. Absence is always a distinct,
// named error so callers can refuse shadow-dependent requests instead of
// guessing a path.
func (r *Registry) Get(role Role) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.roots[role]
	if !ok || path == "" {
		switch role {
		case ManifestRoot:
			return "", errors.New(errors.ManifestDirNotFound, "no manifest directory registered for this session", nil)
		default:
			return "", errors.New(errors.TempDirNotFound, "no shadow directory registered for this session", nil)
		}
	}
	return path, nil
}

// Clear removes every registered root. Used when session setup fails
// part-way so no partial registration survives.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots = make(map[Role]string, 2)
}
