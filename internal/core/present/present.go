// Package present defines the presentation port the notice scheduler
// renders through, and a registry that resolves named targets to ports.
package present

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/colonyops/noticeq/internal/core/notice"
)

// ErrUnknownTarget is returned when a target name has no registered port.
var ErrUnknownTarget = errors.New("unknown presentation target")

// Artifact is the port's handle to a displayed notice. It is opaque to
// the scheduler and only ever handed back to the port that issued it.
type Artifact any

// Port creates and destroys displayed artifacts. Remove may animate; the
// scheduler waits its own removal delay before reusing the slot.
type Port interface {
	Show(req notice.Request) Artifact
	Remove(a Artifact)
}

// Enterer is implemented by ports that want to know when an artifact has
// finished its enter transition and become visible.
type Enterer interface {
	Entered(a Artifact)
}

// Resolver maps a configured target name to a port.
type Resolver interface {
	Resolve(target string) (Port, error)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(target string) (Port, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(target string) (Port, error) {
	return f(target)
}

// Registry is a Resolver backed by named ports.
type Registry struct {
	mu    sync.RWMutex
	ports map[string]Port
}

var _ Resolver = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ports: make(map[string]Port)}
}

// Register binds name to port, replacing any earlier binding.
func (r *Registry) Register(name string, port Port) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ports[name] = port
}

// Resolve returns the port bound to target.
func (r *Registry) Resolve(target string) (Port, error) {
	if target == "" {
		return nil, fmt.Errorf("%w: target is empty", ErrUnknownTarget)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.ports[target]
	if !ok || p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	return p, nil
}

// Names returns the registered target names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ports))
	for name := range r.ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
