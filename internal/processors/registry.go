// Package processors holds the named pre-processing stages a merge can run
// its partials through before they are wrapped.
package processors

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/inception/internal/inception"
)

// Factory builds a new instance of a processor stage.
type Factory func() inception.Stage

// Registry maps processor names to their factories.
type Registry struct {
	all map[string]Factory
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		all: make(map[string]Factory),
	}
}

// Default returns a Registry with every built-in processor registered.
func Default() *Registry {
	r := New()
	registerBuiltins(r)
	return r
}

// Register adds a processor under name.
func (r *Registry) Register(name string, factory Factory) {
	if _, exists := r.all[name]; exists {
		panic(fmt.Sprintf("processor with name '%s' already registered", name))
	}
	slog.Debug("Registering processor.", "name", name)
	r.all[name] = factory
}

// Names returns the registered processor names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.all))
	for name := range r.all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build chains the named processors in the given order. No names yields nil,
// which a pipeline treats as the identity stage.
func (r *Registry) Build(names ...string) (inception.Stage, error) {
	if len(names) == 0 {
		return nil, nil
	}
	stages := make([]inception.Stage, 0, len(names))
	for _, name := range names {
		factory, ok := r.all[name]
		if !ok {
			return nil, fmt.Errorf("unknown processor %q (available: %s)", name, strings.Join(r.Names(), ", "))
		}
		stages = append(stages, factory())
	}
	return inception.Chain(stages...), nil
}
