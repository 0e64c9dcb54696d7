// Package collect holds the named column-collector registry. Collectors are
// registered once at process start under their column name; the catalog
// manager resolves the column names a table wants into the collectors that
// can produce them.
package collect

import (
	"fmt"
	"sort"

	"github.com/lofasm4/lofodex/pkg/catalog"
	"github.com/lofasm4/lofodex/pkg/errors"
)

// Registry maps column names to their collectors. Like the format registry
// it is populated at startup and passed into the manager explicitly.
type Registry struct {
	collectors map[string]catalog.Collector
}

// NewRegistry creates a registry holding the given collectors.
func NewRegistry(collectors ...catalog.Collector) (*Registry, error) {
	r := &Registry{collectors: make(map[string]catalog.Collector)}
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a collector under its column name.
func (r *Registry) Register(c catalog.Collector) error {
	name := c.Column().Name
	if name == "" {
		return &errors.ValidationError{Field: "column", Message: "collector with empty column name"}
	}
	if _, ok := r.collectors[name]; ok {
		return fmt.Errorf("collector %q: %w", name, errors.ErrAlreadyExists)
	}
	r.collectors[name] = c
	return nil
}

// Resolve returns the collectors for the requested column names. Names with
// no registered collector are silently dropped: a caller may ask for a
// column nothing can produce without failing, that column just stays absent
// from derived rows.
func (r *Registry) Resolve(names []string) map[string]catalog.Collector {
	resolved := make(map[string]catalog.Collector)
	for _, name := range names {
		if c, ok := r.collectors[name]; ok {
			resolved[name] = c
		}
	}
	return resolved
}

// Names returns the registered column names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the collector registered for a column name.
func (r *Registry) Get(name string) (catalog.Collector, bool) {
	c, ok := r.collectors[name]
	return c, ok
}
