package format

import (
	"fmt"

	"github.com/lofasm4/lofodex/pkg/errors"
)

// Registry holds the known format descriptors in registration order.
// Order is significant: Classify returns the first matching descriptor, so
// more specific formats must be registered before general catch-alls.
//
// A Registry is populated at process start and read-only afterwards; it is
// passed explicitly into the catalog manager rather than held as a global.
type Registry struct {
	descriptors []Descriptor
	byTag       map[Tag]Descriptor
}

// NewRegistry creates a registry holding the given descriptors in order.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{byTag: make(map[Tag]Descriptor)}
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends a descriptor to the registry. Registering a tag twice or
// one of the distinguished tags is an error.
func (r *Registry) Register(d Descriptor) error {
	tag := d.Tag()
	if tag == TagDirectory || tag == TagUnformatted {
		return &errors.ValidationError{
			Field:   "tag",
			Value:   tag,
			Message: "reserved format tag",
		}
	}
	if _, ok := r.byTag[tag]; ok {
		return fmt.Errorf("format %q: %w", tag, errors.ErrAlreadyExists)
	}
	r.descriptors = append(r.descriptors, d)
	r.byTag[tag] = d
	return nil
}

// Classify returns the tag of the first registered descriptor matching path.
// A path matching no descriptor is classified as TagUnformatted.
func (r *Registry) Classify(path string) Tag {
	for _, d := range r.descriptors {
		if d.Matches(path) {
			return d.Tag()
		}
	}
	return TagUnformatted
}

// Lookup returns the descriptor registered under tag.
func (r *Registry) Lookup(tag Tag) (Descriptor, bool) {
	d, ok := r.byTag[tag]
	return d, ok
}

// Tags returns the registered tags in registration order.
func (r *Registry) Tags() []Tag {
	tags := make([]Tag, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		tags = append(tags, d.Tag())
	}
	return tags
}
