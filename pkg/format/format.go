// Package format defines the pluggable file-format capability used by the
// catalog engine. A Descriptor knows how to recognize files of its format and
// how to open them for metadata collection; a Registry classifies arbitrary
// paths against the registered descriptors in priority order.
package format

import "io"

// Tag identifies which registered format a file matched.
type Tag string

// Distinguished tags that are not backed by a Descriptor.
const (
	// TagDirectory marks a subdirectory that holds its own nested catalog.
	TagDirectory Tag = "data_dir"

	// TagUnformatted marks a file that matched no registered format. It is
	// still listed in the catalog but excluded from metadata collection.
	TagUnformatted Tag = "unformatted"
)

// Handle is an opened format-specific file. Handles are scoped to a single
// metadata-collection pass and must be closed when that pass is done.
type Handle interface {
	io.Closer

	// Path returns the path the handle was opened from.
	Path() string
}

// HeaderHandle is implemented by handles whose format carries a parsed
// key/value header. Collectors that read header fields type-assert to it.
type HeaderHandle interface {
	Handle

	// Header returns the parsed header fields.
	Header() map[string]string
}

// Descriptor is a registered file format: it can test whether a path belongs
// to the format and open matching files. Descriptors are constructed once at
// registry population and hold no per-directory state.
type Descriptor interface {
	// Tag returns the format's identifying tag.
	Tag() Tag

	// Matches reports whether the file at path belongs to this format.
	Matches(path string) bool

	// Open opens the file at path as a format-specific handle.
	Open(path string) (Handle, error)
}
