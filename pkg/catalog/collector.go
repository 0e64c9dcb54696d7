package catalog

import "github.com/lofasm4/lofodex/pkg/format"

// Collector extracts one column's value from an opened file handle. Concrete
// collectors implement extraction per format tag and return
// errors.ErrNotApplicable for formats they have no implementation for; the
// table records a null cell for those and carries on. Any other error means
// the collector was applicable but failed.
type Collector interface {
	// Column describes the column this collector produces.
	Column() Column

	// Collect produces the column value from a handle of the given format.
	Collect(tag format.Tag, h format.Handle) (Value, error)
}

// OpenFunc opens a cataloged file through its matched format so collectors
// can read it. It reports errors.ErrNoFormat for tags that cannot be opened
// (directories, unformatted files).
type OpenFunc func(filename string, tag format.Tag) (format.Handle, error)
