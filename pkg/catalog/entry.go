package catalog

import (
	"github.com/lofasm4/lofodex/pkg/constants"
	"github.com/lofasm4/lofodex/pkg/format"
)

// Entry is one catalog row: a filename unique within the directory, the
// format tag it matched, and its metadata cells keyed by column name.
type Entry struct {
	filename string
	tag      format.Tag
	cells    map[string]Value
}

// NewEntry creates a row for filename with its matched format tag.
func NewEntry(filename string, tag format.Tag) *Entry {
	return &Entry{
		filename: filename,
		tag:      tag,
		cells:    make(map[string]Value),
	}
}

// Filename returns the row's unique key.
func (e *Entry) Filename() string { return e.filename }

// Format returns the row's matched format tag.
func (e *Entry) Format() format.Tag { return e.tag }

// Value returns the cell for the named column. The structural filename and
// fileformat columns are answered from the row key and tag; any column the
// row has no cell for is null.
func (e *Entry) Value(column string) Value {
	switch column {
	case constants.ColumnFilename:
		return String(e.filename)
	case constants.ColumnFileFormat:
		return String(string(e.tag))
	}
	return e.cells[column]
}

// Set records a cell for the named column. Setting the structural columns is
// a no-op; they are fixed at row construction.
func (e *Entry) Set(column string, v Value) {
	if column == constants.ColumnFilename || column == constants.ColumnFileFormat {
		return
	}
	e.cells[column] = v
}

// Equal reports whether two rows have the same key, tag, and cells.
func (e *Entry) Equal(o *Entry) bool {
	if e.filename != o.filename || e.tag != o.tag {
		return false
	}
	if len(e.cells) != len(o.cells) {
		return false
	}
	for k, v := range e.cells {
		if !v.Equal(o.cells[k]) {
			return false
		}
	}
	return true
}
