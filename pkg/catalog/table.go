// Package catalog implements the in-memory catalog table: an ordered set of
// per-file metadata rows with a dynamic column set, plus the load, diff,
// merge, column-collection, and persist operations the cataloging engine is
// built on.
//
// A table is exclusively owned by one manager per directory; no concurrent
// writer protocol is defined. Callers that share a directory between
// processes are on their own.
package catalog

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/lofasm4/lofodex/pkg/constants"
	"github.com/lofasm4/lofodex/pkg/errors"
	"github.com/lofasm4/lofodex/pkg/format"
	"github.com/lofasm4/lofodex/pkg/logging"
)

// Table is the in-memory catalog for one directory. Row order is append
// order; the filename key is unique across rows. The dirty flag tracks
// unpersisted changes and gates Persist.
type Table struct {
	name        string
	hasChildren bool
	columns     []Column
	entries     []*Entry
	index       map[string]int
	dirty       bool
}

// New creates an empty table with the given name. The structural filename
// and fileformat columns are implicit and always present.
func New(name string) *Table {
	return &Table{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// SetName sets the table name.
func (t *Table) SetName(name string) { t.name = name }

// HasChildren reports whether any row is a nested-catalog subdirectory.
func (t *Table) HasChildren() bool { return t.hasChildren }

// SetHasChildren sets the table-level nested-catalog flag. Codecs use it to
// restore persisted metadata.
func (t *Table) SetHasChildren(v bool) { t.hasChildren = v }

// Dirty reports whether the table has unpersisted changes.
func (t *Table) Dirty() bool { return t.dirty }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns the rows in table order. The slice is shared; callers must
// not reorder it.
func (t *Table) Entries() []*Entry { return t.entries }

// Entry returns the row keyed by filename.
func (t *Table) Entry(filename string) (*Entry, bool) {
	i, ok := t.index[filename]
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

// Filenames returns the row keys in table order.
func (t *Table) Filenames() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.filename
	}
	return names
}

// Columns returns the metadata column definitions in table order, excluding
// the structural filename and fileformat columns.
func (t *Table) Columns() []Column {
	return t.columns
}

// ColumnNames returns every column name in table order, structural columns
// first. This is the column set persisted codecs see.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.columns)+2)
	names = append(names, constants.ColumnFilename, constants.ColumnFileFormat)
	for _, c := range t.columns {
		names = append(names, c.Name)
	}
	return names
}

// HasColumn reports whether the named column exists, counting the structural
// columns.
func (t *Table) HasColumn(name string) bool {
	if name == constants.ColumnFilename || name == constants.ColumnFileFormat {
		return true
	}
	for _, c := range t.columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// AddColumn adds a metadata column definition if it is not already present.
// Rows lacking a cell for the column read as null. Reports whether the
// column was added.
func (t *Table) AddColumn(c Column) bool {
	if t.HasColumn(c.Name) {
		return false
	}
	t.columns = append(t.columns, c)
	t.dirty = true
	return true
}

// Append adds a row to the end of the table. It never reorders existing
// rows. Appending a nested-catalog directory row raises the table's
// has-children flag. A duplicate filename is rejected.
func (t *Table) Append(e *Entry) error {
	if _, ok := t.index[e.filename]; ok {
		return fmt.Errorf("row %q: %w", e.filename, errors.ErrAlreadyExists)
	}
	t.index[e.filename] = len(t.entries)
	t.entries = append(t.entries, e)
	if e.tag == format.TagDirectory {
		t.hasChildren = true
	}
	t.dirty = true
	return nil
}

// DiffNew returns the filenames present in a fresh directory scan but absent
// from the table, sorted lexicographically. This is the incremental-update
// core: rows already in the table are never re-examined, whatever their
// on-disk content now looks like.
func (t *Table) DiffNew(formatMap map[string]format.Tag) []string {
	var fresh []string
	for name := range formatMap {
		if _, ok := t.index[name]; !ok {
			fresh = append(fresh, name)
		}
	}
	sort.Strings(fresh)
	return fresh
}

// Merge appends another table's rows onto this one, unioning the column
// sets. Existing rows are untouched. The other table's rows must all be new
// filenames.
func (t *Table) Merge(other *Table) error {
	for _, c := range other.columns {
		t.AddColumn(c)
	}
	for _, e := range other.entries {
		if err := t.Append(e); err != nil {
			return err
		}
	}
	return nil
}

// AddColumns computes one column per resolved collector for every row of the
// table. A column that already exists is left untouched and warned about
// unless overwrite is set. Each row's file is opened once through its
// matched format for all pending collectors and closed before the next row,
// on every exit path. A collector that is inapplicable for a row's format,
// or whose source file cannot be opened, yields a null cell; neither aborts
// the batch.
//
// Column processing order is the sorted collector-name order, so runs are
// deterministic regardless of map iteration.
func (t *Table) AddColumns(collectors map[string]Collector, open OpenFunc, overwrite bool, logger *zerolog.Logger) {
	if logger == nil {
		logger = logging.Default()
	}

	names := make([]string, 0, len(collectors))
	for name := range collectors {
		names = append(names, name)
	}
	sort.Strings(names)

	pending := names[:0]
	for _, name := range names {
		if t.HasColumn(name) && !overwrite {
			logger.Warn().
				Str("table", t.name).
				Str("column", name).
				Msg("Column exists, set overwrite to recompute")
			continue
		}
		pending = append(pending, name)
	}
	if len(pending) == 0 {
		return
	}

	for _, e := range t.entries {
		t.collectRow(e, pending, collectors, open, logger)
	}

	for _, name := range pending {
		t.AddColumn(collectors[name].Column())
	}
	t.dirty = true
}

// collectRow fills the pending cells for one row. The handle close is
// deferred so a collector failure cannot leak it.
func (t *Table) collectRow(e *Entry, pending []string, collectors map[string]Collector, open OpenFunc, logger *zerolog.Logger) {
	h, err := open(e.filename, e.tag)
	if err != nil {
		if !errors.Is(err, errors.ErrNoFormat) {
			logger.Warn().
				Err(err).
				Str("file", e.filename).
				Msg("Cannot open source file, recording nulls")
		}
		for _, name := range pending {
			e.Set(name, Null())
		}
		return
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			logger.Warn().Err(cerr).Str("file", e.filename).Msg("Close failed")
		}
	}()

	for _, name := range pending {
		v, err := collectors[name].Collect(e.tag, h)
		switch {
		case err == nil:
			e.Set(name, v)
		case errors.Is(err, errors.ErrNotApplicable):
			e.Set(name, Null())
		default:
			logger.Warn().
				Err(err).
				Str("file", e.filename).
				Str("column", name).
				Msg("Collector failed, recording null")
			e.Set(name, Null())
		}
	}
}
