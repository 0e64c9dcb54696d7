// Package lofodex maintains incremental metadata catalogs for directories of
// LoFASM instrument data. A Manager scans one directory, classifies its
// files against the registered formats, and reconciles the result with the
// directory's persisted catalog table: files already cataloged keep their
// rows untouched, new files get metadata columns computed by the registered
// collectors, and the caller decides when the updated table is written back.
//
// Subdirectories that carry a catalog file of their own appear as nested
// catalog rows; subdirectories without one are invisible.
//
// Example usage:
//
//	m, err := lofodex.New("/data/night1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.Persist(); err != nil {
//	    log.Fatal(err)
//	}
//
// A directory's catalog is owned by a single Manager at a time; running
// concurrent managers against the same directory is undefined behavior.
package lofodex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/lofasm4/lofodex/pkg/catalog"
	"github.com/lofasm4/lofodex/pkg/constants"
	"github.com/lofasm4/lofodex/pkg/errors"
	"github.com/lofasm4/lofodex/pkg/format"
	"github.com/lofasm4/lofodex/pkg/scan"
)

// Manager catalogs one directory. Construction runs the whole update: scan,
// load-or-build, diff, metadata collection, merge. Only Persist writes to
// disk, and only when the table changed.
type Manager struct {
	dir      string
	absDir   string
	baseName string

	config *config
	logger *zerolog.Logger

	scanned     *scan.Result
	table       *catalog.Table
	catalogFile string
	newFiles    []string
}

// New creates a manager for dir and brings its in-memory table up to date
// with the directory's current contents. A persisted catalog that cannot be
// parsed fails construction with an error matching errors.ErrCorruptCatalog.
func New(dir string, opts ...Option) (*Manager, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapIO("resolve", dir, err)
	}

	m := &Manager{
		dir:      dir,
		absDir:   abs,
		baseName: filepath.Base(abs),
		config:   cfg,
		logger:   cfg.logger,
	}

	m.scanned, err = scan.Directory(dir, cfg.formats, m.logger)
	if err != nil {
		return nil, err
	}
	m.catalogFile = m.chooseCatalogFile()

	if err := m.buildTable(); err != nil {
		return nil, err
	}
	return m, nil
}

// chooseCatalogFile resolves the directory's catalog file name. No candidate
// means a first run and a name derived from the directory base name; more
// than one is ambiguous, warned about, and resolved to the first in listing
// order.
func (m *Manager) chooseCatalogFile() string {
	candidates := m.scanned.CatalogCandidates
	switch len(candidates) {
	case 0:
		return m.baseName + constants.CatalogSuffix
	case 1:
		return candidates[0]
	default:
		m.logger.Warn().
			Str("dir", m.dir).
			Strs("candidates", candidates).
			Str("using", candidates[0]).
			Msg("More than one catalog file detected")
		return candidates[0]
	}
}

// buildTable loads and updates the persisted table, or builds a fresh one
// when the directory has no catalog yet.
func (m *Manager) buildTable() error {
	path := filepath.Join(m.dir, m.catalogFile)
	if _, err := os.Stat(path); err == nil {
		return m.refreshExisting(path)
	}
	return m.buildFresh()
}

// refreshExisting loads the persisted table and merges in rows for files the
// table has not seen. Existing rows are never re-opened or recomputed, even
// if their on-disk content changed since they were cataloged.
func (m *Manager) refreshExisting(path string) error {
	t, err := catalog.Load(path, m.config.codec)
	if err != nil {
		return err
	}

	delta := t.DiffNew(m.scanned.FormatMap)
	if len(delta) > 0 {
		// New rows get the same columns existing rows carry, computed in a
		// scratch table and merged in, so collision warnings stay reserved
		// for genuine column clashes.
		scratch := catalog.New(t.Name())
		for _, name := range delta {
			if err := scratch.Append(catalog.NewEntry(name, m.scanned.FormatMap[name])); err != nil {
				return err
			}
		}
		resolved := m.config.collectors.Resolve(t.ColumnNames())
		scratch.AddColumns(resolved, m.open, false, m.logger)
		if err := t.Merge(scratch); err != nil {
			return err
		}
		m.logger.Info().
			Str("dir", m.dir).
			Int("new_files", len(delta)).
			Msg("Catalog updated")
	}

	m.table = t
	m.newFiles = delta
	return nil
}

// buildFresh builds a first-run table from the scanned format map: every
// file is new, and the default column set plus any caller extras is computed
// for all of them.
func (m *Manager) buildFresh() error {
	t := catalog.New(m.baseName + constants.TableNameSuffix)

	names := make([]string, 0, len(m.scanned.FormatMap))
	for name := range m.scanned.FormatMap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := t.Append(catalog.NewEntry(name, m.scanned.FormatMap[name])); err != nil {
			return err
		}
	}

	resolved := m.config.collectors.Resolve(m.config.columns)
	t.AddColumns(resolved, m.open, false, m.logger)

	m.table = t
	m.newFiles = names
	m.logger.Info().
		Str("dir", m.dir).
		Int("files", len(names)).
		Msg("Catalog built")
	return nil
}

// open opens a cataloged file through its matched format descriptor.
func (m *Manager) open(filename string, tag format.Tag) (format.Handle, error) {
	d, ok := m.config.formats.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%s: %w", tag, errors.ErrNoFormat)
	}
	return d.Open(filepath.Join(m.dir, filename))
}

// Table returns the in-memory catalog table.
func (m *Manager) Table() *catalog.Table {
	return m.table
}

// CatalogFile returns the name of the directory's catalog file.
func (m *Manager) CatalogFile() string {
	return m.catalogFile
}

// NewFiles returns the filenames this initialization added to the table,
// sorted. On a first run that is every cataloged file.
func (m *Manager) NewFiles() []string {
	return m.newFiles
}

// FormatMap returns the scanned filename to format-tag map.
func (m *Manager) FormatMap() map[string]format.Tag {
	return m.scanned.FormatMap
}

// ChildDirs returns the subdirectories that hold nested catalogs.
func (m *Manager) ChildDirs() []string {
	return m.scanned.ChildDirs
}

// Persist writes the table to the directory's catalog file if it has
// unpersisted changes; otherwise it does nothing.
func (m *Manager) Persist() error {
	return m.table.Persist(filepath.Join(m.absDir, m.catalogFile), m.config.codec)
}
