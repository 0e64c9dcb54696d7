// Package scan lists a directory the way the cataloging engine sees it:
// catalog-file candidates, subdirectories carrying their own nested catalog,
// and plain files classified by format.
package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lofasm4/lofodex/pkg/constants"
	"github.com/lofasm4/lofodex/pkg/errors"
	"github.com/lofasm4/lofodex/pkg/format"
	"github.com/lofasm4/lofodex/pkg/logging"
)

// Result is one directory scan.
type Result struct {
	// CatalogCandidates are the entries carrying the catalog suffix, in
	// listing order.
	CatalogCandidates []string

	// ChildDirs are the subdirectories that contain a catalog file of their
	// own. Subdirectories without one are invisible to the parent catalog.
	ChildDirs []string

	// FormatMap maps every cataloged entry name to its format tag: plain
	// files to their classified tag, kept subdirectories to the directory
	// tag. Catalog candidates are excluded.
	FormatMap map[string]format.Tag
}

// Directory scans dir against the format registry. Entries are visited in
// lexicographic order (os.ReadDir sorts), so every first-match tie-break
// downstream is deterministic.
func Directory(dir string, reg *format.Registry, logger *zerolog.Logger) (*Result, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("list", dir, err)
	}

	res := &Result{FormatMap: make(map[string]format.Tag)}
	for _, entry := range dirEntries {
		name := entry.Name()
		switch {
		case entry.IsDir():
			if hasCatalogFile(filepath.Join(dir, name), logger) {
				res.ChildDirs = append(res.ChildDirs, name)
				res.FormatMap[name] = format.TagDirectory
			}
		case strings.HasSuffix(name, constants.CatalogSuffix):
			res.CatalogCandidates = append(res.CatalogCandidates, name)
		default:
			res.FormatMap[name] = reg.Classify(filepath.Join(dir, name))
		}
	}
	return res, nil
}

// hasCatalogFile reports whether a subdirectory contains a catalog file.
// An unreadable subdirectory is treated as having none.
func hasCatalogFile(dir string, logger *zerolog.Logger) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debug().Err(err).Str("dir", dir).Msg("Cannot list subdirectory")
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), constants.CatalogSuffix) {
			return true
		}
	}
	return false
}
