package catalog

import (
	"io"
	"os"

	"github.com/lofasm4/lofodex/pkg/constants"
	"github.com/lofasm4/lofodex/pkg/errors"
)

// Codec serializes tables to and from the persisted catalog artifact. The
// concrete wire format lives outside the core; the ecsv subpackage provides
// the one the instrument's existing catalogs use.
type Codec interface {
	// Encode writes the table to w.
	Encode(w io.Writer, t *Table) error

	// Decode reads a table from r. The decoded schema must carry the
	// filename and fileformat columns.
	Decode(r io.Reader) (*Table, error)
}

// Load reads a persisted table from path using codec. A file that cannot be
// parsed in the expected schema fails with an error matching
// errors.ErrCorruptCatalog; no partial recovery is attempted. The loaded
// table starts clean.
func Load(path string, codec Codec) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	t, err := codec.Decode(f)
	if err != nil {
		return nil, errors.WrapCorrupt(path, err)
	}
	t.dirty = false
	return t, nil
}

// Persist writes the table to path using codec. It is a no-op while the
// table is clean; a successful write marks it clean again.
func (t *Table) Persist(path string, codec Codec) error {
	if !t.dirty {
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := codec.Encode(f, t); err != nil {
		f.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	t.dirty = false
	return nil
}
