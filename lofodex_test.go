package lofodex

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lofasm4/lofodex/internal/formats"
	"github.com/lofasm4/lofodex/pkg/catalog"
	"github.com/lofasm4/lofodex/pkg/errors"
	"github.com/lofasm4/lofodex/pkg/format"
	"github.com/lofasm4/lofodex/pkg/logging"
)

func writeBBX(t *testing.T, dir, name, station, channel string, offset, start float64) {
	t.Helper()
	content := fmt.Sprintf("%%\x02BX\n"+
		"%%hdr_type: LoFASM-filterbank\n"+
		"%%station: %s\n"+
		"%%channel: %s\n"+
		"%%time_offset_J2000: %g (s)\n"+
		"%%dim1_start: %g\n"+
		"payload\n", station, channel, offset, start)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func writeLoFASM(t *testing.T, dir, name, station string) {
	t.Helper()
	content := "#LoFASM raw\n" +
		"#station " + station + "\n" +
		"#channel AA\n" +
		"#time_j2000 500000000.25\n" +
		"#end\n" +
		"samples\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestEmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	m, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	assert.Equal(t, 0, m.Table().Len())
	assert.False(t, m.Table().HasChildren())
	assert.Equal(t, filepath.Base(dir)+".info", m.CatalogFile())
	assert.True(t, m.Table().Dirty(), "a fresh build has unpersisted changes")
}

func TestFreshBuildClassifiesAndCollects(t *testing.T) {
	dir := t.TempDir()
	writeBBX(t, dir, "a.bbx", "LoFASM4", "CC", 502632462, 120.5)
	writeLoFASM(t, dir, "b.lofasm", "LoFASM1")

	m, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	tab := m.Table()
	require.Equal(t, 2, tab.Len())

	a, ok := tab.Entry("a.bbx")
	require.True(t, ok)
	assert.Equal(t, formats.TagBBX, a.Format())
	assert.Equal(t, "LoFASM4", a.Value("station").Any())
	assert.Equal(t, "CC", a.Value("channel").Any())
	assert.Equal(t, "LoFASM-filterbank", a.Value("hdr_type").Any())
	assert.Equal(t, 502632462.0+120.5, a.Value("start_time").Any())

	b, ok := tab.Entry("b.lofasm")
	require.True(t, ok)
	assert.Equal(t, formats.TagLoFASM, b.Format())
	assert.Equal(t, "LoFASM1", b.Value("station").Any())
	// hdr_type has no legacy-stream implementation: swallowed, cell is null.
	assert.True(t, b.Value("hdr_type").IsNull())

	for _, name := range []string{"station", "channel", "hdr_type", "start_time"} {
		assert.True(t, tab.HasColumn(name), "missing default column %s", name)
	}
}

func TestUnformattedFileListedWithoutMetadata(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))

	m, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	e, ok := m.Table().Entry("notes.txt")
	require.True(t, ok)
	assert.Equal(t, format.TagUnformatted, e.Format())
	assert.True(t, e.Value("station").IsNull())
}

func TestIdempotence(t *testing.T) {
	dir := t.TempDir()
	writeBBX(t, dir, "a.bbx", "LoFASM4", "CC", 502632462, 0)

	m1, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	require.NoError(t, m1.Persist())

	m2, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	assert.False(t, m2.Table().Dirty(), "unchanged directory must leave the table clean")
	assert.Empty(t, m2.NewFiles())
	require.Equal(t, m1.Table().Len(), m2.Table().Len())
	for i, want := range m1.Table().Entries() {
		assert.True(t, want.Equal(m2.Table().Entries()[i]), "row %d differs", i)
	}
}

func TestIncrementalUpdate(t *testing.T) {
	dir := t.TempDir()
	writeBBX(t, dir, "a.bbx", "LoFASM4", "CC", 502632462, 0)

	m1, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	require.NoError(t, m1.Persist())
	original, _ := m1.Table().Entry("a.bbx")

	// A new file appears; the old one is rewritten with different metadata.
	// The catalog never re-examines cataloged rows, so a.bbx must keep its
	// original values.
	writeBBX(t, dir, "a.bbx", "CHANGED", "XX", 0, 0)
	writeLoFASM(t, dir, "b.lofasm", "LoFASM1")

	m2, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	tab := m2.Table()
	require.Equal(t, 2, tab.Len())
	assert.Equal(t, []string{"b.lofasm"}, m2.NewFiles())
	assert.True(t, tab.Dirty())

	kept, _ := tab.Entry("a.bbx")
	assert.True(t, original.Equal(kept), "cataloged row must be carried over unchanged")

	fresh, _ := tab.Entry("b.lofasm")
	assert.Equal(t, "LoFASM1", fresh.Value("station").Any())
}

func TestChildDirWithoutCatalogInvisible(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeBBX(t, sub, "inner.bbx", "LoFASM4", "CC", 0, 0)

	m, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	_, ok := m.Table().Entry("sub")
	assert.False(t, ok, "a subdirectory without a catalog must not appear")
	assert.False(t, m.Table().HasChildren())
}

func TestChildDirWithCatalogBecomesRow(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "sub.info"), []byte("# %ECSV 1.0\n"), 0644))

	m, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	e, ok := m.Table().Entry("sub")
	require.True(t, ok)
	assert.Equal(t, format.TagDirectory, e.Format())
	assert.True(t, m.Table().HasChildren())
	assert.Equal(t, []string{"sub"}, m.ChildDirs())
}

func TestAmbiguousCatalogFileWarnsAndPicksFirst(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zz.info"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aa.info"), []byte("x"), 0644))

	logger := logging.NewTestLogger(t)
	_, err := New(dir, WithLogger(logger.Logger))
	// aa.info is first in listing order and is not a parseable catalog.
	require.Error(t, err)
	logger.AssertContains(t, "More than one catalog file")
}

func TestCorruptCatalogIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, filepath.Base(dir)+".info")
	require.NoError(t, os.WriteFile(path, []byte("# %ECSV 1.0\n# ---\n# datatype: [broken\n"), 0644))

	_, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCorruptCatalog)
}

func TestPersistRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeBBX(t, dir, "a.bbx", "LoFASM4", "CC", 502632462, 120.5)

	m, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	require.NoError(t, m.Persist())

	loaded, err := catalog.Load(filepath.Join(dir, m.CatalogFile()), m.config.codec)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())

	e, _ := loaded.Entry("a.bbx")
	assert.Equal(t, 502632462.0+120.5, e.Value("start_time").Any())
	assert.Equal(t, filepath.Base(dir)+"_info_table", loaded.Name())
}

func TestWithColumnsUnknownNameIsHarmless(t *testing.T) {
	dir := t.TempDir()
	writeBBX(t, dir, "a.bbx", "LoFASM4", "CC", 0, 0)

	m, err := New(dir,
		WithLogger(logging.NewNopLogger()),
		WithColumns("no_such_collector"))
	require.NoError(t, err)

	assert.False(t, m.Table().HasColumn("no_such_collector"))
	assert.True(t, m.Table().HasColumn("station"))
}

func TestNewFilesOnFreshBuild(t *testing.T) {
	dir := t.TempDir()
	writeBBX(t, dir, "b.bbx", "LoFASM4", "CC", 0, 0)
	writeBBX(t, dir, "a.bbx", "LoFASM4", "CD", 0, 0)

	m, err := New(dir, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.bbx", "b.bbx"}, m.NewFiles())
}
