package catalog

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/lofasm4/lofodex/pkg/errors"
	"github.com/lofasm4/lofodex/pkg/format"
	"github.com/lofasm4/lofodex/pkg/logging"
)

type testHandle struct {
	path   string
	closed bool
}

func (h *testHandle) Path() string { return h.path }

func (h *testHandle) Close() error {
	h.closed = true
	return nil
}

type testCollector struct {
	column Column
	fn     func(tag format.Tag, h format.Handle) (Value, error)
}

func (c *testCollector) Column() Column { return c.column }

func (c *testCollector) Collect(tag format.Tag, h format.Handle) (Value, error) {
	return c.fn(tag, h)
}

func constCollector(name, value string) *testCollector {
	return &testCollector{
		column: Column{Name: name, Datatype: TypeString},
		fn: func(format.Tag, format.Handle) (Value, error) {
			return String(value), nil
		},
	}
}

func openOK(filename string, tag format.Tag) (format.Handle, error) {
	return &testHandle{path: filename}, nil
}

func TestAppendUniqueFilenames(t *testing.T) {
	tab := New("t")
	if err := tab.Append(NewEntry("a.bbx", "bbx")); err != nil {
		t.Fatalf("First append failed: %v", err)
	}
	if err := tab.Append(NewEntry("a.bbx", "bbx")); err == nil {
		t.Fatal("Duplicate filename should be rejected")
	}
	if tab.Len() != 1 {
		t.Errorf("Expected 1 row, got %d", tab.Len())
	}
}

func TestAppendDirectorySetsHasChildren(t *testing.T) {
	tab := New("t")
	if tab.HasChildren() {
		t.Fatal("New table should not have children")
	}
	_ = tab.Append(NewEntry("sub", format.TagDirectory))
	if !tab.HasChildren() {
		t.Error("Appending a directory row should set has_children")
	}
}

func TestDiffNew(t *testing.T) {
	tab := New("t")
	_ = tab.Append(NewEntry("a.bbx", "bbx"))

	delta := tab.DiffNew(map[string]format.Tag{
		"c.bbx": "bbx",
		"a.bbx": "bbx",
		"b.bbx": "bbx",
	})

	if len(delta) != 2 || delta[0] != "b.bbx" || delta[1] != "c.bbx" {
		t.Errorf("Expected sorted delta [b.bbx c.bbx], got %v", delta)
	}
}

func TestMergeUnionsColumnsAndAppends(t *testing.T) {
	tab := New("t")
	_ = tab.Append(NewEntry("a.bbx", "bbx"))
	tab.AddColumn(Column{Name: "station", Datatype: TypeString})

	other := New("t")
	other.AddColumn(Column{Name: "station", Datatype: TypeString})
	other.AddColumn(Column{Name: "channel", Datatype: TypeString})
	e := NewEntry("b.bbx", "bbx")
	e.Set("station", String("LoFASM1"))
	_ = other.Append(e)

	if err := tab.Merge(other); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if tab.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", tab.Len())
	}
	if len(tab.Columns()) != 2 {
		t.Errorf("Expected columns [station channel], got %v", tab.Columns())
	}
	// Existing rows read null for columns merged in later.
	first, _ := tab.Entry("a.bbx")
	if !first.Value("channel").IsNull() {
		t.Error("Pre-existing row should read null for a merged-in column")
	}
}

func TestAddColumnsComputesValues(t *testing.T) {
	tab := New("t")
	_ = tab.Append(NewEntry("a.bbx", "bbx"))
	_ = tab.Append(NewEntry("b.bbx", "bbx"))

	cols := map[string]Collector{"station": constCollector("station", "LoFASM4")}
	tab.AddColumns(cols, openOK, false, logging.NewNopLogger())

	for _, e := range tab.Entries() {
		if got := e.Value("station"); got.Any() != "LoFASM4" {
			t.Errorf("Row %s: expected LoFASM4, got %v", e.Filename(), got.Any())
		}
	}
	if !tab.HasColumn("station") {
		t.Error("station column should exist after AddColumns")
	}
	if !tab.Dirty() {
		t.Error("AddColumns should mark the table dirty")
	}
}

func TestAddColumnsCollisionWarnsAndSkips(t *testing.T) {
	tab := New("t")
	e := NewEntry("a.bbx", "bbx")
	_ = tab.Append(e)

	cols := map[string]Collector{"station": constCollector("station", "first")}
	tab.AddColumns(cols, openOK, false, logging.NewNopLogger())

	logger := logging.NewTestLogger(t)
	cols = map[string]Collector{"station": constCollector("station", "second")}
	tab.AddColumns(cols, openOK, false, logger.Logger)

	logger.AssertContains(t, "Column exists")
	if got := e.Value("station"); got.Any() != "first" {
		t.Errorf("Collision without overwrite must leave the column untouched, got %v", got.Any())
	}
}

func TestAddColumnsOverwriteRecomputes(t *testing.T) {
	tab := New("t")
	e := NewEntry("a.bbx", "bbx")
	_ = tab.Append(e)

	tab.AddColumns(map[string]Collector{"station": constCollector("station", "first")}, openOK, false, logging.NewNopLogger())
	tab.AddColumns(map[string]Collector{"station": constCollector("station", "second")}, openOK, true, logging.NewNopLogger())

	if got := e.Value("station"); got.Any() != "second" {
		t.Errorf("Overwrite should recompute the column, got %v", got.Any())
	}
	if len(tab.Columns()) != 1 {
		t.Errorf("Overwrite must not duplicate the column, got %v", tab.Columns())
	}
}

func TestAddColumnsNotApplicableYieldsNull(t *testing.T) {
	tab := New("t")
	e := NewEntry("a.bbx", "bbx")
	_ = tab.Append(e)

	inapplicable := &testCollector{
		column: Column{Name: "hdr_type", Datatype: TypeString},
		fn: func(format.Tag, format.Handle) (Value, error) {
			return Null(), errors.ErrNotApplicable
		},
	}
	logger := logging.NewTestLogger(t)
	tab.AddColumns(map[string]Collector{"hdr_type": inapplicable}, openOK, false, logger.Logger)

	if !e.Value("hdr_type").IsNull() {
		t.Error("Inapplicable collector should yield a null cell")
	}
	logger.AssertNotContains(t, "Collector failed")
}

func TestAddColumnsCollectorFailureYieldsNullAndWarns(t *testing.T) {
	tab := New("t")
	e := NewEntry("a.bbx", "bbx")
	_ = tab.Append(e)

	failing := &testCollector{
		column: Column{Name: "start_time", Datatype: TypeFloat64},
		fn: func(format.Tag, format.Handle) (Value, error) {
			return Null(), errors.New("truncated header")
		},
	}
	logger := logging.NewTestLogger(t)
	tab.AddColumns(map[string]Collector{"start_time": failing}, openOK, false, logger.Logger)

	if !e.Value("start_time").IsNull() {
		t.Error("Failed collector should yield a null cell")
	}
	logger.AssertContains(t, "Collector failed")
}

func TestAddColumnsClosesHandleOnCollectorFailure(t *testing.T) {
	tab := New("t")
	_ = tab.Append(NewEntry("a.bbx", "bbx"))

	h := &testHandle{path: "a.bbx"}
	open := func(string, format.Tag) (format.Handle, error) { return h, nil }
	failing := &testCollector{
		column: Column{Name: "start_time", Datatype: TypeFloat64},
		fn: func(format.Tag, format.Handle) (Value, error) {
			return Null(), errors.New("boom")
		},
	}
	tab.AddColumns(map[string]Collector{"start_time": failing}, open, false, logging.NewNopLogger())

	if !h.closed {
		t.Error("Handle must be closed even when a collector fails")
	}
}

func TestAddColumnsOpenFailureNullsRowAndProceeds(t *testing.T) {
	tab := New("t")
	gone := NewEntry("gone.bbx", "bbx")
	ok := NewEntry("ok.bbx", "bbx")
	_ = tab.Append(gone)
	_ = tab.Append(ok)

	open := func(filename string, tag format.Tag) (format.Handle, error) {
		if filename == "gone.bbx" {
			return nil, errors.WrapIO("open", filename, os.ErrNotExist)
		}
		return &testHandle{path: filename}, nil
	}
	tab.AddColumns(map[string]Collector{"station": constCollector("station", "LoFASM4")}, open, false, logging.NewNopLogger())

	if !gone.Value("station").IsNull() {
		t.Error("Unopenable row should hold a null")
	}
	if ok.Value("station").Any() != "LoFASM4" {
		t.Error("Remaining rows should still be collected")
	}
}

type countingCodec struct {
	encodes int
}

func (c *countingCodec) Encode(w io.Writer, t *Table) error {
	c.encodes++
	_, err := w.Write([]byte("x"))
	return err
}

func (c *countingCodec) Decode(r io.Reader) (*Table, error) {
	return New("decoded"), nil
}

func TestPersistNoOpWhenClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.info")
	codec := &countingCodec{}

	tab := New("t")
	_ = tab.Append(NewEntry("a.bbx", "bbx"))

	if err := tab.Persist(path, codec); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if codec.encodes != 1 {
		t.Fatalf("Expected 1 encode, got %d", codec.encodes)
	}
	if tab.Dirty() {
		t.Error("Persist should clear the dirty flag")
	}

	// Second persist with no changes must not touch the codec.
	if err := tab.Persist(path, codec); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if codec.encodes != 1 {
		t.Errorf("Clean table should not re-encode, got %d encodes", codec.encodes)
	}
}

func TestColumnMonotonicity(t *testing.T) {
	tab := New("t")
	_ = tab.Append(NewEntry("a.bbx", "bbx"))
	tab.AddColumns(map[string]Collector{"station": constCollector("station", "x")}, openOK, false, logging.NewNopLogger())
	before := tab.ColumnNames()

	tab.AddColumns(map[string]Collector{"channel": constCollector("channel", "y")}, openOK, false, logging.NewNopLogger())
	after := tab.ColumnNames()

	seen := make(map[string]bool, len(after))
	for _, name := range after {
		seen[name] = true
	}
	for _, name := range before {
		if !seen[name] {
			t.Errorf("Column %s disappeared across an update", name)
		}
	}
}
