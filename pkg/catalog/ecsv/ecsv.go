// Package ecsv implements the catalog codec for the ECSV tabular format
// (Enhanced Character-Separated Values): a YAML header carried in comment
// lines followed by a delimited data section. It round-trips column
// datatypes, units, and table-level metadata, so catalogs written here stay
// readable by the astropy tooling that produced the instrument's existing
// .info files.
package ecsv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/lofasm4/lofodex/pkg/catalog"
	"github.com/lofasm4/lofodex/pkg/constants"
	"github.com/lofasm4/lofodex/pkg/errors"
	"github.com/lofasm4/lofodex/pkg/format"
)

const (
	signature = "%ECSV 1.0"
	schema    = "astropy-2.0"

	metaName     = "name"
	metaHasChild = "haschild"
)

// Codec reads and writes catalog tables as ECSV.
type Codec struct{}

// New returns an ECSV codec.
func New() *Codec { return &Codec{} }

// header is the YAML block carried in the comment lines before the data
// section.
type header struct {
	Datatype  []columnDef    `yaml:"datatype"`
	Delimiter string         `yaml:"delimiter,omitempty"`
	Meta      map[string]any `yaml:"meta,omitempty"`
	Schema    string         `yaml:"schema,omitempty"`
}

type columnDef struct {
	Name     string `yaml:"name"`
	Datatype string `yaml:"datatype"`
	Unit     string `yaml:"unit,omitempty"`
}

// Encode writes the table to w as ECSV with a comma-delimited data section.
func (c *Codec) Encode(w io.Writer, t *catalog.Table) error {
	cols := []columnDef{
		{Name: constants.ColumnFilename, Datatype: catalog.TypeString},
		{Name: constants.ColumnFileFormat, Datatype: catalog.TypeString},
	}
	for _, col := range t.Columns() {
		datatype := col.Datatype
		if datatype == "" {
			datatype = catalog.TypeString
		}
		cols = append(cols, columnDef{Name: col.Name, Datatype: datatype, Unit: col.Unit})
	}

	hdr := header{
		Datatype:  cols,
		Delimiter: ",",
		Meta: map[string]any{
			metaName:     t.Name(),
			metaHasChild: t.HasChildren(),
		},
		Schema: schema,
	}

	yamlData, err := yaml.Marshal(hdr)
	if err != nil {
		return errors.WrapParse("yaml", "ecsv header", err)
	}

	buf := bufio.NewWriter(w)
	fmt.Fprintf(buf, "# %s\n# ---\n", signature)
	for _, line := range strings.Split(strings.TrimRight(string(yamlData), "\n"), "\n") {
		fmt.Fprintf(buf, "# %s\n", line)
	}

	cw := csv.NewWriter(buf)
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	if err := cw.Write(names); err != nil {
		return err
	}
	for _, e := range t.Entries() {
		record := make([]string, len(cols))
		for i, col := range cols {
			record[i] = e.Value(col.Name).Text()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

// Decode reads an ECSV table from r. The header must declare the filename
// and fileformat columns; anything else fails decoding, which the catalog
// loader surfaces as a corrupt catalog.
func (c *Codec) Decode(r io.Reader) (*catalog.Table, error) {
	var yamlLines []string
	var dataLines []string
	sawSignature := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			comment := strings.TrimPrefix(strings.TrimPrefix(line, "#"), " ")
			switch {
			case strings.HasPrefix(comment, "%ECSV"):
				sawSignature = true
			case comment == "---":
				// YAML document marker
			default:
				yamlLines = append(yamlLines, comment)
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		dataLines = append(dataLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", "ecsv stream", err)
	}
	if !sawSignature {
		return nil, &errors.ParseError{Format: "ecsv", Source: "header", Message: "missing %ECSV signature"}
	}

	var hdr header
	if err := yaml.Unmarshal([]byte(strings.Join(yamlLines, "\n")), &hdr); err != nil {
		return nil, errors.WrapParse("yaml", "ecsv header", err)
	}
	if err := requireColumns(hdr.Datatype); err != nil {
		return nil, err
	}

	delimiter := ' '
	if hdr.Delimiter != "" {
		delimiter = rune(hdr.Delimiter[0])
	}

	cr := csv.NewReader(strings.NewReader(strings.Join(dataLines, "\n")))
	cr.Comma = delimiter
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", "ecsv data", err)
	}
	if len(records) == 0 {
		return nil, &errors.ParseError{Format: "ecsv", Source: "data", Message: "missing column name row"}
	}
	if err := matchNameRow(records[0], hdr.Datatype); err != nil {
		return nil, err
	}

	t := catalog.New(metaString(hdr.Meta, metaName))
	t.SetHasChildren(metaBool(hdr.Meta, metaHasChild))
	for _, col := range hdr.Datatype {
		if col.Name == constants.ColumnFilename || col.Name == constants.ColumnFileFormat {
			continue
		}
		t.AddColumn(catalog.Column{Name: col.Name, Datatype: col.Datatype, Unit: col.Unit})
	}

	for _, record := range records[1:] {
		entry, err := decodeRow(record, hdr.Datatype)
		if err != nil {
			return nil, err
		}
		if err := t.Append(entry); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// requireColumns enforces the mandatory schema.
func requireColumns(cols []columnDef) error {
	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		if col.Name == "" {
			return &errors.ParseError{Format: "ecsv", Source: "header", Message: "column with empty name"}
		}
		if seen[col.Name] {
			return &errors.ParseError{Format: "ecsv", Source: "header", Message: fmt.Sprintf("duplicate column %q", col.Name)}
		}
		seen[col.Name] = true
	}
	for _, required := range []string{constants.ColumnFilename, constants.ColumnFileFormat} {
		if !seen[required] {
			return &errors.ParseError{Format: "ecsv", Source: "header", Message: fmt.Sprintf("missing %s column", required)}
		}
	}
	return nil
}

// matchNameRow checks the data section's column name row against the header.
func matchNameRow(row []string, cols []columnDef) error {
	if len(row) != len(cols) {
		return &errors.ParseError{Format: "ecsv", Source: "data", Message: "column name row does not match header"}
	}
	for i, col := range cols {
		if row[i] != col.Name {
			return &errors.ParseError{Format: "ecsv", Source: "data", Message: fmt.Sprintf("column %d named %q, header says %q", i, row[i], col.Name)}
		}
	}
	return nil
}

// decodeRow turns one data record into a catalog entry.
func decodeRow(record []string, cols []columnDef) (*catalog.Entry, error) {
	if len(record) != len(cols) {
		return nil, &errors.ParseError{Format: "ecsv", Source: "data", Message: "row width does not match header"}
	}

	var filename string
	var tag format.Tag
	cells := make(map[string]catalog.Value, len(cols))
	for i, col := range cols {
		switch col.Name {
		case constants.ColumnFilename:
			filename = record[i]
		case constants.ColumnFileFormat:
			tag = format.Tag(record[i])
		default:
			v, err := catalog.ParseValue(record[i], col.Datatype)
			if err != nil {
				return nil, errors.WrapParse("ecsv", col.Name, err)
			}
			cells[col.Name] = v
		}
	}
	if filename == "" {
		return nil, &errors.ParseError{Format: "ecsv", Source: "data", Message: "row with empty filename"}
	}

	entry := catalog.NewEntry(filename, tag)
	for name, v := range cells {
		entry.Set(name, v)
	}
	return entry, nil
}

func metaString(meta map[string]any, key string) string {
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

func metaBool(meta map[string]any, key string) bool {
	if b, ok := meta[key].(bool); ok {
		return b
	}
	return false
}
