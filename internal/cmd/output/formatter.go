// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lofasm4/lofodex/pkg/catalog"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
)

// DetectFormat resolves the output format, preferring an explicit choice and
// falling back to tables on terminals and JSON elsewhere.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(explicit)
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// Data represents tabular output: display headers plus rows of rendered
// cells.
type Data struct {
	Headers []string
	Rows    [][]string
}

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates the appropriate formatter for a format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format implements the Formatter interface for YAML output.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// TableFormatter renders Data as an aligned text table.
type TableFormatter struct{}

// Format implements the Formatter interface for table output.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	tableData, ok := data.(Data)
	if !ok {
		// Fall back to JSON for non-tabular data
		jsonFormatter := &JSONFormatter{Indent: "  "}
		return jsonFormatter.Format(w, data)
	}

	table := tablewriter.NewTable(w)
	if len(tableData.Headers) > 0 {
		headers := make([]any, len(tableData.Headers))
		for i, h := range tableData.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}
	for _, row := range tableData.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}
	return table.Render()
}

// TitleHeader renders a column name as a display header, e.g. "start_time"
// to "Start Time".
func TitleHeader(name string) string {
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(name, "_", " "))
}

// CatalogToTableData converts a catalog table to display data, structural
// columns first, null cells rendered as "-".
func CatalogToTableData(t *catalog.Table) Data {
	names := t.ColumnNames()
	headers := make([]string, len(names))
	for i, name := range names {
		headers[i] = TitleHeader(name)
	}

	rows := make([][]string, 0, t.Len())
	for _, e := range t.Entries() {
		row := make([]string, len(names))
		for i, name := range names {
			v := e.Value(name)
			if v.IsNull() {
				row[i] = "-"
			} else {
				row[i] = v.Text()
			}
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// CatalogToRecords converts a catalog table to ordered generic records for
// JSON and YAML output.
func CatalogToRecords(t *catalog.Table) []map[string]any {
	names := t.ColumnNames()
	records := make([]map[string]any, 0, t.Len())
	for _, e := range t.Entries() {
		record := make(map[string]any, len(names))
		for _, name := range names {
			record[name] = e.Value(name).Any()
		}
		records = append(records, record)
	}
	return records
}
