// Package constants provides shared constants used throughout the lofodex codebase.
// This includes file permissions, the catalog file naming convention, and the
// default metadata column set.
package constants

// Catalog file conventions
const (
	// CatalogSuffix is the extension that marks a directory's persisted catalog file
	CatalogSuffix = ".info"

	// TableNameSuffix is appended to a directory's base name to form the table name
	TableNameSuffix = "_info_table"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Column name constants for the mandatory catalog columns
const (
	// ColumnFilename is the unique-key column present in every catalog table
	ColumnFilename = "filename"

	// ColumnFileFormat names the format tag column present in every catalog table
	ColumnFileFormat = "fileformat"
)

// DefaultColumns returns the base metadata column set computed for freshly
// built catalogs. Callers may append their own column names on top.
func DefaultColumns() []string {
	return []string{"station", "channel", "hdr_type", "start_time"}
}
