package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lofasm4/lofodex"
	"github.com/lofasm4/lofodex/internal/cmd/output"
	"github.com/lofasm4/lofodex/pkg/logging"
)

// showCmd prints a directory's catalog without writing anything back.
var showCmd = &cobra.Command{
	Use:   "show [directory]",
	Short: "Show a directory's catalog",
	Long: `Show scans a directory, reconciles its catalog in memory, and prints
the resulting table. The catalog file on disk is left untouched.

Examples:
  lofodex show                   # current directory, table output
  lofodex show -o json /data     # JSON output
  lofodex show -o yaml /data`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	m, err := lofodex.New(dir, lofodex.WithLogger(logging.Default()))
	if err != nil {
		return err
	}

	format := output.Format(flagOutput)
	formatter := output.NewFormatter(format)
	switch format {
	case output.FormatJSON, output.FormatYAML:
		return formatter.Format(os.Stdout, output.CatalogToRecords(m.Table()))
	default:
		return formatter.Format(os.Stdout, output.CatalogToTableData(m.Table()))
	}
}
