package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lofasm4/lofodex"
	"github.com/lofasm4/lofodex/pkg/logging"
)

var indexColumns []string

// indexCmd builds or refreshes a directory's catalog and writes it back.
var indexCmd = &cobra.Command{
	Use:   "index [directory]",
	Short: "Build or refresh a directory's catalog",
	Long: `Index scans a directory, classifies its files, computes metadata
columns for files not yet cataloged, and writes the updated catalog file.

Files already present in the catalog keep their rows untouched.

Examples:
  lofodex index               # catalog the current directory
  lofodex index /data/night1  # catalog a specific directory
  lofodex index --column notes /data/night1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().StringSliceVar(&indexColumns, "column", nil,
		"Extra column names to request on a first build (repeatable)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	opts := []lofodex.Option{lofodex.WithLogger(logging.Default())}
	if len(indexColumns) > 0 {
		opts = append(opts, lofodex.WithColumns(indexColumns...))
	}

	m, err := lofodex.New(dir, opts...)
	if err != nil {
		return err
	}

	dirty := m.Table().Dirty()
	if err := m.Persist(); err != nil {
		return err
	}

	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "Cataloged %d file(s) in %s (%d new)\n",
			m.Table().Len(), dir, len(m.NewFiles()))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog for %s already up to date (%d file(s))\n",
			dir, m.Table().Len())
	}
	return nil
}
