package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lofasm4/lofodex"
	"github.com/lofasm4/lofodex/internal/cmd/output"
)

// collectorsCmd lists the registered column collectors.
var collectorsCmd = &cobra.Command{
	Use:   "collectors",
	Short: "List the registered column collectors",
	Long: `Collectors lists the columns the catalog can derive from file headers,
with each column's datatype and unit.`,
	Args: cobra.NoArgs,
	RunE: runCollectors,
}

func init() {
	rootCmd.AddCommand(collectorsCmd)
}

func runCollectors(_ *cobra.Command, _ []string) error {
	reg, err := lofodex.DefaultCollectors()
	if err != nil {
		return err
	}

	type columnInfo struct {
		Name     string `json:"name" yaml:"name"`
		Datatype string `json:"datatype" yaml:"datatype"`
		Unit     string `json:"unit,omitempty" yaml:"unit,omitempty"`
	}

	var infos []columnInfo
	data := output.Data{Headers: []string{"Column", "Datatype", "Unit"}}
	for _, name := range reg.Names() {
		c, _ := reg.Get(name)
		col := c.Column()
		infos = append(infos, columnInfo{Name: col.Name, Datatype: col.Datatype, Unit: col.Unit})
		unit := col.Unit
		if unit == "" {
			unit = "-"
		}
		data.Rows = append(data.Rows, []string{col.Name, col.Datatype, unit})
	}

	format := output.Format(flagOutput)
	formatter := output.NewFormatter(format)
	if format == output.FormatJSON || format == output.FormatYAML {
		return formatter.Format(os.Stdout, infos)
	}
	return formatter.Format(os.Stdout, data)
}
