package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lofasm4/lofodex"
	"github.com/lofasm4/lofodex/internal/cmd/output"
)

// formatsCmd lists the registered file formats.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the registered file formats",
	Long: `Formats lists the file formats the catalog classifies against, in
priority order: the first matching format wins.`,
	Args: cobra.NoArgs,
	RunE: runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(_ *cobra.Command, _ []string) error {
	reg, err := lofodex.DefaultFormats()
	if err != nil {
		return err
	}

	data := output.Data{Headers: []string{"Priority", "Format"}}
	for i, tag := range reg.Tags() {
		data.Rows = append(data.Rows, []string{strconv.Itoa(i + 1), string(tag)})
	}

	format := output.Format(flagOutput)
	formatter := output.NewFormatter(format)
	if format == output.FormatJSON || format == output.FormatYAML {
		tags := make([]string, 0, len(reg.Tags()))
		for _, tag := range reg.Tags() {
			tags = append(tags, string(tag))
		}
		return formatter.Format(os.Stdout, tags)
	}
	return formatter.Format(os.Stdout, data)
}
