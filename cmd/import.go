package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/eduprofile/internal/excel"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import completed test results from an Excel or CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		cfg := excel.DefaultImportConfig()
		cfg.FilePath = args[0]
		if v, _ := cmd.Flags().GetString("sheet"); v != "" {
			cfg.SheetName = v
		}
		if v, _ := cmd.Flags().GetInt("start-row"); v > 0 {
			cfg.StartRow = v
		}

		result, err := excel.ImportResults(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		a.log.Info("import finished",
			"file", cfg.FilePath,
			"processed", result.TotalProcessed,
			"created", result.Created,
			"skipped", result.Skipped)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processed: %d, imported: %d, skipped: %d\n",
			result.TotalProcessed, result.Created, result.Skipped)
		for _, msg := range result.Errors {
			fmt.Fprintln(out, "  "+msg)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("sheet", "", "Worksheet to read (default: Sheet1)")
	importCmd.Flags().Int("start-row", 0, "First data row, 1-based (default: 2)")
}
