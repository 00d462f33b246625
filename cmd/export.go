package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/eduprofile/internal/excel"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Analyse a student and write the report workbook",
	Long: "export runs and stores a fresh analysis, then writes it as an Excel workbook " +
		"to --out, or into EXPORT_DIR when --out is not given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		scope, err := resolveScope(cmd, a)
		if err != nil {
			return err
		}
		studentID, err := resolveStudent(cmd, a)
		if err != nil {
			return err
		}

		report, err := a.engine.Run(cmd.Context(), studentID, scope)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return exportReport(cmd, a.cfg.ExportDir, report)
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		if err := excel.WriteReport(f, report); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().Int64("student", 0, "Student ID (overrides STUDENT_ID)")
	exportCmd.Flags().String("scope", "", "Analysis scope: all or current_class (overrides ANALYSIS_SCOPE)")
	exportCmd.Flags().String("out", "", "Output .xlsx file")
}
