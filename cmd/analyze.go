package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/eduprofile/internal/analysis"
	"github.com/example/eduprofile/internal/excel"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse a student's results and store the recommendations",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int64("student", 0, "Student ID (overrides STUDENT_ID)")
	analyzeCmd.Flags().String("scope", "", "Analysis scope: all or current_class (overrides ANALYSIS_SCOPE)")
	analyzeCmd.Flags().Bool("all", false, "Analyse every student with results")
	analyzeCmd.Flags().String("export", "", "Directory to write the Excel report to")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	scope, err := resolveScope(cmd, a)
	if err != nil {
		return err
	}
	exportDir, _ := cmd.Flags().GetString("export")
	out := cmd.OutOrStdout()

	if all, _ := cmd.Flags().GetBool("all"); all {
		reports, err := a.engine.RunAll(cmd.Context(), scope)
		if err != nil {
			return err
		}
		for _, report := range reports {
			printSummary(out, report)
			if err := exportReport(cmd, exportDir, report); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "Analysed students: %d\n", len(reports))
		return nil
	}

	studentID, err := resolveStudent(cmd, a)
	if err != nil {
		return err
	}

	report, err := a.engine.Run(cmd.Context(), studentID, scope)
	if errors.Is(err, analysis.ErrNoResultsInScope) {
		fmt.Fprintf(out, "Student %d has no completed tests in scope %q; nothing to analyse.\n", studentID, scope)
		return nil
	}
	if err != nil {
		return err
	}

	printSummary(out, report)
	return exportReport(cmd, exportDir, report)
}

func resolveScope(cmd *cobra.Command, a *app) (analysis.Scope, error) {
	name := a.cfg.Analysis.Scope
	if v, _ := cmd.Flags().GetString("scope"); v != "" {
		name = v
	}
	return analysis.ParseScope(name)
}

func resolveStudent(cmd *cobra.Command, a *app) (int64, error) {
	id := a.cfg.Analysis.StudentID
	if v, _ := cmd.Flags().GetInt64("student"); v != 0 {
		id = v
	}
	if id <= 0 {
		return 0, fmt.Errorf("a positive student id is required (--student or STUDENT_ID)")
	}
	return id, nil
}

func exportReport(cmd *cobra.Command, dir string, report *analysis.Report) error {
	if dir == "" {
		return nil
	}
	path, err := excel.SaveReport(dir, report)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	return nil
}
