package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/example/eduprofile/internal/analysis"
)

// printSummary writes the direction table and recommendations of a report
func printSummary(w io.Writer, report *analysis.Report) {
	fmt.Fprintf(w, "Student: %s (id %d)\n", report.StudentName, report.StudentID)
	fmt.Fprintf(w, "Scope: %s", report.Scope)
	if report.ClassID.Valid {
		fmt.Fprintf(w, " (class %d)", report.ClassID.Int64)
	}
	fmt.Fprintf(w, "\nResults analysed: %d\n\n", report.RecordsInScope)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DIRECTION\tAVG SCORE\tTESTS\tLEVEL\tFORECAST")
	for _, d := range report.Directions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			d.Direction,
			strconv.FormatFloat(d.AvgScore, 'f', 2, 64),
			d.TestsCount,
			d.HistLevel.Name(),
			d.ForecastDisplay)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recommendations:")
	for i, text := range report.Recommendations.List() {
		fmt.Fprintf(w, "%d. %s\n", i+1, text)
	}
	if report.AnalysisID != 0 {
		fmt.Fprintf(w, "\nAnalysis saved with id %d\n", report.AnalysisID)
	}
	fmt.Fprintln(w)
}
