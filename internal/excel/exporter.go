package excel

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/eduprofile/internal/analysis"
)

// Report sheet names
const (
	SheetRecommendations = "Recommendations"
	SheetDirections      = "Directions"
	SheetWeakTopics      = "Weak topics"
)

// WriteReport renders an analysis report as an xlsx workbook
func WriteReport(w io.Writer, report *analysis.Report) error {
	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveReport writes the report workbook into dir and returns its path
func SaveReport(dir string, report *analysis.Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, ReportFileName(report))

	f, err := buildWorkbook(report)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

// ReportFileName returns the file name used for a report
func ReportFileName(report *analysis.Report) string {
	return fmt.Sprintf("analysis_%d_%s_%s.xlsx",
		report.StudentID, report.Scope, report.GeneratedAt.Format("20060102"))
}

func buildWorkbook(report *analysis.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	// The default sheet becomes the recommendations sheet
	f.SetSheetName(f.GetSheetName(0), SheetRecommendations)
	for _, name := range []string{SheetDirections, SheetWeakTopics} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeRecommendations(f, report, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeDirections(f, report, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeWeakTopics(f, report, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRecommendations(f *excelize.File, report *analysis.Report, bold int) error {
	rows := [][]interface{}{
		{"Student", report.StudentName},
		{"Student ID", report.StudentID},
		{"Scope", report.Scope.String()},
		{"Generated at", report.GeneratedAt.Format("2006-01-02 15:04")},
		{"Results analysed", report.RecordsInScope},
	}
	if report.ClassID.Valid {
		rows = append(rows, []interface{}{"Class ID", report.ClassID.Int64})
	}
	labels := len(rows)
	rows = append(rows, []interface{}{})
	for _, text := range report.Recommendations.List() {
		rows = append(rows, []interface{}{text})
	}

	if err := writeRows(f, SheetRecommendations, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetRecommendations, "A1", fmt.Sprintf("A%d", labels), bold); err != nil {
		return fmt.Errorf("failed to style recommendations: %w", err)
	}
	return f.SetColWidth(SheetRecommendations, "A", "A", 24)
}

func writeDirections(f *excelize.File, report *analysis.Report, bold int) error {
	rows := [][]interface{}{
		{"Direction", "Average score", "Level", "Forecast score", "Forecast level", "Tests", "Subjects"},
	}
	for _, d := range report.Directions {
		rows = append(rows, []interface{}{
			d.Direction.String(),
			d.AvgScore,
			d.HistLevel.ShortName(),
			d.ForecastScore,
			d.ForecastDisplay,
			d.TestsCount,
			strings.Join(d.Subjects, ", "),
		})
	}
	if err := writeRows(f, SheetDirections, rows); err != nil {
		return err
	}
	return f.SetRowStyle(SheetDirections, 1, 1, bold)
}

func writeWeakTopics(f *excelize.File, report *analysis.Report, bold int) error {
	rows := [][]interface{}{
		{"Direction", "Subject", "Topic", "Average score"},
	}
	for _, t := range report.WeakTopics {
		rows = append(rows, []interface{}{t.Direction.String(), t.Subject, t.Topic, t.Score})
	}
	if err := writeRows(f, SheetWeakTopics, rows); err != nil {
		return err
	}
	return f.SetRowStyle(SheetWeakTopics, 1, 1, bold)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
