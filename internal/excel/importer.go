package excel

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/eduprofile/internal/database"
	"github.com/example/eduprofile/pkg/models"
)

// Score bounds of the grading scale
const (
	MinScore = 0
	MaxScore = 12
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	StudentIDColumn   string
	LastNameColumn    string
	FirstNameColumn   string
	SubjectIDColumn   string
	SubjectNameColumn string
	TestNameColumn    string
	ScoreColumn       string
	TakenAtColumn     string
	ClassNameColumn   string // optional, current class of the student
	ClassFromColumn   string // optional, date the student joined that class
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		StudentIDColumn:   "A",
		LastNameColumn:    "B",
		FirstNameColumn:   "C",
		SubjectIDColumn:   "D",
		SubjectNameColumn: "E",
		TestNameColumn:    "F",
		ScoreColumn:       "G",
		TakenAtColumn:     "H",
		ClassNameColumn:   "I",
		ClassFromColumn:   "J",
		SheetName:         "Sheet1",
		StartRow:          2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ResultRow is one parsed line of a results file
type ResultRow struct {
	StudentID   int64
	LastName    string
	FirstName   string
	SubjectID   int64
	SubjectName string
	TestName    string
	Score       float64
	TakenAt     time.Time
	ClassName   string
	ClassFrom   *time.Time
}

var errEmptyRow = errors.New("empty row")

// ImportResults imports completed test results from an Excel or CSV file
func ImportResults(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	imp := newImporter()
	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		parsed, err := ParseRow(row, config)
		if errors.Is(err, errEmptyRow) {
			continue
		}
		result.TotalProcessed++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		if err := imp.store(ctx, parsed); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseRow validates one spreadsheet row
func ParseRow(row []string, config ImportConfig) (*ResultRow, error) {
	cell := func(column string) string {
		if column == "" {
			return ""
		}
		if idx := columnToIndex(column); idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	blank := true
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, errEmptyRow
	}

	var (
		r   ResultRow
		err error
	)
	if r.StudentID, err = strconv.ParseInt(cell(config.StudentIDColumn), 10, 64); err != nil || r.StudentID <= 0 {
		return nil, fmt.Errorf("invalid student id %q", cell(config.StudentIDColumn))
	}
	if r.SubjectID, err = strconv.ParseInt(cell(config.SubjectIDColumn), 10, 64); err != nil || r.SubjectID <= 0 {
		return nil, fmt.Errorf("invalid subject id %q", cell(config.SubjectIDColumn))
	}

	r.LastName = cell(config.LastNameColumn)
	r.FirstName = cell(config.FirstNameColumn)
	if r.LastName == "" && r.FirstName == "" {
		return nil, fmt.Errorf("student name cannot be empty")
	}
	r.SubjectName = cell(config.SubjectNameColumn)
	if r.SubjectName == "" {
		return nil, fmt.Errorf("subject name cannot be empty")
	}
	r.TestName = cell(config.TestNameColumn)

	raw := strings.ReplaceAll(cell(config.ScoreColumn), ",", ".")
	if r.Score, err = strconv.ParseFloat(raw, 64); err != nil {
		return nil, fmt.Errorf("invalid score %q", cell(config.ScoreColumn))
	}
	if math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
		return nil, fmt.Errorf("invalid score %q", cell(config.ScoreColumn))
	}
	if r.Score < MinScore || r.Score > MaxScore {
		return nil, fmt.Errorf("score %v outside %d-%d", r.Score, MinScore, MaxScore)
	}

	if r.TakenAt, err = parseTime(cell(config.TakenAtColumn)); err != nil {
		return nil, err
	}

	r.ClassName = cell(config.ClassNameColumn)
	if raw := cell(config.ClassFromColumn); raw != "" {
		if r.ClassName == "" {
			return nil, fmt.Errorf("class start date %q without a class", raw)
		}
		from, err := parseTime(raw)
		if err != nil {
			return nil, fmt.Errorf("class start: %w", err)
		}
		r.ClassFrom = &from
	}
	return &r, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	// raw Excel serial date
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// importer writes parsed rows, remembering what it already stored
type importer struct {
	students *database.StudentRepository
	subjects *database.SubjectRepository
	results  *database.TestResultRepository
	history  *database.ClassHistoryRepository

	seenStudents map[int64]bool
	seenSubjects map[int64]bool
	tests        map[string]int64
	classes      map[string]int64
	studentClass map[int64]int64
	periods      map[string]bool
}

func newImporter() *importer {
	return &importer{
		students:     database.NewStudentRepository(),
		subjects:     database.NewSubjectRepository(),
		results:      database.NewTestResultRepository(),
		history:      database.NewClassHistoryRepository(),
		seenStudents: make(map[int64]bool),
		seenSubjects: make(map[int64]bool),
		tests:        make(map[string]int64),
		classes:      make(map[string]int64),
		studentClass: make(map[int64]int64),
		periods:      make(map[string]bool),
	}
}

func (imp *importer) store(ctx context.Context, r *ResultRow) error {
	if !imp.seenStudents[r.StudentID] {
		err := imp.students.Save(ctx, &models.Student{
			ID:        r.StudentID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
		})
		if err != nil {
			return err
		}
		imp.seenStudents[r.StudentID] = true
	}

	if r.ClassName != "" {
		if err := imp.storeClass(ctx, r); err != nil {
			return err
		}
	}

	if !imp.seenSubjects[r.SubjectID] {
		if err := imp.subjects.Save(ctx, &models.Subject{ID: r.SubjectID, Name: r.SubjectName}); err != nil {
			return err
		}
		imp.seenSubjects[r.SubjectID] = true
	}

	key := fmt.Sprintf("%d|%s", r.SubjectID, r.TestName)
	testID, ok := imp.tests[key]
	if !ok {
		test, err := imp.subjects.GetOrCreateTest(ctx, r.SubjectID, r.TestName)
		if err != nil {
			return err
		}
		testID = test.ID
		imp.tests[key] = testID
	}

	return imp.results.Create(ctx, &models.StudentTest{
		StudentID: r.StudentID,
		TestID:    testID,
		Score:     r.Score,
		State:     models.TestStateCompleted,
		TakenAt:   r.TakenAt,
	})
}

// storeClass makes the row's class the student's current class. The last
// class seen for a student wins.
func (imp *importer) storeClass(ctx context.Context, r *ResultRow) error {
	classID, ok := imp.classes[r.ClassName]
	if !ok {
		id, err := imp.subjects.GetOrCreateClass(ctx, r.ClassName)
		if err != nil {
			return err
		}
		classID = id
		imp.classes[r.ClassName] = classID
	}

	if current, ok := imp.studentClass[r.StudentID]; !ok || current != classID {
		if err := imp.students.SetClass(ctx, r.StudentID, sql.NullInt64{Int64: classID, Valid: true}); err != nil {
			return fmt.Errorf("failed to set class of student %d: %w", r.StudentID, err)
		}
		imp.studentClass[r.StudentID] = classID
	}

	if r.ClassFrom == nil {
		return nil
	}
	key := fmt.Sprintf("%d|%d|%d", r.StudentID, classID, r.ClassFrom.Unix())
	if imp.periods[key] {
		return nil
	}
	if err := imp.history.Add(ctx, r.StudentID, classID, *r.ClassFrom, nil); err != nil {
		return err
	}
	imp.periods[key] = true
	return nil
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
