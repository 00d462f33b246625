package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/eduprofile/pkg/models"
)

// TestResultRepository handles database operations for test results
type TestResultRepository struct{}

// NewTestResultRepository creates a new repository instance
func NewTestResultRepository() *TestResultRepository {
	return &TestResultRepository{}
}

// GetCompleted returns every completed test of every student joined with
// the student, test and subject, in insertion order
func (r *TestResultRepository) GetCompleted(ctx context.Context) ([]models.TestResult, error) {
	query := `
		SELECT
			st.id,
			st.student_id,
			s.first_name,
			s.last_name,
			s.patronymic_name,
			st.test_id,
			t.name AS test_name,
			subj.id AS subject_id,
			subj.name AS subject_name,
			st.score,
			st.state,
			st.date_time_taken
		FROM student_tests st
		JOIN students s ON s.id = st.student_id
		JOIN tests t ON t.id = st.test_id
		JOIN subjects subj ON subj.id = t.subject_id
		WHERE st.state = ?
		ORDER BY st.id
	`
	var results []models.TestResult
	if err := DB.SelectContext(ctx, &results, DB.Rebind(query), models.TestStateCompleted); err != nil {
		return nil, fmt.Errorf("failed to get completed results: %w", err)
	}
	return results, nil
}

// GetByStudentID returns the completed tests of one student, newest first
func (r *TestResultRepository) GetByStudentID(ctx context.Context, studentID int64) ([]models.TestResult, error) {
	query := `
		SELECT
			st.id, st.student_id, s.first_name, s.last_name, s.patronymic_name,
			st.test_id, t.name AS test_name, subj.id AS subject_id, subj.name AS subject_name,
			st.score, st.state, st.date_time_taken
		FROM student_tests st
		JOIN students s ON s.id = st.student_id
		JOIN tests t ON t.id = st.test_id
		JOIN subjects subj ON subj.id = t.subject_id
		WHERE st.state = ? AND st.student_id = ?
		ORDER BY st.date_time_taken DESC, st.id DESC
	`
	var results []models.TestResult
	if err := DB.SelectContext(ctx, &results, DB.Rebind(query), models.TestStateCompleted, studentID); err != nil {
		return nil, fmt.Errorf("failed to get results of student %d: %w", studentID, err)
	}
	return results, nil
}

// Create inserts a new student test
func (r *TestResultRepository) Create(ctx context.Context, st *models.StudentTest) error {
	if st.TakenAt.IsZero() {
		st.TakenAt = time.Now()
	}
	query := `
		INSERT INTO student_tests (student_id, test_id, score, state, date_time_taken)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	err := DB.QueryRowxContext(ctx, DB.Rebind(query),
		st.StudentID,
		st.TestID,
		st.Score,
		st.State,
		st.TakenAt,
	).Scan(&st.ID)
	if err != nil {
		return fmt.Errorf("failed to create student test: %w", err)
	}
	return nil
}
