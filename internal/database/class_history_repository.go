package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/eduprofile/pkg/models"
)

// ClassHistoryRepository reads and records the classes a student attended
type ClassHistoryRepository struct{}

// NewClassHistoryRepository creates a new repository instance
func NewClassHistoryRepository() *ClassHistoryRepository {
	return &ClassHistoryRepository{}
}

// CurrentClassPeriod returns the period of the student's current class.
// It returns nil when the student has no current class or does not exist.
// A class without history rows yields a period with no bounds.
func (r *ClassHistoryRepository) CurrentClassPeriod(ctx context.Context, studentID int64) (*models.ClassPeriod, error) {
	var classID sql.NullInt64
	err := DB.GetContext(ctx, &classID, DB.Rebind("SELECT class_id FROM students WHERE id = ?"), studentID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !classID.Valid) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current class: %w", err)
	}

	var period models.ClassPeriod
	query := `
		SELECT class_id, date_from, date_to
		FROM student_class_history
		WHERE student_id = ? AND class_id = ?
		ORDER BY date_from DESC
		LIMIT 1
	`
	err = DB.GetContext(ctx, &period, DB.Rebind(query), studentID, classID.Int64)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.ClassPeriod{ClassID: classID.Int64}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class history: %w", err)
	}
	return &period, nil
}

// Add records a class period for a student. A nil to leaves it open.
// A period with the same start is only recorded once.
func (r *ClassHistoryRepository) Add(ctx context.Context, studentID, classID int64, from time.Time, to *time.Time) error {
	var count int
	err := DB.GetContext(ctx, &count,
		DB.Rebind("SELECT COUNT(*) FROM student_class_history WHERE student_id = ? AND class_id = ? AND date_from = ?"),
		studentID, classID, from)
	if err != nil {
		return fmt.Errorf("failed to check class history: %w", err)
	}
	if count > 0 {
		return nil
	}

	query := `
		INSERT INTO student_class_history (student_id, class_id, date_from, date_to)
		VALUES (?, ?, ?, ?)
	`
	if _, err := DB.ExecContext(ctx, DB.Rebind(query), studentID, classID, from, to); err != nil {
		return fmt.Errorf("failed to add class history: %w", err)
	}
	return nil
}
