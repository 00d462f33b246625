package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/eduprofile/pkg/models"
)

// StudentRepository handles database operations for students
type StudentRepository struct{}

// NewStudentRepository creates a new repository instance
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

const studentColumns = "id, first_name, last_name, patronymic_name, class_id, telegram_id"

// GetByID returns a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	err := DB.GetContext(ctx, &student, DB.Rebind("SELECT "+studentColumns+" FROM students WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

// GetByTelegramID returns the student linked to a Telegram chat
func (r *StudentRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Student, error) {
	var student models.Student
	err := DB.GetContext(ctx, &student, DB.Rebind("SELECT "+studentColumns+" FROM students WHERE telegram_id = ?"), telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("telegram user %d: %w", telegramID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by telegram id: %w", err)
	}
	return &student, nil
}

// Save inserts the student or updates its name when it already exists.
// Class and Telegram links are left untouched on update.
func (r *StudentRepository) Save(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO students (id, first_name, last_name, patronymic_name, class_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			patronymic_name = excluded.patronymic_name
	`
	_, err := DB.ExecContext(ctx, DB.Rebind(query), s.ID, s.FirstName, s.LastName, s.PatronymicName, s.ClassID)
	if err != nil {
		return fmt.Errorf("failed to save student: %w", err)
	}
	return nil
}

// SetClass updates the current class of a student
func (r *StudentRepository) SetClass(ctx context.Context, studentID int64, classID sql.NullInt64) error {
	return r.exec(ctx, "UPDATE students SET class_id = ? WHERE id = ?", classID, studentID)
}

// LinkTelegram binds a Telegram chat to a student, releasing it from any
// other student first
func (r *StudentRepository) LinkTelegram(ctx context.Context, studentID, telegramID int64) error {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind("UPDATE students SET telegram_id = NULL WHERE telegram_id = ?"), telegramID); err != nil {
		return fmt.Errorf("failed to release telegram link: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind("UPDATE students SET telegram_id = ? WHERE id = ?"), telegramID, studentID)
	if err != nil {
		return fmt.Errorf("failed to link telegram: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("student %d: %w", studentID, ErrNotFound)
	}
	return tx.Commit()
}

func (r *StudentRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	res, err := DB.ExecContext(ctx, DB.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
