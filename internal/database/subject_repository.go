package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/eduprofile/pkg/models"
)

// SubjectRepository handles database operations for subjects and their tests
type SubjectRepository struct{}

// NewSubjectRepository creates a new repository instance
func NewSubjectRepository() *SubjectRepository {
	return &SubjectRepository{}
}

// Save inserts a subject with an explicit id, renaming it when it exists.
// Subject ids are fixed because the study direction is derived from them.
func (r *SubjectRepository) Save(ctx context.Context, s *models.Subject) error {
	query := `
		INSERT INTO subjects (id, name) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name
	`
	if _, err := DB.ExecContext(ctx, DB.Rebind(query), s.ID, s.Name); err != nil {
		return fmt.Errorf("failed to save subject: %w", err)
	}
	return nil
}

// GetOrCreateTest returns the test with the given name in a subject,
// creating it if missing
func (r *SubjectRepository) GetOrCreateTest(ctx context.Context, subjectID int64, name string) (*models.Test, error) {
	var test models.Test
	err := DB.GetContext(ctx, &test,
		DB.Rebind("SELECT id, name, subject_id FROM tests WHERE subject_id = ? AND name = ? ORDER BY id LIMIT 1"),
		subjectID, name)
	if err == nil {
		return &test, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	test = models.Test{Name: &name, SubjectID: subjectID}
	err = DB.QueryRowxContext(ctx,
		DB.Rebind("INSERT INTO tests (name, subject_id) VALUES (?, ?) RETURNING id"),
		name, subjectID).Scan(&test.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create test: %w", err)
	}
	return &test, nil
}

// GetOrCreateClass returns the id of the class with the given name,
// creating the class if missing
func (r *SubjectRepository) GetOrCreateClass(ctx context.Context, name string) (int64, error) {
	var id int64
	err := DB.GetContext(ctx, &id, DB.Rebind("SELECT id FROM classes WHERE name = ? ORDER BY id LIMIT 1"), name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to get class: %w", err)
	}

	err = DB.QueryRowxContext(ctx, DB.Rebind("INSERT INTO classes (name) VALUES (?) RETURNING id"), name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create class: %w", err)
	}
	return id, nil
}
