package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/eduprofile/pkg/models"
)

// AnalysisRepository persists analysis results
type AnalysisRepository struct{}

// NewAnalysisRepository creates a new repository instance
func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{}
}

const scopeAll = "all"

// Save upserts the analysis row for (student, scope) or, for class scoped
// analyses, (student, scope, class) and replaces its direction and weak
// topic rows. Everything happens in one transaction.
func (r *AnalysisRepository) Save(ctx context.Context, analysis *models.StudentAnalysis, directions []models.AnalysisDirection, topics []models.AnalysisWeakTopic) (int64, error) {
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := findAnalysis(ctx, tx, analysis)
	if err != nil {
		return 0, err
	}

	if id == 0 {
		query := `
			INSERT INTO student_analysis (
				student_id, scope, class_id, generated_at,
				main_profile_text, career_text, weak_directions_text, worsening_subjects_text
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`
		err = tx.QueryRowxContext(ctx, tx.Rebind(query),
			analysis.StudentID,
			analysis.Scope,
			analysis.ClassID,
			analysis.GeneratedAt,
			analysis.MainProfileText,
			analysis.CareerText,
			analysis.WeakDirectionsText,
			analysis.WorseningSubjectsText,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to create analysis: %w", err)
		}
	} else {
		query := `
			UPDATE student_analysis SET
				generated_at = ?,
				class_id = ?,
				main_profile_text = ?,
				career_text = ?,
				weak_directions_text = ?,
				worsening_subjects_text = ?
			WHERE id = ?
		`
		_, err = tx.ExecContext(ctx, tx.Rebind(query),
			analysis.GeneratedAt,
			analysis.ClassID,
			analysis.MainProfileText,
			analysis.CareerText,
			analysis.WeakDirectionsText,
			analysis.WorseningSubjectsText,
			id,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to update analysis: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM student_analysis_direction WHERE analysis_id = ?"), id); err != nil {
		return 0, fmt.Errorf("failed to clear directions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM student_analysis_weak_topics WHERE analysis_id = ?"), id); err != nil {
		return 0, fmt.Errorf("failed to clear weak topics: %w", err)
	}

	for i := range directions {
		directions[i].AnalysisID = id
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO student_analysis_direction (
				analysis_id, direction_name, avg_score, hist_level,
				forecast_score, forecast_level, tests_count
			) VALUES (
				:analysis_id, :direction_name, :avg_score, :hist_level,
				:forecast_score, :forecast_level, :tests_count
			)`, directions[i])
		if err != nil {
			return 0, fmt.Errorf("failed to insert direction %q: %w", directions[i].DirectionName, err)
		}
	}

	for i := range topics {
		topics[i].AnalysisID = id
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO student_analysis_weak_topics (
				analysis_id, direction_name, subject_name, topic_name, topic_score
			) VALUES (
				:analysis_id, :direction_name, :subject_name, :topic_name, :topic_score
			)`, topics[i])
		if err != nil {
			return 0, fmt.Errorf("failed to insert weak topic %q: %w", topics[i].TopicName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit analysis: %w", err)
	}
	analysis.ID = id
	return id, nil
}

// findAnalysis returns the id of the stored analysis matching the key of a,
// or 0 when there is none
func findAnalysis(ctx context.Context, tx *sqlx.Tx, a *models.StudentAnalysis) (int64, error) {
	var (
		query string
		args  []interface{}
	)
	switch {
	case a.Scope == scopeAll:
		query = "SELECT id FROM student_analysis WHERE student_id = ? AND scope = ?"
		args = []interface{}{a.StudentID, a.Scope}
	case a.ClassID.Valid:
		query = "SELECT id FROM student_analysis WHERE student_id = ? AND scope = ? AND class_id = ?"
		args = []interface{}{a.StudentID, a.Scope, a.ClassID.Int64}
	default:
		query = "SELECT id FROM student_analysis WHERE student_id = ? AND scope = ? AND class_id IS NULL"
		args = []interface{}{a.StudentID, a.Scope}
	}

	var id int64
	err := tx.GetContext(ctx, &id, tx.Rebind(query+" ORDER BY id LIMIT 1"), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find analysis: %w", err)
	}
	return id, nil
}

// GetLatest returns the most recent analysis of a student in a scope
func (r *AnalysisRepository) GetLatest(ctx context.Context, studentID int64, scope string) (*models.StudentAnalysis, error) {
	var analysis models.StudentAnalysis
	query := `
		SELECT id, student_id, scope, class_id, generated_at,
			main_profile_text, career_text, weak_directions_text, worsening_subjects_text
		FROM student_analysis
		WHERE student_id = ? AND scope = ?
		ORDER BY generated_at DESC, id DESC
		LIMIT 1
	`
	err := DB.GetContext(ctx, &analysis, DB.Rebind(query), studentID, scope)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis of student %d (%s): %w", studentID, scope, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &analysis, nil
}

// GetDirections returns the direction rows of an analysis
func (r *AnalysisRepository) GetDirections(ctx context.Context, analysisID int64) ([]models.AnalysisDirection, error) {
	var directions []models.AnalysisDirection
	query := `
		SELECT id, analysis_id, direction_name, avg_score, hist_level,
			forecast_score, forecast_level, tests_count
		FROM student_analysis_direction
		WHERE analysis_id = ?
		ORDER BY id
	`
	if err := DB.SelectContext(ctx, &directions, DB.Rebind(query), analysisID); err != nil {
		return nil, fmt.Errorf("failed to get analysis directions: %w", err)
	}
	return directions, nil
}

// GetWeakTopics returns the weak topic rows of an analysis
func (r *AnalysisRepository) GetWeakTopics(ctx context.Context, analysisID int64) ([]models.AnalysisWeakTopic, error) {
	var topics []models.AnalysisWeakTopic
	query := `
		SELECT id, analysis_id, direction_name, subject_name, topic_name, topic_score
		FROM student_analysis_weak_topics
		WHERE analysis_id = ?
		ORDER BY id
	`
	if err := DB.SelectContext(ctx, &topics, DB.Rebind(query), analysisID); err != nil {
		return nil, fmt.Errorf("failed to get analysis weak topics: %w", err)
	}
	return topics, nil
}
