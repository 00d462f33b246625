package models

import (
	"database/sql"
	"time"
)

// StudentAnalysis is the stored text of one analysis, keyed by
// student, scope and (for the current_class scope) class
type StudentAnalysis struct {
	ID                    int64          `json:"id" db:"id"`
	StudentID             int64          `json:"student_id" db:"student_id"`
	Scope                 string         `json:"scope" db:"scope"`
	ClassID               sql.NullInt64  `json:"class_id" db:"class_id"`
	GeneratedAt           time.Time      `json:"generated_at" db:"generated_at"`
	MainProfileText       sql.NullString `json:"main_profile_text" db:"main_profile_text"`
	CareerText            sql.NullString `json:"career_text" db:"career_text"`
	WeakDirectionsText    sql.NullString `json:"weak_directions_text" db:"weak_directions_text"`
	WorseningSubjectsText sql.NullString `json:"worsening_subjects_text" db:"worsening_subjects_text"`
}

// AnalysisDirection is the per-direction statistics row of an analysis
type AnalysisDirection struct {
	ID            int64   `json:"id" db:"id"`
	AnalysisID    int64   `json:"analysis_id" db:"analysis_id"`
	DirectionName string  `json:"direction_name" db:"direction_name"`
	AvgScore      float64 `json:"avg_score" db:"avg_score"`
	HistLevel     int     `json:"hist_level" db:"hist_level"`
	ForecastScore float64 `json:"forecast_score" db:"forecast_score"`
	ForecastLevel int     `json:"forecast_level" db:"forecast_level"`
	TestsCount    int     `json:"tests_count" db:"tests_count"`
}

// AnalysisWeakTopic is a weak topic row of an analysis
type AnalysisWeakTopic struct {
	ID            int64   `json:"id" db:"id"`
	AnalysisID    int64   `json:"analysis_id" db:"analysis_id"`
	DirectionName string  `json:"direction_name" db:"direction_name"`
	SubjectName   string  `json:"subject_name" db:"subject_name"`
	TopicName     string  `json:"topic_name" db:"topic_name"`
	TopicScore    float64 `json:"topic_score" db:"topic_score"`
}
