package models

import (
	"database/sql"
	"time"
)

// TestResult is one completed test attempt joined with its student, test and subject
type TestResult struct {
	ID             int64          `json:"id" db:"id"`
	StudentID      int64          `json:"student_id" db:"student_id"`
	FirstName      string         `json:"first_name" db:"first_name"`
	LastName       string         `json:"last_name" db:"last_name"`
	PatronymicName sql.NullString `json:"patronymic_name" db:"patronymic_name"`
	TestID         int64          `json:"test_id" db:"test_id"`
	TestName       *string        `json:"test_name" db:"test_name"`
	SubjectID      int64          `json:"subject_id" db:"subject_id"`
	SubjectName    string         `json:"subject_name" db:"subject_name"`
	Score          float64        `json:"score" db:"score"` // 0-12 scale
	State          int            `json:"state" db:"state"` // 1 = completed
	TakenAt        time.Time      `json:"date_time_taken" db:"date_time_taken"`
}

// StudentTest is a row of the student_tests table
type StudentTest struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"student_id" db:"student_id"`
	TestID    int64     `json:"test_id" db:"test_id"`
	Score     float64   `json:"score" db:"score"`
	State     int       `json:"state" db:"state"`
	TakenAt   time.Time `json:"date_time_taken" db:"date_time_taken"`
}

// Test states
const (
	TestStateInProgress = 0
	TestStateCompleted  = 1
)
