package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database and creates the schema
func Connect(driver, dsn string) error {
	switch driver {
	case DriverSQLite:
		if err := ensureDataDir(dsn); err != nil {
			return err
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers; a single connection also
		// keeps an in-memory database alive between queries
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db

	if err := initializeSchema(driver); err != nil {
		db.Close()
		DB = nil
		return err
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		err := DB.Close()
		DB = nil
		return err
	}
	return nil
}

func ensureDataDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(driver string) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == DriverPostgres {
		id = "BIGSERIAL PRIMARY KEY"
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"subjects", `
			CREATE TABLE IF NOT EXISTS subjects (
				id BIGINT PRIMARY KEY,
				name TEXT NOT NULL
			)`},
		{"classes", `
			CREATE TABLE IF NOT EXISTS classes (
				id ` + id + `,
				name TEXT NOT NULL
			)`},
		{"students", `
			CREATE TABLE IF NOT EXISTS students (
				id BIGINT PRIMARY KEY,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				patronymic_name TEXT,
				class_id BIGINT REFERENCES classes(id),
				telegram_id BIGINT UNIQUE
			)`},
		{"tests", `
			CREATE TABLE IF NOT EXISTS tests (
				id ` + id + `,
				name TEXT,
				subject_id BIGINT NOT NULL REFERENCES subjects(id)
			)`},
		{"student_tests", `
			CREATE TABLE IF NOT EXISTS student_tests (
				id ` + id + `,
				student_id BIGINT NOT NULL REFERENCES students(id),
				test_id BIGINT NOT NULL REFERENCES tests(id),
				score DOUBLE PRECISION NOT NULL,
				state INTEGER NOT NULL DEFAULT 0,
				date_time_taken TIMESTAMP NOT NULL
			)`},
		{"student_class_history", `
			CREATE TABLE IF NOT EXISTS student_class_history (
				id ` + id + `,
				student_id BIGINT NOT NULL REFERENCES students(id),
				class_id BIGINT NOT NULL REFERENCES classes(id),
				date_from TIMESTAMP NOT NULL,
				date_to TIMESTAMP
			)`},
		{"student_analysis", `
			CREATE TABLE IF NOT EXISTS student_analysis (
				id ` + id + `,
				student_id BIGINT NOT NULL REFERENCES students(id),
				scope TEXT NOT NULL,
				class_id BIGINT,
				generated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				main_profile_text TEXT,
				career_text TEXT,
				weak_directions_text TEXT,
				worsening_subjects_text TEXT
			)`},
		{"student_analysis_direction", `
			CREATE TABLE IF NOT EXISTS student_analysis_direction (
				id ` + id + `,
				analysis_id BIGINT NOT NULL REFERENCES student_analysis(id) ON DELETE CASCADE,
				direction_name TEXT NOT NULL,
				avg_score DOUBLE PRECISION NOT NULL,
				hist_level INTEGER NOT NULL,
				forecast_score DOUBLE PRECISION NOT NULL,
				forecast_level INTEGER NOT NULL,
				tests_count INTEGER NOT NULL
			)`},
		{"student_analysis_weak_topics", `
			CREATE TABLE IF NOT EXISTS student_analysis_weak_topics (
				id ` + id + `,
				analysis_id BIGINT NOT NULL REFERENCES student_analysis(id) ON DELETE CASCADE,
				direction_name TEXT NOT NULL,
				subject_name TEXT NOT NULL,
				topic_name TEXT NOT NULL,
				topic_score DOUBLE PRECISION NOT NULL
			)`},
	}

	for _, t := range tables {
		if _, err := DB.Exec(t.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}
	return nil
}
