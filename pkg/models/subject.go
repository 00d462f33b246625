package models

// Subject is a school subject; its id determines the study direction
type Subject struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Test is a test definition belonging to a subject
type Test struct {
	ID        int64   `json:"id" db:"id"`
	Name      *string `json:"name" db:"name"` // may be NULL
	SubjectID int64   `json:"subject_id" db:"subject_id"`
}
