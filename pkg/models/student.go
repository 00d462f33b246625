package models

import (
	"database/sql"
	"strings"
)

// Student is a learner whose results are analysed
type Student struct {
	ID             int64          `json:"id" db:"id"`
	FirstName      string         `json:"first_name" db:"first_name"`
	LastName       string         `json:"last_name" db:"last_name"`
	PatronymicName sql.NullString `json:"patronymic_name" db:"patronymic_name"`
	ClassID        sql.NullInt64  `json:"class_id" db:"class_id"`
	TelegramID     sql.NullInt64  `json:"telegram_id" db:"telegram_id"` // Linked Telegram chat
}

// FullName returns "Last First Patronymic" skipping empty parts
func FullName(last, first string, patronymic sql.NullString) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{last, first, patronymic.String} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// FullName returns the student's display name
func (s Student) FullName() string {
	return FullName(s.LastName, s.FirstName, s.PatronymicName)
}
