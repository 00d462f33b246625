package models

import "time"

// ClassPeriod is the time a student spent in a class.
// A nil DateTo means the period is still open.
type ClassPeriod struct {
	ClassID  int64      `json:"class_id" db:"class_id"`
	DateFrom *time.Time `json:"date_from" db:"date_from"`
	DateTo   *time.Time `json:"date_to" db:"date_to"`
}

// Contains reports whether t falls inside the period, bounds included
func (p ClassPeriod) Contains(t time.Time) bool {
	if p.DateFrom != nil && t.Before(*p.DateFrom) {
		return false
	}
	if p.DateTo != nil && t.After(*p.DateTo) {
		return false
	}
	return true
}
