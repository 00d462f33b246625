package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/eduprofile/pkg/models"
)

// Scope selects which of a learner's results are analysed
type Scope string

// Analysis scopes
const (
	ScopeAll          Scope = "all"
	ScopeCurrentClass Scope = "current_class"
)

// ErrInvalidScope is returned for an unknown scope name
var ErrInvalidScope = errors.New("invalid analysis scope")

// ParseScope parses a scope name
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeAll:
		return ScopeAll, nil
	case ScopeCurrentClass:
		return ScopeCurrentClass, nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidScope, s, ScopeAll, ScopeCurrentClass)
}

func (s Scope) String() string {
	return string(s)
}

// FilterByPeriod keeps records taken inside the period. A nil period or one
// without a start date leaves the records unfiltered.
func FilterByPeriod(records []Record, period *models.ClassPeriod) []Record {
	if period == nil || period.DateFrom == nil {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if period.Contains(r.TakenAt) {
			out = append(out, r)
		}
	}
	return out
}
