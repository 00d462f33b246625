package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/eduprofile/pkg/models"
)

func TestParseScope(t *testing.T) {
	s, err := ParseScope(" Current_Class ")
	require.NoError(t, err)
	assert.Equal(t, ScopeCurrentClass, s)

	s, err = ParseScope("all")
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, s)

	_, err = ParseScope("semester")
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestFilterByPeriod(t *testing.T) {
	from := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)

	records := []Record{
		{Score: 1, TakenAt: time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)},
		{Score: 2, TakenAt: from},
		{Score: 3, TakenAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
		{Score: 4, TakenAt: to},
		{Score: 5, TakenAt: time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	scores := func(rs []Record) []float64 {
		var out []float64
		for _, r := range rs {
			out = append(out, r.Score)
		}
		return out
	}

	t.Run("nil period", func(t *testing.T) {
		assert.Len(t, FilterByPeriod(records, nil), 5)
	})

	t.Run("no start date", func(t *testing.T) {
		assert.Len(t, FilterByPeriod(records, &models.ClassPeriod{ClassID: 3, DateTo: &to}), 5)
	})

	t.Run("closed period includes bounds", func(t *testing.T) {
		got := FilterByPeriod(records, &models.ClassPeriod{ClassID: 3, DateFrom: &from, DateTo: &to})
		assert.Equal(t, []float64{2, 3, 4}, scores(got))
	})

	t.Run("open period", func(t *testing.T) {
		got := FilterByPeriod(records, &models.ClassPeriod{ClassID: 3, DateFrom: &from})
		assert.Equal(t, []float64{2, 3, 4, 5}, scores(got))
	})
}
