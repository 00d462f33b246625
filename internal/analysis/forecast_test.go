package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForecastDirectionScore(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single score is not clamped", []float64{0}, 0},
		{"two scores average", []float64{2, 3}, 2.5},
		{"three scores weighted", []float64{6, 7, 8}, 7.326530612244897},
		{"downward drift", []float64{10, 10, 9, 9, 4, 3}, 4.8108216971},
		{"upward drift", []float64{5, 5, 5, 9, 9, 9, 9, 9}, 9.2519788369},
		{"flat", []float64{7, 7, 7, 7, 7}, 7},
		{"clamped low", []float64{12, 12, 12, 12, 0, 0, 0, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ForecastDirectionScore(tt.scores), 1e-6)
		})
	}
}

func TestForecastNoDriftWithShortPrior(t *testing.T) {
	// four scores leave only two before the tail
	scores := []float64{12, 12, 1, 1}
	w := []float64{0.216, 0.36, 0.6, 1}
	var sum, total float64
	for i, s := range scores {
		sum += s * w[i]
		total += w[i]
	}
	assert.InDelta(t, sum/total, ForecastDirectionScore(scores), 1e-9)
}

func TestSplitTail(t *testing.T) {
	prior, tail, ok := splitTail([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, prior)
	assert.Equal(t, []float64{8, 9, 10, 11}, tail)

	_, tail, ok = splitTail([]float64{1, 2, 3, 4, 5})
	assert.True(t, ok)
	assert.Equal(t, []float64{4, 5}, tail)

	_, _, ok = splitTail([]float64{1, 2, 3, 4})
	assert.False(t, ok)
}
