package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelOf(score float64) int {
	switch {
	case score <= 3:
		return 0
	case score <= 6:
		return 1
	case score <= 9:
		return 2
	default:
		return 3
	}
}

func sampleData() ([][]float64, []int) {
	var rows [][]float64
	var labels []int
	for subject := 1.0; subject <= 3; subject++ {
		for score := 0.0; score <= 12; score++ {
			rows = append(rows, []float64{score, subject, float64(int(score) % 4)})
			labels = append(labels, levelOf(score))
		}
	}
	return rows, labels
}

func TestFitMinMax(t *testing.T) {
	s, err := FitMinMax([][]float64{{0, 5, 10}, {12, 5, 20}, {6, 5, 15}})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Width())

	assert.InDeltaSlice(t, []float64{0.5, 0, 0.5}, s.Transform([]float64{6, 5, 15}), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0, 1}, s.Transform([]float64{12, 5, 20}), 1e-12)
	// outside the fitted range is not clipped
	assert.InDeltaSlice(t, []float64{2, 1, 0}, s.Transform([]float64{24, 6, 10}), 1e-12)
}

func TestFitMinMaxErrors(t *testing.T) {
	_, err := FitMinMax(nil)
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = FitMinMax([][]float64{{}})
	assert.ErrorIs(t, err, ErrNoFeatures)

	_, err = FitMinMax([][]float64{{1, 2}, {1}})
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

func TestTrainFitsSeparableLevels(t *testing.T) {
	rows, labels := sampleData()
	m, err := Train(rows, labels, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 4, m.Classes())
	assert.LessOrEqual(t, m.Depth(), 6)
	for i, row := range rows {
		assert.Equal(t, labels[i], m.Predict(row), "row %v", row)
	}
}

func TestTrainIsDeterministic(t *testing.T) {
	rows, labels := sampleData()
	a, err := Train(rows, labels, DefaultConfig())
	require.NoError(t, err)
	b, err := Train(rows, labels, DefaultConfig())
	require.NoError(t, err)

	for score := -1.0; score <= 13; score += 0.25 {
		for subject := 0.0; subject <= 4; subject++ {
			row := []float64{score, subject, 1}
			assert.Equal(t, a.Predict(row), b.Predict(row))
		}
	}
}

func TestTrainRespectsMaxDepth(t *testing.T) {
	rows, labels := sampleData()
	m, err := Train(rows, labels, Config{MaxDepth: 1, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Depth())
}

func TestTrainSingleClass(t *testing.T) {
	m, err := Train([][]float64{{10, 1, 0}, {11, 2, 1}, {12, 1, 0}}, []int{3, 3, 3}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, 3, m.Predict([]float64{0, 0, 0}))
}

func TestTrainSingleSample(t *testing.T) {
	m, err := Train([][]float64{{5, 1, 0}}, []int{1}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Predict([]float64{5, 1, 0}))
	assert.Equal(t, 1, m.Predict([]float64{12, 9, 3}))
}

func TestTrainErrors(t *testing.T) {
	_, err := Train(nil, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = Train([][]float64{{1}}, []int{0, 1}, DefaultConfig())
	assert.ErrorIs(t, err, ErrFeatureMismatch)

	_, err = Train([][]float64{{1}}, []int{-1}, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestGiniAndArgmax(t *testing.T) {
	assert.Equal(t, 0.0, gini([]int{4, 0}, 4))
	assert.InDelta(t, 0.5, gini([]int{2, 2}, 4), 1e-12)
	assert.Equal(t, 0.0, gini(nil, 0))

	assert.Equal(t, 1, argmax([]int{1, 3, 3}))
	assert.Equal(t, 0, argmax([]int{0, 0}))
}
