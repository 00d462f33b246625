// Package classifier implements the decision tree used to predict
// performance levels: a min-max scaler fitted once over the training rows
// and a depth-bounded CART tree grown on the scaled features.
package classifier

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrNoSamples is returned when training data is empty
	ErrNoSamples = errors.New("no training samples")
	// ErrNoFeatures is returned when samples carry no features
	ErrNoFeatures = errors.New("samples have no features")
	// ErrFeatureMismatch is returned when rows have different widths
	ErrFeatureMismatch = errors.New("feature count mismatch")
	// ErrInvalidLabel is returned for negative class labels
	ErrInvalidLabel = errors.New("invalid class label")
)

// Config controls tree growth
type Config struct {
	MaxDepth int
	Seed     int64
}

// DefaultConfig returns the configuration used for level prediction
func DefaultConfig() Config {
	return Config{
		MaxDepth: 6,
		Seed:     42,
	}
}

// Model is a fitted scaler and tree. It is never modified after Train
// returns and is safe to share between predictions.
type Model struct {
	scaler  *MinMaxScaler
	root    *node
	classes int
}

// Train fits the scaler on rows and grows a tree predicting labels.
// Labels are class indices starting at zero.
func Train(rows [][]float64, labels []int, cfg Config) (*Model, error) {
	if len(rows) == 0 {
		return nil, ErrNoSamples
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("train: %d rows, %d labels: %w", len(rows), len(labels), ErrFeatureMismatch)
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}

	classes := 0
	for i, l := range labels {
		if l < 0 {
			return nil, fmt.Errorf("train: label %d at row %d: %w", l, i, ErrInvalidLabel)
		}
		if l+1 > classes {
			classes = l + 1
		}
	}

	scaler, err := FitMinMax(rows)
	if err != nil {
		return nil, err
	}

	scaled := make([][]float64, len(rows))
	for i, row := range rows {
		scaled[i] = scaler.Transform(row)
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}

	b := &treeBuilder{
		rows:     scaled,
		labels:   labels,
		classes:  classes,
		maxDepth: cfg.MaxDepth,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}

	return &Model{
		scaler:  scaler,
		root:    b.build(idx, 0),
		classes: classes,
	}, nil
}

// Predict scales row with the fitted scaler and returns the predicted class
func (m *Model) Predict(row []float64) int {
	return m.root.predict(m.scaler.Transform(row))
}

// Depth returns the depth of the fitted tree
func (m *Model) Depth() int {
	return m.root.depth()
}

// Classes returns the number of classes seen while training
func (m *Model) Classes() int {
	return m.classes
}
