package classifier

import "fmt"

// MinMaxScaler rescales every feature into [0, 1] using the minimum and
// maximum observed while fitting. Values outside the fitted range are not
// clipped.
type MinMaxScaler struct {
	min   []float64
	scale []float64
}

// FitMinMax computes per-feature statistics over rows
func FitMinMax(rows [][]float64) (*MinMaxScaler, error) {
	if len(rows) == 0 {
		return nil, ErrNoSamples
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("fit scaler: %w", ErrNoFeatures)
	}

	lo := append([]float64(nil), rows[0]...)
	hi := append([]float64(nil), rows[0]...)
	for i, row := range rows[1:] {
		if len(row) != width {
			return nil, fmt.Errorf("fit scaler: row %d: %w", i+1, ErrFeatureMismatch)
		}
		for j, v := range row {
			if v < lo[j] {
				lo[j] = v
			}
			if v > hi[j] {
				hi[j] = v
			}
		}
	}

	scale := make([]float64, width)
	for j := range scale {
		// A constant feature maps to zero.
		if r := hi[j] - lo[j]; r != 0 {
			scale[j] = 1 / r
		} else {
			scale[j] = 1
		}
	}
	return &MinMaxScaler{min: lo, scale: scale}, nil
}

// Transform returns a scaled copy of row
func (s *MinMaxScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.min[j]) * s.scale[j]
	}
	return out
}

// Width returns the number of features the scaler was fitted on
func (s *MinMaxScaler) Width() int {
	return len(s.min)
}
