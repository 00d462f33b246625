package analysis

const (
	forecastDecay    = 0.6
	driftThreshold   = 1.0
	driftCorrection  = 0.5
	worseningMinDrop = 0.5
	minForecastScore = 1.0
	maxForecastScore = 12.0
	minDriftRecords  = 4
	minWorsenRecords = 5
	minPriorRecords  = 3
	maxTailRecords   = 4
)

// ForecastDirectionScore predicts the next score of a direction from its
// scores ordered oldest first. Recent scores weigh more; a clear shift between
// the latest tail and the earlier history moves the estimate by half a point.
// An empty series yields 0, meaning no data.
func ForecastDirectionScore(scores []float64) float64 {
	n := len(scores)
	if n == 0 {
		return 0
	}
	if n <= 2 {
		return mean(scores)
	}

	var weighted, total float64
	w := 1.0
	for i := n - 1; i >= 0; i-- {
		weighted += scores[i] * w
		total += w
		w *= forecastDecay
	}
	base := weighted / total

	if n >= minDriftRecords {
		if prior, tail, ok := splitTail(scores); ok {
			priorMean, tailMean := mean(prior), mean(tail)
			switch {
			case tailMean <= priorMean-driftThreshold:
				base -= driftCorrection
			case tailMean >= priorMean+driftThreshold:
				base += driftCorrection
			}
		}
	}

	return clamp(base, minForecastScore, maxForecastScore)
}

// splitTail separates the most recent min(4, n/2) scores from the earlier
// ones. ok is false when fewer than three earlier scores remain.
func splitTail(scores []float64) (prior, tail []float64, ok bool) {
	n := len(scores)
	size := n / 2
	if size > maxTailRecords {
		size = maxTailRecords
	}
	prior, tail = scores[:n-size], scores[n-size:]
	return prior, tail, len(prior) >= minPriorRecords
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
