package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DirectionForecast aggregates a learner's results in one direction
type DirectionForecast struct {
	Direction       Direction
	AvgScore        float64 // mean raw score, 2 decimals
	HistLevel       Level   // rounded mean of predicted levels
	ForecastScore   float64 // 2 decimals
	ForecastLevel   Level
	ForecastDisplay string
	TestsCount      int
	Subjects        []string
}

// BuildDirectionForecasts groups records by direction and forecasts each
// direction from its chronological scores. Directions are ordered by name.
func BuildDirectionForecasts(records []Record) []DirectionForecast {
	byDirection := make(map[Direction][]Record)
	for _, r := range records {
		d := DetectDirection(r.SubjectID)
		byDirection[d] = append(byDirection[d], r)
	}

	directions := make([]Direction, 0, len(byDirection))
	for d := range byDirection {
		directions = append(directions, d)
	}
	sort.Slice(directions, func(i, j int) bool { return directions[i] < directions[j] })

	out := make([]DirectionForecast, 0, len(directions))
	for _, d := range directions {
		part := byDirection[d]

		scores := make([]float64, len(part))
		levels := make([]float64, len(part))
		subjects := make(map[string]bool)
		for i, r := range part {
			scores[i] = r.Score
			levels[i] = float64(r.PredictedLevel)
			subjects[r.SubjectName] = true
		}

		forecast := ForecastDirectionScore(chronologicalScores(part))
		out = append(out, DirectionForecast{
			Direction:       d,
			AvgScore:        round2(mean(scores)),
			HistLevel:       Level(math.RoundToEven(round2(mean(levels)))),
			ForecastScore:   round2(forecast),
			ForecastLevel:   ScoreToLevel(forecast),
			ForecastDisplay: FormatForecastLevel(forecast),
			TestsCount:      len(part),
			Subjects:        sortedKeys(subjects),
		})
	}
	return out
}

// SelectPrimary picks the strongest direction: highest forecast level, then
// highest forecast score, then most tests. Returns false for no forecasts.
func SelectPrimary(forecasts []DirectionForecast) (DirectionForecast, bool) {
	if len(forecasts) == 0 {
		return DirectionForecast{}, false
	}
	ranked := make([]DirectionForecast, len(forecasts))
	copy(ranked, forecasts)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ForecastLevel != b.ForecastLevel {
			return a.ForecastLevel > b.ForecastLevel
		}
		if a.ForecastScore != b.ForecastScore {
			return a.ForecastScore > b.ForecastScore
		}
		return a.TestsCount > b.TestsCount
	})
	return ranked[0], true
}

// Recommendations are the text blocks of an analysis. Empty blocks were not
// produced for this learner.
type Recommendations struct {
	PrimaryProfile    string
	Career            string
	WeakDirections    string
	WorseningSubjects string
}

// List returns the produced blocks in their fixed order
func (r Recommendations) List() []string {
	var out []string
	for _, s := range []string{r.PrimaryProfile, r.Career, r.WeakDirections, r.WorseningSubjects} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Synthesize renders the recommendation texts
func Synthesize(primary *DirectionForecast, weak []DirectionWeakness, worsening []string) Recommendations {
	var rec Recommendations

	if primary != nil {
		rec.PrimaryProfile = fmt.Sprintf(
			"Primary educational profile: the strongest direction is «%s» (average score %s, forecast level: %s).",
			primary.Direction, formatScore(primary.AvgScore), primary.ForecastDisplay)
		rec.Career = fmt.Sprintf("Career suggestions: %s.", primary.Direction.CareerSuggestion())
	}

	var blocks []string
	for _, w := range weak {
		descs := make([]string, 0, len(w.Topics))
		for _, t := range w.Topics {
			descs = append(descs, fmt.Sprintf("%s, topic «%s» (average score %s)", t.Subject, t.Topic, formatScore(t.Score)))
		}
		topics := "—"
		if len(descs) > 0 {
			topics = strings.Join(descs, "; ")
		}
		blocks = append(blocks, fmt.Sprintf("• direction «%s» (average score %s, tests %d); lagging most: %s",
			w.Forecast.Direction, formatScore(w.Forecast.AvgScore), w.Forecast.TestsCount, topics))
	}
	if len(blocks) > 0 {
		rec.WeakDirections = "For balanced development, consider strengthening support in these directions and topics:\n" +
			strings.Join(blocks, "\n")
	}

	if len(worsening) > 0 {
		rec.WorseningSubjects = fmt.Sprintf(
			"Pay separate attention to the subject(s): %s, where the results show a downward trend.",
			strings.Join(worsening, ", "))
	}

	return rec
}

// formatScore prints a score with at most two decimals
func formatScore(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
