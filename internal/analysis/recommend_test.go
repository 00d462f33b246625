package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDirection(t *testing.T) {
	assert.Equal(t, DirectionHumanities, DetectDirection(1))
	assert.Equal(t, DirectionMathematical, DetectDirection(21))
	assert.Equal(t, DirectionSocial, DetectDirection(32))
	assert.Equal(t, DirectionIntegrated, DetectDirection(22))
	assert.Equal(t, DirectionOther, DetectDirection(0))
	assert.Equal(t, DirectionOther, DetectDirection(99))

	assert.Equal(t, "design, art, music, creative industries", DirectionCreative.CareerSuggestion())
	assert.Equal(t, DirectionOther.CareerSuggestion(), Direction("Unknown").CareerSuggestion())
}

func TestBuildDirectionForecasts(t *testing.T) {
	predicted := func(r Record, l Level) Record {
		r.PredictedLevel = l
		return r
	}
	records := []Record{
		predicted(rec(7, "Algebra", "Fractions", 6, 0), LevelAverage),
		predicted(rec(1, "Literature", "Poetry", 9, 1), LevelSufficient),
		predicted(rec(9, "Geometry", "Triangles", 8, 2), LevelSufficient),
		predicted(rec(1, "Literature", "Drama", 10, 3), LevelHigh),
		predicted(rec(7, "Algebra", "Equations", 7, 4), LevelSufficient),
	}

	got := BuildDirectionForecasts(records)
	require.Len(t, got, 2)

	hum := got[0]
	assert.Equal(t, DirectionHumanities, hum.Direction)
	assert.Equal(t, 9.5, hum.AvgScore)
	// mean of levels 2 and 3 rounds half to even
	assert.Equal(t, LevelSufficient, hum.HistLevel)
	assert.Equal(t, 2, hum.TestsCount)
	assert.Equal(t, []string{"Literature"}, hum.Subjects)

	mat := got[1]
	assert.Equal(t, DirectionMathematical, mat.Direction)
	assert.Equal(t, 7.0, mat.AvgScore)
	assert.Equal(t, LevelSufficient, mat.HistLevel)
	assert.Equal(t, 3, mat.TestsCount)
	assert.Equal(t, []string{"Algebra", "Geometry"}, mat.Subjects)
	// 6, 8, 7 in time order
	assert.Equal(t, 7.12, mat.ForecastScore)
	assert.Equal(t, LevelSufficient, mat.ForecastLevel)
	assert.Equal(t, "sufficient (7 points)", mat.ForecastDisplay)
}

func TestSelectPrimary(t *testing.T) {
	_, ok := SelectPrimary(nil)
	assert.False(t, ok)

	forecasts := []DirectionForecast{
		{Direction: DirectionHumanities, ForecastLevel: LevelSufficient, ForecastScore: 8.2, TestsCount: 3},
		{Direction: DirectionMathematical, ForecastLevel: LevelSufficient, ForecastScore: 8.2, TestsCount: 5},
		{Direction: DirectionNatural, ForecastLevel: LevelSufficient, ForecastScore: 7.9, TestsCount: 9},
		{Direction: DirectionSocial, ForecastLevel: LevelAverage, ForecastScore: 6, TestsCount: 20},
	}
	primary, ok := SelectPrimary(forecasts)
	require.True(t, ok)
	assert.Equal(t, DirectionMathematical, primary.Direction)
	// input order is untouched
	assert.Equal(t, DirectionHumanities, forecasts[0].Direction)
}

func TestSynthesize(t *testing.T) {
	primary := &DirectionForecast{
		Direction:       DirectionMathematical,
		AvgScore:        8.5,
		ForecastDisplay: "sufficient (9 points)",
	}
	weak := []DirectionWeakness{
		{
			Forecast: DirectionForecast{Direction: DirectionNatural, AvgScore: 5, TestsCount: 3},
			Topics: []WeakTopicEntry{
				{Subject: "Physics", Topic: "Optics", Score: 4.5},
				{Subject: "Chemistry", Topic: "Acids", Score: 4.75},
			},
		},
		{Forecast: DirectionForecast{Direction: DirectionSocial, AvgScore: 5.25, TestsCount: 1}},
	}

	got := Synthesize(primary, weak, []string{"Algebra", "Physics"})

	assert.Equal(t, "Primary educational profile: the strongest direction is «Mathematical» (average score 8.5, forecast level: sufficient (9 points)).", got.PrimaryProfile)
	assert.Equal(t, "Career suggestions: engineering, programming, data analysis, financial analytics.", got.Career)
	assert.Equal(t, "For balanced development, consider strengthening support in these directions and topics:\n"+
		"• direction «Natural» (average score 5, tests 3); lagging most: Physics, topic «Optics» (average score 4.5); Chemistry, topic «Acids» (average score 4.75)\n"+
		"• direction «Social» (average score 5.25, tests 1); lagging most: —", got.WeakDirections)
	assert.Equal(t, "Pay separate attention to the subject(s): Algebra, Physics, where the results show a downward trend.", got.WorseningSubjects)
	assert.Len(t, got.List(), 4)
}

func TestSynthesizeEmpty(t *testing.T) {
	got := Synthesize(nil, nil, nil)
	assert.Empty(t, got.PrimaryProfile)
	assert.Empty(t, got.WeakDirections)
	assert.Empty(t, got.List())

	got = Synthesize(nil, nil, []string{"Algebra"})
	assert.Equal(t, []string{got.WorseningSubjects}, got.List())
}

func TestBuildReport(t *testing.T) {
	records := []Record{
		rec(7, "Algebra", "Fractions", 11, 0),
		rec(7, "Algebra", "Equations", 10, 1),
		rec(10, "Physics", "Optics", 4, 2),
		rec(10, "Physics", "Units", 5, 3),
	}
	for i := range records {
		records[i].StudentName = "Petrov Ivan"
		records[i].PredictedLevel = records[i].Level
	}

	r := BuildReport(records)
	assert.Equal(t, int64(10), r.StudentID)
	assert.Equal(t, "Petrov Ivan", r.StudentName)
	assert.Equal(t, 4, r.RecordsInScope)
	require.NotNil(t, r.Primary)
	assert.Equal(t, DirectionMathematical, r.Primary.Direction)

	require.Len(t, r.WeakDirections, 1)
	assert.Equal(t, DirectionNatural, r.WeakDirections[0].Forecast.Direction)

	// Optics from the lagging direction, then Optics again from the subject pass
	require.Len(t, r.WeakTopics, 2)
	assert.Equal(t, "Optics", r.WeakTopics[0].Topic)
	assert.Equal(t, "Optics", r.WeakTopics[1].Topic)
	assert.Equal(t, "Physics", r.WeakTopics[1].Subject)
	assert.Empty(t, r.WorseningSubjects)

	analysis, directions, topics := r.Records()
	assert.True(t, analysis.MainProfileText.Valid)
	assert.False(t, analysis.WorseningSubjectsText.Valid)
	assert.Len(t, directions, 2)
	assert.Len(t, topics, 2)
	assert.Equal(t, "Natural", topics[0].DirectionName)
}
