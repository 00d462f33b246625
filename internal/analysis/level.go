package analysis

import (
	"fmt"
	"math"
)

// Level is an ordinal performance bucket on the 12-point scale.
type Level int

// Performance levels, lowest first
const (
	LevelBeginning Level = iota
	LevelAverage
	LevelSufficient
	LevelHigh
)

const unknownLevel = "unknown level"

var levelNames = map[Level]string{
	LevelBeginning:  "beginning (1-3 points)",
	LevelAverage:    "average (4-6 points)",
	LevelSufficient: "sufficient (7-9 points)",
	LevelHigh:       "high (10-12 points)",
}

var levelShortNames = map[Level]string{
	LevelBeginning:  "beginning",
	LevelAverage:    "average",
	LevelSufficient: "sufficient",
	LevelHigh:       "high",
}

// ScoreToLevel maps a raw score to its level. Breakpoints are inclusive
// upper bounds: 3, 6 and 9.
func ScoreToLevel(score float64) Level {
	switch {
	case score <= 3:
		return LevelBeginning
	case score <= 6:
		return LevelAverage
	case score <= 9:
		return LevelSufficient
	default:
		return LevelHigh
	}
}

// Name returns the display name of the level including its score range
func (l Level) Name() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return unknownLevel
}

// ShortName returns the display name without the score range
func (l Level) ShortName() string {
	if name, ok := levelShortNames[l]; ok {
		return name
	}
	return unknownLevel
}

func (l Level) String() string {
	return l.ShortName()
}

// FormatForecastLevel renders a forecast score as "sufficient (8 points)".
func FormatForecastLevel(score float64) string {
	return fmt.Sprintf("%s (%d points)", ScoreToLevel(score).ShortName(), int(math.RoundToEven(score)))
}
