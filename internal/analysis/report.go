package analysis

import (
	"database/sql"
	"time"

	"github.com/example/eduprofile/pkg/models"
)

// Report is the outcome of one analysis pass for one learner
type Report struct {
	AnalysisID        int64
	StudentID         int64
	StudentName       string
	Scope             Scope
	ClassID           sql.NullInt64
	GeneratedAt       time.Time
	RecordsInScope    int
	Directions        []DirectionForecast
	Primary           *DirectionForecast
	WeakDirections    []DirectionWeakness
	WeakTopics        []WeakTopicEntry // per-direction entries followed by per-subject entries
	WorseningSubjects []string
	Recommendations   Recommendations
}

// BuildReport runs forecasting, weakness detection and recommendation
// synthesis over a learner's classified records.
func BuildReport(records []Record) *Report {
	r := &Report{
		RecordsInScope: len(records),
		Directions:     BuildDirectionForecasts(records),
	}
	if len(records) > 0 {
		r.StudentID = records[0].StudentID
		r.StudentName = records[0].StudentName
	}

	if primary, ok := SelectPrimary(r.Directions); ok {
		r.Primary = &primary
	}

	r.WeakDirections = WeakTopicsByDirection(r.Directions, records)
	for _, w := range r.WeakDirections {
		r.WeakTopics = append(r.WeakTopics, w.Topics...)
	}
	r.WeakTopics = append(r.WeakTopics, WeakTopicsBySubject(records)...)

	r.WorseningSubjects = WorseningSubjects(records)
	r.Recommendations = Synthesize(r.Primary, r.WeakDirections, r.WorseningSubjects)
	return r
}

// Records converts the report into the rows handed to the store
func (r *Report) Records() (*models.StudentAnalysis, []models.AnalysisDirection, []models.AnalysisWeakTopic) {
	analysis := &models.StudentAnalysis{
		StudentID:             r.StudentID,
		Scope:                 r.Scope.String(),
		ClassID:               r.ClassID,
		GeneratedAt:           r.GeneratedAt,
		MainProfileText:       nullString(r.Recommendations.PrimaryProfile),
		CareerText:            nullString(r.Recommendations.Career),
		WeakDirectionsText:    nullString(r.Recommendations.WeakDirections),
		WorseningSubjectsText: nullString(r.Recommendations.WorseningSubjects),
	}

	directions := make([]models.AnalysisDirection, 0, len(r.Directions))
	for _, d := range r.Directions {
		directions = append(directions, models.AnalysisDirection{
			DirectionName: d.Direction.String(),
			AvgScore:      d.AvgScore,
			HistLevel:     int(d.HistLevel),
			ForecastScore: d.ForecastScore,
			ForecastLevel: int(d.ForecastLevel),
			TestsCount:    d.TestsCount,
		})
	}

	topics := make([]models.AnalysisWeakTopic, 0, len(r.WeakTopics))
	for _, t := range r.WeakTopics {
		topics = append(topics, models.AnalysisWeakTopic{
			DirectionName: t.Direction.String(),
			SubjectName:   t.Subject,
			TopicName:     t.Topic,
			TopicScore:    t.Score,
		})
	}

	return analysis, directions, topics
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
