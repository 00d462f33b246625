package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/eduprofile/internal/classifier"
	"github.com/example/eduprofile/pkg/models"
)

// ErrEmptyPopulation means there are no completed tests to train on
var ErrEmptyPopulation = errors.New("no completed test results in the population")

// Record is a test result prepared for analysis
type Record struct {
	StudentID      int64
	StudentName    string
	SubjectID      int64
	SubjectName    string
	Topic          string
	TopicID        int
	Score          float64
	TakenAt        time.Time
	Level          Level // from the raw score
	PredictedLevel Level // from the population model
}

// Population holds every learner's records together with the topic ids and
// the model trained on them. It is built once per run and only read
// afterwards; every learner is predicted with the same model.
type Population struct {
	records []Record
	topics  *TopicIndex
	model   *classifier.Model
}

// BuildPopulation extracts topics, assigns topic ids and trains the level
// model over all results.
func BuildPopulation(results []models.TestResult, cfg classifier.Config) (*Population, error) {
	if len(results) == 0 {
		return nil, ErrEmptyPopulation
	}

	records := make([]Record, len(results))
	topics := make([]string, len(results))
	for i, r := range results {
		topics[i] = topicOf(r.TestName)
		records[i] = Record{
			StudentID:   r.StudentID,
			StudentName: models.FullName(r.LastName, r.FirstName, r.PatronymicName),
			SubjectID:   r.SubjectID,
			SubjectName: r.SubjectName,
			Topic:       topics[i],
			Score:       r.Score,
			TakenAt:     r.TakenAt,
			Level:       ScoreToLevel(r.Score),
		}
	}

	index := NewTopicIndex(topics)
	rows := make([][]float64, len(records))
	labels := make([]int, len(records))
	for i := range records {
		records[i].TopicID, _ = index.ID(records[i].Topic)
		rows[i] = features(records[i])
		labels[i] = int(records[i].Level)
	}

	model, err := classifier.Train(rows, labels, cfg)
	if err != nil {
		return nil, fmt.Errorf("train level model: %w", err)
	}

	return &Population{records: records, topics: index, model: model}, nil
}

func features(r Record) []float64 {
	return []float64{r.Score, float64(r.SubjectID), float64(r.TopicID)}
}

// StudentRecords returns copies of the records of one learner in load order
func (p *Population) StudentRecords(studentID int64) []Record {
	var out []Record
	for _, r := range p.records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out
}

// Classify returns a copy of records with PredictedLevel set by the
// population model.
func (p *Population) Classify(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.PredictedLevel = p.Predict(r)
		out[i] = r
	}
	return out
}

// Predict returns the model's level for a record
func (p *Population) Predict(r Record) Level {
	return Level(p.model.Predict(features(r)))
}

// StudentIDs returns the distinct learners in load order
func (p *Population) StudentIDs() []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, r := range p.records {
		if !seen[r.StudentID] {
			seen[r.StudentID] = true
			ids = append(ids, r.StudentID)
		}
	}
	return ids
}

// Size returns the number of records in the population
func (p *Population) Size() int {
	return len(p.records)
}

// Topics returns the topic index built for this population
func (p *Population) Topics() *TopicIndex {
	return p.topics
}
