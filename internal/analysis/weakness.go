package analysis

import (
	"math"
	"sort"
)

// weakTopicTolerance widens the per-direction selection of weak directions
// and weak topics around their minimum.
const weakTopicTolerance = 0.5

// WeakTopicEntry is a topic flagged as weak for the learner
type WeakTopicEntry struct {
	Direction Direction
	Subject   string
	Topic     string
	Score     float64
}

// DirectionWeakness lists the weakest topics of a lagging direction
type DirectionWeakness struct {
	Forecast DirectionForecast
	Topics   []WeakTopicEntry
}

type topicStat struct {
	direction Direction
	subject   string
	topic     string
	avgScore  float64
	count     int
}

type topicKey struct {
	direction Direction
	subject   string
	topic     string
}

// topicStats averages scores per (direction, subject, topic), rounded to two
// decimals, ordered by direction, subject and topic.
func topicStats(records []Record) []topicStat {
	sums := make(map[topicKey]float64)
	counts := make(map[topicKey]int)
	for _, r := range records {
		k := topicKey{DetectDirection(r.SubjectID), r.SubjectName, r.Topic}
		sums[k] += r.Score
		counts[k]++
	}

	stats := make([]topicStat, 0, len(sums))
	for k, sum := range sums {
		stats = append(stats, topicStat{
			direction: k.direction,
			subject:   k.subject,
			topic:     k.topic,
			avgScore:  round2(sum / float64(counts[k])),
			count:     counts[k],
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.direction != b.direction {
			return a.direction < b.direction
		}
		if a.subject != b.subject {
			return a.subject < b.subject
		}
		return a.topic < b.topic
	})
	return stats
}

// WeakTopicsByDirection finds the lagging directions and their weakest
// topics. Only learners with at least two directions are considered: the
// directions at the lowest forecast level whose average score is within
// half a point of the lowest average among them are lagging, and within each
// the topics within half a point of its weakest topic are reported.
func WeakTopicsByDirection(forecasts []DirectionForecast, records []Record) []DirectionWeakness {
	if len(forecasts) < 2 {
		return nil
	}

	minLevel := forecasts[0].ForecastLevel
	for _, f := range forecasts[1:] {
		if f.ForecastLevel < minLevel {
			minLevel = f.ForecastLevel
		}
	}

	var lowest []DirectionForecast
	minAvg := math.Inf(1)
	for _, f := range forecasts {
		if f.ForecastLevel != minLevel {
			continue
		}
		lowest = append(lowest, f)
		if f.AvgScore < minAvg {
			minAvg = f.AvgScore
		}
	}

	stats := topicStats(records)
	var out []DirectionWeakness
	for _, f := range lowest {
		if f.AvgScore > minAvg+weakTopicTolerance {
			continue
		}

		var dirStats []topicStat
		minTopic := math.Inf(1)
		for _, s := range stats {
			if s.direction != f.Direction {
				continue
			}
			dirStats = append(dirStats, s)
			if s.avgScore < minTopic {
				minTopic = s.avgScore
			}
		}
		if len(dirStats) == 0 {
			continue
		}

		w := DirectionWeakness{Forecast: f}
		for _, s := range dirStats {
			if s.avgScore <= minTopic+weakTopicTolerance {
				w.Topics = append(w.Topics, WeakTopicEntry{
					Direction: f.Direction,
					Subject:   s.subject,
					Topic:     s.topic,
					Score:     s.avgScore,
				})
			}
		}
		out = append(out, w)
	}
	return out
}

// WeakTopicsBySubject reports, for every subject, the topics whose rounded
// mean equals the subject's lowest topic mean. Subjects whose weakest topic
// is already at the high level are skipped. The direction of an entry comes
// from the first record carrying its topic.
func WeakTopicsBySubject(records []Record) []WeakTopicEntry {
	type subjectTopic struct {
		subject string
		topic   string
	}
	sums := make(map[subjectTopic]float64)
	counts := make(map[subjectTopic]int)
	topicsBySubject := make(map[string][]string)
	firstSubjectOfTopic := make(map[string]int64)

	for _, r := range records {
		k := subjectTopic{r.SubjectName, r.Topic}
		if counts[k] == 0 {
			topicsBySubject[r.SubjectName] = append(topicsBySubject[r.SubjectName], r.Topic)
		}
		sums[k] += r.Score
		counts[k]++
		if _, ok := firstSubjectOfTopic[r.Topic]; !ok {
			firstSubjectOfTopic[r.Topic] = r.SubjectID
		}
	}

	subjects := make([]string, 0, len(topicsBySubject))
	for s := range topicsBySubject {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	var out []WeakTopicEntry
	for _, subject := range subjects {
		topics := topicsBySubject[subject]
		sort.Strings(topics)

		means := make([]float64, len(topics))
		minMean := math.Inf(1)
		for i, t := range topics {
			k := subjectTopic{subject, t}
			means[i] = round2(sums[k] / float64(counts[k]))
			if means[i] < minMean {
				minMean = means[i]
			}
		}

		if ScoreToLevel(minMean) == LevelHigh {
			continue
		}

		for i, t := range topics {
			if means[i] != minMean {
				continue
			}
			out = append(out, WeakTopicEntry{
				Direction: DetectDirection(firstSubjectOfTopic[t]),
				Subject:   subject,
				Topic:     t,
				Score:     means[i],
			})
		}
	}
	return out
}

// WorseningSubjects returns the sorted names of subjects whose recent scores
// dropped at least half a point below their earlier scores. A subject needs
// five results and at least three of them before the recent tail.
func WorseningSubjects(records []Record) []string {
	bySubject := make(map[string][]Record)
	for _, r := range records {
		bySubject[r.SubjectName] = append(bySubject[r.SubjectName], r)
	}

	var out []string
	for subject, part := range bySubject {
		if len(part) < minWorsenRecords {
			continue
		}
		prior, tail, ok := splitTail(chronologicalScores(part))
		if !ok {
			continue
		}
		if mean(tail) <= mean(prior)-worseningMinDrop {
			out = append(out, subject)
		}
	}
	sort.Strings(out)
	return out
}

// chronologicalScores returns scores ordered by the time the test was taken.
// Results taken at the same moment keep their load order.
func chronologicalScores(records []Record) []float64 {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TakenAt.Before(sorted[j].TakenAt)
	})
	scores := make([]float64, len(sorted))
	for i, r := range sorted {
		scores[i] = r.Score
	}
	return scores
}

// round2 rounds half to even, so 6.125 becomes 6.12
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
