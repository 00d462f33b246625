// Package analysis profiles a learner's test results against a model trained
// on the whole population: it forecasts every study direction, detects weak
// topics and worsening subjects and writes career-oriented recommendations.
package analysis

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/eduprofile/internal/classifier"
	"github.com/example/eduprofile/internal/logger"
	"github.com/example/eduprofile/pkg/models"
)

// ErrNoResultsInScope means the learner has no results to analyse
var ErrNoResultsInScope = errors.New("no results in scope")

// ResultLoader supplies the completed results of every learner
type ResultLoader interface {
	GetCompleted(ctx context.Context) ([]models.TestResult, error)
}

// PeriodResolver finds a learner's current class period.
// It returns nil without error when the learner has no current class.
type PeriodResolver interface {
	CurrentClassPeriod(ctx context.Context, studentID int64) (*models.ClassPeriod, error)
}

// ReportStore persists an analysis, replacing its direction and weak topic
// rows, and returns the analysis id
type ReportStore interface {
	Save(ctx context.Context, analysis *models.StudentAnalysis, directions []models.AnalysisDirection, topics []models.AnalysisWeakTopic) (int64, error)
}

// Engine runs analysis passes against its collaborators
type Engine struct {
	loader  ResultLoader
	periods PeriodResolver
	store   ReportStore
	log     *logger.Logger
	model   classifier.Config
	now     func() time.Time
}

// NewEngine creates an engine using the default model configuration
func NewEngine(loader ResultLoader, periods PeriodResolver, store ReportStore, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		loader:  loader,
		periods: periods,
		store:   store,
		log:     log,
		model:   classifier.DefaultConfig(),
		now:     time.Now,
	}
}

// Prepare loads every completed result and trains the population model
func (e *Engine) Prepare(ctx context.Context) (*Population, error) {
	results, err := e.loader.GetCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	pop, err := BuildPopulation(results, e.model)
	if err != nil {
		return nil, err
	}
	e.log.Info("population model trained",
		"records", pop.Size(),
		"topics", pop.Topics().Len(),
		"students", len(pop.StudentIDs()))
	return pop, nil
}

// Analyze builds the report of one learner from a prepared population
func (e *Engine) Analyze(ctx context.Context, pop *Population, studentID int64, scope Scope) (*Report, error) {
	log := e.log.With("student_id", studentID, "scope", scope)

	records := pop.StudentRecords(studentID)
	log.Debug("student records loaded", "records", len(records))

	var classID sql.NullInt64
	if scope == ScopeCurrentClass {
		period, err := e.periods.CurrentClassPeriod(ctx, studentID)
		if err != nil {
			return nil, fmt.Errorf("resolve class period for student %d: %w", studentID, err)
		}
		if period == nil {
			log.Debug("no current class, analysing all results")
		} else {
			classID = sql.NullInt64{Int64: period.ClassID, Valid: true}
			records = FilterByPeriod(records, period)
			log.Debug("scope filtered",
				"class_id", period.ClassID,
				"date_from", period.DateFrom,
				"date_to", period.DateTo,
				"records", len(records))
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("student %d: %w", studentID, ErrNoResultsInScope)
	}

	report := BuildReport(pop.Classify(records))
	report.Scope = scope
	report.ClassID = classID
	report.GeneratedAt = e.now()
	return report, nil
}

// Save persists a report and records the analysis id on it
func (e *Engine) Save(ctx context.Context, report *Report) (int64, error) {
	analysis, directions, topics := report.Records()
	id, err := e.store.Save(ctx, analysis, directions, topics)
	if err != nil {
		return 0, fmt.Errorf("save analysis for student %d: %w", report.StudentID, err)
	}
	report.AnalysisID = id
	e.log.Info("analysis saved",
		"student_id", report.StudentID,
		"analysis_id", id,
		"directions", len(directions),
		"weak_topics", len(topics))
	return id, nil
}

// Run performs a complete pass for one learner: train, analyse, persist
func (e *Engine) Run(ctx context.Context, studentID int64, scope Scope) (*Report, error) {
	pop, err := e.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	report, err := e.Analyze(ctx, pop, studentID, scope)
	if err != nil {
		return nil, err
	}
	if _, err := e.Save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// RunAll analyses and persists every learner of the population with a
// single trained model. Learners without results in scope are skipped.
func (e *Engine) RunAll(ctx context.Context, scope Scope) ([]*Report, error) {
	pop, err := e.Prepare(ctx)
	if err != nil {
		return nil, err
	}

	var reports []*Report
	for _, id := range pop.StudentIDs() {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := e.Analyze(ctx, pop, id, scope)
		if errors.Is(err, ErrNoResultsInScope) {
			e.log.Info("skipping student without results in scope", "student_id", id, "scope", scope)
			continue
		}
		if err != nil {
			return reports, err
		}
		if _, err := e.Save(ctx, report); err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
