package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/eduprofile/internal/analysis"
	"github.com/example/eduprofile/internal/logger"
)

// DefaultRunTimeout bounds a single scheduled analysis pass
const DefaultRunTimeout = 30 * time.Minute

// Runner analyses every learner of the population
type Runner interface {
	RunAll(ctx context.Context, scope analysis.Scope) ([]*analysis.Report, error)
}

// Notifier interface for sending notifications
type Notifier interface {
	NotifyAnalysis(ctx context.Context, report *analysis.Report) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	notifier  Notifier
	scopes    []analysis.Scope
	timeout   time.Duration
	log       *logger.Logger
}

// New creates a new scheduler instance. notifier may be nil.
func New(runner Runner, notifier Notifier, loc *time.Location, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		notifier:  notifier,
		scopes:    []analysis.Scope{analysis.ScopeAll, analysis.ScopeCurrentClass},
		timeout:   DefaultRunTimeout,
		log:       log,
	}
}

// Start registers the analysis job on a cron schedule and runs the
// scheduler in the background
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.scheduler.Cron(schedule).Do(s.runScheduled); err != nil {
		return fmt.Errorf("schedule analysis %q: %w", schedule, err)
	}
	s.scheduler.StartAsync()
	s.log.Info("scheduler started", "schedule", schedule)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.RunNow(ctx); err != nil {
		s.log.Error("scheduled analysis failed", "error", err)
	}
}

// RunNow analyses every learner in every scope and notifies linked learners
// of their all-results analysis
func (s *Scheduler) RunNow(ctx context.Context) error {
	for _, scope := range s.scopes {
		started := time.Now()
		reports, err := s.runner.RunAll(ctx, scope)
		if err != nil {
			return fmt.Errorf("analyse scope %s: %w", scope, err)
		}
		s.log.Info("analysis pass finished",
			"scope", scope,
			"reports", len(reports),
			"elapsed", time.Since(started).String())

		if s.notifier == nil || scope != analysis.ScopeAll {
			continue
		}
		for _, report := range reports {
			if err := s.notifier.NotifyAnalysis(ctx, report); err != nil {
				s.log.Warn("failed to notify student", "student_id", report.StudentID, "error", err)
			}
		}
	}
	return nil
}
