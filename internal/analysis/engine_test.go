package analysis

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/eduprofile/internal/classifier"
	"github.com/example/eduprofile/pkg/models"
)

type fakeLoader struct {
	results []models.TestResult
	err     error
}

func (f *fakeLoader) GetCompleted(ctx context.Context) ([]models.TestResult, error) {
	return f.results, f.err
}

type fakePeriods struct {
	periods map[int64]*models.ClassPeriod
	err     error
}

func (f *fakePeriods) CurrentClassPeriod(ctx context.Context, studentID int64) (*models.ClassPeriod, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.periods[studentID], nil
}

type fakeStore struct {
	analyses   []*models.StudentAnalysis
	directions [][]models.AnalysisDirection
	topics     [][]models.AnalysisWeakTopic
}

func (f *fakeStore) Save(ctx context.Context, a *models.StudentAnalysis, d []models.AnalysisDirection, t []models.AnalysisWeakTopic) (int64, error) {
	f.analyses = append(f.analyses, a)
	f.directions = append(f.directions, d)
	f.topics = append(f.topics, t)
	return int64(len(f.analyses)), nil
}

var (
	fixedNow   = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	classStart = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
)

func result(studentID, subjectID int64, subject, test string, score float64, takenAt time.Time) models.TestResult {
	name := test
	return models.TestResult{
		StudentID:   studentID,
		FirstName:   "Ivan",
		LastName:    fmt.Sprintf("Student%d", studentID),
		SubjectID:   subjectID,
		SubjectName: subject,
		TestName:    &name,
		Score:       score,
		State:       models.TestStateCompleted,
		TakenAt:     takenAt,
	}
}

func population() []models.TestResult {
	before := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	during := time.Date(2024, 10, 1, 10, 0, 0, 0, time.UTC)
	return []models.TestResult{
		result(10, 7, "Algebra", `Test "Fractions"`, 11, before),
		result(10, 7, "Algebra", `Test "Equations"`, 10, during),
		result(10, 10, "Physics", `Quiz «Optics»`, 4, before),
		result(10, 10, "Physics", `Quiz «Units»`, 5, during.AddDate(0, 0, 7)),
		result(11, 1, "Literature", `Essay "Poetry"`, 8, before),
		result(11, 17, "History", "Final exam", 2, before.AddDate(0, 1, 0)),
	}
}

func newTestEngine(loader *fakeLoader, periods *fakePeriods, store *fakeStore) *Engine {
	e := NewEngine(loader, periods, store, nil)
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestEngineRunAllScope(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(&fakeLoader{results: population()}, &fakePeriods{}, store)

	report, err := e.Run(context.Background(), 10, ScopeAll)
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.AnalysisID)
	assert.Equal(t, int64(10), report.StudentID)
	assert.Equal(t, "Student10 Ivan", report.StudentName)
	assert.Equal(t, 4, report.RecordsInScope)
	assert.Equal(t, fixedNow, report.GeneratedAt)
	require.NotNil(t, report.Primary)
	assert.Equal(t, DirectionMathematical, report.Primary.Direction)

	require.Len(t, store.analyses, 1)
	saved := store.analyses[0]
	assert.Equal(t, "all", saved.Scope)
	assert.False(t, saved.ClassID.Valid)
	assert.Equal(t, fixedNow, saved.GeneratedAt)
	assert.Len(t, store.directions[0], 2)
	assert.NotEmpty(t, store.topics[0])
}

func TestEngineCurrentClass(t *testing.T) {
	t.Run("filters by the class period", func(t *testing.T) {
		store := &fakeStore{}
		periods := &fakePeriods{periods: map[int64]*models.ClassPeriod{
			10: {ClassID: 3, DateFrom: &classStart},
		}}
		e := newTestEngine(&fakeLoader{results: population()}, periods, store)

		report, err := e.Run(context.Background(), 10, ScopeCurrentClass)
		require.NoError(t, err)
		assert.Equal(t, 2, report.RecordsInScope)
		assert.Equal(t, sql.NullInt64{Int64: 3, Valid: true}, report.ClassID)

		require.Len(t, store.analyses, 1)
		assert.Equal(t, "current_class", store.analyses[0].Scope)
		assert.Equal(t, int64(3), store.analyses[0].ClassID.Int64)
	})

	t.Run("no current class falls back to all results", func(t *testing.T) {
		e := newTestEngine(&fakeLoader{results: population()}, &fakePeriods{}, &fakeStore{})

		report, err := e.Run(context.Background(), 10, ScopeCurrentClass)
		require.NoError(t, err)
		assert.Equal(t, 4, report.RecordsInScope)
		assert.False(t, report.ClassID.Valid)
	})

	t.Run("class without history keeps records", func(t *testing.T) {
		periods := &fakePeriods{periods: map[int64]*models.ClassPeriod{10: {ClassID: 5}}}
		e := newTestEngine(&fakeLoader{results: population()}, periods, &fakeStore{})

		report, err := e.Run(context.Background(), 10, ScopeCurrentClass)
		require.NoError(t, err)
		assert.Equal(t, 4, report.RecordsInScope)
		assert.Equal(t, int64(5), report.ClassID.Int64)
	})

	t.Run("nothing in the period", func(t *testing.T) {
		store := &fakeStore{}
		periods := &fakePeriods{periods: map[int64]*models.ClassPeriod{
			11: {ClassID: 4, DateFrom: &classStart},
		}}
		e := newTestEngine(&fakeLoader{results: population()}, periods, store)

		_, err := e.Run(context.Background(), 11, ScopeCurrentClass)
		assert.ErrorIs(t, err, ErrNoResultsInScope)
		assert.Empty(t, store.analyses)
	})

	t.Run("period lookup fails", func(t *testing.T) {
		boom := errors.New("boom")
		e := newTestEngine(&fakeLoader{results: population()}, &fakePeriods{err: boom}, &fakeStore{})

		_, err := e.Run(context.Background(), 10, ScopeCurrentClass)
		assert.ErrorIs(t, err, boom)
	})
}

func TestEngineErrors(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(&fakeLoader{}, &fakePeriods{}, store)
	_, err := e.Run(context.Background(), 10, ScopeAll)
	assert.ErrorIs(t, err, ErrEmptyPopulation)
	assert.Empty(t, store.analyses)

	boom := errors.New("connection refused")
	e = newTestEngine(&fakeLoader{err: boom}, &fakePeriods{}, store)
	_, err = e.Run(context.Background(), 10, ScopeAll)
	assert.ErrorIs(t, err, boom)

	e = newTestEngine(&fakeLoader{results: population()}, &fakePeriods{}, store)
	_, err = e.Run(context.Background(), 99, ScopeAll)
	assert.ErrorIs(t, err, ErrNoResultsInScope)
	assert.Empty(t, store.analyses)
}

func TestEngineRunAll(t *testing.T) {
	store := &fakeStore{}
	periods := &fakePeriods{periods: map[int64]*models.ClassPeriod{
		10: {ClassID: 3, DateFrom: &classStart},
		11: {ClassID: 4, DateFrom: &classStart},
	}}
	e := newTestEngine(&fakeLoader{results: population()}, periods, store)

	reports, err := e.RunAll(context.Background(), ScopeCurrentClass)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(10), reports[0].StudentID)
	assert.Len(t, store.analyses, 1)

	reports, err = e.RunAll(context.Background(), ScopeAll)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, int64(11), reports[1].StudentID)
}

func TestEngineRunAllEmptyPopulation(t *testing.T) {
	for _, scope := range []Scope{ScopeAll, ScopeCurrentClass} {
		t.Run(string(scope), func(t *testing.T) {
			store := &fakeStore{}
			e := newTestEngine(&fakeLoader{results: []models.TestResult{}}, &fakePeriods{}, store)

			reports, err := e.RunAll(context.Background(), scope)
			assert.ErrorIs(t, err, ErrEmptyPopulation)
			assert.Nil(t, reports)
			assert.Empty(t, store.analyses)
		})
	}
}

func TestEngineNoResultsInScopeSkipsSave(t *testing.T) {
	store := &fakeStore{}
	periods := &fakePeriods{periods: map[int64]*models.ClassPeriod{
		10: {ClassID: 3, DateFrom: &fixedNow},
	}}
	e := newTestEngine(&fakeLoader{results: population()}, periods, store)

	report, err := e.Run(context.Background(), 10, ScopeCurrentClass)
	assert.ErrorIs(t, err, ErrNoResultsInScope)
	assert.Nil(t, report)
	assert.Empty(t, store.analyses)
	assert.Empty(t, store.directions)
	assert.Empty(t, store.topics)
}

func TestEngineRunAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(&fakeLoader{results: population()}, &fakePeriods{}, &fakeStore{})
	_, err := e.RunAll(ctx, ScopeAll)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPopulationTopics(t *testing.T) {
	pop, err := BuildPopulation(population(), classifier.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 6, pop.Size())
	assert.Equal(t, []int64{10, 11}, pop.StudentIDs())

	records := pop.StudentRecords(11)
	require.Len(t, records, 2)
	assert.Equal(t, "Poetry", records[0].Topic)
	assert.Equal(t, UndefinedTopic, records[1].Topic)
	// Fractions, Equations, Optics, Units, Poetry, undefined
	assert.Equal(t, 6, pop.Topics().Len())
	assert.Equal(t, 5, records[1].TopicID)
}
