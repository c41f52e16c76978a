package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kilianp07/timetable/core/logger"
	"github.com/kilianp07/timetable/core/metrics"
	"github.com/kilianp07/timetable/core/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeService struct {
	mu       sync.Mutex
	calls    []string
	failAt   string
	err      error
	schedule model.Optional[[]model.ScheduleEntry]
	faculty  model.Optional[[]model.FacultyRecord]
	// hold blocks the named step until the channel is closed.
	hold    map[string]chan struct{}
	entered chan string
}

func newFakeService() *fakeService {
	return &fakeService{
		schedule: model.Some([]model.ScheduleEntry{{Day: model.Tuesday, TimeSlot: "11:00-12:00", CourseCode: "MTH101", FacultyID: "7", RoomID: "R3"}}),
		faculty:  model.Some([]model.FacultyRecord{{ID: "7", Name: "A. Sen", MaxWorkload: 18}}),
		hold:     map[string]chan struct{}{},
		entered:  make(chan string, 16),
	}
}

func (f *fakeService) step(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	hold := f.hold[name]
	f.mu.Unlock()
	f.entered <- name
	if hold != nil {
		<-hold
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if f.failAt == name {
		return f.err
	}
	return nil
}

func (f *fakeService) Generate(ctx context.Context, _ string) error {
	return f.step(ctx, StepGenerate)
}

func (f *fakeService) Negotiate(ctx context.Context, _ string) error {
	return f.step(ctx, StepNegotiate)
}

func (f *fakeService) FetchSchedule(ctx context.Context, _ string) (model.Optional[[]model.ScheduleEntry], error) {
	if err := f.step(ctx, StepFetchSchedule); err != nil {
		return model.None[[]model.ScheduleEntry](), err
	}
	return f.schedule, nil
}

func (f *fakeService) FetchFaculty(ctx context.Context) (model.Optional[[]model.FacultyRecord], error) {
	if err := f.step(ctx, StepFetchFaculty); err != nil {
		return model.None[[]model.FacultyRecord](), err
	}
	return f.faculty, nil
}

func (f *fakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordingSink struct {
	mu    sync.Mutex
	runs  []metrics.RunEvent
	steps []metrics.StepEvent
}

func (r *recordingSink) RecordRun(ev metrics.RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, ev)
	return nil
}

func (r *recordingSink) RecordStep(ev metrics.StepEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, ev)
	return nil
}

type recordingMonitor struct {
	errs []error
	tags []map[string]string
}

func (m *recordingMonitor) CaptureException(err error, tags map[string]string) {
	m.errs = append(m.errs, err)
	m.tags = append(m.tags, tags)
}

func (m *recordingMonitor) Flush(time.Duration) {}

func TestInitialStateIsIdle(t *testing.T) {
	c := New(newFakeService())
	s := c.Snapshot()
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Empty(t, s.ErrorMessage)
	assert.NotNil(t, s.Schedule)
	assert.NotNil(t, s.Faculty)
	assert.Empty(t, s.Schedule)
	assert.Empty(t, s.Faculty)
}

func TestRunSuccess(t *testing.T) {
	svc := newFakeService()
	c := New(svc)
	require.NoError(t, c.Run(context.Background(), "FYUP"))

	assert.Equal(t, Steps, svc.Calls())
	s := c.Snapshot()
	assert.Equal(t, PhaseSucceeded, s.Phase)
	assert.Empty(t, s.ErrorMessage)
	assert.Empty(t, s.Step)
	assert.Equal(t, "FYUP", s.Program)
	want, _ := svc.schedule.Get()
	assert.Equal(t, want, s.Schedule)
	fac, _ := svc.faculty.Get()
	assert.Equal(t, fac, s.Faculty)
}

func TestRunAbsentPayloadsDefaultToEmpty(t *testing.T) {
	svc := newFakeService()
	svc.schedule = model.None[[]model.ScheduleEntry]()
	svc.faculty = model.Some[[]model.FacultyRecord](nil)
	c := New(svc)
	require.NoError(t, c.Run(context.Background(), "FYUP"))

	s := c.Snapshot()
	assert.Equal(t, PhaseSucceeded, s.Phase)
	assert.NotNil(t, s.Schedule)
	assert.Empty(t, s.Schedule)
	assert.NotNil(t, s.Faculty)
	assert.Empty(t, s.Faculty)
}

func TestRunNegotiateFailureStopsPipeline(t *testing.T) {
	svc := newFakeService()
	c := New(svc)
	require.NoError(t, c.Run(context.Background(), "FYUP"))
	before := c.Snapshot()

	boom := errors.New("negotiation exploded")
	svc.mu.Lock()
	svc.calls = nil
	svc.failAt = StepNegotiate
	svc.err = boom
	svc.schedule = model.Some([]model.ScheduleEntry{{CourseCode: "NEW"}})
	svc.mu.Unlock()

	err := c.Run(context.Background(), "FYUP")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var serr *StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, StepNegotiate, serr.Step)

	assert.Equal(t, []string{StepGenerate, StepNegotiate}, svc.Calls())
	s := c.Snapshot()
	assert.Equal(t, PhaseFailed, s.Phase)
	assert.Equal(t, FailureMessage, s.ErrorMessage)
	assert.Equal(t, before.Schedule, s.Schedule)
	assert.Equal(t, before.Faculty, s.Faculty)
}

func TestRunFailureFromIdleKeepsEmptyState(t *testing.T) {
	svc := newFakeService()
	svc.failAt = StepFetchFaculty
	svc.err = errors.New("503")
	c := New(svc)
	require.Error(t, c.Run(context.Background(), "FYUP"))

	s := c.Snapshot()
	assert.Equal(t, PhaseFailed, s.Phase)
	assert.Empty(t, s.Schedule)
	assert.Empty(t, s.Faculty)
}

func TestRunClearsPreviousError(t *testing.T) {
	svc := newFakeService()
	svc.failAt = StepGenerate
	svc.err = errors.New("down")
	c := New(svc)
	require.Error(t, c.Run(context.Background(), "FYUP"))
	assert.Equal(t, FailureMessage, c.Snapshot().ErrorMessage)

	svc.mu.Lock()
	svc.failAt = ""
	svc.mu.Unlock()
	require.NoError(t, c.Run(context.Background(), "FYUP"))
	s := c.Snapshot()
	assert.Equal(t, PhaseSucceeded, s.Phase)
	assert.Empty(t, s.ErrorMessage)
}

func TestRunWhileRunningIsNoop(t *testing.T) {
	svc := newFakeService()
	release := make(chan struct{})
	svc.hold[StepGenerate] = release
	c := New(svc)

	started, err := c.Start(context.Background(), "FYUP")
	require.NoError(t, err)
	require.True(t, started)
	<-svc.entered

	assert.Equal(t, PhaseRunning, c.Snapshot().Phase)
	assert.ErrorIs(t, c.Run(context.Background(), "FYUP"), ErrAlreadyRunning)
	started, err = c.Start(context.Background(), "FYUP")
	assert.False(t, started)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(release)
	c.Wait()
	assert.Equal(t, Steps, svc.Calls())
	assert.Equal(t, PhaseSucceeded, c.Snapshot().Phase)
}

func TestRunInvalidProgram(t *testing.T) {
	svc := newFakeService()
	c := New(svc)
	assert.ErrorIs(t, c.Run(context.Background(), "  "), ErrInvalidProgram)
	assert.Empty(t, svc.Calls())
	assert.Equal(t, PhaseIdle, c.Snapshot().Phase)
}

func TestRunIgnoresCallerCancellation(t *testing.T) {
	svc := newFakeService()
	c := New(svc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, c.Run(ctx, "FYUP"))
	assert.Equal(t, PhaseSucceeded, c.Snapshot().Phase)
}

func TestCloseMidRunDropsResults(t *testing.T) {
	svc := newFakeService()
	release := make(chan struct{})
	svc.hold[StepGenerate] = release
	sink := &recordingSink{}
	c := New(svc, WithMetrics(sink))

	_, err := c.Start(context.Background(), "FYUP")
	require.NoError(t, err)
	<-svc.entered
	require.NoError(t, c.Close())
	close(release)
	c.Wait()

	assert.Equal(t, []string{StepGenerate}, svc.Calls())
	s := c.Snapshot()
	assert.Empty(t, s.Schedule)
	assert.Empty(t, s.Faculty)
	assert.Empty(t, sink.runs)
	assert.ErrorIs(t, c.Run(context.Background(), "FYUP"), ErrClosed)
}

func TestRunPublishesTransitions(t *testing.T) {
	c := New(newFakeService())
	ch := c.Bus().Subscribe()
	defer c.Bus().Unsubscribe(ch)
	require.NoError(t, c.Run(context.Background(), "FYUP"))

	var phases []Phase
	var steps []string
	for len(ch) > 0 {
		s := <-ch
		phases = append(phases, s.Phase)
		if s.Step != "" {
			steps = append(steps, s.Step)
		}
	}
	require.NotEmpty(t, phases)
	assert.Equal(t, PhaseIdle, phases[0])
	assert.Equal(t, PhaseSucceeded, phases[len(phases)-1])
	assert.Equal(t, Steps, steps)
}

func TestRunRecordsMetrics(t *testing.T) {
	svc := newFakeService()
	sink := &recordingSink{}
	c := New(svc, WithMetrics(sink), WithLogger(logger.NopLogger{}))
	require.NoError(t, c.Run(context.Background(), "FYUP"))

	require.Len(t, sink.steps, 4)
	for i, ev := range sink.steps {
		assert.Equal(t, Steps[i], ev.Step)
		assert.True(t, ev.Success)
	}
	require.Len(t, sink.runs, 1)
	assert.Equal(t, metrics.OutcomeSucceeded, sink.runs[0].Outcome)
	assert.Equal(t, 1, sink.runs[0].ScheduleEntries)
	assert.Equal(t, 1, sink.runs[0].FacultyRecords)
}

func TestFailureIsReportedToMonitor(t *testing.T) {
	svc := newFakeService()
	svc.failAt = StepFetchSchedule
	svc.err = errors.New("malformed body")
	sink := &recordingSink{}
	mon := &recordingMonitor{}
	c := New(svc, WithMetrics(sink), WithMonitor(mon))
	require.Error(t, c.Run(context.Background(), "FYUP"))

	require.Len(t, mon.errs, 1)
	assert.ErrorIs(t, mon.errs[0], svc.err)
	assert.Equal(t, StepFetchSchedule, mon.tags[0]["step"])
	require.Len(t, sink.runs, 1)
	assert.Equal(t, metrics.OutcomeFailed, sink.runs[0].Outcome)
	assert.Equal(t, StepFetchSchedule, sink.runs[0].FailedStep)
	require.Len(t, sink.steps, 3)
	assert.False(t, sink.steps[2].Success)
	// the user-facing message never carries the cause
	assert.NotContains(t, c.Snapshot().ErrorMessage, "malformed")
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New(newFakeService())
	require.NoError(t, c.Run(context.Background(), "FYUP"))
	s := c.Snapshot()
	s.Schedule[0].CourseCode = "HACKED"
	s.Faculty[0].Name = "HACKED"
	fresh := c.Snapshot()
	assert.Equal(t, "MTH101", fresh.Schedule[0].CourseCode)
	assert.Equal(t, "A. Sen", fresh.Faculty[0].Name)
}

func TestPhaseText(t *testing.T) {
	b, err := PhaseFailed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "failed", string(b))
	_, err = Phase(42).MarshalText()
	assert.Error(t, err)
}
