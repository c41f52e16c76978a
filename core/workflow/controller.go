package workflow

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/timetable/core/logger"
	"github.com/kilianp07/timetable/core/metrics"
	"github.com/kilianp07/timetable/core/model"
	"github.com/kilianp07/timetable/core/monitoring"
	"github.com/kilianp07/timetable/internal/eventbus"
)

// Controller runs the remote pipeline and owns the session State. It is the
// only writer of that state; readers use Snapshot or subscribe to the bus.
type Controller struct {
	svc     Service
	log     logger.Logger
	sink    metrics.MetricsSink
	monitor monitoring.Monitor
	bus     *eventbus.TypedBus[Snapshot]
	now     func() time.Time

	mu     sync.RWMutex
	state  State
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics sets the sink receiving run and step events.
func WithMetrics(s metrics.MetricsSink) Option {
	return func(c *Controller) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithMonitor sets the error tracker receiving failure details.
func WithMonitor(m monitoring.Monitor) Option {
	return func(c *Controller) { c.monitor = monitoring.OrNop(m) }
}

// WithBus sets the bus on which state snapshots are published.
func WithBus(b *eventbus.TypedBus[Snapshot]) Option {
	return func(c *Controller) {
		if b != nil {
			c.bus = b
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an idle controller with empty collections.
func New(svc Service, opts ...Option) *Controller {
	c := &Controller{
		svc:     svc,
		log:     logger.NopLogger{},
		sink:    metrics.NopSink{},
		monitor: monitoring.NopMonitor{},
		bus:     eventbus.NewTyped[Snapshot](),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.state = State{
		Phase:     PhaseIdle,
		Schedule:  []model.ScheduleEntry{},
		Faculty:   []model.FacultyRecord{},
		UpdatedAt: c.now(),
	}
	c.bus.Publish(c.state.clone())
	return c
}

// Bus returns the bus carrying state snapshots.
func (c *Controller) Bus() *eventbus.TypedBus[Snapshot] { return c.bus }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Run executes generate, negotiate, fetch-schedule and fetch-faculty in
// order and blocks until the run ends. It returns ErrAlreadyRunning without
// side effects while another run is in progress. The run is not cancelled
// with ctx: remote calls already issued complete on their own.
func (c *Controller) Run(ctx context.Context, program string) error {
	r, err := c.begin(program)
	if err != nil {
		return err
	}
	return c.execute(context.WithoutCancel(ctx), r)
}

// Start begins a run in the background. It reports false when a run could
// not be started, in which case err tells why.
func (c *Controller) Start(ctx context.Context, program string) (bool, error) {
	r, err := c.begin(program)
	if err != nil {
		return false, err
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.execute(context.WithoutCancel(ctx), r)
	}()
	return true, nil
}

// Wait blocks until runs started with Start have returned.
func (c *Controller) Wait() { c.wg.Wait() }

// Close discards the controller. A run in flight finishes its current remote
// call but no further step is started and its results are not applied.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Controller) begin(program string) (*run, error) {
	program = strings.TrimSpace(program)
	if program == "" {
		return nil, ErrInvalidProgram
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.state.Phase == PhaseRunning {
		return nil, ErrAlreadyRunning
	}
	r := &run{id: uuid.NewString(), program: program}
	c.state.Phase = PhaseRunning
	c.state.ErrorMessage = ""
	c.state.Step = ""
	c.state.Program = program
	c.state.RunID = r.id
	c.state.UpdatedAt = c.now()
	c.bus.Publish(c.state.clone())
	c.log.Infof("run %s started for program %s", r.id, program)
	return r, nil
}

func (c *Controller) execute(ctx context.Context, r *run) error {
	start := c.now()
	for _, s := range pipeline {
		if !c.enter(r, s.name) {
			c.log.Warnf("run %s discarded before %s", r.id, s.name)
			return ErrClosed
		}
		stepStart := c.now()
		err := s.do(ctx, c.svc, r)
		c.recordStep(metrics.StepEvent{
			RunID:    r.id,
			Program:  r.program,
			Step:     s.name,
			Success:  err == nil,
			Duration: c.now().Sub(stepStart),
			Time:     stepStart,
		})
		if err != nil {
			serr := &StepError{Step: s.name, Err: err}
			c.fail(r, serr, start)
			return serr
		}
	}
	return c.succeed(r, start)
}

// enter marks step as current. It reports false when the controller was
// closed, in which case the run must stop without touching the state.
func (c *Controller) enter(r *run, step string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.state.Step = step
	c.state.UpdatedAt = c.now()
	c.bus.Publish(c.state.clone())
	c.log.Debugw("step started", map[string]any{"run_id": r.id, "program": r.program, "step": step})
	return true
}

func (c *Controller) fail(r *run, serr *StepError, start time.Time) {
	fields := map[string]any{"run_id": r.id, "program": r.program, "step": serr.Step}
	c.log.Errorw("timetable workflow failed", serr.Err, fields)
	c.monitor.CaptureException(serr, map[string]string{"step": serr.Step, "program": r.program, "run_id": r.id})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Phase = PhaseFailed
	c.state.ErrorMessage = FailureMessage
	c.state.Step = ""
	c.state.UpdatedAt = c.now()
	c.bus.Publish(c.state.clone())
	c.mu.Unlock()

	c.recordRun(metrics.RunEvent{
		RunID:      r.id,
		Program:    r.program,
		Outcome:    metrics.OutcomeFailed,
		FailedStep: serr.Step,
		Duration:   c.now().Sub(start),
		Time:       start,
	})
}

func (c *Controller) succeed(r *run, start time.Time) error {
	schedule := r.schedule.OrElse(nil)
	if schedule == nil {
		c.log.Debugw("schedule payload absent, using empty timetable", map[string]any{"run_id": r.id})
		schedule = []model.ScheduleEntry{}
	}
	faculty := r.faculty.OrElse(nil)
	if faculty == nil {
		c.log.Debugw("faculty payload absent, using empty roster", map[string]any{"run_id": r.id})
		faculty = []model.FacultyRecord{}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.log.Warnf("run %s finished after close, results dropped", r.id)
		return ErrClosed
	}
	c.state.Phase = PhaseSucceeded
	c.state.ErrorMessage = ""
	c.state.Step = ""
	c.state.Schedule = schedule
	c.state.Faculty = faculty
	c.state.UpdatedAt = c.now()
	c.bus.Publish(c.state.clone())
	c.mu.Unlock()

	c.log.Infof("run %s succeeded: %d entries, %d faculty", r.id, len(schedule), len(faculty))
	c.recordRun(metrics.RunEvent{
		RunID:           r.id,
		Program:         r.program,
		Outcome:         metrics.OutcomeSucceeded,
		Duration:        c.now().Sub(start),
		ScheduleEntries: len(schedule),
		FacultyRecords:  len(faculty),
		Time:            start,
	})
	return nil
}

func (c *Controller) recordRun(ev metrics.RunEvent) {
	if err := c.sink.RecordRun(ev); err != nil {
		c.log.Warnf("record run metrics: %v", err)
	}
}

func (c *Controller) recordStep(ev metrics.StepEvent) {
	rec, ok := c.sink.(metrics.StepRecorder)
	if !ok {
		return
	}
	if err := rec.RecordStep(ev); err != nil {
		c.log.Warnf("record step metrics: %v", err)
	}
}
