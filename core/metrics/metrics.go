package metrics

import (
	"time"

	"github.com/kilianp07/timetable/core/factory"
)

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddress is where /metrics is served when a prometheus sink
	// is configured. Empty disables the endpoint.
	PrometheusAddress string `json:"prometheus_address"`
}

// Outcome is the terminal result of a workflow run.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// RunEvent summarizes one workflow run.
type RunEvent struct {
	RunID           string
	Program         string
	Outcome         Outcome
	FailedStep      string
	Duration        time.Duration
	ScheduleEntries int
	FacultyRecords  int
	Time            time.Time
}

// StepEvent records one remote step of a run.
type StepEvent struct {
	RunID    string
	Program  string
	Step     string
	Success  bool
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records workflow runs for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// StepRecorder is implemented by sinks able to record step timings.
type StepRecorder interface {
	RecordStep(ev StepEvent) error
}

// NopSink implements MetricsSink and StepRecorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error   { return nil }
func (NopSink) RecordStep(StepEvent) error { return nil }
