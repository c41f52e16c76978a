package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/timetable/core/metrics"
)

// PromSink records workflow runs in Prometheus metrics.
type PromSink struct {
	runs     *prometheus.CounterVec
	steps    *prometheus.HistogramVec
	entries  prometheus.Gauge
	faculty  prometheus.Gauge
	phase    *prometheus.GaugeVec
	lastSeen prometheus.Gauge
}

// NewPromSink registers workflow metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_runs_total",
		Help: "Total number of timetable workflow runs by outcome",
	}, []string{"program", "outcome"}))
	if err != nil {
		return nil, err
	}
	steps, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_step_duration_seconds",
		Help:    "Duration of each remote step of the workflow",
		Buckets: prometheus.DefBuckets,
	}, []string{"step", "success"}))
	if err != nil {
		return nil, err
	}
	entries, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_schedule_entries",
		Help: "Schedule entries loaded by the last successful run",
	}))
	if err != nil {
		return nil, err
	}
	faculty, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_faculty_records",
		Help: "Faculty records loaded by the last successful run",
	}))
	if err != nil {
		return nil, err
	}
	phase, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "timetable_workflow_phase",
		Help: "Current workflow phase, 1 for the active phase",
	}, []string{"phase"}))
	if err != nil {
		return nil, err
	}
	lastSeen, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_run_timestamp_seconds",
		Help: "Start time of the last finished run",
	}))
	if err != nil {
		return nil, err
	}
	return &PromSink{runs: runs, steps: steps, entries: entries, faculty: faculty, phase: phase, lastSeen: lastSeen}, nil
}

// register adds c to reg, returning the collector already registered under the
// same descriptor when there is one.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return c, err
		}
		existing, ok := are.ExistingCollector.(T)
		if !ok {
			return c, err
		}
		return existing, nil
	}
	return c, nil
}

// RecordRun counts the run and, on success, updates the payload gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Program, string(ev.Outcome)).Inc()
	if ev.Outcome == coremetrics.OutcomeSucceeded {
		s.entries.Set(float64(ev.ScheduleEntries))
		s.faculty.Set(float64(ev.FacultyRecords))
	}
	if !ev.Time.IsZero() {
		s.lastSeen.Set(float64(ev.Time.Unix()))
	}
	return nil
}

// RecordStep observes the step duration.
func (s *PromSink) RecordStep(ev coremetrics.StepEvent) error {
	s.steps.WithLabelValues(ev.Step, strconv.FormatBool(ev.Success)).Observe(ev.Duration.Seconds())
	return nil
}

// RecordPhase marks phase as the active one among phases.
func (s *PromSink) RecordPhase(phase string, phases []string) {
	for _, p := range phases {
		v := 0.0
		if p == phase {
			v = 1
		}
		s.phase.WithLabelValues(p).Set(v)
	}
}
