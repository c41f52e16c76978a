// Package metrics defines the recorders fed by the workflow controller.
// Every sink records run outcomes; sinks that also implement StepRecorder
// receive per-step timings. Sinks are built from configuration through
// NewMetricsSink, which returns a MultiSink when several are configured.
package metrics
