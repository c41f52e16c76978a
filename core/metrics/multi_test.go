package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/timetable/core/factory"
)

type recordSink struct {
	runs, steps int
	err         error
}

func (r *recordSink) RecordRun(RunEvent) error {
	r.runs++
	return r.err
}

func (r *recordSink) RecordStep(StepEvent) error {
	r.steps++
	return r.err
}

type runOnlySink struct{ runs int }

func (r *runOnlySink) RecordRun(RunEvent) error {
	r.runs++
	return nil
}

func TestMultiSinkForwards(t *testing.T) {
	s1 := &recordSink{}
	s2 := &runOnlySink{}
	m := NewMultiSink(s1, s2)
	require.NoError(t, m.RecordRun(RunEvent{Outcome: OutcomeSucceeded}))
	require.NoError(t, m.RecordStep(StepEvent{Step: "generate"}))
	assert.Equal(t, 1, s1.runs)
	assert.Equal(t, 1, s1.steps)
	assert.Equal(t, 1, s2.runs)
}

func TestMultiSinkKeepsGoingOnError(t *testing.T) {
	boom := errors.New("boom")
	bad := &recordSink{err: boom}
	good := &recordSink{}
	m := NewMultiSink(bad, good)
	assert.ErrorIs(t, m.RecordRun(RunEvent{}), boom)
	assert.Equal(t, 1, good.runs)
}

func TestNewMetricsSinkDefaultsToNop(t *testing.T) {
	s, err := NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)
}

func TestNewMetricsSinkUnknown(t *testing.T) {
	_, err := NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}})
	assert.Error(t, err)
}

func TestConfigHasSink(t *testing.T) {
	cfg := Config{Sinks: []factory.ModuleConfig{{Type: "prometheus"}}}
	assert.True(t, cfg.HasSink("prometheus"))
	assert.False(t, cfg.HasSink("influx"))
}

type closingSink struct {
	recordSink
	closed int
	err    error
}

func (c *closingSink) Close() error {
	c.closed++
	return c.err
}

func TestMultiSinkClose(t *testing.T) {
	boom := errors.New("flush failed")
	a := &closingSink{}
	b := &closingSink{err: boom}
	plain := &runOnlySink{}
	m := NewMultiSink(a, plain, b)

	assert.ErrorIs(t, m.Close(), boom)
	assert.Equal(t, 1, a.closed)
	assert.Equal(t, 1, b.closed)

	assert.NoError(t, Close(plain))
	assert.NoError(t, Close(NopSink{}))
	require.NoError(t, Close(m.Sinks[0]))
	assert.Equal(t, 2, a.closed)
}
