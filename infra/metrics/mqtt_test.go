package metrics

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/timetable/core/metrics"
)

type fakePublisher struct {
	topics   []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return f.err
}

func TestMQTTSinkRecordRun(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewMQTTSink(pub, "timetable/runs")
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{
		RunID: "r1", Program: "FYUP", Outcome: coremetrics.OutcomeSucceeded,
		Duration: 2 * time.Second, ScheduleEntries: 8, FacultyRecords: 5, Time: now,
	}))

	require.Equal(t, []string{"timetable/runs"}, pub.topics)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, "r1", msg["run_id"])
	assert.Equal(t, "succeeded", msg["outcome"])
	assert.Equal(t, 2000.0, msg["duration_ms"])
	assert.Equal(t, 8.0, msg["schedule_entries"])
	assert.NotContains(t, msg, "failed_step")
}

func TestMQTTSinkRecordStep(t *testing.T) {
	pub := &fakePublisher{err: errors.New("offline")}
	sink := NewMQTTSink(pub, "timetable/runs")
	err := sink.RecordStep(coremetrics.StepEvent{RunID: "r1", Step: "negotiate", Success: false})
	assert.EqualError(t, err, "offline")
	assert.Equal(t, []string{"timetable/runs/steps"}, pub.topics)
}

type connectedPublisher struct {
	fakePublisher
	disconnects int
}

func (c *connectedPublisher) Disconnect() { c.disconnects++ }

func TestMQTTSinkClose(t *testing.T) {
	pub := &connectedPublisher{}
	sink := NewMQTTSink(pub, "timetable/runs")
	require.NoError(t, sink.Close())
	assert.Equal(t, 1, pub.disconnects)

	assert.NoError(t, NewMQTTSink(&fakePublisher{}, "timetable/runs").Close())
}
