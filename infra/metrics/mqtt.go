package metrics

import (
	"encoding/json"
	"time"

	coremetrics "github.com/kilianp07/timetable/core/metrics"
)

// Publisher sends a payload to an MQTT topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTTSink publishes run outcomes as JSON. Step events go to Topic + "/steps".
type MQTTSink struct {
	pub   Publisher
	topic string
}

type disconnecter interface {
	Disconnect()
}

// NewMQTTSink creates a sink publishing on topic.
func NewMQTTSink(pub Publisher, topic string) *MQTTSink {
	return &MQTTSink{pub: pub, topic: topic}
}

type runMessage struct {
	RunID           string    `json:"run_id"`
	Program         string    `json:"program"`
	Outcome         string    `json:"outcome"`
	FailedStep      string    `json:"failed_step,omitempty"`
	DurationMS      int64     `json:"duration_ms"`
	ScheduleEntries int       `json:"schedule_entries"`
	FacultyRecords  int       `json:"faculty_records"`
	Time            time.Time `json:"time"`
}

type stepMessage struct {
	RunID      string    `json:"run_id"`
	Program    string    `json:"program"`
	Step       string    `json:"step"`
	Success    bool      `json:"success"`
	DurationMS int64     `json:"duration_ms"`
	Time       time.Time `json:"time"`
}

func (s *MQTTSink) RecordRun(ev coremetrics.RunEvent) error {
	payload, err := json.Marshal(runMessage{
		RunID:           ev.RunID,
		Program:         ev.Program,
		Outcome:         string(ev.Outcome),
		FailedStep:      ev.FailedStep,
		DurationMS:      ev.Duration.Milliseconds(),
		ScheduleEntries: ev.ScheduleEntries,
		FacultyRecords:  ev.FacultyRecords,
		Time:            ev.Time,
	})
	if err != nil {
		return err
	}
	return s.pub.Publish(s.topic, payload)
}

func (s *MQTTSink) RecordStep(ev coremetrics.StepEvent) error {
	payload, err := json.Marshal(stepMessage{
		RunID:      ev.RunID,
		Program:    ev.Program,
		Step:       ev.Step,
		Success:    ev.Success,
		DurationMS: ev.Duration.Milliseconds(),
		Time:       ev.Time,
	})
	if err != nil {
		return err
	}
	return s.pub.Publish(s.topic+"/steps", payload)
}

// Close disconnects the publisher when it holds a broker connection.
func (s *MQTTSink) Close() error {
	if d, ok := s.pub.(disconnecter); ok {
		d.Disconnect()
	}
	return nil
}
