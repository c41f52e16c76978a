package workflow

import (
	"fmt"
	"time"

	"github.com/kilianp07/timetable/core/model"
)

// Phase is the coarse status of the controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseSucceeded
	PhaseFailed
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	if p < PhaseIdle || p > PhaseFailed {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(p.String()), nil
}

// FailureMessage is shown to users whenever a run fails, whatever the cause.
const FailureMessage = "Failed to load timetable. Check console."

// State is the session state owned by a Controller. ErrorMessage is set iff
// Phase is PhaseFailed. Schedule and Faculty hold the data of the last
// successful run.
type State struct {
	Phase        Phase                 `json:"phase"`
	ErrorMessage string                `json:"error,omitempty"`
	Step         string                `json:"step,omitempty"`
	Program      string                `json:"program,omitempty"`
	RunID        string                `json:"run_id,omitempty"`
	Schedule     []model.ScheduleEntry `json:"schedule"`
	Faculty      []model.FacultyRecord `json:"faculty"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// Snapshot is an immutable copy of State handed to readers.
type Snapshot = State

// Running reports whether a run is in progress.
func (s State) Running() bool { return s.Phase == PhaseRunning }

func (s State) clone() State {
	out := s
	out.Schedule = append(make([]model.ScheduleEntry, 0, len(s.Schedule)), s.Schedule...)
	out.Faculty = make([]model.FacultyRecord, len(s.Faculty))
	for i, f := range s.Faculty {
		f.Expertise = append(model.Expertise(nil), f.Expertise...)
		out.Faculty[i] = f
	}
	return out
}
