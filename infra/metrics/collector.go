package metrics

import (
	"context"

	"github.com/kilianp07/timetable/core/workflow"
	"github.com/kilianp07/timetable/internal/eventbus"
)

// PhaseRecorder is implemented by sinks exposing the current workflow phase.
type PhaseRecorder interface {
	RecordPhase(phase string, phases []string)
}

var phaseNames = []string{
	workflow.PhaseIdle.String(),
	workflow.PhaseRunning.String(),
	workflow.PhaseSucceeded.String(),
	workflow.PhaseFailed.String(),
}

// StartPhaseCollector subscribes to the state bus and records every phase
// change. It stops when the context is canceled or the bus is closed. The
// returned channel is closed once the collector has stopped.
func StartPhaseCollector(ctx context.Context, bus *eventbus.TypedBus[workflow.Snapshot], rec PhaseRecorder) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || rec == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-sub:
				if !ok {
					return
				}
				rec.RecordPhase(s.Phase.String(), phaseNames)
			}
		}
	}()
	return done
}
