package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/timetable/core/model"
)

// Step names, in execution order.
const (
	StepGenerate      = "generate"
	StepNegotiate     = "negotiate"
	StepFetchSchedule = "fetch-schedule"
	StepFetchFaculty  = "fetch-faculty"
)

// Steps lists the pipeline in execution order.
var Steps = []string{StepGenerate, StepNegotiate, StepFetchSchedule, StepFetchFaculty}

// Service is the remote timetable API driven by the controller.
type Service interface {
	Generate(ctx context.Context, program string) error
	Negotiate(ctx context.Context, program string) error
	FetchSchedule(ctx context.Context, program string) (model.Optional[[]model.ScheduleEntry], error)
	FetchFaculty(ctx context.Context) (model.Optional[[]model.FacultyRecord], error)
}

var (
	// ErrAlreadyRunning is returned when Run is invoked during a run.
	ErrAlreadyRunning = errors.New("workflow already running")
	// ErrInvalidProgram is returned for an empty program code.
	ErrInvalidProgram = errors.New("program code is required")
	// ErrClosed is returned once the controller has been discarded.
	ErrClosed = errors.New("workflow controller closed")
)

// StepError reports the step that aborted a run.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// run carries the results of one pipeline execution until it is applied.
type run struct {
	id       string
	program  string
	schedule model.Optional[[]model.ScheduleEntry]
	faculty  model.Optional[[]model.FacultyRecord]
}

type step struct {
	name string
	do   func(ctx context.Context, svc Service, r *run) error
}

// pipeline is the fixed transition table Idle -> Running -> {Succeeded|Failed}.
// A step only runs once the previous one returned without error.
var pipeline = []step{
	{name: StepGenerate, do: func(ctx context.Context, svc Service, r *run) error {
		return svc.Generate(ctx, r.program)
	}},
	{name: StepNegotiate, do: func(ctx context.Context, svc Service, r *run) error {
		return svc.Negotiate(ctx, r.program)
	}},
	{name: StepFetchSchedule, do: func(ctx context.Context, svc Service, r *run) error {
		s, err := svc.FetchSchedule(ctx, r.program)
		if err != nil {
			return err
		}
		r.schedule = s
		return nil
	}},
	{name: StepFetchFaculty, do: func(ctx context.Context, svc Service, r *run) error {
		f, err := svc.FetchFaculty(ctx)
		if err != nil {
			return err
		}
		r.faculty = f
		return nil
	}},
}
