// Package workflow drives the remote timetable pipeline and owns the
// session state.
//
// A run moves the controller from Idle (or a previous terminal phase) to
// Running and then to exactly one of Succeeded or Failed:
//
//	generate -> negotiate -> fetch-schedule -> fetch-faculty
//
// Each step starts only after the previous one returned successfully; the
// first failure ends the run, leaves the last good schedule and faculty in
// place and exposes a generic message. Only one run may be in progress.
// Every transition is published as a Snapshot on the controller's bus.
package workflow
