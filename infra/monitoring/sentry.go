// Package monitoring reports workflow failures to Sentry.
package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/timetable/config"
	coremon "github.com/kilianp07/timetable/core/monitoring"
)

// NewSentryMonitor initializes Sentry from cfg. A disabled configuration
// yields a NopMonitor.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if !cfg.Enabled() {
		return coremon.NopMonitor{}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return nil, err
	}
	return newFailureReporter(sentry.NewHub(client, sentry.NewScope())), nil
}

// failureReporter sends failed workflow steps to a Sentry hub. Events of the
// same step are grouped together whatever the error text.
type failureReporter struct {
	hub *sentry.Hub
}

func newFailureReporter(hub *sentry.Hub) *failureReporter {
	return &failureReporter{hub: hub}
}

func (f *failureReporter) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	f.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetTags(tags)
		if step, ok := tags["step"]; ok {
			scope.SetFingerprint([]string{"timetable-workflow", step})
		}
		f.hub.CaptureException(err)
	})
}

func (f *failureReporter) Flush(timeout time.Duration) { f.hub.Flush(timeout) }
