package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/timetable/api/view"
	"github.com/kilianp07/timetable/config"
	coremetrics "github.com/kilianp07/timetable/core/metrics"
	coremon "github.com/kilianp07/timetable/core/monitoring"
	"github.com/kilianp07/timetable/core/workflow"
	"github.com/kilianp07/timetable/infra/logger"
	"github.com/kilianp07/timetable/infra/metrics"
	"github.com/kilianp07/timetable/infra/monitoring"
	"github.com/kilianp07/timetable/internal/eventbus"
	"github.com/kilianp07/timetable/remote"
)

// Service wires the remote client, the workflow controller and the view.
type Service struct {
	Controller *workflow.Controller
	Server     *view.Server

	program  string
	bus      *eventbus.TypedBus[workflow.Snapshot]
	monitor  coremon.Monitor
	sink     coremetrics.MetricsSink
	phases   metrics.PhaseRecorder
	promAddr string
	log      logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	svc := &Service{
		program: cfg.Remote.Program,
		bus:     eventbus.NewTyped[workflow.Snapshot](),
		monitor: mon,
		sink:    sink,
		log:     logg,
	}
	if cfg.Metrics.HasSink("prometheus") {
		prom, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		svc.phases = prom
		svc.promAddr = cfg.Metrics.PrometheusAddress
	}

	client := remote.NewClient(cfg.Remote, nil)
	svc.Controller = workflow.New(client,
		workflow.WithLogger(logger.New("workflow")),
		workflow.WithMetrics(sink),
		workflow.WithMonitor(mon),
		workflow.WithBus(svc.bus),
	)
	handler := view.NewHandler(cfg.View, svc.Controller, cfg.Remote.Program)
	svc.Server = view.NewServer(cfg.View.Address, handler.Routes())
	return svc, nil
}

// Run triggers the initial load, then serves the view until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.phases != nil {
		metrics.StartPhaseCollector(ctx, s.bus, s.phases)
	}
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if _, err := s.Controller.Start(ctx, s.program); err != nil {
		s.log.Warnf("initial load not started: %v", err)
	}
	return s.Server.Start(ctx)
}

// RunOnce executes the pipeline synchronously and returns the resulting
// state.
func (s *Service) RunOnce(ctx context.Context) (workflow.Snapshot, error) {
	err := s.Controller.Run(ctx, s.program)
	return s.Controller.Snapshot(), err
}

// Close releases resources held by the service. A run in flight is
// discarded.
func (s *Service) Close() error {
	err := s.Controller.Close()
	s.bus.Close()
	if cerr := coremetrics.Close(s.sink); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close metrics sink: %w", cerr))
	}
	s.monitor.Flush(2 * time.Second)
	return err
}
