// Package app wires configuration, observability sinks and the
// orchestrator into a runnable simulation service.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/config"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/fleet"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/logger"
	coremetrics "github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/metrics"
	infralog "github.com/CalKK/calvin-kinyanjui-BEE5202-144859/infra/logger"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/infra/metrics"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/infra/mqtt"
)

// Service owns one configured simulation run and its observers.
type Service struct {
	Orchestrator *fleet.Orchestrator

	log         logger.Logger
	publisher   *mqtt.ProgressPublisher
	influx      *metrics.InfluxSink
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration. Each service carries a
// fresh run identifier.
func New(cfg *config.Config) (*Service, error) {
	logg := infralog.New("service")

	specs, err := cfg.ModelSpecs()
	if err != nil {
		return nil, err
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	svc := &Service{
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics)
		if is, ok := sink.(*metrics.InfluxSink); ok {
			svc.influx = is
		}
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	opts := []fleet.Option{fleet.WithRunID(uuid.NewString())}
	coeffs, err := cfg.Route.CoefficientsByChemistry()
	if err != nil {
		return nil, err
	}
	if coeffs != nil {
		opts = append(opts, fleet.WithCoefficients(coeffs))
	} else {
		opts = append(opts, fleet.WithSegments(cfg.Route.Segments))
	}

	orch, err := fleet.New(cfg.Simulation, specs, sink, logg, opts...)
	if err != nil {
		return nil, err
	}
	svc.Orchestrator = orch

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewProgressPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("progress publisher: %w", err)
		}
		svc.publisher = pub
	}
	return svc, nil
}

// Run executes the simulation and returns its result.
func (s *Service) Run(ctx context.Context) (*fleet.RunResult, error) {
	if s.promEnabled {
		promCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := metrics.StartPromServer(promCtx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.publisher != nil {
		detach := s.publisher.Attach(s.Orchestrator)
		defer detach()
	}

	res, err := s.Orchestrator.Run(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Infof("run %s: best model %s (%.2f KSh/km) in %s",
		res.RunID, res.BestModel, res.Results[res.BestModel].CostPerKm, res.Elapsed)
	return res, nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.influx != nil {
		s.influx.Close()
	}
	return nil
}
