package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/metrics"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

// PromSink records simulation outcomes in Prometheus metrics.
type PromSink struct {
	costPerKm   *prometheus.GaugeVec
	meanSoH     *prometheus.GaugeVec
	swaps       *prometheus.CounterVec
	dailyEnergy *prometheus.HistogramVec
	runs        prometheus.Counter
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	costPerKm := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleet_cost_per_km_ksh",
		Help: "Aggregate total cost of ownership per kilometre",
	}, []string{"model"})
	meanSoH := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleet_mean_soh",
		Help: "Mean end-of-run state of health across the fleet",
	}, []string{"model"})
	swaps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_swap_events_total",
		Help: "Total number of swap or recharge events",
	}, []string{"model"})
	dailyEnergy := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleet_daily_energy_kwh",
		Help:    "Fleet-wide energy drawn per simulated day",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"model"})
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_runs_total",
		Help: "Number of completed simulation runs",
	})

	s := &PromSink{costPerKm: costPerKm, meanSoH: meanSoH, swaps: swaps, dailyEnergy: dailyEnergy, runs: runs}
	for _, c := range []prometheus.Collector{costPerKm, meanSoH, swaps, dailyEnergy, runs} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordFleetResult exposes the per-model aggregates.
func (s *PromSink) RecordFleetResult(res model.FleetResult) error {
	s.costPerKm.WithLabelValues(res.ModelName).Set(res.CostPerKm)
	s.meanSoH.WithLabelValues(res.ModelName).Set(res.MeanSoH)
	s.swaps.WithLabelValues(res.ModelName).Add(float64(res.Swaps))
	return nil
}

// RecordDaySummary observes the day's fleet-wide energy draw.
func (s *PromSink) RecordDaySummary(ev coremetrics.DaySummary) error {
	s.dailyEnergy.WithLabelValues(ev.ModelName).Observe(ev.EnergyWh / 1000.0)
	return nil
}

// RecordRun counts completed runs.
func (s *PromSink) RecordRun(string, string, time.Duration) error {
	s.runs.Inc()
	return nil
}

// StartPromServer exposes /metrics on the given port until the context
// is cancelled. Intended for long horizons where an operator wants to
// watch a run live.
func StartPromServer(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
