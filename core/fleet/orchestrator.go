// Package fleet drives vehicle populations through the simulation
// horizon for each business model and aggregates the techno-economic
// outcome. Twins share no mutable state, so the day loop runs either
// sequentially or over a worker pool with results merged here.
package fleet

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/logger"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/metrics"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/route"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/thermal"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/twin"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/internal/eventbus"
)

// RunResult is what the simulation entry point hands back to the
// boundary: per-vehicle snapshots, per-model aggregates and the winner.
type RunResult struct {
	RunID     string
	Fleets    map[string][]model.VehicleState
	Results   map[string]model.FleetResult
	BestModel string
	Elapsed   time.Duration
}

// Orchestrator owns one simulation run.
type Orchestrator struct {
	cfg    Config
	models []model.ModelSpec

	segments []route.Segment
	coeffs   map[model.Chemistry]model.RouteEnergyCoefficients

	sink       metrics.MetricsSink
	log        logger.Logger
	bus        *eventbus.Bus[ProgressEvent]
	onProgress func(ProgressEvent)
	runID      string
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithSegments supplies the route profile; coefficients are decomposed
// once per chemistry at the start of the run.
func WithSegments(segs []route.Segment) Option {
	return func(o *Orchestrator) { o.segments = segs }
}

// WithCoefficients supplies pre-computed route coefficients per
// chemistry, bypassing the decomposer.
func WithCoefficients(c map[model.Chemistry]model.RouteEnergyCoefficients) Option {
	return func(o *Orchestrator) { o.coeffs = c }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(o *Orchestrator) { o.runID = id }
}

// WithProgress registers a callback drained from the event bus in its
// own goroutine, so it can never block the day loop.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(o *Orchestrator) { o.onProgress = fn }
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// New validates the configuration and prepares a run over the given
// business models.
func New(cfg Config, models []model.ModelSpec, sink metrics.MetricsSink, log logger.Logger, opts ...Option) (*Orchestrator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: no business models configured", model.ErrInvalidConfiguration)
	}
	for _, m := range models {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: business model without a name", model.ErrInvalidConfiguration)
		}
		if m.CapacityKWh <= 0 {
			return nil, fmt.Errorf("%w: capacity %v kWh for %s", model.ErrInvalidParameter, m.CapacityKWh, m.Name)
		}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	o := &Orchestrator{
		cfg:    cfg,
		models: models,
		sink:   sink,
		log:    log,
		bus:    eventbus.New[ProgressEvent](),
		runID:  fmt.Sprintf("run-%d", cfg.Seed),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.segments == nil && o.coeffs == nil {
		return nil, fmt.Errorf("%w: no route segments or coefficients supplied", model.ErrInvalidConfiguration)
	}
	return o, nil
}

// Events exposes the progress bus for additional subscribers such as the
// MQTT publisher.
func (o *Orchestrator) Events() *eventbus.Bus[ProgressEvent] { return o.bus }

// RunID returns the identifier attached to progress events and results.
func (o *Orchestrator) RunID() string { return o.runID }

// Run executes the simulation and returns the aggregated result. The
// context is only checked between days; there is no other cancellation
// point because a single day step is bounded work.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()

	kAdj, err := thermal.Adjust(o.cfg.KDegradation, o.cfg.EnvTempC)
	if err != nil {
		return nil, err
	}

	coeffs, err := o.routeCoefficients()
	if err != nil {
		return nil, err
	}

	// The decomposition and the thermal adjustment are hoisted here so
	// the per-vehicle-per-day loop below touches scalars only.
	fleets := make([][]*twin.Twin, len(o.models))
	for mi, spec := range o.models {
		params := twin.Params{
			Spec:            spec,
			Coeffs:          coeffs[spec.Chemistry],
			R0:              o.cfg.R0ScaledOhms * spec.R0Multiplier,
			KAdjusted:       kAdj * spec.KMultiplier,
			MeanKm:          o.cfg.MeanKm,
			StdKm:           o.cfg.StdKm,
			TariffKShPerKWh: o.cfg.TariffKShPerKWh,
			SwapFeeKSh:      o.cfg.SwapFeeKSh,
			MinSwapSoC:      o.cfg.MinSwapSoC,
			MaxSwapSoC:      o.cfg.MaxSwapSoC,
			ReserveSoC:      o.cfg.ReserveSoC,
			EoLWindow:       o.cfg.EoLFadeWindow,
		}
		fleets[mi] = make([]*twin.Twin, o.cfg.FleetSize)
		for i := 0; i < o.cfg.FleetSize; i++ {
			id := fmt.Sprintf("%s-%04d", spec.Chemistry, i+1)
			fleets[mi][i] = twin.New(id, params, o.cfg.SimDays, vehicleSeed(o.cfg.Seed, i))
		}
	}

	if o.onProgress != nil {
		stop := o.bus.Drain(64, o.onProgress)
		defer stop()
	}

	if o.cfg.Workers > 1 {
		err = o.runParallel(ctx, fleets)
	} else {
		err = o.runSequential(ctx, fleets)
	}
	if err != nil {
		return nil, err
	}

	res := &RunResult{
		RunID:   o.runID,
		Fleets:  make(map[string][]model.VehicleState, len(o.models)),
		Results: make(map[string]model.FleetResult, len(o.models)),
	}
	for mi, spec := range o.models {
		fr := o.aggregate(spec, fleets[mi])
		res.Fleets[spec.Name] = fr.Vehicles
		res.Results[spec.Name] = fr
		o.log.Infof("%s: %.2f KSh/km over %.0f km", spec.Name, fr.CostPerKm, fr.TotalKm)
		o.emitDaySummaries(spec, fr.Vehicles)
		if err := o.sink.RecordFleetResult(fr); err != nil {
			o.log.Errorf("record fleet result: %v", err)
		}
	}
	res.BestModel = o.selectBest(res.Results)
	res.Elapsed = time.Since(start)
	if rr, ok := o.sink.(metrics.RunRecorder); ok {
		if err := rr.RecordRun(o.runID, res.BestModel, res.Elapsed); err != nil {
			o.log.Errorf("record run: %v", err)
		}
	}
	return res, nil
}

func (o *Orchestrator) routeCoefficients() (map[model.Chemistry]model.RouteEnergyCoefficients, error) {
	if o.coeffs != nil {
		for _, spec := range o.models {
			c, ok := o.coeffs[spec.Chemistry]
			if !ok || c.RouteKm <= 0 {
				return nil, fmt.Errorf("%w: missing route coefficients for %s", model.ErrInvalidConfiguration, spec.Chemistry)
			}
		}
		return o.coeffs, nil
	}
	out := make(map[model.Chemistry]model.RouteEnergyCoefficients)
	for _, spec := range o.models {
		if _, ok := out[spec.Chemistry]; ok {
			continue
		}
		c, err := route.Decompose(o.segments, o.cfg.PayloadKg, spec.BaselineWhPerKm)
		if err != nil {
			return nil, err
		}
		out[spec.Chemistry] = c
	}
	return out, nil
}

// runSequential advances every fleet day by day, publishing one progress
// event per completed day.
func (o *Orchestrator) runSequential(ctx context.Context, fleets [][]*twin.Twin) error {
	for day := 1; day <= o.cfg.SimDays; day++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, fl := range fleets {
			for _, tw := range fl {
				tw.Advance()
			}
		}
		o.bus.Publish(ProgressEvent{
			RunID:     o.runID,
			Day:       day,
			TotalDays: o.cfg.SimDays,
			Fraction:  float64(day) / float64(o.cfg.SimDays),
		})
	}
	return nil
}

// runParallel partitions vehicles across a worker pool. Each twin is
// self-contained, so workers never contend; progress is published per
// finished vehicle.
func (o *Orchestrator) runParallel(ctx context.Context, fleets [][]*twin.Twin) error {
	total := int64(0)
	for _, fl := range fleets {
		total += int64(len(fl))
	}
	jobs := make(chan *twin.Twin)
	var done atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < o.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tw := range jobs {
				if ctx.Err() != nil {
					continue
				}
				tw.Run()
				n := done.Add(1)
				o.bus.Publish(ProgressEvent{
					RunID:     o.runID,
					Model:     tw.State().ModelName,
					TotalDays: o.cfg.SimDays,
					Fraction:  float64(n) / float64(total),
				})
			}
		}()
	}
	for _, fl := range fleets {
		for _, tw := range fl {
			jobs <- tw
		}
	}
	close(jobs)
	wg.Wait()
	return ctx.Err()
}

func (o *Orchestrator) aggregate(spec model.ModelSpec, twins []*twin.Twin) model.FleetResult {
	n := len(twins)
	states := make([]model.VehicleState, n)
	opex := make([]float64, n)
	capex := make([]float64, n)
	km := make([]float64, n)
	soh := make([]float64, n)
	swaps := 0
	for i, tw := range twins {
		s := tw.State()
		states[i] = s
		opex[i] = s.OpexKSh
		capex[i] = s.CapexKSh
		km[i] = s.TotalKm
		soh[i] = s.SoH
		for _, rec := range s.DailyLog {
			if rec.Swapped {
				swaps++
			}
		}
	}
	fr := model.FleetResult{
		ModelName:  spec.Name,
		FleetSize:  n,
		SimDays:    o.cfg.SimDays,
		TotalOpex:  floats.Sum(opex),
		TotalCapex: floats.Sum(capex),
		TotalKm:    floats.Sum(km),
		MeanSoH:    stat.Mean(soh, nil),
		Swaps:      swaps,
		Vehicles:   states,
	}
	if fr.TotalKm > 0 {
		fr.CostPerKm = (fr.TotalOpex + fr.TotalCapex) / fr.TotalKm
	}
	return fr
}

// emitDaySummaries folds the per-vehicle telemetry logs into per-day
// fleet aggregates for sinks that want a time series.
func (o *Orchestrator) emitDaySummaries(spec model.ModelSpec, states []model.VehicleState) {
	rec, ok := o.sink.(metrics.DaySummaryRecorder)
	if !ok || len(states) == 0 {
		return
	}
	now := time.Now()
	sums := make([]metrics.DaySummary, o.cfg.SimDays)
	for _, s := range states {
		for _, r := range s.DailyLog {
			if r.Day < 1 || r.Day > o.cfg.SimDays {
				continue
			}
			d := &sums[r.Day-1]
			d.MeanSoC += r.SoC
			d.MeanSoH += r.SoH
			d.EnergyWh += r.EnergyWh
			d.KmDriven += r.DistanceKm
			if r.Swapped {
				d.Swaps++
			}
		}
	}
	n := float64(len(states))
	for i := range sums {
		sums[i].RunID = o.runID
		sums[i].ModelName = spec.Name
		sums[i].Day = i + 1
		sums[i].TotalDays = o.cfg.SimDays
		sums[i].MeanSoC /= n
		sums[i].MeanSoH /= n
		sums[i].Time = now
		if err := rec.RecordDaySummary(sums[i]); err != nil {
			o.log.Errorf("record day summary: %v", err)
			return
		}
	}
}

// selectBest picks the cheapest model per km; exact ties go to the model
// with the lower operating expense. Iteration follows the configured
// model order, so the choice is deterministic.
func (o *Orchestrator) selectBest(results map[string]model.FleetResult) string {
	best := ""
	for _, spec := range o.models {
		r := results[spec.Name]
		if best == "" {
			best = spec.Name
			continue
		}
		b := results[best]
		if r.CostPerKm < b.CostPerKm ||
			(r.CostPerKm == b.CostPerKm && r.TotalOpex < b.TotalOpex) {
			best = spec.Name
		}
	}
	return best
}
