package fleet

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/metrics"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

func testConfig() Config {
	return Config{
		FleetSize:       100,
		SimDays:         40,
		Seed:            1234,
		EnvTempC:        25.0,
		TariffKShPerKWh: 16.0,
		SwapFeeKSh:      206.0,
		MinSwapSoC:      0.20,
		MaxSwapSoC:      0.35,
		PayloadKg:       200.0,
		MeanKm:          40.0,
		StdKm:           5.0,
		KDegradation:    0.0005,
		R0ScaledOhms:    0.05,
	}
}

// testCoefficients describe a 5 km route drawing roughly 21 Wh/km, so
// packs cycle deep enough to swap within a 40 day horizon.
func testCoefficients() map[model.Chemistry]model.RouteEnergyCoefficients {
	c := model.RouteEnergyCoefficients{A: 0, B: 2.0, C: 378000, RouteKm: 5}
	return map[model.Chemistry]model.RouteEnergyCoefficients{
		model.ChemistrySIB: c,
		model.ChemistryLFP: c,
	}
}

type captureSink struct {
	mu      sync.Mutex
	results []model.FleetResult
	days    []metrics.DaySummary
	runs    int
}

func (s *captureSink) RecordFleetResult(r model.FleetResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *captureSink) RecordDaySummary(d metrics.DaySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = append(s.days, d)
	return nil
}

func (s *captureSink) RecordRun(string, string, time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	return nil
}

func mustRun(t *testing.T, cfg Config, opts ...Option) *RunResult {
	t.Helper()
	o, err := New(cfg, model.DefaultModelSpecs(), nil, nil, append(opts, WithCoefficients(testCoefficients()))...)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	res, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func TestRunReproducible(t *testing.T) {
	a := mustRun(t, testConfig())
	b := mustRun(t, testConfig())
	for name, ra := range a.Results {
		rb := b.Results[name]
		if ra.CostPerKm != rb.CostPerKm || ra.TotalOpex != rb.TotalOpex || ra.TotalKm != rb.TotalKm {
			t.Fatalf("%s: repeated runs diverged: %+v vs %+v", name, ra, rb)
		}
	}
	if a.BestModel != b.BestModel {
		t.Fatalf("best model diverged: %s vs %s", a.BestModel, b.BestModel)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	seq := mustRun(t, testConfig())
	cfg := testConfig()
	cfg.Workers = 4
	par := mustRun(t, cfg)
	for name, rs := range seq.Results {
		rp := par.Results[name]
		if rs.CostPerKm != rp.CostPerKm || rs.TotalOpex != rp.TotalOpex || rs.Swaps != rp.Swaps {
			t.Fatalf("%s: worker pool changed the outcome: %+v vs %+v", name, rs, rp)
		}
	}
}

func TestOwnershipTrajectoriesMatchPerChemistry(t *testing.T) {
	res := mustRun(t, testConfig())
	for _, chem := range []string{"SIB", "LFP"} {
		owned := res.Fleets[chem+" Owned"]
		baas := res.Fleets[chem+" BaaS"]
		if len(owned) != len(baas) {
			t.Fatalf("%s: fleet sizes differ", chem)
		}
		for i := range owned {
			lo, lb := owned[i].DailyLog, baas[i].DailyLog
			if len(lo) != len(lb) {
				t.Fatalf("%s vehicle %d: log lengths differ", chem, i)
			}
			for d := range lo {
				if lo[d].SoC != lb[d].SoC || lo[d].SoH != lb[d].SoH || lo[d].DistanceKm != lb[d].DistanceKm {
					t.Fatalf("%s vehicle %d day %d: trajectories diverged", chem, i, d+1)
				}
			}
			if owned[i].OpexKSh == baas[i].OpexKSh {
				t.Fatalf("%s vehicle %d: ownership models must differ in opex", chem, i)
			}
		}
	}
}

func TestBestModelAlwaysConfigured(t *testing.T) {
	res := mustRun(t, testConfig())
	if res.BestModel == "" {
		t.Fatalf("best model missing")
	}
	if _, ok := res.Results[res.BestModel]; !ok {
		t.Fatalf("best model %q not among results", res.BestModel)
	}
	best := res.Results[res.BestModel]
	for _, r := range res.Results {
		if r.CostPerKm < best.CostPerKm {
			t.Fatalf("%s is cheaper than best %s", r.ModelName, res.BestModel)
		}
	}
}

func TestProgressEventsSequential(t *testing.T) {
	cfg := testConfig()
	cfg.FleetSize = 10
	var mu sync.Mutex
	var events []ProgressEvent
	mustRun(t, cfg, WithProgress(func(ev ProgressEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}))
	mu.Lock()
	defer mu.Unlock()
	if len(events) != cfg.SimDays {
		t.Fatalf("expected %d day events, got %d", cfg.SimDays, len(events))
	}
	last := events[len(events)-1]
	if last.Fraction != 1.0 || last.Day != cfg.SimDays {
		t.Fatalf("final event %+v", last)
	}
}

func TestDaySummariesEmitted(t *testing.T) {
	sink := &captureSink{}
	cfg := testConfig()
	cfg.FleetSize = 10
	o, err := New(cfg, model.DefaultModelSpecs(), sink, nil, WithCoefficients(testCoefficients()))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sink.results) != 4 {
		t.Fatalf("expected 4 fleet results, got %d", len(sink.results))
	}
	if want := 4 * cfg.SimDays; len(sink.days) != want {
		t.Fatalf("expected %d day summaries, got %d", want, len(sink.days))
	}
	if sink.runs != 1 {
		t.Fatalf("expected 1 run record, got %d", sink.runs)
	}
	prev := map[string]float64{}
	for _, d := range sink.days {
		if last, ok := prev[d.ModelName]; ok && d.MeanSoH > last {
			t.Fatalf("%s day %d: fleet soh increased", d.ModelName, d.Day)
		}
		prev[d.ModelName] = d.MeanSoH
	}
}

func TestSetDefaultsTreatsZeroAsUnset(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.FleetSize != model.DefaultFleetSize {
		t.Fatalf("fleet size default %d", cfg.FleetSize)
	}
	if cfg.SimDays != 40 || cfg.Workers != 1 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaulted config must validate: %v", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.SimDays = 50 },
		func(c *Config) { c.FleetSize = -1 },
		func(c *Config) { c.MinSwapSoC = 0.5; c.MaxSwapSoC = 0.4 },
	}
	for i, mutate := range cases {
		cfg := testConfig()
		mutate(&cfg)
		_, err := New(cfg, model.DefaultModelSpecs(), nil, nil, WithCoefficients(testCoefficients()))
		if !errors.Is(err, model.ErrInvalidConfiguration) {
			t.Fatalf("case %d: expected ErrInvalidConfiguration, got %v", i, err)
		}
	}
}

func TestNewRejectsBadParameters(t *testing.T) {
	cfg := testConfig()
	cfg.TariffKShPerKWh = math.NaN()
	_, err := New(cfg, model.DefaultModelSpecs(), nil, nil, WithCoefficients(testCoefficients()))
	if !errors.Is(err, model.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestNewRequiresRoute(t *testing.T) {
	_, err := New(testConfig(), model.DefaultModelSpecs(), nil, nil)
	if !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}
