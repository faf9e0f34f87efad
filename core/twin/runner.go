package twin

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

// Twin advances one vehicle through the simulation horizon. It owns the
// vehicle's state and its seeded random streams: one normal draw per day
// for the trip distance and one uniform draw per swap for the next
// anxiety threshold. Both distributions pull from the same PCG source,
// so the draw sequence is fully determined by the seed.
type Twin struct {
	params  Params
	horizon int

	state     model.VehicleState
	distance  distuv.Normal
	anxiety   distuv.Uniform
	threshold float64
}

// New creates a twin with a fresh pack (SoC and SoH at 1.0) and samples
// the initial anxiety threshold.
func New(id string, p Params, horizonDays int, seed uint64) *Twin {
	src := rand.NewSource(seed)
	t := &Twin{
		params:  p,
		horizon: horizonDays,
		state: model.VehicleState{
			ID:          id,
			ModelName:   p.Spec.Name,
			CapacityKWh: p.Spec.CapacityKWh,
			SoC:         1.0,
			SoH:         1.0,
			RDyn:        p.R0,
			DailyLog:    make([]model.TelemetryRecord, 0, horizonDays),
		},
		distance: distuv.Normal{Mu: p.MeanKm, Sigma: p.StdKm, Src: src},
		anxiety:  distuv.Uniform{Min: p.MinSwapSoC, Max: p.MaxSwapSoC, Src: src},
	}
	t.threshold = t.anxiety.Rand()
	return t
}

// Done reports whether the twin has reached the end of its horizon.
// A finished twin is read-only.
func (t *Twin) Done() bool { return t.state.Day >= t.horizon }

// Advance runs one simulated day. It returns false once the horizon has
// been reached, in which case the state is left untouched.
func (t *Twin) Advance() (model.TelemetryRecord, bool) {
	if t.Done() {
		return model.TelemetryRecord{}, false
	}
	km := t.distance.Rand()
	if km < 0 {
		km = 0 // negative draws are clamped, not resampled
	}
	in := DayInputs{
		Day:           t.state.Day + 1,
		DistanceKm:    km,
		SwapThreshold: t.threshold,
	}
	next, rec := Step(t.state, in, t.params)
	t.state = next
	if rec.Swapped {
		// Stochastic rider behaviour: the threshold is re-sampled at the
		// point of need, not fixed for the whole run.
		t.threshold = t.anxiety.Rand()
	}
	return rec, true
}

// Run advances the twin to the end of its horizon.
func (t *Twin) Run() {
	for {
		if _, ok := t.Advance(); !ok {
			return
		}
	}
}

// State returns a snapshot of the vehicle.
func (t *Twin) State() model.VehicleState { return t.state }
