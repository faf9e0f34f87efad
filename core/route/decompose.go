// Package route decomposes a fixed route geometry into three scalar
// energy coefficients so the per-day simulation loop can evaluate trip
// energy as a single affine expression instead of re-integrating the
// route for every vehicle on every day.
package route

import (
	"fmt"
	"math"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

const (
	gravity = 9.81

	// nominalVoltage converts mechanical power to an assumed average
	// current draw for the ohmic I^2 loss term.
	nominalVoltage = 48.0

	// regenReturn is the fraction of negative mechanical power recovered
	// through regenerative braking.
	regenReturn = 0.3
)

// Segment is one leg of a route profile: the horizontal distance covered,
// the elevation gradient (dimensionless slope) and the target speed.
type Segment struct {
	DistanceM float64 `json:"distance_m"`
	Gradient  float64 `json:"gradient"`
	SpeedMS   float64 `json:"speed_ms"`
}

// Decompose integrates the route once and returns coefficients (A, B, C)
// such that total route energy in Joules equals A + B*rDyn + C for any
// dynamic internal resistance rDyn. A collects the resistance-independent
// mechanical work (gravity plus the baseline rolling/drag efficiency
// term), B the I^2 sensitivity that multiplies rDyn, and C the
// regenerative return anchoring the estimate to the calibrated Wh/km
// baseline. The result is deterministic: the same route and payload
// always produce the same triple.
func Decompose(segments []Segment, payloadKg, baselineWhPerKm float64) (model.RouteEnergyCoefficients, error) {
	var c model.RouteEnergyCoefficients
	if len(segments) < 1 {
		return c, fmt.Errorf("%w: need at least 2 trackpoints, got %d", model.ErrInvalidRoute, len(segments)+1)
	}
	if !isFinite(payloadKg) || payloadKg <= 0 {
		return c, fmt.Errorf("%w: payload %v kg", model.ErrInvalidParameter, payloadKg)
	}
	if !isFinite(baselineWhPerKm) || baselineWhPerKm <= 0 {
		return c, fmt.Errorf("%w: baseline efficiency %v Wh/km", model.ErrInvalidParameter, baselineWhPerKm)
	}

	var totalM float64
	for i, s := range segments {
		if !isFinite(s.DistanceM) || !isFinite(s.Gradient) || !isFinite(s.SpeedMS) {
			return c, fmt.Errorf("%w: non-finite segment %d", model.ErrInvalidRoute, i)
		}
		if s.DistanceM < 0 || s.SpeedMS < 0 {
			return c, fmt.Errorf("%w: negative distance or speed in segment %d", model.ErrInvalidRoute, i)
		}

		var dt float64
		if s.SpeedMS > 0 {
			dt = s.DistanceM / s.SpeedMS
		}
		theta := math.Atan(s.Gradient)

		// Mechanical power: climbing work plus the empirical baseline
		// (Wh/km * 3.6 = J/m) scaled by speed.
		pMech := payloadKg*gravity*math.Sin(theta)*s.SpeedMS + baselineWhPerKm*3.6*s.SpeedMS

		if pMech > 0 {
			c.A += pMech * dt
			i2 := pMech / nominalVoltage
			c.B += i2 * i2 * dt
		} else {
			c.C += pMech * regenReturn * dt
		}
		totalM += s.DistanceM
	}
	c.RouteKm = totalM / 1000.0
	return c, nil
}

// FastTripEnergy evaluates the decomposition for one traversal of the
// route at the given dynamic resistance. The result is in Joules; it is
// the O(1) hot-path replacement for the per-segment integration.
func FastTripEnergy(c model.RouteEnergyCoefficients, rDyn float64) float64 {
	return c.A + c.B*rDyn + c.C
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
