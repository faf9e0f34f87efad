// Package twin implements the per-vehicle daily state machine. Each twin
// owns exactly one VehicleState and its private random streams; no state
// is shared between twins, so fleets can be stepped sequentially or in
// parallel without locking.
package twin

import (
	"math"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/route"
)

// Params are the shared read-only run parameters for one business model.
// Every twin of the model holds the same copy; nothing here is mutated
// during the run.
type Params struct {
	Spec   model.ModelSpec
	Coeffs model.RouteEnergyCoefficients

	R0        float64 // calibrated internal resistance with the model multiplier applied
	KAdjusted float64 // thermally adjusted degradation coefficient

	MeanKm float64
	StdKm  float64

	TariffKShPerKWh float64
	SwapFeeKSh      float64
	MinSwapSoC      float64
	MaxSwapSoC      float64

	// ReserveSoC is the predictive margin added to the day's expected
	// depth of discharge when deciding whether to swap or recharge.
	ReserveSoC float64
	// EoLWindow is the capacity-fade fraction over which the purchase
	// price of an owned pack is fully amortized.
	EoLWindow float64
}

// DayInputs drive a single state transition.
type DayInputs struct {
	Day        int
	DistanceKm float64
	// SwapThreshold is the currently sampled range-anxiety SoC below
	// which the rider swaps or recharges.
	SwapThreshold float64
}

// Step advances a vehicle by one simulated day. It is a pure function of
// the prior state, the day inputs and the shared parameters, which lets
// the same logic run under sequential or parallel schedulers unchanged.
//
// The swap/recharge trigger fires before the energy is drawn: if the
// current charge cannot cover the day's expected depth plus the reserve
// margin, or is already below the rider's anxiety threshold, the pack is
// restored to full. Owned models pay the grid tariff for the refilled
// energy; BaaS models pay the flat swap fee. The physical trajectory is
// identical either way, only the opex accounting differs.
func Step(s model.VehicleState, in DayInputs, p Params) (model.VehicleState, model.TelemetryRecord) {
	rDyn := model.DynamicResistance(p.R0, s.SoH, p.Spec.AgingMultiplier)

	var energyWh float64
	if p.Coeffs.RouteKm > 0 && in.DistanceKm > 0 {
		tripJ := route.FastTripEnergy(p.Coeffs, rDyn)
		energyWh = tripJ / 3600.0 * (in.DistanceKm / p.Coeffs.RouteKm)
	}
	depth := energyWh / 1000.0 / s.CapacityKWh

	swapped := false
	if in.DistanceKm > 0 && (s.SoC < depth+p.ReserveSoC || s.SoC < in.SwapThreshold) {
		swapped = true
		switch p.Spec.Ownership {
		case model.OwnershipOwned:
			s.OpexKSh += (1 - s.SoC) * s.CapacityKWh * p.TariffKShPerKWh
		case model.OwnershipBaaS:
			s.OpexKSh += p.SwapFeeKSh
		}
		s.SoC = 1.0
	}

	s.SoC -= depth
	if s.SoC < 0 {
		s.SoC = 0
	}
	if s.SoC > 1 {
		s.SoC = 1
	}

	// Power-law EFC dose response: the day's SoH loss is the increment
	// of k*cumEFC^p, so early cycles hurt more than late ones.
	prevLoss := p.KAdjusted * math.Pow(s.CumEFC, p.Spec.AgeExponent)
	s.CumEFC += depth
	loss := p.KAdjusted*math.Pow(s.CumEFC, p.Spec.AgeExponent) - prevLoss
	if loss > 0 {
		s.SoH -= loss
	}
	if s.SoH < 0 {
		s.SoH = 0
	}

	if p.Spec.Ownership == model.OwnershipOwned && p.EoLWindow > 0 {
		s.CapexKSh = p.Spec.InitialCapexKSh * (1 - s.SoH) / p.EoLWindow
	}

	s.TotalKm += in.DistanceKm
	s.RDyn = model.DynamicResistance(p.R0, s.SoH, p.Spec.AgingMultiplier)
	s.Day = in.Day

	rec := model.TelemetryRecord{
		Day:        in.Day,
		SoC:        s.SoC,
		SoH:        s.SoH,
		DistanceKm: in.DistanceKm,
		EnergyWh:   energyWh,
		Swapped:    swapped,
		TCOKSh:     s.TCO(),
	}
	if in.DistanceKm > 0 {
		rec.WhPerKm = energyWh / in.DistanceKm
	}
	s.DailyLog = append(s.DailyLog, rec)
	return s, rec
}
