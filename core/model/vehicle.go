package model

// VehicleState holds the physical and financial state of one simulated
// e-motorcycle. It is owned exclusively by the digital twin that advances
// it; after the simulation horizon it is read-only.
type VehicleState struct {
	ID          string
	ModelName   string
	CapacityKWh float64 // design capacity of the pack
	SoC         float64 // state of charge between 0 and 1
	SoH         float64 // state of health, monotonically non-increasing
	CumEFC      float64 // cumulative equivalent full cycles
	TotalKm     float64 // odometer
	OpexKSh     float64 // grid tariff or swap fee spend
	CapexKSh    float64 // amortized capital cost
	RDyn        float64 // dynamic internal resistance in ohms
	Day         int     // last completed simulation day

	DailyLog []TelemetryRecord
}

// TelemetryRecord captures one vehicle's telemetry for a single day.
type TelemetryRecord struct {
	Day        int     `json:"day"`
	SoC        float64 `json:"soc"`
	SoH        float64 `json:"soh"`
	DistanceKm float64 `json:"distance_km"`
	EnergyWh   float64 `json:"energy_wh"`
	WhPerKm    float64 `json:"wh_per_km"`
	Swapped    bool    `json:"swapped"`
	TCOKSh     float64 `json:"tco_ksh"` // cumulative opex + amortized capex
}

// DynamicResistance returns the ohmic resistance of a pack at the given
// state of health: r0 at SoH 1.0, rising linearly as the pack ages.
func DynamicResistance(r0, soh, agingMultiplier float64) float64 {
	return r0 * (1 + agingMultiplier*(1-soh))
}

// TCO returns the vehicle's total cost of ownership so far.
func (v VehicleState) TCO() float64 { return v.OpexKSh + v.CapexKSh }
