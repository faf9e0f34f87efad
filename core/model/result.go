package model

// RouteEnergyCoefficients is the algebraic decomposition of one route
// for one payload: total route energy in Joules is A + B*rDyn + C for
// any dynamic internal resistance rDyn. The triple is only valid for
// the route and payload it was derived from; changing either requires
// recomputing it.
type RouteEnergyCoefficients struct {
	A float64 `json:"a"` // resistance-independent mechanical energy (J)
	B float64 `json:"b"` // ohmic-loss sensitivity (J per ohm)
	C float64 `json:"c"` // baseline-anchoring regenerative correction (J)

	RouteKm float64 `json:"route_km"` // route length the triple was derived from
}

// FleetResult is the aggregate outcome of one business model over one
// run. It is produced once per model and immutable afterwards.
type FleetResult struct {
	ModelName  string  `json:"model_name"`
	FleetSize  int     `json:"fleet_size"`
	SimDays    int     `json:"sim_days"`
	CostPerKm  float64 `json:"cost_per_km_ksh"`
	TotalOpex  float64 `json:"total_opex_ksh"`
	TotalCapex float64 `json:"total_capex_ksh"`
	TotalKm    float64 `json:"total_km"`
	MeanSoH    float64 `json:"mean_soh"`
	Swaps      int     `json:"swaps"`

	Vehicles []VehicleState `json:"-"`
}
