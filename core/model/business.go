package model

// Chemistry identifies the battery chemistry of a pack.
type Chemistry int

const (
	ChemistrySIB Chemistry = iota // sodium-ion
	ChemistryLFP                  // lithium iron phosphate
)

// Ownership identifies how battery costs are accounted for.
type Ownership int

const (
	// OwnershipOwned means the operator owns the pack and pays the grid
	// tariff for every recharge, amortizing the purchase price.
	OwnershipOwned Ownership = iota
	// OwnershipBaaS means the pack belongs to a swap network and the
	// operator pays a flat fee per swap.
	OwnershipBaaS
)

// String returns a human-readable representation of the chemistry.
func (c Chemistry) String() string {
	switch c {
	case ChemistrySIB:
		return "SIB"
	case ChemistryLFP:
		return "LFP"
	default:
		return "unknown"
	}
}

// String returns a human-readable representation of the ownership model.
func (o Ownership) String() string {
	switch o {
	case OwnershipOwned:
		return "Owned"
	case OwnershipBaaS:
		return "BaaS"
	default:
		return "unknown"
	}
}

// ModelSpec describes one chemistry x ownership business model. The
// multipliers and exponents are tuned heuristics carried as configuration
// rather than hard-coded constants, so calibration can adjust them
// without touching the engine.
type ModelSpec struct {
	Name      string    `json:"name"`
	Chemistry Chemistry `json:"-"`
	Ownership Ownership `json:"-"`

	CapacityKWh     float64 `json:"capacity_kwh"`
	R0Multiplier    float64 `json:"r0_multiplier"`     // applied to the calibrated R0
	KMultiplier     float64 `json:"k_multiplier"`      // applied to the calibrated degradation k
	AgeExponent     float64 `json:"age_exponent"`      // power-law exponent of the EFC dose response
	AgingMultiplier float64 `json:"aging_multiplier"`  // resistance growth per unit SoH loss
	InitialCapexKSh float64 `json:"initial_capex_ksh"` // zero for BaaS models
	BaselineWhPerKm float64 `json:"baseline_wh_per_km"`
}

// Default pack and fleet targets for the 48V 30Ah reference chassis.
const (
	DefaultCapacityKWh = 1.44
	DefaultFleetSize   = 100
)

// DefaultModelSpecs returns the four business models compared by the
// simulation. SIB packs carry higher internal resistance and degrade
// roughly 1.8x faster than LFP, but cost a third less up front.
func DefaultModelSpecs() []ModelSpec {
	return []ModelSpec{
		{
			Name:            "SIB Owned",
			Chemistry:       ChemistrySIB,
			Ownership:       OwnershipOwned,
			CapacityKWh:     DefaultCapacityKWh,
			R0Multiplier:    1.5,
			KMultiplier:     1.8,
			AgeExponent:     0.55,
			AgingMultiplier: 2.5,
			InitialCapexKSh: 20785.0,
			BaselineWhPerKm: 21.0,
		},
		{
			Name:            "LFP Owned",
			Chemistry:       ChemistryLFP,
			Ownership:       OwnershipOwned,
			CapacityKWh:     DefaultCapacityKWh,
			R0Multiplier:    1.0,
			KMultiplier:     1.0,
			AgeExponent:     0.50,
			AgingMultiplier: 2.5,
			InitialCapexKSh: 31178.0,
			BaselineWhPerKm: 18.5,
		},
		{
			Name:            "SIB BaaS",
			Chemistry:       ChemistrySIB,
			Ownership:       OwnershipBaaS,
			CapacityKWh:     DefaultCapacityKWh,
			R0Multiplier:    1.5,
			KMultiplier:     1.8,
			AgeExponent:     0.55,
			AgingMultiplier: 2.5,
			BaselineWhPerKm: 21.0,
		},
		{
			Name:            "LFP BaaS",
			Chemistry:       ChemistryLFP,
			Ownership:       OwnershipBaaS,
			CapacityKWh:     DefaultCapacityKWh,
			R0Multiplier:    1.0,
			KMultiplier:     1.0,
			AgeExponent:     0.50,
			AgingMultiplier: 2.5,
			BaselineWhPerKm: 18.5,
		},
	}
}
