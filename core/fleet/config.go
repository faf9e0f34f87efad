package fleet

import (
	"fmt"
	"math"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
)

// SupportedSimDays are the simulation horizons the boundary UI offers:
// 40 days for quick trends, 120 for the full feasibility window.
var SupportedSimDays = []int{40, 80, 120}

// Config holds the run parameters shared by all vehicles. The calibrated
// scalars (mean/std daily distance, degradation coefficient, scaled
// internal resistance) come from the ETL boundary and are consumed here
// as plain numbers.
type Config struct {
	FleetSize int    `json:"fleet_size"`
	SimDays   int    `json:"sim_days"`
	Seed      uint64 `json:"seed"`
	Workers   int    `json:"workers"` // >1 enables the vehicle-level worker pool

	EnvTempC        float64 `json:"env_temp_c"`
	TariffKShPerKWh float64 `json:"tariff_ksh_per_kwh"`
	SwapFeeKSh      float64 `json:"swap_fee_ksh"`
	MinSwapSoC      float64 `json:"min_swap_soc"`
	MaxSwapSoC      float64 `json:"max_swap_soc"`
	PayloadKg       float64 `json:"payload_kg"`

	MeanKm        float64 `json:"mean_km"`
	StdKm         float64 `json:"std_km"`
	KDegradation  float64 `json:"k_degradation"`
	R0ScaledOhms  float64 `json:"r0_scaled_ohms"`
	ReserveSoC    float64 `json:"reserve_soc"`
	EoLFadeWindow float64 `json:"eol_fade_window"`
}

// SetDefaults applies the reference parameter values where fields were
// left zero. A zero value means "unset" here, so a FleetSize of 0 takes
// the default rather than failing Validate; only negative sizes are
// rejected.
func (c *Config) SetDefaults() {
	if c.FleetSize == 0 {
		c.FleetSize = model.DefaultFleetSize
	}
	if c.SimDays == 0 {
		c.SimDays = 40
	}
	if c.TariffKShPerKWh == 0 {
		c.TariffKShPerKWh = 16.0
	}
	if c.SwapFeeKSh == 0 {
		c.SwapFeeKSh = 206.0
	}
	if c.MinSwapSoC == 0 {
		c.MinSwapSoC = 0.20
	}
	if c.MaxSwapSoC == 0 {
		c.MaxSwapSoC = 0.35
	}
	if c.PayloadKg == 0 {
		c.PayloadKg = 200.0
	}
	if c.ReserveSoC == 0 {
		c.ReserveSoC = 0.05
	}
	if c.EoLFadeWindow == 0 {
		c.EoLFadeWindow = 0.20
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
}

// Validate checks the configuration before a run. Horizon and fleet size
// violations surface as configuration errors, non-finite scalars as
// parameter errors.
func (c Config) Validate() error {
	supported := false
	for _, d := range SupportedSimDays {
		if c.SimDays == d {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: sim_days %d not in %v", model.ErrInvalidConfiguration, c.SimDays, SupportedSimDays)
	}
	if c.FleetSize <= 0 {
		return fmt.Errorf("%w: fleet_size must be positive, got %d", model.ErrInvalidConfiguration, c.FleetSize)
	}
	if c.MinSwapSoC < 0 || c.MaxSwapSoC > 1 || c.MinSwapSoC >= c.MaxSwapSoC {
		return fmt.Errorf("%w: swap threshold band [%v,%v]", model.ErrInvalidConfiguration, c.MinSwapSoC, c.MaxSwapSoC)
	}
	for name, v := range map[string]float64{
		"env_temp_c":     c.EnvTempC,
		"tariff":         c.TariffKShPerKWh,
		"swap_fee":       c.SwapFeeKSh,
		"payload_kg":     c.PayloadKg,
		"mean_km":        c.MeanKm,
		"std_km":         c.StdKm,
		"k_degradation":  c.KDegradation,
		"r0_scaled_ohms": c.R0ScaledOhms,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", model.ErrInvalidParameter, name)
		}
	}
	if c.MeanKm < 0 || c.StdKm < 0 {
		return fmt.Errorf("%w: distance distribution (%v, %v)", model.ErrInvalidParameter, c.MeanKm, c.StdKm)
	}
	if c.KDegradation < 0 || c.R0ScaledOhms < 0 {
		return fmt.Errorf("%w: calibration scalars must be non-negative", model.ErrInvalidParameter)
	}
	return nil
}
