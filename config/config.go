package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/fleet"
	coremetrics "github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/metrics"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/model"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/core/route"
	"github.com/CalKK/calvin-kinyanjui-BEE5202-144859/infra/mqtt"
)

// Config is the top-level configuration for a simulation run.
type Config struct {
	Simulation fleet.Config       `json:"simulation"`
	Models     []ModelConfig      `json:"models"`
	Route      RouteConfig        `json:"route"`
	Metrics    coremetrics.Config `json:"metrics"`
	MQTT       mqtt.Config        `json:"mqtt"`
}

// RouteConfig carries either a route profile or pre-computed
// coefficients keyed by chemistry name. Parsing GPX or spreadsheets into
// this shape is the boundary's job; the engine only consumes numbers.
type RouteConfig struct {
	Segments     []route.Segment                          `json:"segments"`
	Coefficients map[string]model.RouteEnergyCoefficients `json:"coefficients"`
}

// CoefficientsByChemistry resolves the string-keyed coefficient map.
func (r RouteConfig) CoefficientsByChemistry() (map[model.Chemistry]model.RouteEnergyCoefficients, error) {
	if len(r.Coefficients) == 0 {
		return nil, nil
	}
	out := make(map[model.Chemistry]model.RouteEnergyCoefficients, len(r.Coefficients))
	for name, c := range r.Coefficients {
		chem, err := parseChemistry(name)
		if err != nil {
			return nil, err
		}
		out[chem] = c
	}
	return out, nil
}

// ModelConfig is the file representation of a business model. An empty
// Models list in the config falls back to the four built-in presets.
type ModelConfig struct {
	Name            string  `json:"name"`
	Chemistry       string  `json:"chemistry"`
	Ownership       string  `json:"ownership"`
	CapacityKWh     float64 `json:"capacity_kwh"`
	R0Multiplier    float64 `json:"r0_multiplier"`
	KMultiplier     float64 `json:"k_multiplier"`
	AgeExponent     float64 `json:"age_exponent"`
	AgingMultiplier float64 `json:"aging_multiplier"`
	InitialCapexKSh float64 `json:"initial_capex_ksh"`
	BaselineWhPerKm float64 `json:"baseline_wh_per_km"`
}

// Spec converts the file representation into a model.ModelSpec.
func (m ModelConfig) Spec() (model.ModelSpec, error) {
	chem, err := parseChemistry(m.Chemistry)
	if err != nil {
		return model.ModelSpec{}, err
	}
	own, err := parseOwnership(m.Ownership)
	if err != nil {
		return model.ModelSpec{}, err
	}
	spec := model.ModelSpec{
		Name:            m.Name,
		Chemistry:       chem,
		Ownership:       own,
		CapacityKWh:     m.CapacityKWh,
		R0Multiplier:    m.R0Multiplier,
		KMultiplier:     m.KMultiplier,
		AgeExponent:     m.AgeExponent,
		AgingMultiplier: m.AgingMultiplier,
		InitialCapexKSh: m.InitialCapexKSh,
		BaselineWhPerKm: m.BaselineWhPerKm,
	}
	if spec.CapacityKWh == 0 {
		spec.CapacityKWh = model.DefaultCapacityKWh
	}
	if spec.AgingMultiplier == 0 {
		spec.AgingMultiplier = 2.5
	}
	return spec, nil
}

// ModelSpecs resolves the configured business models, defaulting to the
// built-in four.
func (c Config) ModelSpecs() ([]model.ModelSpec, error) {
	if len(c.Models) == 0 {
		return model.DefaultModelSpecs(), nil
	}
	specs := make([]model.ModelSpec, 0, len(c.Models))
	for _, m := range c.Models {
		spec, err := m.Spec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Load reads the configuration from a YAML or JSON file, then applies
// environment overrides with the FS_ prefix (FS_SIMULATION__SEED=42).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("FS_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Simulation.SetDefaults()
	return &cfg, nil
}

func parseChemistry(s string) (model.Chemistry, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SIB":
		return model.ChemistrySIB, nil
	case "LFP":
		return model.ChemistryLFP, nil
	default:
		return 0, fmt.Errorf("%w: unknown chemistry %q", model.ErrInvalidConfiguration, s)
	}
}

func parseOwnership(s string) (model.Ownership, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "owned", "depot":
		return model.OwnershipOwned, nil
	case "baas", "swap":
		return model.OwnershipBaaS, nil
	default:
		return 0, fmt.Errorf("%w: unknown ownership %q", model.ErrInvalidConfiguration, s)
	}
}
