// Package config loads and validates the run configuration. The shape and
// range contracts the agent core treats as preconditions (phi in [0,1],
// discount weights summing to 1, window lengths) are established here.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/greensim/internal/params"
)

// Config describes one simulation run.
type Config struct {
	Agents     int    `yaml:"agents"`     // N
	Behaviours int    `yaml:"behaviours"` // M
	Steps      int    `yaml:"steps"`
	Seed       uint64 `yaml:"seed"`

	// "default" or "behavioural_independence".
	AlphaChange string `yaml:"alpha_change"`

	// Social susceptibility spread linearly across the M behaviours, from
	// PhiLower (behaviour 0) to PhiUpper (behaviour M-1). Both in [0,1].
	PhiLower float64 `yaml:"phi_lower"`
	PhiUpper float64 `yaml:"phi_upper"`

	// Memory model.
	CulturalInertia int     `yaml:"cultural_inertia"`
	DiscountFactor  float64 `yaml:"discount_factor"` // delta in (0,1]
	PresentBias     float64 `yaml:"present_bias"`    // beta in (0,1]

	// Homophily strength in the influence weighting: weight on a neighbour
	// decays as exp(-bias * |identity gap|).
	ConfirmationBias float64 `yaml:"confirmation_bias"`

	// Small-world topology: K nearest neighbours on the ring (even, >= 2),
	// each edge rewired with the given probability.
	Neighbours        int     `yaml:"neighbours"`
	RewireProbability float64 `yaml:"rewire_probability"`

	// Telemetry.
	SaveTimeseries    bool `yaml:"save_timeseries"`
	CompressionFactor int  `yaml:"compression_factor"`

	// Initial draw distributions (Beta on [0,1]).
	AttitudeAlpha  float64 `yaml:"attitude_alpha"`
	AttitudeBeta   float64 `yaml:"attitude_beta"`
	ThresholdAlpha float64 `yaml:"threshold_alpha"`
	ThresholdBeta  float64 `yaml:"threshold_beta"`

	// Spatially correlated component added to initial attitudes: a smooth
	// noise field over ring position, scaled by the amplitude. Zero
	// amplitude disables it.
	SpatialAmplitude float64 `yaml:"spatial_amplitude"`
	SpatialScale     float64 `yaml:"spatial_scale"`

	// Output.
	DatabasePath string `yaml:"database_path"`
	LogEvery     int    `yaml:"log_every"`
}

// Default returns a runnable baseline configuration.
func Default() Config {
	return Config{
		Agents:            200,
		Behaviours:        3,
		Steps:             500,
		Seed:              42,
		AlphaChange:       "default",
		PhiLower:          0.02,
		PhiUpper:          0.05,
		CulturalInertia:   20,
		DiscountFactor:    params.DiscountFactor,
		PresentBias:       params.PresentBias,
		ConfirmationBias:  10,
		Neighbours:        10,
		RewireProbability: 0.1,
		SaveTimeseries:    true,
		CompressionFactor: 1,
		AttitudeAlpha:     1,
		AttitudeBeta:      1,
		ThresholdAlpha:    3,
		ThresholdBeta:     2,
		SpatialAmplitude:  0,
		SpatialScale:      1,
		DatabasePath:      "data/greensim.db",
		LogEvery:          50,
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every contract the core relies on but does not re-check.
func (c *Config) Validate() error {
	switch {
	case c.Agents < 2:
		return fmt.Errorf("agents %d, want >= 2", c.Agents)
	case c.Behaviours < 1:
		return fmt.Errorf("behaviours %d, want >= 1", c.Behaviours)
	case c.Steps < 1:
		return fmt.Errorf("steps %d, want >= 1", c.Steps)
	case c.CulturalInertia < 1:
		return fmt.Errorf("cultural_inertia %d, want >= 1", c.CulturalInertia)
	case c.CompressionFactor < 1:
		return fmt.Errorf("compression_factor %d, want >= 1", c.CompressionFactor)
	case c.PhiLower < 0 || c.PhiLower > 1 || c.PhiUpper < 0 || c.PhiUpper > 1:
		return fmt.Errorf("phi bounds [%g, %g] outside [0,1]", c.PhiLower, c.PhiUpper)
	case c.PhiLower > c.PhiUpper:
		return fmt.Errorf("phi_lower %g > phi_upper %g", c.PhiLower, c.PhiUpper)
	case c.DiscountFactor <= 0 || c.DiscountFactor > 1:
		return fmt.Errorf("discount_factor %g, want in (0,1]", c.DiscountFactor)
	case c.PresentBias <= 0 || c.PresentBias > 1:
		return fmt.Errorf("present_bias %g, want in (0,1]", c.PresentBias)
	case c.Neighbours < 2 || c.Neighbours%2 != 0:
		return fmt.Errorf("neighbours %d, want even and >= 2", c.Neighbours)
	case c.Neighbours >= c.Agents:
		return fmt.Errorf("neighbours %d, want < agents (%d)", c.Neighbours, c.Agents)
	case c.RewireProbability < 0 || c.RewireProbability > 1:
		return fmt.Errorf("rewire_probability %g, want in [0,1]", c.RewireProbability)
	case c.AttitudeAlpha <= 0 || c.AttitudeBeta <= 0 || c.ThresholdAlpha <= 0 || c.ThresholdBeta <= 0:
		return fmt.Errorf("beta distribution parameters must be positive")
	}

	if _, err := ParseAlphaChange(c.AlphaChange); err != nil {
		return err
	}
	return nil
}

// ParseAlphaChange validates the mode string. The agents package owns the
// Mode type; config only gatekeeps the accepted spellings.
func ParseAlphaChange(s string) (string, error) {
	switch s {
	case "default", "behavioural_independence":
		return s, nil
	default:
		return "", fmt.Errorf("unknown alpha_change mode %q", s)
	}
}

// DiscountVector builds the normalized truncated quasi-hyperbolic weights:
// weight 1 on the most recent step, beta·delta^k on step k in the past,
// normalized to sum to 1.
func (c *Config) DiscountVector() []float64 {
	w := make([]float64, c.CulturalInertia)
	w[0] = 1
	d := 1.0
	for k := 1; k < c.CulturalInertia; k++ {
		d *= c.DiscountFactor
		w[k] = c.PresentBias * d
	}

	sum := 0.0
	for _, v := range w {
		sum += v
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// PhiArray spreads the social susceptibility linearly from PhiLower to
// PhiUpper across the M behaviours.
func (c *Config) PhiArray() []float64 {
	phi := make([]float64, c.Behaviours)
	if c.Behaviours == 1 {
		phi[0] = c.PhiLower
		return phi
	}
	step := (c.PhiUpper - c.PhiLower) / float64(c.Behaviours-1)
	for i := range phi {
		phi[i] = c.PhiLower + float64(i)*step
	}
	return phi
}
