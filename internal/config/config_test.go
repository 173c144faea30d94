package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"too few agents", func(c *Config) { c.Agents = 1 }},
		{"zero behaviours", func(c *Config) { c.Behaviours = 0 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"zero inertia", func(c *Config) { c.CulturalInertia = 0 }},
		{"zero compression", func(c *Config) { c.CompressionFactor = 0 }},
		{"phi out of range", func(c *Config) { c.PhiUpper = 1.5 }},
		{"phi inverted", func(c *Config) { c.PhiLower = 0.9; c.PhiUpper = 0.1 }},
		{"discount factor zero", func(c *Config) { c.DiscountFactor = 0 }},
		{"present bias above one", func(c *Config) { c.PresentBias = 1.2 }},
		{"odd neighbours", func(c *Config) { c.Neighbours = 3 }},
		{"neighbours not below agents", func(c *Config) { c.Neighbours = c.Agents }},
		{"rewire out of range", func(c *Config) { c.RewireProbability = -0.1 }},
		{"nonpositive beta param", func(c *Config) { c.AttitudeAlpha = 0 }},
		{"unknown mode", func(c *Config) { c.AlphaChange = "adaptive" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDiscountVector(t *testing.T) {
	cfg := Default()
	cfg.CulturalInertia = 6
	cfg.DiscountFactor = 0.8
	cfg.PresentBias = 0.6

	w := cfg.DiscountVector()
	require.Len(t, w, 6)

	sum := 0.0
	for _, v := range w {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	// Present bias makes the drop from w[0] to w[1] steeper than delta,
	// and the tail decays geometrically.
	assert.Greater(t, w[0], w[1])
	for k := 2; k < len(w); k++ {
		assert.InDelta(t, 0.8, w[k]/w[k-1], 1e-12)
	}
}

func TestDiscountVectorSingleEntry(t *testing.T) {
	cfg := Default()
	cfg.CulturalInertia = 1
	assert.Equal(t, []float64{1}, cfg.DiscountVector())
}

func TestPhiArray(t *testing.T) {
	cfg := Default()
	cfg.Behaviours = 5
	cfg.PhiLower = 0.1
	cfg.PhiUpper = 0.5

	phi := cfg.PhiArray()
	require.Len(t, phi, 5)
	assert.InDelta(t, 0.1, phi[0], 1e-12)
	assert.InDelta(t, 0.3, phi[2], 1e-12)
	assert.InDelta(t, 0.5, phi[4], 1e-12)

	cfg.Behaviours = 1
	assert.Equal(t, []float64{0.1}, cfg.PhiArray())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"agents: 50\nsteps: 10\nalpha_change: behavioural_independence\nseed: 7\n",
	), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Agents)
	assert.Equal(t, 10, cfg.Steps)
	assert.Equal(t, "behavioural_independence", cfg.AlphaChange)
	assert.Equal(t, uint64(7), cfg.Seed)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().CulturalInertia, cfg.CulturalInertia)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agnets: 50\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compression_factor: 0\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "compression_factor")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
