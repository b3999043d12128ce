package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchquant/pitchquant/internal/model"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5000, cfg.NSimulations)
	assert.Equal(t, 0.25, cfg.KellyCap)
	assert.NotEmpty(t, cfg.SweetSpots)
	assert.NotEmpty(t, cfg.HighVariance)
	assert.Contains(t, cfg.CupRemap, "FA Cup")
}

func TestShrinkageC(t *testing.T) {
	table := Default().Shrinkage
	assert.Equal(t, 2, table.C(3))
	assert.Equal(t, 2, table.C(-2))
	assert.Equal(t, 5, table.C(1))
	assert.Equal(t, 5, table.C(-1))
	assert.Equal(t, 10, table.C(0))
}

func TestBandContains(t *testing.T) {
	b := Band{Low: 0.55, High: 0.70}
	assert.True(t, b.Contains(0.55))
	assert.True(t, b.Contains(0.70))
	assert.True(t, b.Contains(0.62))
	assert.False(t, b.Contains(0.5499))
	assert.False(t, b.Contains(0.71))
}

func TestLoad_MissingPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("does/not/exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default().NSimulations, cfg.NSimulations)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().KellyCap, cfg.KellyCap)
}

func TestLoad_OverlayOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	overlay := `
n_simulations: 2000
kelly_cap: 0.10
crusher:
  exponent: 2.0
  floor: 0.25
  neutral_rate: 35
  span: 70
sweet_spots:
  over_25: {low: 0.50, high: 0.72}
`
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.NSimulations)
	assert.Equal(t, 0.10, cfg.KellyCap)
	assert.Equal(t, 2.0, cfg.Crusher.Exponent)
	assert.Equal(t, 35.0, cfg.Crusher.NeutralRate)
	assert.Equal(t, Band{Low: 0.50, High: 0.72}, cfg.SweetSpots[model.MarketOver25])

	// Untouched knobs keep their defaults.
	assert.Equal(t, Default().XGClipMax, cfg.XGClipMax)
	assert.Equal(t, Default().Tiers, cfg.Tiers)
}

func TestLoad_RejectsInvalidOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("n_simulations: 10\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "n_simulations")
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- not yaml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"low simulations", func(c *Config) { c.NSimulations = 50 }},
		{"inverted clip", func(c *Config) { c.XGClipMin = 3; c.XGClipMax = 1 }},
		{"zero clip min", func(c *Config) { c.XGClipMin = 0 }},
		{"kelly cap over one", func(c *Config) { c.KellyCap = 1.5 }},
		{"kelly cap zero", func(c *Config) { c.KellyCap = 0 }},
		{"crusher floor one", func(c *Config) { c.Crusher.Floor = 1 }},
		{"crusher span zero", func(c *Config) { c.Crusher.Span = 0 }},
		{"band inverted", func(c *Config) {
			c.SweetSpots[model.MarketHome] = Band{Low: 0.8, High: 0.2}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
