package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ctmcsim/internal/atom"
	"github.com/san-kum/ctmcsim/internal/elements"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "H", cfg.Target.Element)
	assert.Equal(t, "kepler", cfg.Target.Model)
	assert.Greater(t, cfg.StopDistance, cfg.StartDistance)
	require.NoError(t, cfg.Validate())
}

func TestExperiment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target.Element = "he"
	cfg.Target.Configuration = "H"
	cfg.Target.Model = "kirschbaum-wilets"
	cfg.Track = []int{1, 2}

	exp, err := cfg.Experiment()
	require.NoError(t, err)

	assert.Equal(t, elements.He, exp.Target.Element)
	assert.Equal(t, elements.H, exp.Target.Configuration)
	assert.Equal(t, atom.Cohen, exp.Target.Model)
	assert.Equal(t, []int{1, 2}, exp.Track)

	// the experiment owns its track slice
	cfg.Track[0] = 99
	assert.Equal(t, 1, exp.Track[0])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown element", func(c *Config) { c.Target.Element = "K" }},
		{"unknown configuration", func(c *Config) { c.Target.Configuration = "Xx" }},
		{"unknown model", func(c *Config) { c.Target.Model = "bohr" }},
		{"zero rounds", func(c *Config) { c.Rounds = 0 }},
		{"negative b2max", func(c *Config) { c.B2Max = -1 }},
		{"bad heisenberg", func(c *Config) { c.Target.Heisenberg = &atom.HeisenbergParams{Alpha: 0, Xi: 1} }},
		{"bad projectile heisenberg", func(c *Config) { c.Projectile.Heisenberg = &atom.HeisenbergParams{Alpha: 1, Xi: -1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")

	cfg := GetPreset("helium", "proton-kw")
	require.NotNil(t, cfg)
	cfg.Track = []int{0, 3}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rounds: 7\nprojectile:\n  energy_kev: 30\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Rounds)
	assert.Equal(t, 30.0, cfg.Projectile.EnergyKeV)
	assert.Equal(t, DefaultConfig().Projectile.Mass, cfg.Projectile.Mass)
	assert.Equal(t, DefaultConfig().StopDistance, cfg.StopDistance)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rounds: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("hydrogen", "head-on")
	require.NotNil(t, cfg)
	assert.Zero(t, cfg.B2Max)

	// presets are handed out as copies
	cfg.Rounds = 1
	assert.NotEqual(t, 1, GetPreset("hydrogen", "head-on").Rounds)
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("hydrogen", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "proton-50kev"))
}

func TestPresetsAreValid(t *testing.T) {
	for _, target := range Targets() {
		for _, name := range ListPresets(target) {
			t.Run(target+"/"+name, func(t *testing.T) {
				assert.NoError(t, GetPreset(target, name).Validate())
			})
		}
	}
	assert.Nil(t, ListPresets("nonexistent"))
}
