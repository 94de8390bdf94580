package config

import (
	"path/filepath"
	"testing"

	"gapminder/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"DATA_DIR", "POPULATION_FILE", "LIFE_EXPECTANCY_FILE", "GNI_FILE", "PORT", "LOG_LEVEL", "DEFAULT_COUNTRIES"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, filepath.Join("data", "population.csv"), cfg.Data.PopulationPath())
	assert.Equal(t, filepath.Join("data", "life_expectancy.csv"), cfg.Data.LifeExpectancyPath())
	assert.Equal(t, filepath.Join("data", "gni_per_capita.csv"), cfg.Data.GNIPath())
	assert.Equal(t, []string{"Germany", "United States"}, cfg.Data.DefaultCountries)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	abs := filepath.Join(t.TempDir(), "gni.xlsx")
	t.Setenv("DATA_DIR", "/srv/gapminder")
	t.Setenv("GNI_FILE", abs)
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_COUNTRIES", " Japan , ,Brazil")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, abs, cfg.Data.GNIPath())
	assert.Equal(t, filepath.Join("/srv/gapminder", "population.csv"), cfg.Data.PopulationPath())
	assert.Equal(t, []string{"Japan", "Brazil"}, cfg.Data.DefaultCountries)
}

func TestLoadRejectsBadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
