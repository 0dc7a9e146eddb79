package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_GeminiRotationList(t *testing.T) {
	os.Setenv("GEMINI_MODELS", "gemini-2.5-flash, gemini-2.0-flash")
	defer os.Unsetenv("GEMINI_MODELS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.0-flash"}, cfg.Gemini.Models)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("GEMINI_MODELS")
	os.Unsetenv("SEARCH_RADIUS_KM")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 3.0, cfg.Search.RadiusKm)
	assert.Len(t, cfg.Gemini.Models, 3)
	assert.Equal(t, 500, cfg.Gemini.RotationDelayMs)
	assert.Equal(t, "bodega_marketplace", cfg.Database.Database)
}

func TestLoad_SearchRadiusOverride(t *testing.T) {
	os.Setenv("SEARCH_RADIUS_KM", "5.5")
	defer os.Unsetenv("SEARCH_RADIUS_KM")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 5.5, cfg.Search.RadiusKm)
}
