package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/viz-backend/internal/dto"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GENERATOR", "")
	t.Setenv("VERTEXMODEL", "")
	t.Setenv("GENERATIONTIMEOUT", "")
	t.Setenv("TEMPERATURE", "")

	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, dto.GeneratorVertex, cfg.Generator)
	assert.Equal(t, "gemini-1.5-flash", cfg.VertexModel)
	assert.Equal(t, 30*time.Second, cfg.GenerationTimeout)
	assert.Nil(t, cfg.Temperature)
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GENERATOR", "gemini")
	t.Setenv("GEMINIAPIKEY", "k")
	t.Setenv("GENERATIONTIMEOUT", "5s")
	t.Setenv("TEMPERATURE", "0.2")

	cfg := New()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, dto.GeneratorGemini, cfg.Generator)
	assert.Equal(t, "k", cfg.GeminiAPIKey)
	assert.Equal(t, 5*time.Second, cfg.GenerationTimeout)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.2, *cfg.Temperature, 0.0001)
}

func TestGetDurationRejectsInvalid(t *testing.T) {
	assert.Equal(t, time.Minute, getDuration("soon", time.Minute))
	assert.Equal(t, time.Minute, getDuration("-1s", time.Minute))
}
