package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/viz-backend/internal/dto"
	"github.com/GregMSThompson/viz-backend/pkg/helpers"
)

type Config struct {
	Port               string
	ProjectID          string
	Region             string
	LogLevel           string
	Generator          dto.GeneratorBackend
	VertexModel        string
	GeminiModel        string
	GeminiEndpoint     string
	GeminiAPIKey       string
	GeminiAPIKeySecret string
	GenerationTimeout  time.Duration
	Temperature        *float32
}

// New loads an optional .env file and reads the process environment.
func New() *Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	return &Config{
		Port:               getOrDefault("PORT", "8080"),
		ProjectID:          os.Getenv("PROJECTID"),
		Region:             os.Getenv("REGION"),
		LogLevel:           os.Getenv("LOGLEVEL"),
		Generator:          getGenerator(os.Getenv("GENERATOR")),
		VertexModel:        getOrDefault("VERTEXMODEL", "gemini-1.5-flash"),
		GeminiModel:        getOrDefault("GEMINIMODEL", "gemini-1.5-flash"),
		GeminiEndpoint:     os.Getenv("GEMINIENDPOINT"),
		GeminiAPIKey:       os.Getenv("GEMINIAPIKEY"),
		GeminiAPIKeySecret: os.Getenv("GEMINIAPIKEYSECRET"),
		GenerationTimeout:  getDuration(os.Getenv("GENERATIONTIMEOUT"), 30*time.Second),
		Temperature:        getFloat32(os.Getenv("TEMPERATURE")),
	}
}

func getGenerator(backend string) dto.GeneratorBackend {
	switch backend {
	case "gemini":
		return dto.GeneratorGemini
	default: // "vertex"
		return dto.GeneratorVertex
	}
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getFloat32(raw string) *float32 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return nil
	}
	return helpers.Ptr(float32(f))
}
