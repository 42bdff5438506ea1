package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Engine EngineConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// EngineConfig holds the estimation engine defaults. They are passed
// explicitly into the estimator; nothing reads them globally.
type EngineConfig struct {
	FloorHeightM        float64
	FootprintToleranceM float64
	SketchToleranceM    float64
	DefaultYear         int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("ENGINE_FLOOR_HEIGHT_M", 2.7)
	v.SetDefault("ENGINE_FOOTPRINT_TOLERANCE_M", 0.5)
	v.SetDefault("ENGINE_SKETCH_TOLERANCE_M", 0.3)
	v.SetDefault("ENGINE_DEFAULT_YEAR", 1980)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Engine: EngineConfig{
			FloorHeightM:        v.GetFloat64("ENGINE_FLOOR_HEIGHT_M"),
			FootprintToleranceM: v.GetFloat64("ENGINE_FOOTPRINT_TOLERANCE_M"),
			SketchToleranceM:    v.GetFloat64("ENGINE_SKETCH_TOLERANCE_M"),
			DefaultYear:         v.GetInt("ENGINE_DEFAULT_YEAR"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Validate engine config
	if c.Engine.FloorHeightM <= 0 {
		return fmt.Errorf("ENGINE_FLOOR_HEIGHT_M must be positive")
	}
	if c.Engine.FootprintToleranceM <= 0 {
		return fmt.Errorf("ENGINE_FOOTPRINT_TOLERANCE_M must be positive")
	}
	if c.Engine.SketchToleranceM <= 0 {
		return fmt.Errorf("ENGINE_SKETCH_TOLERANCE_M must be positive")
	}
	if c.Engine.DefaultYear < 1700 {
		return fmt.Errorf("ENGINE_DEFAULT_YEAR must be a plausible construction year")
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
