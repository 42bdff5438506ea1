package config

import (
	"os"
	"testing"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Engine.FloorHeightM != 2.7 {
		t.Errorf("Expected floor height 2.7, got %v", cfg.Engine.FloorHeightM)
	}
	if cfg.Engine.FootprintToleranceM != 0.5 {
		t.Errorf("Expected footprint tolerance 0.5, got %v", cfg.Engine.FootprintToleranceM)
	}
	if cfg.Engine.SketchToleranceM != 0.3 {
		t.Errorf("Expected sketch tolerance 0.3, got %v", cfg.Engine.SketchToleranceM)
	}
	if cfg.Engine.DefaultYear != 1980 {
		t.Errorf("Expected default year 1980, got %d", cfg.Engine.DefaultYear)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("ENV", "production")
	os.Setenv("ENGINE_FLOOR_HEIGHT_M", "3.0")
	os.Setenv("ENGINE_FOOTPRINT_TOLERANCE_M", "0.8")
	os.Setenv("ENGINE_SKETCH_TOLERANCE_M", "0.2")
	os.Setenv("ENGINE_DEFAULT_YEAR", "1995")
	os.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify all values from environment
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if cfg.Engine.FloorHeightM != 3.0 {
		t.Errorf("Expected floor height 3.0, got %v", cfg.Engine.FloorHeightM)
	}
	if cfg.Engine.FootprintToleranceM != 0.8 {
		t.Errorf("Expected footprint tolerance 0.8, got %v", cfg.Engine.FootprintToleranceM)
	}
	if cfg.Engine.SketchToleranceM != 0.2 {
		t.Errorf("Expected sketch tolerance 0.2, got %v", cfg.Engine.SketchToleranceM)
	}
	if cfg.Engine.DefaultYear != 1995 {
		t.Errorf("Expected default year 1995, got %d", cfg.Engine.DefaultYear)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
}

func TestValidate_InvalidEngineValues(t *testing.T) {
	tests := []struct {
		name    string
		engine  EngineConfig
		wantErr bool
	}{
		{
			name:    "zero floor height",
			engine:  EngineConfig{FloorHeightM: 0, FootprintToleranceM: 0.5, SketchToleranceM: 0.3, DefaultYear: 1980},
			wantErr: true,
		},
		{
			name:    "negative footprint tolerance",
			engine:  EngineConfig{FloorHeightM: 2.7, FootprintToleranceM: -1, SketchToleranceM: 0.3, DefaultYear: 1980},
			wantErr: true,
		},
		{
			name:    "zero sketch tolerance",
			engine:  EngineConfig{FloorHeightM: 2.7, FootprintToleranceM: 0.5, SketchToleranceM: 0, DefaultYear: 1980},
			wantErr: true,
		},
		{
			name:    "implausible default year",
			engine:  EngineConfig{FloorHeightM: 2.7, FootprintToleranceM: 0.5, SketchToleranceM: 0.3, DefaultYear: 80},
			wantErr: true,
		},
		{
			name:    "valid engine config",
			engine:  EngineConfig{FloorHeightM: 2.7, FootprintToleranceM: 0.5, SketchToleranceM: 0.3, DefaultYear: 1980},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server: ServerConfig{
					Port: "8080",
					Env:  "development",
				},
				Engine: tt.engine,
				CORS: CORSConfig{
					Origins: []string{"http://localhost:3000"},
				},
			}

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	validEngine := EngineConfig{FloorHeightM: 2.7, FootprintToleranceM: 0.5, SketchToleranceM: 0.3, DefaultYear: 1980}

	tests := []struct {
		name   string
		config *Config
	}{
		{
			name: "missing port",
			config: &Config{
				Server: ServerConfig{Port: "", Env: "development"},
				Engine: validEngine,
				CORS:   CORSConfig{Origins: []string{"http://localhost:3000"}},
			},
		},
		{
			name: "missing CORS origins",
			config: &Config{
				Server: ServerConfig{Port: "8080", Env: "development"},
				Engine: validEngine,
				CORS:   CORSConfig{Origins: []string{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if err == nil {
				t.Error("Expected validation error but got none")
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "single origin",
			input:  "http://localhost:3000",
			expect: []string{"http://localhost:3000"},
		},
		{
			name:   "multiple origins",
			input:  "http://localhost:3000,http://localhost:3001",
			expect: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		{
			name:   "origins with spaces",
			input:  " http://localhost:3000 , http://localhost:3001 ",
			expect: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		{
			name:   "empty string",
			input:  "",
			expect: []string{},
		},
		{
			name:   "only commas",
			input:  ",,,",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != len(tt.expect) {
				t.Errorf("Expected %d origins, got %d", len(tt.expect), len(result))
				return
			}
			for i, origin := range result {
				if origin != tt.expect[i] {
					t.Errorf("Expected origin %s at index %d, got %s", tt.expect[i], i, origin)
				}
			}
		})
	}
}

// Helper function to clear all config-related environment variables
func clearConfigEnvVars() {
	os.Unsetenv("PORT")
	os.Unsetenv("ENV")
	os.Unsetenv("ENGINE_FLOOR_HEIGHT_M")
	os.Unsetenv("ENGINE_FOOTPRINT_TOLERANCE_M")
	os.Unsetenv("ENGINE_SKETCH_TOLERANCE_M")
	os.Unsetenv("ENGINE_DEFAULT_YEAR")
	os.Unsetenv("CORS_ORIGINS")
}
