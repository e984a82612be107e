/*
PURPOSE:
  Defines the configuration structure and loading logic for powertrace.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the AI endpoint, model, timeout and credential.
  - Allow tuning of the bus power model coefficients.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Credential should also come from the GEMINI_API_KEY environment
    variable so it never has to live in a checked-in file.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/ai, internal/engine, internal/api
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing config file silently falls back to defaults.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should be sensible (60s AI timeout, 1-50 sample bound).

USAGE:
  cfg, err := config.Load("powertrace.yaml")

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AIConfig holds settings for the generative AI text service.
type AIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	APIKey  string        `yaml:"api_key"` // prefer GEMINI_API_KEY env
	Timeout time.Duration `yaml:"timeout"`
}

// PowerConfig holds the bus power model coefficients.
// power = base + leakage*hamming_weight + transition*hamming_distance
type PowerConfig struct {
	Base       float64 `yaml:"base"`
	Leakage    float64 `yaml:"leakage"`
	Transition float64 `yaml:"transition"`
}

// ServeConfig holds settings for the browser-facing API server.
type ServeConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Config represents the full configuration for powertrace.
type Config struct {
	AI    AIConfig    `yaml:"ai"`
	Power PowerConfig `yaml:"power"`
	Serve ServeConfig `yaml:"serve"`

	// MaxSamples bounds random-mode runs to keep interactive runs small.
	MaxSamples int `yaml:"max_samples"`

	OutputDir  string `yaml:"output_dir"`
	OutputFile string `yaml:"output_file"` // CSV filename base
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			BaseURL: "https://generativelanguage.googleapis.com",
			Model:   "gemini-2.0-flash",
			Timeout: 60 * time.Second,
		},
		Power: PowerConfig{
			Base:       1.0,
			Leakage:    0.1,
			Transition: 0.5,
		},
		Serve: ServeConfig{
			Host:        "localhost",
			Port:        8081,
			CORSOrigins: []string{"http://localhost:5173"},
		},
		MaxSamples: 50,
		OutputDir:  ".",
		OutputFile: "power_trace.csv",
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file is found, returns the default config.
// The GEMINI_API_KEY environment variable always overrides the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		// Search for defaults
		defaults := []string{"powertrace.yaml", "powertrace.conf"}
		found := false
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name // record which file we loaded
				found = true
				break
			}
		}
		if !found {
			cfg.applyEnv()
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.AI.APIKey = key
	}
}
