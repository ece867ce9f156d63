// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Defaults applied when neither flags, the config file nor the environment set a value
const (
	DefaultPort       = 8080
	DefaultModelTier  = "standard"
	DefaultDailyLimit = 3
)

// Config represents the configuration that can be loaded from a JSON file or the environment.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Server
	Port       int `json:"port,omitempty"`        // HTTP listen port
	DailyLimit int `json:"daily_limit,omitempty"` // Free generations per user per UTC day

	// Generation
	APIKey    string `json:"api_key,omitempty"`    // Gemini API key
	ModelTier string `json:"model_tier,omitempty"` // lite, standard or advanced
	Model     string `json:"model,omitempty"`      // Overrides the model serving ModelTier

	// Scoring
	RulesFile string `json:"rules_file,omitempty"` // YAML rule overrides

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads GEMINI_API_KEY, GEMINI_MODEL, DATABASE_URL, PORT, FREE_DAILY_LIMIT, MODEL_TIER and RULES_FILE.
// Unparseable numbers are reported rather than ignored.
func FromEnv() (Config, error) {
	cfg := Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ModelTier:   os.Getenv("MODEL_TIER"),
		Model:       os.Getenv("GEMINI_MODEL"),
		RulesFile:   os.Getenv("RULES_FILE"),
	}

	var err error
	if cfg.Port, err = envInt("PORT"); err != nil {
		return Config{}, err
	}
	if cfg.DailyLimit, err = envInt("FREE_DAILY_LIMIT"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envInt(key string) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.DailyLimit < 0 {
		return fmt.Errorf("config error: 'daily_limit' must be non-negative")
	}

	switch c.ModelTier {
	case "", "lite", "standard", "advanced":
	default:
		return fmt.Errorf("config error: unknown 'model_tier' %q", c.ModelTier)
	}

	if c.RulesFile != "" {
		if _, err := os.Stat(c.RulesFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: rules file not found: %s", c.RulesFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// then from the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ModelTier == "" {
		result.ModelTier = defaults.ModelTier
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.RulesFile == "" {
		result.RulesFile = defaults.RulesFile
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DailyLimit == 0 {
		result.DailyLimit = defaults.DailyLimit
	}

	if result.ModelTier == "" {
		result.ModelTier = DefaultModelTier
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.DailyLimit == 0 {
		result.DailyLimit = DefaultDailyLimit
	}

	// Bools cannot distinguish unset from false; flags win.

	return result
}
