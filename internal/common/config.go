// Package common provides shared utilities for finlens
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultFloorYear is the earliest fiscal year the fetch loop will request.
const DefaultFloorYear = 2015

// Config holds all configuration for finlens
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	RateLimit int    `toml:"rate_limit"` // requests per minute per client IP, 0 disables
}

// StorageConfig holds SurrealDB connection settings for the company directory.
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	DART   DARTConfig   `toml:"dart"`
	Gemini GeminiConfig `toml:"gemini"`
}

// DARTConfig holds disclosure API configuration
type DARTConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	FloorYear int    `toml:"floor_year"`
}

// GetTimeout parses and returns the per-attempt timeout
func (c *DARTConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// GetFloorYear returns the configured floor year or the default
func (c *DARTConfig) GetFloorYear() int {
	if c.FloorYear <= 0 {
		return DefaultFloorYear
	}
	return c.FloorYear
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the narrative generation timeout
func (c *GeminiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			RateLimit: 120,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Namespace: "finlens",
			Database:  "finlens",
			Username:  "root",
			Password:  "root",
		},
		Clients: ClientsConfig{
			DART: DARTConfig{
				BaseURL:   "https://opendart.fss.or.kr/api",
				RateLimit: 10,
				Timeout:   "10s",
				FloorYear: DefaultFloorYear,
			},
			Gemini: GeminiConfig{
				Model:   "gemini-2.0-flash",
				Timeout: "60s",
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Outputs:  []string{"console"},
			FilePath: "./logs/finlens.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory, when present, is loaded first so
// its values participate in the overrides.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadDotEnv loads variables from a dotenv file without overriding values
// already present in the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINLENS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINLENS_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINLENS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("FINLENS_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}

	if v := os.Getenv("FINLENS_DART_FLOOR_YEAR"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			config.Clients.DART.FloorYear = y
		}
	}

	if key := ResolveAPIKey("dart_api_key", ""); key != "" {
		config.Clients.DART.APIKey = key
	}
	if key := ResolveAPIKey("gemini_api_key", ""); key != "" {
		config.Clients.Gemini.APIKey = key
	}
}

// ValidateRequired returns the config keys that must be set before the
// financial endpoints can serve data.
func (c *Config) ValidateRequired() []string {
	var missing []string
	if strings.TrimSpace(c.Clients.DART.APIKey) == "" {
		missing = append(missing, "clients.dart.api_key")
	}
	return missing
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from the environment, returning fallback
// when no mapped variable is set.
func ResolveAPIKey(name string, fallback string) string {
	keyToEnvMapping := map[string][]string{
		"dart_api_key":   {"DART_API_KEY", "FINLENS_DART_API_KEY"},
		"gemini_api_key": {"GEMINI_API_KEY", "FINLENS_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue
			}
		}
	}

	return fallback
}
