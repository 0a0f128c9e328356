package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Port           int           `yaml:"port"`
	OllamaURL      string        `yaml:"ollama_url"`
	DefaultModel   string        `yaml:"default_model"`
	Env            string        `yaml:"env"`
	UploadDir      string        `yaml:"upload_dir"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Port:           5000,
		OllamaURL:      "http://127.0.0.1:11434",
		DefaultModel:   "phi3:mini",
		Env:            "development",
		UploadDir:      "uploads",
		RequestTimeout: 120 * time.Second,
	}
}

// LoadConfig loads configuration from an optional YAML file with environment
// variable substitution, then applies environment variable overrides.
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	cfg := Defaults()

	// Read config file when present; absence falls back to defaults + env
	if data, err := os.ReadFile(configPath); err == nil {
		content := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %v", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	if err := cfg.ensureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %v", err)
	}

	return cfg, nil
}

// applyEnvOverrides lets environment variables take precedence over file values
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		c.OllamaURL = v
	}
	if v := os.Getenv("DEFAULT_MODEL"); v != "" {
		c.DefaultModel = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.OllamaURL == "" {
		return fmt.Errorf("ollama URL is required")
	}

	if c.DefaultModel == "" {
		return fmt.Errorf("default model is required")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}

	return nil
}

// IsProduction reports whether the service runs in production mode.
// Error details are withheld from responses when it does.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ensureDirectories creates necessary directories
func (c *Config) ensureDirectories() error {
	if err := os.MkdirAll(c.UploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", c.UploadDir, err)
	}
	return nil
}

// expandEnvVars expands environment variables in the format ${VAR_NAME}
func expandEnvVars(content string) string {
	return os.Expand(content, func(key string) string {
		return os.Getenv(key)
	})
}
