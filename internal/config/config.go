package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini  = "gemini"
	ProviderGateway = "gateway"
)

// Config holds all NutriSnap configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Provider ProviderConfig `yaml:"provider"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ProviderConfig selects and configures the image identification backend.
type ProviderConfig struct {
	Name    string        `yaml:"name"` // gemini, gateway
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout string        `yaml:"timeout"`
	Gateway GatewayConfig `yaml:"gateway"`
}

// GatewayConfig points at an mcp-compose proxy fronting an OpenRouter gateway.
type GatewayConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8011,
		},
		Storage: StorageConfig{
			DatabasePath: "data/nutrisnap.db",
		},
		Provider: ProviderConfig{
			Name:    ProviderGemini,
			Model:   "gemini-2.0-flash",
			Timeout: "60s",
			Gateway: GatewayConfig{
				URL:   "http://mcp-compose-http-proxy:9876",
				Model: "anthropic/claude-3.5-sonnet",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads .env style files into the process environment. Files that
// do not exist are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Provider.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.Provider.APIKey == "" {
		c.Provider.APIKey = key
	}
	if v := os.Getenv("NUTRISNAP_PROVIDER"); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv("NUTRISNAP_MODEL"); v != "" {
		c.Provider.Model = v
	}
	if v := os.Getenv("MCP_PROXY_URL"); v != "" {
		c.Provider.Gateway.URL = v
	}
	if v := os.Getenv("MCP_PROXY_API_KEY"); v != "" {
		c.Provider.Gateway.APIKey = v
	}
	if v := os.Getenv("OPENROUTER_MODEL"); v != "" {
		c.Provider.Gateway.Model = v
	}
	if v := os.Getenv("NUTRISNAP_DB_PATH"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("NUTRISNAP_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("NUTRISNAP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("NUTRISNAP_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks everything except provider credentials, which only
// commands that call the model need. See ValidateProvider.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}
	if _, err := c.ProviderTimeout(); err != nil {
		return err
	}
	return nil
}

func (c *Config) ValidateProvider() error {
	switch c.Provider.Name {
	case ProviderGemini:
		if c.Provider.APIKey == "" {
			return fmt.Errorf("gemini provider requires an API key (set GEMINI_API_KEY)")
		}
	case ProviderGateway:
		if c.Provider.Gateway.URL == "" {
			return fmt.Errorf("gateway provider requires provider.gateway.url (or MCP_PROXY_URL)")
		}
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider.Name, ProviderGemini, ProviderGateway)
	}
	return nil
}

// ProviderTimeout parses provider.timeout. Empty means no timeout.
func (c *Config) ProviderTimeout() (time.Duration, error) {
	if c.Provider.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Provider.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid provider.timeout %q: %w", c.Provider.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid provider.timeout %q: negative", c.Provider.Timeout)
	}
	return d, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
