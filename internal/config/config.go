package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the docsense API configuration.
type Config struct {
	HTTP        HTTPConfig    `yaml:"http"`
	Auth        AuthConfig    `yaml:"auth"`
	Engine      EngineConfig  `yaml:"engine"`
	Session     SessionConfig `yaml:"session"`
	Logging     LoggingConfig `yaml:"logging"`
	MCP         MCPConfig     `yaml:"mcp"`
	OwnerNumber string        `yaml:"owner_number"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// MCPConfig holds MCP transport settings.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // mount path on the HTTP server (default: /mcp)
}

// EngineConfig holds analysis, search and classification tuning.
type EngineConfig struct {
	SummaryLength    int     `yaml:"summary_length"`     // sentences per summary (default: 4)
	WordsPerMinute   int     `yaml:"words_per_minute"`   // reading speed (default: 200)
	ContextChars     int     `yaml:"context_chars"`      // chars of context around search hits (default: 50)
	MaxHits          int     `yaml:"max_hits"`           // search hit cap (default: 10)
	ClassifyMinScore float64 `yaml:"classify_min_score"` // score below which category falls back to general
}

// SessionConfig holds the per-user session store settings.
type SessionConfig struct {
	MaxDocuments int    `yaml:"max_documents"` // 0 = unlimited
	Eviction     string `yaml:"eviction"`      // evict_oldest, reject_new (default: evict_oldest)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Engine.SummaryLength <= 0 {
		c.Engine.SummaryLength = 4
	}
	if c.Engine.WordsPerMinute <= 0 {
		c.Engine.WordsPerMinute = 200
	}
	if c.Engine.ContextChars <= 0 {
		c.Engine.ContextChars = 50
	}
	if c.Engine.MaxHits <= 0 {
		c.Engine.MaxHits = 10
	}
	if c.Engine.ClassifyMinScore <= 0 {
		c.Engine.ClassifyMinScore = 2.0
	}
	if c.Session.Eviction == "" {
		c.Session.Eviction = "evict_oldest"
	}
	if c.MCP.Path == "" {
		c.MCP.Path = "/mcp"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Session.Eviction {
	case "evict_oldest", "reject_new":
		// ok
	default:
		return fmt.Errorf(
			"session.eviction must be \"evict_oldest\" or \"reject_new\", got %q",
			c.Session.Eviction,
		)
	}
	if c.Session.MaxDocuments < 0 {
		return fmt.Errorf("session.max_documents must not be negative, got %d", c.Session.MaxDocuments)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
