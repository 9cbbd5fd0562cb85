package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chaz8081/groundcount/internal/itemcount"
)

// Config holds all application configuration.
type Config struct {
	Counting CountingConfig `yaml:"counting"`
	Server   ServerConfig   `yaml:"server"`
	LogLevel string         `yaml:"log_level"`
}

// CountingConfig holds item counting engine settings.
type CountingConfig struct {
	PauseThreshold   time.Duration `yaml:"pause_threshold"`
	DebounceInterval time.Duration `yaml:"debounce_interval"`
	FillerWords      []string      `yaml:"filler_words"`
}

// ServerConfig holds the WebSocket counting service settings.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Metrics bool   `yaml:"metrics"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "groundcount")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	p := itemcount.DefaultParams()
	return &Config{
		Counting: CountingConfig{
			PauseThreshold:   p.PauseThreshold,
			DebounceInterval: p.DebounceInterval,
			FillerWords:      p.FillerWords,
		},
		Server: ServerConfig{
			Addr:    "127.0.0.1:8765",
			Metrics: true,
		},
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(expandTilde(path))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file settings with GROUNDCOUNT_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GROUNDCOUNT_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("GROUNDCOUNT_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Counting.PauseThreshold <= 0 {
		return fmt.Errorf("counting.pause_threshold must be > 0, got %s", c.Counting.PauseThreshold)
	}

	if c.Counting.DebounceInterval < 0 {
		return fmt.Errorf("counting.debounce_interval must be >= 0, got %s", c.Counting.DebounceInterval)
	}

	for i, w := range c.Counting.FillerWords {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("counting.filler_words[%d] must not be empty", i)
		}
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// Params converts the counting settings into engine parameters.
func (c CountingConfig) Params() itemcount.Params {
	return itemcount.Params{
		PauseThreshold:   c.PauseThreshold,
		DebounceInterval: c.DebounceInterval,
		FillerWords:      append([]string(nil), c.FillerWords...),
	}
}

// ParseLogLevel maps a config log level to a slog level. Unknown values
// default to info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const defaultHeader = `# groundcount configuration
#
# pause_threshold: minimum silence between words that separates two items
# debounce_interval: minimum time between repeated emissions of the same count
`

// WriteDefault writes the default config to DefaultConfigPath. It returns
// the path written, or "" if a config file already exists.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(defaultHeader+"\n"), data...), 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
