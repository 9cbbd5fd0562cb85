// Command groundcount counts the items named during a 5-4-3-2-1 grounding
// exercise, from typed text, recorded recognizer snapshots, or live
// WebSocket sessions.
//
// Usage:
//
//	groundcount count "a dog, the sky and a tree"
//	groundcount replay testdata/see.yaml --verbose
//	recognizer-bridge | groundcount stream
//	groundcount serve --addr :8765
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/chaz8081/groundcount/internal/config"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `env:"GROUNDCOUNT_CONFIG" help:"Path to config file (default: ~/.config/groundcount/config.yaml)"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`
}

var cli struct {
	Globals `embed:""`

	Count      CountCmd      `cmd:"" help:"Count items in typed text"`
	Replay     ReplayCmd     `cmd:"" help:"Replay recorded recognizer snapshots through a counting session"`
	Stream     StreamCmd     `cmd:"" help:"Count JSON snapshots read line by line from stdin"`
	Serve      ServeCmd      `cmd:"" help:"Serve counting sessions over WebSocket"`
	Senses     SensesCmd     `cmd:"" help:"List the exercise steps and their prompts"`
	InitConfig InitConfigCmd `cmd:"" help:"Write the default config file"`
}

func main() {
	loadEnvFiles()

	ctx := kong.Parse(&cli,
		kong.Name("groundcount"),
		kong.Description("Counts the distinct items a user names while listing things aloud or in text."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(&cli.Globals); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// loadEnvFiles loads GROUNDCOUNT_* variables from .env files, if present.
func loadEnvFiles() {
	envFiles := []string{".env", "groundcount.env"}
	if dir := config.DefaultConfigDir(); dir != "" {
		envFiles = append(envFiles, filepath.Join(dir, "groundcount.env"))
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", f, err)
		}
	}
}

// setup loads and validates the config and installs the default logger.
func (g *Globals) setup() (*config.Config, error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.ApplyEnv()
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))
	return cfg, nil
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		slog.Debug("config loaded", "path", defaultPath)
		return cfg, nil
	}

	return config.Default(), nil
}
