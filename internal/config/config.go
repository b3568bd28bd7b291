package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cgast/should/internal/sandbox"
	"github.com/cgast/should/pkg/verify"
)

// DefaultPath is where the CLI looks for its config, relative to the
// working directory.
const DefaultPath = ".should/config.yaml"

// Config represents the runtime configuration from .should/config.yaml.
type Config struct {
	Mode      string         `yaml:"mode"`       // default engine mode for plans that declare none
	LogLevel  string         `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string         `yaml:"log_format"` // text or json
	Journal   JournalConfig  `yaml:"journal"`
	Sandbox   sandbox.Config `yaml:"sandbox"` // files serve may read for its clients
}

// JournalConfig defines plan run history settings.
type JournalConfig struct {
	Path       string `yaml:"path"`
	Persist    bool   `yaml:"persist"`
	MaxEntries int    `yaml:"max_entries"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Mode:      "collect",
		LogLevel:  "info",
		LogFormat: "text",
		Journal: JournalConfig{
			Path:       ".should/journal.db",
			Persist:    true,
			MaxEntries: 1000,
		},
	}
}

// LoadConfig reads and parses a runtime config YAML file, after replacing
// ${VAR} references with environment values. Returns default config if
// the file doesn't exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	interpolated := interpolateEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(interpolated), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := c.EngineMode(); err != nil {
		return fmt.Errorf("mode: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format: unknown format %q (expected text or json)", c.LogFormat)
	}
	if c.Journal.Persist && c.Journal.Path == "" {
		return fmt.Errorf("journal.path: required when journal.persist is set")
	}
	if c.Journal.MaxEntries < 0 {
		return fmt.Errorf("journal.max_entries: must not be negative")
	}
	if _, err := c.NewSandbox(); err != nil {
		return err
	}
	return nil
}

// NewSandbox builds the sandbox described by Sandbox.
func (c Config) NewSandbox() (*sandbox.Sandbox, error) {
	return sandbox.New(c.Sandbox)
}

// EngineMode parses Mode.
func (c Config) EngineMode() (verify.Mode, error) {
	return verify.ParseMode(c.Mode)
}

// Level parses LogLevel. Empty means info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// Logger builds a slog.Logger writing to w in the configured format and
// level. verbose forces debug level.
func (c Config) Logger(w io.Writer, verbose bool) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolateEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func interpolateEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match // Leave unresolved if not set.
	})
}
