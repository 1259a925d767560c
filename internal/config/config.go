// Package config loads application settings with Viper.
//
// Precedence, lowest first: built-in defaults, the config file, CADNANO_*
// environment variables, command-line flags. Keys are dotted paths such as
// "journal.path"; the matching environment variable is CADNANO_JOURNAL_PATH.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// JournalConfig locates the edit journal.
type JournalConfig struct {
	// path to the SQLite journal; empty disables journaling
	Path string `mapstructure:"path"`
}

// DesignConfig holds defaults for new designs.
type DesignConfig struct {
	// add_helix length when a command gives none
	DefaultLength int `mapstructure:"default-length"`

	// run the engine's invariant check after every mutation
	InvariantChecks bool `mapstructure:"invariant-checks"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig configures command output.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// Config is the root settings struct.
type Config struct {
	Journal JournalConfig `mapstructure:"journal"`
	Design  DesignConfig  `mapstructure:"design"`
	Log     LogConfig     `mapstructure:"log"`
	Output  OutputConfig  `mapstructure:"output"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"db":        "journal.path",
	"length":    "design.default-length",
	"log-level": "log.level",
	"format":    "output.format",
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Design: DesignConfig{DefaultLength: 42, InvariantChecks: true},
		Log:    LogConfig{Level: "warn", Format: "text"},
		Output: OutputConfig{Format: "text"},
	}
}

// Load reads settings. file is an explicit config path; when empty, Load looks
// for ./cadnano.yaml and then ~/.config/cadnano/config.yaml. flags may be nil.
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("journal.path", def.Journal.Path)
	v.SetDefault("design.default-length", def.Design.DefaultLength)
	v.SetDefault("design.invariant-checks", def.Design.InvariantChecks)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("output.format", def.Output.Format)

	v.SetEnvPrefix("CADNANO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file == "" {
		file = findConfigFile()
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.File = v.ConfigFileUsed()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func findConfigFile() string {
	candidates := []string{"cadnano.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "cadnano", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks enumerated and numeric settings.
func (c Config) Validate() error {
	if c.Design.DefaultLength <= 0 {
		return fmt.Errorf("%w: design.default-length must be positive, got %d", ErrInvalidConfig, c.Design.DefaultLength)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (want text or json)", ErrInvalidConfig, c.Log.Format)
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: output.format %q (want text or json)", ErrInvalidConfig, c.Output.Format)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, s)
}

// Logger builds the slog logger described by c.Log, writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
