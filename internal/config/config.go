// Package config loads tt settings from defaults, an optional TOML file and
// TT_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. TT_LIBRARY_PATH.
const EnvPrefix = "TT"

// Defaults for the weaving checks.
const (
	DefaultMaxTurns     = 3
	DefaultTwistWarning = 8
)

// Config holds application configuration.
type Config struct {
	Library LibraryConfig `mapstructure:"library"`
	Log     LogConfig     `mapstructure:"log"`
	Weaving WeavingConfig `mapstructure:"weaving"`
	UI      UIConfig      `mapstructure:"ui"`
}

// LibraryConfig holds the pattern library settings.
type LibraryConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds slog settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// WeavingConfig holds limits applied when validating and analysing patterns.
type WeavingConfig struct {
	MaxTurns     int `mapstructure:"max_turns"`
	TwistWarning int `mapstructure:"twist_warning"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Color string `mapstructure:"color"` // auto, always, never
}

// Keys lists every settable key.
var Keys = []string{
	"library.path",
	"log.level",
	"log.format",
	"weaving.max_turns",
	"weaving.twist_warning",
	"ui.color",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("library.path", DefaultLibraryPath())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("weaving.max_turns", DefaultMaxTurns)
	v.SetDefault("weaving.twist_warning", DefaultTwistWarning)
	v.SetDefault("ui.color", "auto")
}

// DefaultLibraryPath is ~/.local/share/tt/library.db.
func DefaultLibraryPath() string {
	return filepath.Join(homeDir(), ".local", "share", "tt", "library.db")
}

// Path returns the config file location: TT_CONFIG, or ~/.config/tt/config.toml.
func Path() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".config", "tt", "config.toml")
}

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetConfigFile(Path())
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Default returns the built-in settings, ignoring file and env.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads configuration from file and env. A missing file is not an error.
func Load() (Config, error) {
	v := newViper()
	if err := readIfPresent(v); err != nil {
		return Config{}, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func readIfPresent(v *viper.Viper) error {
	if _, err := os.Stat(v.ConfigFileUsed()); os.IsNotExist(err) {
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}

// Validate rejects settings the rest of tt cannot use.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format)
	}
	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("ui.color: must be auto, always or never, got %q", c.UI.Color)
	}
	if c.Weaving.MaxTurns < 1 {
		return fmt.Errorf("weaving.max_turns: must be at least 1, got %d", c.Weaving.MaxTurns)
	}
	if c.Weaving.TwistWarning < 1 {
		return fmt.Errorf("weaving.twist_warning: must be at least 1, got %d", c.Weaving.TwistWarning)
	}
	return nil
}

// IsKey reports whether key is a known setting.
func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set persists one key to the config file, keeping the others already there.
// The merged result is validated before anything is written.
func Set(key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}

	var typed any = value
	if strings.HasPrefix(key, "weaving.") {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", key, value)
		}
		typed = n
	}

	file := viper.New()
	file.SetConfigType("toml")
	file.SetConfigFile(Path())
	if err := readIfPresent(file); err != nil {
		return err
	}
	file.Set(key, typed)

	merged := newViper()
	if err := readIfPresent(merged); err != nil {
		return err
	}
	merged.Set(key, typed)
	var c Config
	if err := merged.Unmarshal(&c); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	return write(file)
}

// Save writes every setting in cfg to the config file.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigType("toml")
	for k, val := range cfg.Values() {
		v.Set(k, val)
	}
	return write(v)
}

func write(v *viper.Viper) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Values flattens the config into key/value pairs.
func (c Config) Values() map[string]any {
	return map[string]any{
		"library.path":          c.Library.Path,
		"log.level":             c.Log.Level,
		"log.format":            c.Log.Format,
		"weaving.max_turns":     c.Weaving.MaxTurns,
		"weaving.twist_warning": c.Weaving.TwistWarning,
		"ui.color":              c.UI.Color,
	}
}
