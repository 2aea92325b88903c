// Package config handles the XDG configuration directory and effective settings.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// AppName is the application directory name.
	AppName = "taskctl"

	// FileName is the optional settings file looked up in the config directory.
	FileName = "config.yaml"

	// EnvPrefix prefixes every environment override, e.g. TASKCTL_API_BASE_URL.
	EnvPrefix = "TASKCTL"

	// DefaultBaseURL is the resource root of the remote Task API.
	DefaultBaseURL = "http://localhost:3000/tasks"

	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 10 * time.Second

	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "console"
	DefaultOutputFormat = "text"
)

// Setting keys.
const (
	KeyBaseURL      = "api.base_url"
	KeyTimeout      = "api.timeout"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
	KeyOutputFormat = "output.format"
)

// flagBindings maps setting keys to the common flags that override them.
var flagBindings = map[string]string{
	KeyBaseURL:      "base-url",
	KeyTimeout:      "timeout",
	KeyOutputFormat: "output",
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// File is the settings file that was read, empty if none.
	File string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings Settings

	// Logger is the process logger. Nil means logging is discarded.
	Logger *zap.Logger
}

// Settings are the values read from the config file, environment and flags.
type Settings struct {
	API    APISettings    `mapstructure:"api" yaml:"api" json:"api"`
	Log    LogSettings    `mapstructure:"log" yaml:"log" json:"log"`
	Output OutputSettings `mapstructure:"output" yaml:"output" json:"output"`
}

// APISettings configure the remote Task API client.
type APISettings struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// LogSettings configure the process logger.
type LogSettings struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// OutputSettings configure how commands render tasks.
type OutputSettings struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		API:    APISettings{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout},
		Log:    LogSettings{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Output: OutputSettings{Format: DefaultOutputFormat},
	}
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskctl or $HOME/.config/taskctl.
// Settings start at their defaults; use Load to read overrides.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// Load builds a Config from defaults, the optional config.yaml in the config
// directory, TASKCTL_* environment variables and any changed flags in flags,
// in increasing order of precedence.
func Load(configDir string, flags *pflag.FlagSet) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	defaults := DefaultSettings()
	v.SetDefault(KeyBaseURL, defaults.API.BaseURL)
	v.SetDefault(KeyTimeout, defaults.API.Timeout)
	v.SetDefault(KeyLogLevel, defaults.Log.Level)
	v.SetDefault(KeyLogFormat, defaults.Log.Format)
	v.SetDefault(KeyOutputFormat, defaults.Output.Format)

	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(cfg.Dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
		}
	}
	cfg.File = v.ConfigFileUsed()

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var settings Settings
	hook := viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())
	if err := v.Unmarshal(&settings, hook); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	settings.normalize()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

func (s *Settings) normalize() {
	s.API.BaseURL = strings.TrimRight(strings.TrimSpace(s.API.BaseURL), "/")
	s.Log.Level = strings.ToLower(strings.TrimSpace(s.Log.Level))
	s.Log.Format = strings.ToLower(strings.TrimSpace(s.Log.Format))
	s.Output.Format = strings.ToLower(strings.TrimSpace(s.Output.Format))
}

// Validate checks that every setting holds a usable value.
func (s Settings) Validate() error {
	u, err := url.Parse(s.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q (want an absolute http or https URL)", KeyBaseURL, s.API.BaseURL)
	}
	if s.API.Timeout <= 0 {
		return fmt.Errorf("invalid %s: %s (must be positive)", KeyTimeout, s.API.Timeout)
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid %s: %q", KeyLogLevel, s.Log.Level)
	}
	switch s.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid %s: %q", KeyLogFormat, s.Log.Format)
	}
	switch s.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid %s: %q", KeyOutputFormat, s.Output.Format)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path of the settings file inside the config directory.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, FileName)
}

// Log returns the configured logger, or a no-op logger when none is set.
func (c *Config) Log() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
