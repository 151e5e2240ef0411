package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/academy/internal/content"
	"github.com/abhisek/academy/internal/progress"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. ACADEMY_CONTENT_DIR.
	EnvPrefix = "ACADEMY"
	// FileName is the config file base name looked up without --config.
	FileName = "academy"
)

// Keys understood by the config layer. Flags bind to the same names.
const (
	KeyDB             = "db"
	KeyContentDir     = "content_dir"
	KeyModulesPerYear = "modules_per_year"
	KeyPassThreshold  = "pass_threshold"
	KeyLogLevel       = "log_level"
)

// Config holds all application configuration.
type Config struct {
	DB             string `mapstructure:"db"`
	ContentDir     string `mapstructure:"content_dir"`
	ModulesPerYear int    `mapstructure:"modules_per_year"`
	PassThreshold  int    `mapstructure:"pass_threshold"`
	LogLevel       string `mapstructure:"log_level"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-"`
}

// New returns a viper instance with defaults and env overrides set up.
// Callers bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyContentDir, "")
	v.SetDefault(KeyModulesPerYear, content.DefaultModulesPerYear)
	v.SetDefault(KeyPassThreshold, progress.PassPercentage)
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file and decodes the merged settings. An explicit
// path must exist; otherwise academy.yaml is looked up in the user config
// dir and the working directory, and its absence is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "academy"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("no config file, using environment and defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.ModulesPerYear <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyModulesPerYear, c.ModulesPerYear))
	}
	if c.PassThreshold < 0 || c.PassThreshold > 100 {
		errs = append(errs, fmt.Errorf("%s must be within 0-100, got %d", KeyPassThreshold, c.PassThreshold))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

// LoadOptions returns the content loading options.
func (c *Config) LoadOptions() content.LoadOptions {
	return content.LoadOptions{ModulesPerYear: c.ModulesPerYear}
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	return l, nil
}
