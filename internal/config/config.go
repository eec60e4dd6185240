package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	Tracking TrackingConfig `mapstructure:"tracking"`
	Report   ReportConfig   `mapstructure:"report"`
}

// TrackingConfig holds sampling parameters
type TrackingConfig struct {
	Interval       string `mapstructure:"interval"`        // sampling cadence
	IdleThreshold  string `mapstructure:"idle_threshold"`  // idle classification cutoff
	ResolveTimeout string `mapstructure:"resolve_timeout"` // per-provider call bound
}

// ReportConfig holds report generation defaults
type ReportConfig struct {
	Target    string `mapstructure:"target"`     // audit target shown in the header
	Password  string `mapstructure:"password"`   // PDF user/owner password
	OutputDir string `mapstructure:"output_dir"` // where artifacts are written
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format: "text",
		Tracking: TrackingConfig{
			Interval:       "10s",
			IdleThreshold:  "60s",
			ResolveTimeout: "2s",
		},
		Report: ReportConfig{},
	}
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("focusreport")
	v.SetConfigType("yaml")

	// config paths, lowest precedence first
	v.AddConfigPath("/etc/focusreport/")
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "focusreport"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".focusreport")
	}
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("FOCUSREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.BindEnv("format", "FOCUSREPORT_FORMAT")
	v.BindEnv("quiet", "FOCUSREPORT_QUIET")
	v.BindEnv("verbose", "FOCUSREPORT_VERBOSE")
	v.BindEnv("tracking.interval", "FOCUSREPORT_INTERVAL")
	v.BindEnv("report.password", "FOCUSREPORT_PASSWORD")
	v.BindEnv("report.target", "FOCUSREPORT_TARGET")

	cfg := Default()
	v.SetDefault("format", cfg.Format)
	v.SetDefault("quiet", cfg.Quiet)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("tracking.interval", cfg.Tracking.Interval)
	v.SetDefault("tracking.idle_threshold", cfg.Tracking.IdleThreshold)
	v.SetDefault("tracking.resolve_timeout", cfg.Tracking.ResolveTimeout)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// no config file; defaults apply
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path of the config file in use, if any
func ConfigFile() string {
	v := viper.New()

	v.SetConfigName("focusreport")
	v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	v.SetConfigName(".focusreport")
	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	return ""
}
