// Package config loads service configuration from a YAML file and
// CASA_* environment variables, with sensible defaults for a
// single-house deployment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	DB        DBConfig        `mapstructure:"db"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	AwayMode  AwayModeConfig  `mapstructure:"awaymode"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	// Path to the sqlite file. Empty means the default location under
	// the user config directory.
	Path string `mapstructure:"path"`
}

type DiscoveryConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type AwayModeConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Timezone     string        `mapstructure:"timezone"`
	Latitude     float64       `mapstructure:"latitude"`
	Longitude    float64       `mapstructure:"longitude"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8085")
	v.SetDefault("db.path", "")
	v.SetDefault("discovery.interval", 15*time.Minute)
	v.SetDefault("awaymode.tick_interval", time.Minute)
	v.SetDefault("awaymode.timezone", "America/New_York")
	v.SetDefault("awaymode.latitude", 35.7796)
	v.SetDefault("awaymode.longitude", -78.6382)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
}

// Load reads configuration from the given file path, if non-empty, and
// from the environment. Environment variables override the file:
// CASA_HTTP_ADDR, CASA_AWAYMODE_TIMEZONE and so on.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CASA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Discovery.Interval <= 0 {
		return fmt.Errorf("discovery.interval must be positive, got %s", c.Discovery.Interval)
	}
	if c.AwayMode.TickInterval <= 0 {
		return fmt.Errorf("awaymode.tick_interval must be positive, got %s", c.AwayMode.TickInterval)
	}
	if _, err := time.LoadLocation(c.AwayMode.Timezone); err != nil {
		return fmt.Errorf("awaymode.timezone: %w", err)
	}
	if c.AwayMode.Latitude < -90 || c.AwayMode.Latitude > 90 {
		return fmt.Errorf("awaymode.latitude out of range: %f", c.AwayMode.Latitude)
	}
	if c.AwayMode.Longitude < -180 || c.AwayMode.Longitude > 180 {
		return fmt.Errorf("awaymode.longitude out of range: %f", c.AwayMode.Longitude)
	}
	return nil
}

// Location resolves the configured reference time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.AwayMode.Timezone)
}
