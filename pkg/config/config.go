// Package config loads settings from defaults, ~/.config/habita/config.yaml
// and HABITA_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	appName    = "habita"
	configName = "config"
	configFile = configName + ".yaml"
	envPrefix  = "HABITA"
)

type RemoteConfig struct {
	URL    string `mapstructure:"url" yaml:"url,omitempty" validate:"omitempty,url"`
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	UserID string `mapstructure:"user_id" yaml:"user_id,omitempty"`
}

type ScheduleConfig struct {
	HorizonDays         int `mapstructure:"horizon_days" yaml:"horizon_days" validate:"gt=0"`
	DefaultDurationDays int `mapstructure:"default_duration_days" yaml:"default_duration_days" validate:"gt=0"`
	FallbackDailyTarget int `mapstructure:"fallback_daily_target" yaml:"fallback_daily_target" validate:"gt=0"`
}

type AnalyticsConfig struct {
	RangeDays int `mapstructure:"range_days" yaml:"range_days" validate:"gt=0"`
}

type Config struct {
	Calendar  string          `mapstructure:"calendar" yaml:"calendar" validate:"required"`
	DataDir   string          `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	Store     string          `mapstructure:"store" yaml:"store" validate:"oneof=file sqlite memory"`
	Remote    RemoteConfig    `mapstructure:"remote" yaml:"remote,omitempty"`
	Schedule  ScheduleConfig  `mapstructure:"schedule" yaml:"schedule"`
	Analytics AnalyticsConfig `mapstructure:"analytics" yaml:"analytics"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Dir returns the directory holding the config file, credentials and token.
// Tests replace it.
var Dir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("calendar", "Habits")
	v.SetDefault("data_dir", dir)
	v.SetDefault("store", "file")
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.user_id", "")
	v.SetDefault("schedule.horizon_days", 7)
	v.SetDefault("schedule.default_duration_days", 30)
	v.SetDefault("schedule.fallback_daily_target", 10)
	v.SetDefault("analytics.range_days", 7)
}

// Load reads the configuration. An explicit path must exist; the default
// file is optional.
func Load(path string) (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg to path, or to the default location when path is empty.
func Save(cfg *Config, path string) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
