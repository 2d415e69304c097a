package config

import (
	"fmt"
	"rmrk-indexer/config"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Config struct {
	DB        config.DBConfig     `toml:"db" yaml:"db"`
	Logger    config.LoggerConfig `toml:"logger" yaml:"logger"`
	Metrics   MetricsConfig       `toml:"metrics" yaml:"metrics"`
	Processor ProcessorConfig     `toml:"processor" yaml:"processor"`
}

type MetricsConfig struct {
	PrometheusAddress string `toml:"prometheus_address" yaml:"prometheus_address" envconfig:"METRICS_PROMETHEUS_ADDRESS"`
}

type ProcessorConfig struct {
	Enabled         bool `toml:"enabled" yaml:"enabled"`
	BatchSize       int  `toml:"batch_size" yaml:"batch_size" validate:"min=1"`
	IntervalMillis  int  `toml:"interval_millis" yaml:"interval_millis" validate:"min=1"`
	TruncateOnStart bool `toml:"truncate_on_start" yaml:"truncate_on_start" envconfig:"PROCESSOR_TRUNCATE_ON_START"`
}

func newConfig() *Config {
	return &Config{
		DB: config.DBConfig{
			Driver: config.DriverPostgres,
			Host:   "localhost",
			Port:   5432,
		},
		Processor: ProcessorConfig{
			Enabled:        true,
			BatchSize:      100,
			IntervalMillis: 1000,
		},
	}
}

func (c Config) LoggerConfig() config.LoggerConfig {
	return c.Logger
}

func (c ProcessorConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMillis) * time.Millisecond
}

// Defaults overridden by the config file, the local config file and the environment, in that order
func BuildConfig(fileName string) (*Config, error) {
	cfg := newConfig()
	err := config.ParseConfigFile(cfg, fileName, false)
	if err != nil {
		return nil, err
	}
	err = config.ParseConfigFile(cfg, config.LOCAL_CONFIG_FILE, true)
	if err != nil {
		return nil, err
	}
	err = config.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
