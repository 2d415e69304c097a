package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

var (
	CONFIG_FILE       string = "config.toml"
	LOCAL_CONFIG_FILE string = "config.local.toml"
)

const (
	DriverMySQL    string = "mysql"
	DriverPostgres string = "postgres"
	DriverSQLite   string = "sqlite"
)

type GlobalConfig interface {
	LoggerConfig() LoggerConfig
}

type DBConfig struct {
	Driver     string `toml:"driver" yaml:"driver" envconfig:"DB_DRIVER" validate:"omitempty,oneof=mysql postgres sqlite"`
	Host       string `toml:"host" yaml:"host" envconfig:"DB_HOST"`
	Port       int    `toml:"port" yaml:"port" envconfig:"DB_PORT"`
	Database   string `toml:"database" yaml:"database" envconfig:"DB_DATABASE"`
	Username   string `toml:"username" yaml:"username" envconfig:"DB_USERNAME"`
	Password   string `toml:"password" yaml:"password" envconfig:"DB_PASSWORD"`
	LogQueries bool   `toml:"log_queries" yaml:"log_queries" envconfig:"DB_LOG_QUERIES"`
}

type LoggerConfig struct {
	Level       string `toml:"level" yaml:"level"` // valid values are: DEBUG, INFO, WARN, ERROR, DPANIC, PANIC, FATAL (zap)
	File        string `toml:"file" yaml:"file"`
	MaxFileSize int    `toml:"max_file_size" yaml:"max_file_size"` // In megabytes
	Console     bool   `toml:"console" yaml:"console"`
}

// Parse a toml or yaml config file into cfg, the format is selected by the file extension.
// If allowMissing is true, a missing file is not an error.
func ParseConfigFile(cfg interface{}, fileName string, allowMissing bool) error {
	content, err := os.ReadFile(fileName)
	if err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error opening config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(content, cfg)
	default:
		_, err = toml.Decode(string(content), cfg)
	}
	if err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

func ReadEnv(cfg interface{}) error {
	err := envconfig.Process("", cfg)
	if err != nil {
		return fmt.Errorf("error reading env config: %w", err)
	}
	return nil
}
