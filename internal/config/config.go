// Package config loads the optional .waterjug/config.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultMaxCapacity = 10000
	DefaultLogLevel    = "info"
	DefaultServerPort  = 8080
	DefaultMetricsPort = 2112
	DefaultStoreDriver = "memory"
	DefaultStorePath   = ".waterjug/sessions"
	DefaultRedisAddr   = "localhost:6379"
	DefaultCatalogDir  = "puzzles"
)

// Store drivers understood by the session store factory.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config represents the .waterjug/config.yaml file.
type Config struct {
	MaxCapacity  int           `yaml:"max_capacity" validate:"gte=0"`
	StrictTarget bool          `yaml:"strict_target"`
	LogLevel     string        `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	Server       ServerConfig  `yaml:"server"`
	Store        StoreConfig   `yaml:"store"`
	Catalog      CatalogConfig `yaml:"catalog"`
}

// ServerConfig configures the HTTP API and the metrics listener.
type ServerConfig struct {
	Port        int `yaml:"port" validate:"gte=0,lte=65535"`
	MetricsPort int `yaml:"metrics_port" validate:"gte=0,lte=65535"`
}

// StoreConfig selects where playback sessions are persisted.
type StoreConfig struct {
	Driver    string        `yaml:"driver" validate:"oneof=memory file redis sqlite"`
	Path      string        `yaml:"path" validate:"required_if=Driver file,required_if=Driver sqlite"`
	RedisAddr string        `yaml:"redis_addr" validate:"required_if=Driver redis"`
	Prefix    string        `yaml:"prefix"`
	TTL       time.Duration `yaml:"ttl" validate:"gte=0"`
}

// CatalogConfig points at the puzzle catalog directory.
type CatalogConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxCapacity:  DefaultMaxCapacity,
		StrictTarget: true,
		LogLevel:     DefaultLogLevel,
		Server: ServerConfig{
			Port:        DefaultServerPort,
			MetricsPort: DefaultMetricsPort,
		},
		Store: StoreConfig{
			Driver:    DefaultStoreDriver,
			Path:      DefaultStorePath,
			RedisAddr: DefaultRedisAddr,
			Prefix:    "waterjug:",
		},
		Catalog: CatalogConfig{
			Dir: DefaultCatalogDir,
		},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Path returns the location of the config file under basePath.
func Path(basePath string) string {
	return filepath.Join(basePath, ".waterjug", "config.yaml")
}

// Load reads and parses .waterjug/config.yaml from the given base path.
// A missing file yields the defaults; fields absent from the file keep them.
func Load(basePath string) (*Config, error) {
	data, err := os.ReadFile(Path(basePath))
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	return v
}

// Validate checks that all config values are valid.
// Only the first failing field is reported.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	fe := fieldErrs[0]
	// Namespace is "Config.server.port"; drop the root type name.
	_, field, _ := strings.Cut(fe.Namespace(), ".")
	return ValidationError{Field: field, Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "required_if":
		return fmt.Sprintf("required when %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
