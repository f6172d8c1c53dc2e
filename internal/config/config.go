// Package config handles application configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the three codec-level options spec.md §6 names, plus
// logging.
type Config struct {
	Codec CodecConfig `mapstructure:"codec"`
	Log   LogConfig   `mapstructure:"log"`
}

// UnknownTypePolicy names how a parameter whose type cannot be resolved to
// a registered handler is treated. Load and Validate accept it, but nothing
// else in this module reads it: an unresolvable parameter always fails
// with ErrInvalidCast in Registry.LookupForParameter, whatever the policy.
type UnknownTypePolicy string

const (
	// UnknownTypeFallback is the default policy value.
	UnknownTypeFallback UnknownTypePolicy = "fallback"
	// UnknownTypeError is the other accepted policy value.
	UnknownTypeError UnknownTypePolicy = "error"
)

type CodecConfig struct {
	BufferCapacity         int               `mapstructure:"buffer_capacity"`
	UnknownTypePolicy      UnknownTypePolicy `mapstructure:"unknown_type_policy"`
	StrictASCIIIdentifiers bool              `mapstructure:"strict_ascii_identifiers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Codec: CodecConfig{
			BufferCapacity:         8192,
			UnknownTypePolicy:      UnknownTypeFallback,
			StrictASCIIIdentifiers: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bindcat"
	}
	return filepath.Join(home, ".bindcat")
}

// Load loads configuration from a config file and env vars, the way the
// teacher's internal/config.Load does.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("codec.buffer_capacity", defaults.Codec.BufferCapacity)
	v.SetDefault("codec.unknown_type_policy", string(defaults.Codec.UnknownTypePolicy))
	v.SetDefault("codec.strict_ascii_identifiers", defaults.Codec.StrictASCIIIdentifiers)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(defaultConfigDir())
	}

	v.SetEnvPrefix("bindcat")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the config is usable.
func (c *Config) Validate() error {
	if c.Codec.BufferCapacity <= 0 {
		return fmt.Errorf("codec.buffer_capacity must be positive")
	}
	switch c.Codec.UnknownTypePolicy {
	case UnknownTypeFallback, UnknownTypeError:
	default:
		return fmt.Errorf("codec.unknown_type_policy must be %q or %q", UnknownTypeFallback, UnknownTypeError)
	}
	return nil
}
