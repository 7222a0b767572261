// Package config loads and validates the codescore configuration from
// defaults, a config file, environment variables, and bound flags.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all tool settings. Every field has a default and a valid
// range; there are no implicit options.
type Config struct {
	Root          string   `mapstructure:"root"`
	Format        string   `mapstructure:"format"`
	Output        string   `mapstructure:"output"`
	Quiet         bool     `mapstructure:"quiet"`
	Verbose       bool     `mapstructure:"verbose"`
	Concurrency   int      `mapstructure:"concurrency"`   // >= 1
	CacheCapacity int      `mapstructure:"cachecapacity"` // >= 1
	MaxFileSize   int64    `mapstructure:"maxfilesize"`   // bytes, 0 = default
	Exclude       []string `mapstructure:"exclude"`
	EdgesFile     string   `mapstructure:"edgesfile"`
	FailOnBlock   bool     `mapstructure:"failonblock"`
}

// Load builds the configuration. rootPath, when non-empty, overrides the
// configured root.
func Load(rootPath string) (*Config, error) {
	viper.SetDefault("root", ".")
	viper.SetDefault("format", "console")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("concurrency", 8)
	viper.SetDefault("cachecapacity", 500)
	viper.SetDefault("maxfilesize", 0)
	viper.SetDefault("failonblock", false)

	configPaths := []string{".codescore.yaml", ".codescore.yml", ".codescore.json"}
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
			break
		}
	}

	viper.SetEnvPrefix("CODESCORE")
	viper.AutomaticEnv()

	// Schema check runs over the raw settings before unmarshaling so type
	// mismatches surface with field names.
	if errs := ValidateSchema(viper.AllSettings()); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", errs[0])
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if rootPath != "" {
		cfg.Root = rootPath
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Format {
	case "console", "json", "markdown":
	default:
		return fmt.Errorf("invalid format %q: must be console, json, or markdown", cfg.Format)
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if cfg.CacheCapacity < 1 {
		return fmt.Errorf("cache capacity must be at least 1, got %d", cfg.CacheCapacity)
	}
	if cfg.MaxFileSize < 0 {
		return fmt.Errorf("max file size must not be negative, got %d", cfg.MaxFileSize)
	}
	return nil
}
