/*
 * @description: application configuration for netpulse
 * @func: layered config (defaults -> file -> env) via viper
 */
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration tree.
type Config struct {
	App   AppConfig   `yaml:"app" mapstructure:"app"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
	Probe ProbeConfig `yaml:"probe" mapstructure:"probe"`
}

// AppConfig is generic application identity.
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// LogConfig controls the logrus + lumberjack logging pipeline.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"` // json|text
	Output     string `yaml:"output" mapstructure:"output"` // stdout|stderr|file
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Caller     bool   `yaml:"caller" mapstructure:"caller"`
}

// ProbeConfig holds concurrency caps, a default timeout and the
// adaptive-limiter switch as loadable configuration values. No probe-core
// component reads it: hostscan and portscan take their caps from their
// own DefaultConcurrency constants and the settings passed to them.
type ProbeConfig struct {
	HostScanConcurrency int           `yaml:"hostscan_concurrency" mapstructure:"hostscan_concurrency"`
	PortScanConcurrency int           `yaml:"portscan_concurrency" mapstructure:"portscan_concurrency"`
	DefaultTimeout      time.Duration `yaml:"default_timeout" mapstructure:"default_timeout"`
	AdaptiveLimiter     bool          `yaml:"adaptive_limiter" mapstructure:"adaptive_limiter"`
}

const envPrefix = "NETPULSE"

// Load reads configuration from an optional file path, environment
// variables (NETPULSE_*), and built-in defaults, in that precedence
// order (file overrides defaults, env overrides file).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "netpulse")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.caller", false)

	v.SetDefault("probe.hostscan_concurrency", 256)
	v.SetDefault("probe.portscan_concurrency", 200)
	v.SetDefault("probe.default_timeout", 2*time.Second)
	v.SetDefault("probe.adaptive_limiter", false)
}

// Default returns a Config populated purely with built-in defaults,
// useful for tests and for callers that don't need file/env layering.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}
