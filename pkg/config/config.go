package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. OPHDICOM_LOG_LEVEL
const EnvPrefix = "OPHDICOM"

type Config struct {
	Workers int           `mapstructure:"workers"`
	Timeout time.Duration `mapstructure:"timeout"`
	Out     string        `mapstructure:"out"`
	Format  string        `mapstructure:"format"`
	Log     Log           `mapstructure:"log"`
	Rules   Rules         `mapstructure:"rules"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

type Rules struct {
	Dir string `mapstructure:"dir"`
}

// flag name -> config key, for flags whose names differ from their keys
var flagKeys = map[string]string{
	"log-level": "log.level",
	"log-file":  "log.file",
	"log-json":  "log.json",
	"rules-dir": "rules.dir",
}

// Load layers defaults, an optional YAML file, OPHDICOM_* environment
// variables and any flags that were set on the command line
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("timeout", 60*time.Second)
	v.SetDefault("out", ".")
	v.SetDefault("format", "csv")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("rules.dir", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok {
				key = f.Name
			}
			if !isKnown(key) {
				return
			}
			if err := v.BindPFlag(key, f); err != nil {
				bindErr = errors.Join(bindErr, err)
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Format = strings.ToLower(cfg.Format)
	return cfg, cfg.Validate()
}

func isKnown(key string) bool {
	switch key {
	case "workers", "timeout", "out", "format", "log.level", "log.file", "log.json", "rules.dir":
		return true
	}
	return false
}

// Validate rejects settings the report builder cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	switch c.Format {
	case "csv", "json", "xlsx":
	default:
		errs = append(errs, fmt.Errorf("unknown format %q (csv|json|xlsx)", c.Format))
	}
	switch strings.ToUpper(c.Log.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}
