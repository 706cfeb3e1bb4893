// Package config loads tdwresolve's runtime configuration from environment
// variables and CLI flags via viper, following the env-prefix-plus-bound-flags
// pattern agntcy-dir's client/server config packages use.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "TDWRESOLVE"

const (
	DefaultListenAddress = "0.0.0.0:8443"
	DefaultFetchTimeout  = 10 * time.Second
	DefaultCacheDir      = ""
	DefaultCacheTTL      = time.Duration(0)
	DefaultLogLevel      = "info"
)

// Config is tdwresolve's resolved runtime configuration.
type Config struct {
	ListenAddress string        `mapstructure:"listen_address"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	CacheDir      string        `mapstructure:"cache_dir"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	LogLevel      string        `mapstructure:"log_level"`
}

// Load builds a Config from TDWRESOLVE_-prefixed environment variables,
// overridden by any of the given flags that were explicitly set.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(EnvPrefix)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	v.SetDefault("listen_address", DefaultListenAddress)
	v.SetDefault("fetch_timeout", DefaultFetchTimeout)
	v.SetDefault("cache_dir", DefaultCacheDir)
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("log_level", DefaultLogLevel)

	for _, name := range []string{"listen_address", "fetch_timeout", "cache_dir", "cache_ttl", "log_level"} {
		_ = v.BindEnv(name)
		if flags == nil {
			continue
		}
		if f := flags.Lookup(strings.ReplaceAll(name, "_", "-")); f != nil {
			_ = v.BindPFlag(name, f)
		}
	}

	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	cfg := &Config{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
