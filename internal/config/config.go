// Package config loads userform settings from flags, environment variables
// and an optional userform.yaml file through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends selectable with the store key.
const (
	StoreRemote = "remote"
	StoreLocal  = "local"
	StoreDemo   = "demo"
)

// EnvPrefix prefixes every environment variable (USERFORM_API_URL, ...).
const EnvPrefix = "USERFORM"

// Config holds all configuration options.
type Config struct {
	Store    string        `mapstructure:"store"`
	APIURL   string        `mapstructure:"api_url"`
	DBPath   string        `mapstructure:"db_path"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Trace    bool          `mapstructure:"trace"`
	Log      LogConfig     `mapstructure:"log"`
	Serve    ServeConfig   `mapstructure:"serve"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// ServeConfig configures the HTTP service.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// Defaults returns the built-in configuration. The API URL matches a local
// json-server users collection on port 3001.
func Defaults() Config {
	return Config{
		Store:    StoreRemote,
		APIURL:   "http://localhost:3001/users",
		DBPath:   "userform.db",
		Timeout:  10 * time.Second,
		CacheTTL: 5 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// SetDefaults registers Defaults on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("store", d.Store)
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("trace", d.Trace)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("serve.addr", d.Serve.Addr)
}

// Load reads configuration into a Config. An explicit file must exist;
// otherwise userform.yaml is looked up in the current directory and then in
// ~/.config/userform, and a missing file is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("userform")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "userform"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the combination of store and connection settings.
func (c Config) Validate() error {
	switch c.Store {
	case StoreRemote, StoreDemo:
		if strings.TrimSpace(c.APIURL) == "" {
			return fmt.Errorf("config: api_url is required for the %s store", c.Store)
		}
	case StoreLocal:
	default:
		return fmt.Errorf("config: unknown store %q (want remote, local or demo)", c.Store)
	}
	if c.Store != StoreRemote && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("config: db_path is required for the %s store", c.Store)
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	return nil
}
