// Package config loads path2learn settings from defaults, an optional
// path2learn.yaml, PATH2LEARN_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/upload"
)

const (
	envPrefix  = "PATH2LEARN"
	configName = "path2learn"
)

// Config is the resolved configuration.
type Config struct {
	// Origin is prepended to relative endpoints by the upload command.
	Origin   string           `mapstructure:"origin"`
	Bindings []upload.Binding `mapstructure:"bindings"`
	Server   ServerConfig     `mapstructure:"server"`
	Log      LogConfig        `mapstructure:"log"`
}

// ServerConfig drives the dev server.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
	// Upstream receives proxied /upload/ requests. Empty disables the proxy.
	Upstream string `mapstructure:"upstream"`
	TLS      bool   `mapstructure:"tls"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults, config search paths and
// environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("origin", "http://localhost:8080")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("server.upstream", "")
	v.SetDefault("server.tls", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.path2learn")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags maps flag names to config keys. Flags not present in fs are
// skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// Load reads the config file when explicitly given or found on the search
// path and decodes the result. A missing file on the search path is not an
// error.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Bindings) == 0 {
		cfg.Bindings = upload.DefaultBindings()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that bindings are complete and unique.
func (c Config) Validate() error {
	seen := make(map[string]bool, len(c.Bindings))
	for i, b := range c.Bindings {
		if b.InputID == "" || b.PreviewID == "" || b.Endpoint == "" {
			return fmt.Errorf("binding %d: input_id, preview_id and endpoint are required", i)
		}
		if seen[b.InputID] {
			return fmt.Errorf("binding %d: duplicate input_id %q", i, b.InputID)
		}
		seen[b.InputID] = true
	}
	return nil
}

// Binding returns the binding for inputID.
func (c Config) Binding(inputID string) (upload.Binding, bool) {
	for _, b := range c.Bindings {
		if b.InputID == inputID {
			return b, true
		}
	}
	return upload.Binding{}, false
}
