// Package config loads gqlnormalize settings from flags, environment and an
// optional config file.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Protocol-Lattice/gqlnormalize/normalizer"
)

// EnvPrefix prefixes every environment variable, e.g. GQLNORMALIZE_LISTEN.
const EnvPrefix = "GQLNORMALIZE"

// Keys shared by flags, environment and config file.
const (
	KeyMinify              = "minify"
	KeyHash                = "hash"
	KeyFieldArgumentValues = "field-argument-values"
	KeyListen              = "listen"
	KeyCacheSize           = "cache-size"
	KeyLogLevel            = "log-level"
)

// Config holds the resolved settings.
type Config struct {
	Minify              bool
	Hash                bool
	FieldArgumentValues bool
	Listen              string
	CacheSize           int
	LogLevel            string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMinify, false)
	v.SetDefault(KeyHash, false)
	v.SetDefault(KeyFieldArgumentValues, false)
	v.SetDefault(KeyListen, ":8080")
	v.SetDefault(KeyCacheSize, 1024)
	v.SetDefault(KeyLogLevel, "info")
}

// New returns a viper instance reading GQLNORMALIZE_* variables.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load resolves the settings. When file is not empty it is read first;
// flags bound to v and environment variables take precedence over it.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", file)
		}
	}
	cfg := &Config{
		Minify:              v.GetBool(KeyMinify),
		Hash:                v.GetBool(KeyHash),
		FieldArgumentValues: v.GetBool(KeyFieldArgumentValues),
		Listen:              v.GetString(KeyListen),
		CacheSize:           v.GetInt(KeyCacheSize),
		LogLevel:            v.GetString(KeyLogLevel),
	}
	if cfg.CacheSize <= 0 {
		return nil, errors.Errorf("config: %s must be positive, got %d", KeyCacheSize, cfg.CacheSize)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return nil, errors.Wrapf(err, "config: %s", KeyLogLevel)
	}
	return cfg, nil
}

// NormalizerOptions translates the settings into normalizer options.
func (c *Config) NormalizerOptions() []normalizer.Option {
	var opts []normalizer.Option
	if c.FieldArgumentValues {
		opts = append(opts, normalizer.WithFieldArgumentValues())
	}
	return opts
}

// Logger builds a production zap logger at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", KeyLogLevel)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "config: build logger")
	}
	return logger, nil
}
