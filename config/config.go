// Package config layers defaults, an optional YAML file named by
// CHECK_CONFIG and CHECK_* environment variables. A .env file in the
// working directory is read first.
package config

import (
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	envPrefix = "CHECK_"
	envFile   = "CHECK_CONFIG"
)

type Config struct {
	LogLevel  string `koanf:"log_level"`
	LogPretty bool   `koanf:"log_pretty"`
	SentryDSN string `koanf:"sentry_dsn"`

	Addr    string `koanf:"addr"`
	Release bool   `koanf:"release"`

	// empty disables the check on websocket requests
	RecaptchaSecret string `koanf:"recaptcha_secret"`

	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	APIBase      string `koanf:"api_base"`
	MaxRequests  int    `koanf:"max_requests"`
	MaxRetries   int    `koanf:"max_retries"`

	CacheDir           string `koanf:"cache_dir"`
	CacheExpireMinutes int    `koanf:"cache_expire_minutes"`

	ResultExpireMinutes int `koanf:"result_expire_minutes"`
	Workers             int `koanf:"workers"`
}

func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                "127.0.0.1:5555",
		APIBase:             "https://www.warcraftlogs.com",
		MaxRequests:         4,
		MaxRetries:          3,
		CacheDir:            "./cached-json",
		CacheExpireMinutes:  24 * 60,
		ResultExpireMinutes: 10,
		Workers:             runtime.NumCPU(),
	}
}

func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load(".env")

	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load %s", path)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("addr must not be empty")
	case c.APIBase == "":
		return errors.New("api_base must not be empty")
	case c.MaxRequests < 1:
		return errors.New("max_requests must be positive")
	case c.MaxRetries < 1:
		return errors.New("max_retries must be positive")
	case c.Workers < 1:
		return errors.New("workers must be positive")
	}
	return nil
}

func (c *Config) CacheExpire() time.Duration {
	return time.Duration(c.CacheExpireMinutes) * time.Minute
}

func (c *Config) ResultExpire() time.Duration {
	return time.Duration(c.ResultExpireMinutes) * time.Minute
}
