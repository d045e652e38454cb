package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes the environment overrides. Sections are separated by a
// double underscore: TALKS_API__BASE_URL sets api.base_url.
const EnvPrefix = "TALKS_"

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "talks-explorer.yml"

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	API     APIConfig     `koanf:"api"`
	Cache   CacheConfig   `koanf:"cache"`
	Streams StreamsConfig `koanf:"streams"`
	Log     LogConfig     `koanf:"log"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// APIConfig locates the talks REST API.
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// CacheConfig enables the Redis response cache when URL is set.
type CacheConfig struct {
	URL string        `koanf:"url"`
	TTL time.Duration `koanf:"ttl"`
}

// StreamsConfig enables the browse events feed when Brokers is set.
type StreamsConfig struct {
	Brokers string `koanf:"brokers"`
	Topic   string `koanf:"topic"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug|info|warn|error
	Format string `koanf:"format"` // json|text
}

func defaults() map[string]any {
	return map[string]any{
		"server.addr":   ":8080",
		"api.base_url":  "http://localhost:5000",
		"api.timeout":   "5s",
		"cache.ttl":     "30s",
		"streams.topic": "talk-browse",
		"log.level":     "info",
		"log.format":    "text",
	}
}

// Load reads the defaults, then the YAML file at path if it exists, then the
// TALKS_ environment overrides.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("loading env overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps TALKS_API__BASE_URL to api.base_url.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

var validFormats = map[string]bool{"json": true, "text": true}

// Validate checks that the configuration contains valid values.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url %q: scheme must be http or https", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: host is required", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		return fmt.Errorf("invalid log.format %q: must be one of json, text", c.Log.Format)
	}

	return nil
}
