package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration. Values come from an optional YAML
// file named by CONFIG_FILE, then environment variables override them.
type Config struct {
	Port         string   `yaml:"port"`
	DatabaseURL  string   `yaml:"database_url"`
	RedisURL     string   `yaml:"redis_url"`
	LogLevel     string   `yaml:"log_level"`
	AllowOrigins []string `yaml:"allow_origins"`
	// Debounce is the quiet period after the last draft keystroke before
	// the draft is submitted.
	Debounce Duration `yaml:"debounce"`
	// RateLimit is requests per second per client IP; 0 disables it.
	RateLimit float64 `yaml:"rate_limit"`
	// SessionIdle closes in-progress games untouched for this long; 0 keeps
	// them for the life of the process.
	SessionIdle Duration `yaml:"session_idle"`
}

// Duration is a time.Duration that reads as "2s" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:         "8080",
		LogLevel:     "info",
		AllowOrigins: []string{"*"},
		Debounce:     Duration(2 * time.Second),
		RateLimit:    20,
		SessionIdle:  Duration(12 * time.Hour),
	}
}

// Load reads configuration from CONFIG_FILE (if set) and environment
// variables on top of Defaults.
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = strings.Split(v, ",")
	}
	if v := getenv("DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DEBOUNCE: %w", err)
		}
		c.Debounce = Duration(d)
	}
	if v := getenv("SESSION_IDLE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_IDLE: %w", err)
		}
		c.SessionIdle = Duration(d)
	}
	if v := getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT: %w", err)
		}
		c.RateLimit = f
	}
	return nil
}
