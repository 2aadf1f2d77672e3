// Package config loads service configuration: YAML file over builtin
// defaults, environment overrides on top. The bot token is env-first because
// deployments keep it out of files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Server  ServerConfig  `yaml:"server"`
	Geo     GeoConfig     `yaml:"geo"`
	Redis   RedisConfig   `yaml:"redis"`
	Wheel   WheelConfig   `yaml:"wheel"`
	Logging LoggingConfig `yaml:"logging"`
}

// BotConfig drives the Telegram surface.
type BotConfig struct {
	Token              string  `yaml:"token"`
	TokenSource        string  `yaml:"-"`
	SendRPS            float64 `yaml:"send_rps"`
	CaptionLimit       int     `yaml:"caption_limit"`
	PollTimeoutSeconds int     `yaml:"poll_timeout_seconds"`
}

func (b BotConfig) PollTimeout() time.Duration {
	return time.Duration(b.PollTimeoutSeconds) * time.Second
}

// ServerConfig drives the HTTP API.
type ServerConfig struct {
	Addr                   string `yaml:"addr"`
	ReadTimeoutSeconds     int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// GeoConfig drives place resolution: extra city-to-zone mappings merged over
// the builtin table, and the Nominatim client settings.
type GeoConfig struct {
	NominatimURL    string            `yaml:"nominatim_url"`
	UserAgent       string            `yaml:"user_agent"`
	RPS             float64           `yaml:"rps"`
	TimeoutSeconds  int               `yaml:"timeout_seconds"`
	CacheTTLSeconds int               `yaml:"cache_ttl_seconds"`
	Cities          map[string]string `yaml:"cities"`
}

func (g GeoConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

func (g GeoConfig) CacheTTL() time.Duration {
	return time.Duration(g.CacheTTLSeconds) * time.Second
}

// RedisConfig selects the shared geocode cache. Empty Addr means the
// in-process cache.
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// WheelConfig sizes the rendered wheel.
type WheelConfig struct {
	Size     int    `yaml:"size"`
	FontPath string `yaml:"font_path"`
}

// LoggingConfig tunes zerolog.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the builtin configuration.
func Default() *Config {
	return &Config{
		Bot: BotConfig{
			SendRPS:            25,
			CaptionLimit:       1000,
			PollTimeoutSeconds: 30,
		},
		Server: ServerConfig{
			Addr:                   "127.0.0.1:8080",
			ReadTimeoutSeconds:     10,
			WriteTimeoutSeconds:    30,
			ShutdownTimeoutSeconds: 10,
		},
		Geo: GeoConfig{
			NominatimURL:    "https://nominatim.openstreetmap.org",
			UserAgent:       "astroluna/1.0",
			RPS:             1,
			TimeoutSeconds:  10,
			CacheTTLSeconds: 86400,
		},
		Wheel: WheelConfig{
			Size: 1200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file if a path is
// given, then environment overrides.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// applyEnv layers environment variables over the file values. The synastry
// bot token wins over the plain one, historical deployment convention.
func (c *Config) applyEnv() {
	switch {
	case os.Getenv("BOT_TOKEN_SYNASTRY") != "":
		c.Bot.Token = os.Getenv("BOT_TOKEN_SYNASTRY")
		c.Bot.TokenSource = "BOT_TOKEN_SYNASTRY"
	case os.Getenv("BOT_TOKEN") != "":
		c.Bot.Token = os.Getenv("BOT_TOKEN")
		c.Bot.TokenSource = "BOT_TOKEN"
	case c.Bot.Token != "":
		c.Bot.TokenSource = "config"
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
}

// Validate rejects values no surface can run with.
func (c *Config) Validate() error {
	if c.Bot.SendRPS <= 0 {
		return fmt.Errorf("config: bot send_rps must be positive, got %v", c.Bot.SendRPS)
	}
	if c.Bot.CaptionLimit <= 0 {
		return fmt.Errorf("config: bot caption_limit must be positive, got %d", c.Bot.CaptionLimit)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server addr must not be empty")
	}
	if c.Geo.RPS <= 0 {
		return fmt.Errorf("config: geo rps must be positive, got %v", c.Geo.RPS)
	}
	if c.Wheel.Size <= 0 {
		return fmt.Errorf("config: wheel size must be positive, got %d", c.Wheel.Size)
	}
	return nil
}
