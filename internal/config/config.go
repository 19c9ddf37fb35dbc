package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	DB          DBConfig          `yaml:"db"`
	Log         LogConfig         `yaml:"log"`
	Transport   TransportConfig   `yaml:"transport"`
	Auth        AuthConfig        `yaml:"auth"`
	Arrangement ArrangementConfig `yaml:"arrangement"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, sends logs to a size-capped file.
	Path string `yaml:"path"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ArrangementConfig sets the view of arrangements opened for editing.
type ArrangementConfig struct {
	PixelsPerBar  float64       `yaml:"pixels_per_bar"`
	ViewportWidth int           `yaml:"viewport_width"`
	LoadTimeout   time.Duration `yaml:"load_timeout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "arranger.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Arrangement: ArrangementConfig{
			PixelsPerBar:  16,
			ViewportWidth: 640,
			LoadTimeout:   30 * time.Second,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("ARRANGER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("ARRANGER_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("ARRANGER_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ARRANGER_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("ARRANGER_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("ARRANGER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("ARRANGER_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("ARRANGER_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("ARRANGER_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ARRANGER_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if ppb := os.Getenv("ARRANGER_PIXELS_PER_BAR"); ppb != "" {
		v, err := strconv.ParseFloat(ppb, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ARRANGER_PIXELS_PER_BAR: %w", err)
		}
		cfg.Arrangement.PixelsPerBar = v
	}
	if timeout := os.Getenv("ARRANGER_LOAD_TIMEOUT"); timeout != "" {
		v, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ARRANGER_LOAD_TIMEOUT: %w", err)
		}
		cfg.Arrangement.LoadTimeout = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	if c.Arrangement.PixelsPerBar < 1 {
		return fmt.Errorf("invalid pixels per bar %v: want at least 1", c.Arrangement.PixelsPerBar)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
