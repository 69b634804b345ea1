package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/lumocms/lumo-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config application configuration loaded from yaml + env overrides
type Config struct {
	Server struct {
		Port            int      `yaml:"port"`
		AllowedOrigins  []string `yaml:"allowed_origins"`
		ShutdownTimeout int      `yaml:"shutdown_timeout_seconds"`
	} `yaml:"server"`

	Database struct {
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		User         string `yaml:"user"`
		Password     string `yaml:"password"`
		Name         string `yaml:"name"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`

	API struct {
		DefaultListLimit int `yaml:"default_list_limit"`
		MaxListLimit     int `yaml:"max_list_limit"`
	} `yaml:"api"`

	Events struct {
		WebhookURL string `yaml:"webhook_url"`
		BufferSize int    `yaml:"buffer_size"`
	} `yaml:"events"`
}

// Load reads configuration from a yaml file and applies env overrides
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Server.Port = 8080
	c.Server.ShutdownTimeout = 10
	c.Database.Host = "127.0.0.1"
	c.Database.Port = 3306
	c.Database.User = "lumo"
	c.Database.Name = "lumo"
	c.Database.MaxOpenConns = 25
	c.Database.MaxIdleConns = 5
	c.Redis.Host = "127.0.0.1"
	c.Redis.Port = 6379
	c.Redis.PoolSize = 10
	c.API.DefaultListLimit = 10
	c.API.MaxListLimit = 100
	c.Events.BufferSize = 256
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Database.Port = n
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redis.Port = n
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("EVENT_WEBHOOK_URL"); v != "" {
		c.Events.WebhookURL = v
	}
}

// GetDSN builds the MySQL DSN from the database settings
func (c *Config) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// LogResolved logs the effective configuration (secrets masked)
func LogResolved(c *Config) {
	logger.GetLogger().Info().
		Int("server_port", c.Server.Port).
		Str("db_host", c.Database.Host).
		Int("db_port", c.Database.Port).
		Str("db_name", c.Database.Name).
		Str("redis_host", c.Redis.Host).
		Int("default_list_limit", c.API.DefaultListLimit).
		Int("max_list_limit", c.API.MaxListLimit).
		Msg("configuration resolved")
}
