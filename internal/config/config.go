// Package config provides YAML-based configuration loading for PenLog.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level PenLog configuration, loaded from penlog.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Photos PhotosConfig `yaml:"photos"`
	Demo   DemoConfig   `yaml:"demo"`
	Notify NotifyConfig `yaml:"notify"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"` // used when rendering magic-link URLs
}

// DBConfig selects and configures the storage backend. Driver is "sqlite"
// (default, embedded) or "mysql".
type DBConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"` // sqlite file path
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PhotosConfig holds photo storage settings.
type PhotosConfig struct {
	Dir          string `yaml:"dir"`
	MaxSizeBytes int64  `yaml:"max_size_bytes"`
}

// DemoConfig holds simulator settings.
type DemoConfig struct {
	IntervalMs int `yaml:"interval_ms"`
	Budget     int `yaml:"budget"`
	MaxPens    int `yaml:"max_pens"`
}

// NotifyConfig holds chat notification settings. Platform is "slack",
// "discord", or empty to disable.
type NotifyConfig struct {
	Platform     string `yaml:"platform"`
	SlackToken   string `yaml:"slack_token"`
	DiscordToken string `yaml:"discord_token"`
	ChannelID    string `yaml:"channel_id"`
	DigestCron   string `yaml:"digest_cron"` // 5-field cron expression
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with all defaults applied, used when no config
// file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// DemoInterval returns the simulator tick period.
func (c *Config) DemoInterval() time.Duration {
	return time.Duration(c.Demo.IntervalMs) * time.Millisecond
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Path == "" {
		c.DB.Path = "penlog.db"
	}
	if c.DB.Host == "" {
		c.DB.Host = "127.0.0.1"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.DB.Database == "" {
		c.DB.Database = "penlog"
	}
	if c.Photos.Dir == "" {
		c.Photos.Dir = "photos"
	}
	if c.Photos.MaxSizeBytes == 0 {
		c.Photos.MaxSizeBytes = 16 << 20
	}
	if c.Demo.IntervalMs == 0 {
		c.Demo.IntervalMs = 2000
	}
	if c.Demo.Budget == 0 {
		c.Demo.Budget = 20
	}
	if c.Demo.MaxPens == 0 {
		c.Demo.MaxPens = 30
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.DB.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("db.driver %q is not supported (sqlite or mysql)", c.DB.Driver))
	}
	if c.DB.Driver == "mysql" && c.DB.User == "" {
		errs = append(errs, "db.user is required for the mysql driver")
	}
	switch c.Notify.Platform {
	case "", "slack", "discord":
	default:
		errs = append(errs, fmt.Sprintf("notify.platform %q is not supported (slack or discord)", c.Notify.Platform))
	}
	if c.Notify.Platform == "slack" && c.Notify.SlackToken == "" {
		errs = append(errs, "notify.slack_token is required for the slack platform")
	}
	if c.Notify.Platform == "discord" && c.Notify.DiscordToken == "" {
		errs = append(errs, "notify.discord_token is required for the discord platform")
	}
	if c.Notify.Platform != "" && c.Notify.ChannelID == "" {
		errs = append(errs, "notify.channel_id is required when notifications are enabled")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
