package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration shared by the tools.
type Config struct {
	Symbol string `yaml:"symbol"` // e.g. sh600158
	Name   string `yaml:"name"`   // optional display name
	Source string `yaml:"source"` // auto | eastmoney | sina
	Scale  int    `yaml:"scale"`  // report kline scale minutes (1/5/15/30/60)

	Notify struct {
		Channel  string `yaml:"channel"` // telegram | discord
		Target   string `yaml:"target"`
		Bin      string `yaml:"bin"` // messaging CLI; used when bot_token is unset
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"notify"`

	Dirs struct {
		State   string `yaml:"state"`
		Auction string `yaml:"auction"`
	} `yaml:"dirs"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; defaults still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALERT_SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notify.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notify.ChatID = v
	}
	if v := os.Getenv("NOTIFY_CHANNEL"); v != "" {
		cfg.Notify.Channel = v
	}
	if v := os.Getenv("NOTIFY_TARGET"); v != "" {
		cfg.Notify.Target = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("STATE_DIR"); v != "" {
		cfg.Dirs.State = v
	}

	// Defaults
	if cfg.Source == "" {
		cfg.Source = "auto"
	}
	if cfg.Scale == 0 {
		cfg.Scale = 5
	}
	if cfg.Notify.Channel == "" {
		cfg.Notify.Channel = "telegram"
	}
	if cfg.Notify.Bin == "" {
		cfg.Notify.Bin = "openclaw"
	}
	if cfg.Dirs.State == "" {
		cfg.Dirs.State = "data/ashare/alerts"
	}
	if cfg.Dirs.Auction == "" {
		cfg.Dirs.Auction = "data/ashare/auction"
	}

	return cfg, nil
}

// Validate checks that the fields every tool needs are set.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	switch c.Source {
	case "auto", "eastmoney", "sina":
	default:
		return fmt.Errorf("source must be auto, eastmoney, or sina")
	}
	return nil
}
