package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"BeesDashboard/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		Kind    string        `yaml:"kind"` // "yahoo", "rest" or "mock"
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	History struct {
		DefaultYears int `yaml:"default_years"`
		MinYears     int `yaml:"min_years"`
		MaxYears     int `yaml:"max_years"`
	} `yaml:"history"`
	Cache struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Theme struct {
		Base            string `yaml:"base"`
		BackgroundColor string `yaml:"background_color"`
	} `yaml:"theme"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Tickers model.TickerSet `yaml:"tickers"`
	Proxy   string          `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides. A missing file is not an error.
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

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_SOURCE_KIND"); v != "" {
		cfg.DataSource.Kind = v
	}
	if v := os.Getenv("DATA_SOURCE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		cfg.Cache.TTL = d
	}
	if v := os.Getenv("HISTORY_YEARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HISTORY_YEARS: %w", err)
		}
		cfg.History.DefaultYears = n
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("THEME_BASE"); v != "" {
		cfg.Theme.Base = v
	}
	if v := os.Getenv("THEME_BACKGROUND_COLOR"); v != "" {
		cfg.Theme.BackgroundColor = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8501"
	}
	if cfg.DataSource.Kind == "" {
		cfg.DataSource.Kind = "yahoo"
		if cfg.DataSource.BaseURL != "" {
			cfg.DataSource.Kind = "rest"
		}
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 30 * time.Second
	}
	if cfg.History.MinYears == 0 {
		cfg.History.MinYears = 2
	}
	if cfg.History.MaxYears == 0 {
		cfg.History.MaxYears = 15
	}
	if cfg.History.DefaultYears == 0 {
		cfg.History.DefaultYears = 7
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Hour
	}
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = model.DefaultTickers()
	}
	for i, t := range cfg.Tickers {
		cfg.Tickers[i] = t.Trimmed()
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.DataSource.Kind {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest source")
		}
	default:
		return fmt.Errorf("data_source.kind %q is not one of yahoo, rest, mock", c.DataSource.Kind)
	}
	if c.History.MinYears < 1 {
		return fmt.Errorf("history.min_years must be at least 1")
	}
	if c.History.MinYears > c.History.MaxYears {
		return fmt.Errorf("history.min_years must not exceed history.max_years")
	}
	if c.History.DefaultYears < c.History.MinYears || c.History.DefaultYears > c.History.MaxYears {
		return fmt.Errorf("history.default_years must be within [%d, %d]", c.History.MinYears, c.History.MaxYears)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	switch strings.ToLower(c.Theme.Base) {
	case "", "dark", "light":
	default:
		return fmt.Errorf("theme.base must be dark, light or empty")
	}
	seen := make(map[string]bool, len(c.Tickers))
	for _, t := range c.Tickers {
		if strings.TrimSpace(t.Label) == "" {
			return fmt.Errorf("ticker label is required (symbol %q)", t.Symbol)
		}
		if seen[t.Label] {
			return fmt.Errorf("duplicate ticker label %q", t.Label)
		}
		seen[t.Label] = true
	}
	if len(c.Tickers.Symbols()) == 0 {
		return fmt.Errorf("at least one ticker symbol is required")
	}
	return nil
}
