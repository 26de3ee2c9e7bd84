package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"BeesDashboard/internal/cache"
	"BeesDashboard/internal/chart"
	"BeesDashboard/internal/collector"
	"BeesDashboard/internal/config"
	"BeesDashboard/internal/dashboard"
	"BeesDashboard/internal/model"
	"BeesDashboard/internal/recorder"
)

// app bundles the wired components shared by every subcommand.
type app struct {
	cfg       *config.Config
	service   *collector.WeeklyService
	dashboard *dashboard.Dashboard
	recorder  recorder.Recorder
}

func loadConfig() (*config.Config, error) {
	path := *configPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Kind {
	case "rest":
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	case "mock":
		return &collector.MockFetcher{Price: 100}
	default:
		return collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
	}
}

func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	fetcher := newFetcher(cfg)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	rec := newRecorder(cfg)
	svc := collector.NewWeeklyService(fetcher, cache.New[model.PriceTable](), cfg.Cache.TTL, rec)
	svc.FetchTimeout = cfg.DataSource.Timeout * time.Duration(len(cfg.Tickers)+1)
	theme := chart.ThemeContext{Base: cfg.Theme.Base, BackgroundColor: cfg.Theme.BackgroundColor}
	years := dashboard.YearsRange{Min: cfg.History.MinYears, Max: cfg.History.MaxYears, Default: cfg.History.DefaultYears}

	return &app{
		cfg:       cfg,
		service:   svc,
		dashboard: dashboard.New(svc, cfg.Tickers, theme, years, rec),
		recorder:  rec,
	}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Printf("[ERROR] close recorder: %v", err)
	}
}
