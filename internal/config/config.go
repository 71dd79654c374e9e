package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port      int    `yaml:"port"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"server"`
	Scrape struct {
		StockURL          string   `yaml:"stock_url"`
		GoldURL           string   `yaml:"gold_url"`
		CryptoURL         string   `yaml:"crypto_url"`
		GoldSource        string   `yaml:"gold_source"`
		CryptoSource      string   `yaml:"crypto_source"`
		UserAgents        []string `yaml:"user_agents"`
		NavTimeoutSeconds int      `yaml:"nav_timeout_seconds"`
		SettleSeconds     int      `yaml:"settle_seconds"`
	} `yaml:"scrape"`
	Schedule struct {
		FetchCron     string `yaml:"fetch_cron"`
		JitterSeconds int    `yaml:"jitter_seconds"`
	} `yaml:"schedule"`
	Browser struct {
		ExecPath    string `yaml:"exec_path"`
		UserDataDir string `yaml:"user_data_dir"`
	} `yaml:"browser"`
	Storage struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"storage"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("API_SECRET"); v != "" {
		cfg.Server.APISecret = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		cfg.Browser.ExecPath = v
	}
	if v := os.Getenv("FETCH_CRON"); v != "" {
		cfg.Schedule.FetchCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Scrape.StockURL == "" {
		cfg.Scrape.StockURL = "https://www.idx.co.id/primary/TradingSummary/GetStockSummary?length=9999&start=0"
	}
	if cfg.Scrape.GoldURL == "" {
		cfg.Scrape.GoldURL = "https://www.harga-emas.org/"
	}
	if cfg.Scrape.CryptoURL == "" {
		cfg.Scrape.CryptoURL = "https://indodax.com/api/summaries"
	}
	if cfg.Scrape.GoldSource == "" {
		cfg.Scrape.GoldSource = "harga-emas.org"
	}
	if cfg.Scrape.CryptoSource == "" {
		cfg.Scrape.CryptoSource = "indodax.com"
	}
	if len(cfg.Scrape.UserAgents) == 0 {
		cfg.Scrape.UserAgents = []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		}
	}
	if cfg.Scrape.NavTimeoutSeconds == 0 {
		cfg.Scrape.NavTimeoutSeconds = 60
	}
	if cfg.Scrape.SettleSeconds == 0 {
		cfg.Scrape.SettleSeconds = 5
	}
	if cfg.Schedule.FetchCron == "" {
		// Five minutes past every hour of the trading day, Mon-Fri.
		cfg.Schedule.FetchCron = "0 5 9-15 * * 1-5"
	}
	if cfg.Schedule.JitterSeconds == 0 {
		cfg.Schedule.JitterSeconds = 300
	}
	// -1 (or any negative) means jitter explicitly disabled.
	if cfg.Schedule.JitterSeconds < 0 {
		cfg.Schedule.JitterSeconds = 0
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Scrape.StockURL == "" {
		return fmt.Errorf("scrape.stock_url is required")
	}
	if c.Scrape.GoldURL == "" {
		return fmt.Errorf("scrape.gold_url is required")
	}
	if c.Scrape.CryptoURL == "" {
		return fmt.Errorf("scrape.crypto_url is required")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}
	return nil
}
