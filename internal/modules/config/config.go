package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	accessTokenENV    = "DHAN_ACCESS_TOKEN"
	clientIDENV       = "DHAN_CLIENT_ID"
	databaseDSN       = "DATABASE_DSN"
)

type BotDestination struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// Config ...
type Config struct {
	Dhan struct {
		ClientID    string `yaml:"client_id"`
		AccessToken string `yaml:"access_token"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"dhan"`

	Telegram struct {
		Bots []BotDestination `yaml:"bots"`
	} `yaml:"telegram"`

	DB      string `yaml:"db_dsn"`
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	Watchlist   []string `yaml:"watchlist"`
	CatalogPath string   `yaml:"catalog_path"`
	SignalsDir  string   `yaml:"signals_dir"`
	ReportsDir  string   `yaml:"reports_dir"`

	Feed struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
	} `yaml:"feed"`

	// Торговое окно NSE
	MarketOpen  string `yaml:"market_open"`  // "09:15"
	MarketClose string `yaml:"market_close"` // "15:30"
	Timezone    string `yaml:"timezone"`

	// Проценты стопа/тейка от цены исполнения, напр. 1.0 => 1%
	SLPercent     float64 `yaml:"sl_percent"`
	TargetPercent float64 `yaml:"target_percent"`
	TickSize      float64 `yaml:"tick_size"`

	DefaultQuantity int `yaml:"default_quantity"`
	BatchSize       int `yaml:"batch_size"`

	// Интервалы ярусов сканера и паузы — только через env
	ScanInterval         time.Duration
	HotListInterval      time.Duration
	ActiveTradesInterval time.Duration
	SymbolDelay          time.Duration
	BatchDelay           time.Duration

	// Ожидание исполнения входа
	FillAttempts     int
	FillDelay        time.Duration
	FlipFillAttempts int
	FlipFillDelay    time.Duration

	// Котировки
	QuoteRetries int
	QuoteDelay   time.Duration
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		MarketOpen:  getenvDefault("MARKET_OPEN", "09:15"),
		MarketClose: getenvDefault("MARKET_CLOSE", "15:30"),
		Timezone:    getenvDefault("MARKET_TZ", "Asia/Kolkata"),

		SLPercent:     floatFromEnv("SL_PERCENT", 1.0),
		TargetPercent: floatFromEnv("TARGET_PERCENT", 1.0),
		TickSize:      floatFromEnv("TICK_SIZE", 0.10),

		DefaultQuantity: intFromEnv("DEFAULT_QUANTITY", 1),
		BatchSize:       intFromEnv("BATCH_SIZE", 10),

		ScanInterval:         durationFromEnv("SCAN_INTERVAL", "300s"),
		HotListInterval:      durationFromEnv("HOT_LIST_INTERVAL", "60s"),
		ActiveTradesInterval: durationFromEnv("ACTIVE_TRADES_INTERVAL", "10s"),
		SymbolDelay:          durationFromEnv("SYMBOL_DELAY", "1s"),
		BatchDelay:           durationFromEnv("BATCH_DELAY", "5s"),

		FillAttempts:     intFromEnv("FILL_ATTEMPTS", 5),
		FillDelay:        durationFromEnv("FILL_DELAY", "1s"),
		FlipFillAttempts: intFromEnv("FLIP_FILL_ATTEMPTS", 10),
		FlipFillDelay:    durationFromEnv("FLIP_FILL_DELAY", "2s"),

		QuoteRetries: intFromEnv("QUOTE_RETRIES", 3),
		QuoteDelay:   durationFromEnv("QUOTE_DELAY", "1s"),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	if token := os.Getenv(accessTokenENV); token != "" {
		config.Dhan.AccessToken = token
	}
	if clientID := os.Getenv(clientIDENV); clientID != "" {
		config.Dhan.ClientID = clientID
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}
	config.Feed.Enabled = boolFromEnv("FEED_ENABLED", config.Feed.Enabled)

	if config.Dhan.BaseURL == "" {
		config.Dhan.BaseURL = "https://api.dhan.co/v2"
	}
	if config.CatalogPath == "" {
		config.CatalogPath = "data/instruments.csv"
	}
	if config.SignalsDir == "" {
		config.SignalsDir = "signals"
	}
	if config.ReportsDir == "" {
		config.ReportsDir = "reports"
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
