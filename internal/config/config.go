package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"TradeConsole/internal/model"
)

// Exchange modes.
const (
	ModeLive  = "live"
	ModePaper = "paper"
)

// Config holds all application configuration.
type Config struct {
	Exchange struct {
		Mode          string            `yaml:"mode"`
		BaseURL       string            `yaml:"base_url"`
		APIKey        string            `yaml:"api_key"`
		APISecret     string            `yaml:"api_secret"`
		Passphrase    string            `yaml:"passphrase"`
		PaperBalances map[string]string `yaml:"paper_balances"`
	} `yaml:"exchange"`
	MarketData struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"market_data"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Workflow struct {
		AnalysisInterval time.Duration `yaml:"analysis_interval"`
		ChartInterval    time.Duration `yaml:"chart_interval"`
		Seed             uint64        `yaml:"seed"`
		AutoStart        bool          `yaml:"auto_start"`
	} `yaml:"workflow"`
	Funding struct {
		AvailableFunds float64       `yaml:"available_funds"`
		MaxPerTrade    float64       `yaml:"max_per_trade"`
		RiskLevel      string        `yaml:"risk_level"`
		DepositDelay   time.Duration `yaml:"deposit_delay"`
	} `yaml:"funding"`
	Dashboard struct {
		Addr string `yaml:"addr"`
	} `yaml:"dashboard"`
	Terminal struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"terminal"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env into the environment (if present), then the YAML file,
// then applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"COINBASE_API_KEY":    &c.Exchange.APIKey,
		"COINBASE_API_SECRET": &c.Exchange.APISecret,
		"COINBASE_PASSPHRASE": &c.Exchange.Passphrase,
		"EXCHANGE_MODE":       &c.Exchange.Mode,
		"TELEGRAM_BOT_TOKEN":  &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":    &c.Telegram.ChatID,
		"HTTPS_PROXY":         &c.Proxy,
		"SQLITE_PATH":         &c.Database.SQLitePath,
		"DASHBOARD_ADDR":      &c.Dashboard.Addr,
		"LOG_LEVEL":           &c.Log.Level,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ANALYSIS_INTERVAL": &c.Workflow.AnalysisInterval,
		"CHART_INTERVAL":    &c.Workflow.ChartInterval,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("parse %s: %w", key, err)
			}
			*dst = d
		}
	}

	if v := os.Getenv("RANDOM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse RANDOM_SEED: %w", err)
		}
		c.Workflow.Seed = seed
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Exchange.Mode == "" {
		c.Exchange.Mode = ModeLive
	}
	if c.Workflow.AnalysisInterval == 0 {
		c.Workflow.AnalysisInterval = 30 * time.Second
	}
	if c.Workflow.ChartInterval == 0 {
		c.Workflow.ChartInterval = 5 * time.Second
	}
	if c.Workflow.Seed == 0 {
		c.Workflow.Seed = uint64(time.Now().UnixNano())
	}
	if c.Funding.RiskLevel == "" {
		c.Funding.RiskLevel = string(model.RiskMedium)
	}
	if c.Funding.DepositDelay == 0 {
		c.Funding.DepositDelay = 2 * time.Second
	}
	if c.Dashboard.Addr == "" {
		c.Dashboard.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Credential returns the configured Coinbase key triple. It is not marked
// configured until a connection test passes.
func (c *Config) Credential() model.APICredential {
	return model.APICredential{
		APIKey:     c.Exchange.APIKey,
		APISecret:  c.Exchange.APISecret,
		Passphrase: c.Exchange.Passphrase,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Exchange.Mode != ModeLive && c.Exchange.Mode != ModePaper {
		return fmt.Errorf("exchange.mode must be %q or %q, got %q", ModeLive, ModePaper, c.Exchange.Mode)
	}
	if c.Workflow.AnalysisInterval < time.Second || c.Workflow.ChartInterval < time.Second {
		return fmt.Errorf("workflow intervals must be at least 1s")
	}
	if _, err := model.ParseRiskLevel(c.Funding.RiskLevel); err != nil {
		return err
	}
	if c.Funding.AvailableFunds < 0 || c.Funding.MaxPerTrade < 0 {
		return fmt.Errorf("funding amounts must not be negative")
	}
	if c.Funding.MaxPerTrade > c.Funding.AvailableFunds {
		return fmt.Errorf("funding.max_per_trade cannot exceed funding.available_funds")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
