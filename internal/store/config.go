package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode string `yaml:"mode"` // DRY_RUN or LIVE

	Kalshi struct {
		BaseURL           string `yaml:"base_url"`
		RequestsPerSecond int    `yaml:"requests_per_second"`
		TimeoutSeconds    int    `yaml:"timeout_seconds"`
	} `yaml:"kalshi"`

	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI, CLAUDE or empty
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"llm"`

	Trading struct {
		MinConfidence       float64 `yaml:"min_confidence"`
		MaxSlippage         float64 `yaml:"max_slippage"`
		OrderTimeoutSeconds int     `yaml:"order_timeout_seconds"`
	} `yaml:"trading"`

	Risk RiskConfig `yaml:"risk"`

	Cache struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"cache"`

	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`

	News struct {
		Enabled     bool `yaml:"enabled"`
		MaxArticles int  `yaml:"max_articles"`
	} `yaml:"news"`
}

// RiskConfig holds the portfolio exposure limits.
type RiskConfig struct {
	MaxPositionSize  float64 `yaml:"max_position_size"` // fraction of portfolio
	MaxDrawdown      float64 `yaml:"max_drawdown"`
	VarLimit         float64 `yaml:"var_limit"`
	MaxOpenPositions int     `yaml:"max_open_positions"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Trading.MinConfidence < 0 || c.Trading.MinConfidence > 1 {
		return fmt.Errorf("trading.min_confidence must be between 0-1, got %.2f", c.Trading.MinConfidence)
	}
	if c.Risk.MaxPositionSize <= 0 || c.Risk.MaxPositionSize > 1 {
		return fmt.Errorf("risk.max_position_size must be between 0-1, got %.2f", c.Risk.MaxPositionSize)
	}
	if c.Risk.MaxDrawdown <= 0 || c.Risk.MaxDrawdown > 1 {
		return fmt.Errorf("risk.max_drawdown must be between 0-1, got %.2f", c.Risk.MaxDrawdown)
	}
	switch c.LLM.Provider {
	case "", "OPENAI", "CLAUDE", "NOOP":
	default:
		return fmt.Errorf("llm.provider must be 'OPENAI', 'CLAUDE', 'NOOP' or empty, got '%s'", c.LLM.Provider)
	}
	return nil
}

// applyDefaults fills values the config file may omit.
func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.Kalshi.BaseURL == "" {
		c.Kalshi.BaseURL = "https://trading-api.kalshi.com"
	}
	if c.Kalshi.RequestsPerSecond == 0 {
		c.Kalshi.RequestsPerSecond = 10
	}
	if c.Kalshi.TimeoutSeconds == 0 {
		c.Kalshi.TimeoutSeconds = 30
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2000
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.Trading.MinConfidence == 0 {
		c.Trading.MinConfidence = 0.7
	}
	if c.Trading.OrderTimeoutSeconds == 0 {
		c.Trading.OrderTimeoutSeconds = 30
	}
	if c.Risk.MaxPositionSize == 0 {
		c.Risk.MaxPositionSize = 0.05
	}
	if c.Risk.MaxDrawdown == 0 {
		c.Risk.MaxDrawdown = 0.20
	}
	if c.Risk.VarLimit == 0 {
		c.Risk.VarLimit = 0.02
	}
	if c.Risk.MaxOpenPositions == 0 {
		c.Risk.MaxOpenPositions = 20
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = 15
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 10
	}
}

// Default returns a config with all defaults applied, used when no
// config file is present.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
