package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rustyeddy/fractal/market"
	"gopkg.in/yaml.v3"
)

// Config is the complete, flat strategy parameter set. It is validated on
// load and immutable afterwards; there is no dynamic reconfiguration.
type Config struct {
	Symbol    string `json:"symbol" yaml:"symbol"`
	Timeframe string `json:"timeframe" yaml:"timeframe"`

	// Entry sizing: tick distances are drawn uniformly from the
	// inclusive integer ranges below (fixed when min == max), cash
	// targets bound the lot size.
	TPTicksMin int     `json:"tp_ticks_min" yaml:"tp_ticks_min"`
	TPTicksMax int     `json:"tp_ticks_max" yaml:"tp_ticks_max"`
	SLTicksMin int     `json:"sl_ticks_min" yaml:"sl_ticks_min"`
	SLTicksMax int     `json:"sl_ticks_max" yaml:"sl_ticks_max"`
	TPCashMin  float64 `json:"tp_cash_min" yaml:"tp_cash_min"`
	TPCashMax  float64 `json:"tp_cash_max" yaml:"tp_cash_max"`
	SLCash     float64 `json:"sl_cash" yaml:"sl_cash"`

	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`

	// EntryOnTouch selects market-on-touch entries; false rests a limit
	// order at the detected level.
	EntryOnTouch bool `json:"entry_on_touch" yaml:"entry_on_touch"`

	// Trailing stop parameters, all in ticks.
	TrailEnabled   bool `json:"trail_enabled" yaml:"trail_enabled"`
	BETriggerTicks int  `json:"be_trigger_ticks" yaml:"be_trigger_ticks"`
	BEBufferTicks  int  `json:"be_buffer_ticks" yaml:"be_buffer_ticks"`
	TrailGapTicks  int  `json:"trail_gap_ticks" yaml:"trail_gap_ticks"`
	TrailStepTicks int  `json:"trail_step_ticks" yaml:"trail_step_ticks"`

	// Basket exit.
	BasketExitOn bool    `json:"basket_exit_on" yaml:"basket_exit_on"`
	BasketTPCash float64 `json:"basket_tp_cash" yaml:"basket_tp_cash"`

	// Drawdown circuit breakers, percent of reference equity.
	DailyDrawdownPct   float64 `json:"daily_drawdown_pct" yaml:"daily_drawdown_pct"`
	OverallDrawdownPct float64 `json:"overall_drawdown_pct" yaml:"overall_drawdown_pct"`

	// Entry gates.
	SessionFilterOn  bool `json:"session_filter_on" yaml:"session_filter_on"`
	SessionStartHour int  `json:"session_start_hour" yaml:"session_start_hour"`
	SessionEndHour   int  `json:"session_end_hour" yaml:"session_end_hour"`
	MaxSpreadTicks   int  `json:"max_spread_ticks" yaml:"max_spread_ticks"`
	MinBarRangeTicks int  `json:"min_bar_range_ticks" yaml:"min_bar_range_ticks"`

	// Optional trend-slope bias.
	TrendFilterOn      bool `json:"trend_filter_on" yaml:"trend_filter_on"`
	TrendMALength      int  `json:"trend_ma_length" yaml:"trend_ma_length"`
	TrendSlopeLookback int  `json:"trend_slope_lookback" yaml:"trend_slope_lookback"`

	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on
// content), applies environment overrides, then validates.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if _, ok := market.Symbols[c.Symbol]; !ok {
		return fmt.Errorf("unknown symbol: %s", c.Symbol)
	}
	if _, err := market.ParseTimeframe(c.Timeframe); err != nil {
		return fmt.Errorf("timeframe: %w", err)
	}
	if c.TPTicksMin <= 0 || c.TPTicksMax < c.TPTicksMin {
		return fmt.Errorf("tp_ticks range must satisfy 0 < min <= max")
	}
	if c.SLTicksMin <= 0 || c.SLTicksMax < c.SLTicksMin {
		return fmt.Errorf("sl_ticks range must satisfy 0 < min <= max")
	}
	if c.TPCashMin <= 0 || c.TPCashMax < c.TPCashMin {
		return fmt.Errorf("tp_cash range must satisfy 0 < min <= max")
	}
	if c.SLCash <= 0 {
		return fmt.Errorf("sl_cash must be positive")
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent must not be negative")
	}
	if c.TrailEnabled {
		if c.BETriggerTicks <= 0 {
			return fmt.Errorf("be_trigger_ticks must be positive when trailing is enabled")
		}
		if c.BEBufferTicks < 0 {
			return fmt.Errorf("be_buffer_ticks must not be negative")
		}
		if c.TrailGapTicks <= 0 || c.TrailStepTicks <= 0 {
			return fmt.Errorf("trail_gap_ticks and trail_step_ticks must be positive when trailing is enabled")
		}
	}
	if c.BasketExitOn && c.BasketTPCash <= 0 {
		return fmt.Errorf("basket_tp_cash must be positive when basket exit is enabled")
	}
	if c.DailyDrawdownPct < 0 || c.DailyDrawdownPct >= 100 {
		return fmt.Errorf("daily_drawdown_pct must be in [0,100)")
	}
	if c.OverallDrawdownPct < 0 || c.OverallDrawdownPct >= 100 {
		return fmt.Errorf("overall_drawdown_pct must be in [0,100)")
	}
	if c.SessionFilterOn {
		if c.SessionStartHour < 0 || c.SessionStartHour > 23 ||
			c.SessionEndHour < 0 || c.SessionEndHour > 23 {
			return fmt.Errorf("session hours must be in [0,23]")
		}
	}
	if c.MaxSpreadTicks < 0 {
		return fmt.Errorf("max_spread_ticks must not be negative")
	}
	if c.MinBarRangeTicks < 0 {
		return fmt.Errorf("min_bar_range_ticks must not be negative")
	}
	if c.TrendFilterOn {
		if c.TrendMALength <= 1 {
			return fmt.Errorf("trend_ma_length must be greater than 1 when trend filter is enabled")
		}
		if c.TrendSlopeLookback <= 0 {
			return fmt.Errorf("trend_slope_lookback must be positive when trend filter is enabled")
		}
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" && c.Journal.Type != "none" {
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	if c.Journal.Type == "csv" && (c.Journal.TradesFile == "" || c.Journal.EquityFile == "") {
		return fmt.Errorf("journal trades_file and equity_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Symbol:    "XAUUSD",
		Timeframe: "M1",

		TPTicksMin: 12,
		TPTicksMax: 20,
		SLTicksMin: 10,
		SLTicksMax: 18,
		TPCashMin:  10.0,
		TPCashMax:  50.0,
		SLCash:     40.0,

		MaxConcurrent: 5,
		EntryOnTouch:  true,

		TrailEnabled:   true,
		BETriggerTicks: 12,
		BEBufferTicks:  1,
		TrailGapTicks:  10,
		TrailStepTicks: 2,

		BasketExitOn: true,
		BasketTPCash: 150.0,

		DailyDrawdownPct:   5.0,
		OverallDrawdownPct: 10.0,

		SessionFilterOn:  false,
		SessionStartHour: 8,
		SessionEndHour:   20,
		MaxSpreadTicks:   300,
		MinBarRangeTicks: 0,

		TrendFilterOn:      false,
		TrendMALength:      50,
		TrendSlopeLookback: 5,

		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
	}
}
