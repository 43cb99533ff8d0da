package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "XAUUSD", cfg.Symbol)
	assert.Equal(t, "M1", cfg.Timeframe)
	assert.Equal(t, 40.0, cfg.SLCash)
	assert.Equal(t, 5, cfg.MaxConcurrent)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func(mutate func(*Config)) *Config {
		cfg := Default()
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "missing symbol",
			config:  valid(func(c *Config) { c.Symbol = "" }),
			wantErr: true,
			errMsg:  "symbol is required",
		},
		{
			name:    "unknown symbol",
			config:  valid(func(c *Config) { c.Symbol = "DOGEUSD" }),
			wantErr: true,
			errMsg:  "unknown symbol",
		},
		{
			name:    "bad timeframe",
			config:  valid(func(c *Config) { c.Timeframe = "M7" }),
			wantErr: true,
			errMsg:  "timeframe",
		},
		{
			name:    "inverted tp tick range",
			config:  valid(func(c *Config) { c.TPTicksMin = 20; c.TPTicksMax = 12 }),
			wantErr: true,
			errMsg:  "tp_ticks",
		},
		{
			name:    "zero sl ticks",
			config:  valid(func(c *Config) { c.SLTicksMin = 0 }),
			wantErr: true,
			errMsg:  "sl_ticks",
		},
		{
			name:    "negative sl cash",
			config:  valid(func(c *Config) { c.SLCash = -40 }),
			wantErr: true,
			errMsg:  "sl_cash must be positive",
		},
		{
			name:    "trailing without trigger",
			config:  valid(func(c *Config) { c.TrailEnabled = true; c.BETriggerTicks = 0 }),
			wantErr: true,
			errMsg:  "be_trigger_ticks",
		},
		{
			name:    "basket without target",
			config:  valid(func(c *Config) { c.BasketExitOn = true; c.BasketTPCash = 0 }),
			wantErr: true,
			errMsg:  "basket_tp_cash",
		},
		{
			name:    "daily drawdown out of range",
			config:  valid(func(c *Config) { c.DailyDrawdownPct = 100 }),
			wantErr: true,
			errMsg:  "daily_drawdown_pct",
		},
		{
			name:    "bad session hour",
			config:  valid(func(c *Config) { c.SessionFilterOn = true; c.SessionStartHour = 24 }),
			wantErr: true,
			errMsg:  "session hours",
		},
		{
			name:    "trend filter needs length",
			config:  valid(func(c *Config) { c.TrendFilterOn = true; c.TrendMALength = 1 }),
			wantErr: true,
			errMsg:  "trend_ma_length",
		},
		{
			name:    "csv journal needs files",
			config:  valid(func(c *Config) { c.Journal = JournalConfig{Type: "csv"} }),
			wantErr: true,
			errMsg:  "trades_file",
		},
		{
			name:    "sqlite journal needs path",
			config:  valid(func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} }),
			wantErr: true,
			errMsg:  "db_path",
		},
		{
			name:    "journal off",
			config:  valid(func(c *Config) { c.Journal = JournalConfig{Type: "none"} }),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.SLCash = 25
			cfg.SessionFilterOn = true
			cfg.SessionStartHour = 22
			cfg.SessionEndHour = 4
			path := filepath.Join(tmpDir, "test"+tt.ext)

			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			_, err = os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Symbol, loaded.Symbol)
			assert.Equal(t, cfg.SLCash, loaded.SLCash)
			assert.Equal(t, cfg.SessionStartHour, loaded.SessionStartHour)
			assert.Equal(t, cfg.SessionEndHour, loaded.SessionEndHour)
			assert.Equal(t, cfg.Journal.Type, loaded.Journal.Type)
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	cfg := Default()
	cfg.SLCash = -1
	require.NoError(t, cfg.SaveToFile(path))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sl_cash")
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, Default().SaveToFile(path))

	t.Setenv("FRACTAL_SYMBOL", "EURUSD")
	t.Setenv("FRACTAL_SL_CASH", "22.5")
	t.Setenv("FRACTAL_MAX_CONCURRENT", "3")
	t.Setenv("FRACTAL_TRAIL_ENABLED", "off")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "EURUSD", cfg.Symbol)
	assert.Equal(t, 22.5, cfg.SLCash)
	assert.Equal(t, 3, cfg.MaxConcurrent)
	assert.False(t, cfg.TrailEnabled)
}

func TestEnvBadValuesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, Default().SaveToFile(path))

	t.Setenv("FRACTAL_SL_CASH", "not-a-number")
	t.Setenv("FRACTAL_TRAIL_ENABLED", "maybe")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 40.0, cfg.SLCash)
	assert.True(t, cfg.TrailEnabled)
}
