package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotenv reads an optional .env file named by FRACTAL_DOTENV before any
// FRACTAL_* override is consulted. A missing file is not an error.
func LoadDotenv() {
	path := strings.TrimSpace(os.Getenv("FRACTAL_DOTENV"))
	if path == "" {
		return
	}
	_ = godotenv.Load(path)
}

// applyEnv layers FRACTAL_* environment overrides on top of the file
// config. Only the knobs that get tuned between runs without editing the
// config file are exposed here.
func (c *Config) applyEnv() {
	c.Symbol = getEnv("FRACTAL_SYMBOL", c.Symbol)
	c.Timeframe = getEnv("FRACTAL_TIMEFRAME", c.Timeframe)

	c.SLCash = getEnvFloat("FRACTAL_SL_CASH", c.SLCash)
	c.BasketTPCash = getEnvFloat("FRACTAL_BASKET_TP_CASH", c.BasketTPCash)
	c.DailyDrawdownPct = getEnvFloat("FRACTAL_DAILY_DD_PCT", c.DailyDrawdownPct)
	c.OverallDrawdownPct = getEnvFloat("FRACTAL_OVERALL_DD_PCT", c.OverallDrawdownPct)

	c.MaxConcurrent = getEnvInt("FRACTAL_MAX_CONCURRENT", c.MaxConcurrent)
	c.MaxSpreadTicks = getEnvInt("FRACTAL_MAX_SPREAD_TICKS", c.MaxSpreadTicks)

	c.EntryOnTouch = getEnvBool("FRACTAL_ENTRY_ON_TOUCH", c.EntryOnTouch)
	c.TrailEnabled = getEnvBool("FRACTAL_TRAIL_ENABLED", c.TrailEnabled)
	c.BasketExitOn = getEnvBool("FRACTAL_BASKET_EXIT_ON", c.BasketExitOn)
	c.SessionFilterOn = getEnvBool("FRACTAL_SESSION_FILTER_ON", c.SessionFilterOn)
	c.TrendFilterOn = getEnvBool("FRACTAL_TREND_FILTER_ON", c.TrendFilterOn)
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "y", "yes", "on":
		return true
	case "0", "false", "n", "no", "off":
		return false
	}
	return def
}
