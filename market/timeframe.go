package market

import (
	"fmt"
	"time"
)

// Timeframe is a bar duration. The string form follows the usual
// M1/M5/H1 convention.
type Timeframe time.Duration

func (tf Timeframe) Duration() time.Duration { return time.Duration(tf) }

func (tf Timeframe) String() string {
	sec := int64(time.Duration(tf) / time.Second)
	switch {
	case sec <= 0:
		return "invalid"
	case sec < 3600 && sec%60 == 0:
		return fmt.Sprintf("M%d", sec/60)
	case sec < 86400 && sec%3600 == 0:
		return fmt.Sprintf("H%d", sec/3600)
	case sec%86400 == 0:
		return fmt.Sprintf("D%d", sec/86400)
	}
	return fmt.Sprintf("%ds", sec)
}

// ParseTimeframe maps a timeframe string to its duration.
func ParseTimeframe(tf string) (Timeframe, error) {
	table := map[string]time.Duration{
		"M1":  time.Minute,
		"M5":  5 * time.Minute,
		"M15": 15 * time.Minute,
		"M30": 30 * time.Minute,
		"H1":  time.Hour,
		"H4":  4 * time.Hour,
		"D1":  24 * time.Hour,
	}
	d, ok := table[tf]
	if !ok {
		return 0, fmt.Errorf("unsupported timeframe string: %s", tf)
	}
	return Timeframe(d), nil
}

// Truncate returns the bar open time containing t.
func (tf Timeframe) Truncate(t time.Time) time.Time {
	return t.Truncate(time.Duration(tf))
}
