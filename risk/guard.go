package risk

import "time"

// GuardConfig holds the drawdown limits in percent of reference equity.
// A zero limit disables the corresponding check.
type GuardConfig struct {
	DailyPct   float64
	OverallPct float64
}

// Breach reports which limits were crossed on this evaluation. Each flag is
// raised only on the transition; a limit already tripped stays silent.
type Breach struct {
	Overall bool
	Daily   bool
}

// Fired reports whether any limit was crossed this evaluation.
func (b Breach) Fired() bool { return b.Overall || b.Daily }

// Guard is the equity-drawdown circuit breaker. It owns the day rollover
// and the two blocking flags:
//
//   - hardStop is set once when equity falls OverallPct below the session's
//     initial equity and is never cleared.
//   - dailyBlocked is set when equity falls DailyPct below the day's start
//     equity and clears only at the next calendar-day rollover.
type Guard struct {
	cfg GuardConfig

	initialEquity  float64
	dayOfYear      int
	year           int
	dayStartEquity float64

	dailyBlocked bool
	hardStop     bool
}

func NewGuard(cfg GuardConfig, initialEquity float64, now time.Time) *Guard {
	return &Guard{
		cfg:            cfg,
		initialEquity:  initialEquity,
		dayOfYear:      now.YearDay(),
		year:           now.Year(),
		dayStartEquity: initialEquity,
	}
}

// Evaluate rolls the day if the calendar has advanced, then checks both
// limits independently. Both may fire on the same tick.
func (g *Guard) Evaluate(now time.Time, equity float64) Breach {
	if now.YearDay() != g.dayOfYear || now.Year() != g.year {
		g.dayOfYear = now.YearDay()
		g.year = now.Year()
		g.dayStartEquity = equity
		g.dailyBlocked = false
	}

	var b Breach
	if !g.hardStop && g.cfg.OverallPct > 0 &&
		equity <= g.initialEquity*(1-g.cfg.OverallPct/100) {
		g.hardStop = true
		b.Overall = true
	}
	if !g.dailyBlocked && g.cfg.DailyPct > 0 &&
		equity <= g.dayStartEquity*(1-g.cfg.DailyPct/100) {
		g.dailyBlocked = true
		b.Daily = true
	}
	return b
}

// Tradable reports whether new activity is currently allowed.
func (g *Guard) Tradable() bool {
	return !g.hardStop && !g.dailyBlocked
}

// HardStopped reports whether the session-permanent stop has tripped.
func (g *Guard) HardStopped() bool { return g.hardStop }

// DailyBlocked reports whether the day-scoped stop has tripped.
func (g *Guard) DailyBlocked() bool { return g.dailyBlocked }

// DayStartEquity exposes the equity snapshot taken at the last rollover.
func (g *Guard) DayStartEquity() float64 { return g.dayStartEquity }
