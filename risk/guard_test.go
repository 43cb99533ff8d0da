package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var day1 = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

func TestGuardDailyBreachAndRollover(t *testing.T) {
	g := NewGuard(GuardConfig{DailyPct: 5}, 100000, day1)
	assert.True(t, g.Tradable())

	// Above the floor: nothing fires.
	b := g.Evaluate(day1.Add(time.Hour), 96000)
	assert.False(t, b.Fired())
	assert.True(t, g.Tradable())

	// Through the floor: breach, blocked for the rest of the day.
	b = g.Evaluate(day1.Add(2*time.Hour), 94900)
	assert.True(t, b.Daily)
	assert.False(t, b.Overall)
	assert.False(t, g.Tradable())

	// Already tripped: further evaluations stay silent.
	b = g.Evaluate(day1.Add(3*time.Hour), 94000)
	assert.False(t, b.Fired())
	assert.True(t, g.DailyBlocked())

	// Next calendar day: block clears and the day floor rebases to the
	// equity at rollover.
	day2 := day1.Add(24 * time.Hour)
	b = g.Evaluate(day2, 94000)
	assert.False(t, b.Fired())
	assert.True(t, g.Tradable())
	assert.Equal(t, 94000.0, g.DayStartEquity())

	// The new floor is 5% under 94000, not under the original 100000.
	b = g.Evaluate(day2.Add(time.Hour), 89200)
	assert.True(t, b.Daily)
}

func TestGuardHardStopIsPermanent(t *testing.T) {
	g := NewGuard(GuardConfig{OverallPct: 10}, 100000, day1)

	b := g.Evaluate(day1.Add(time.Hour), 89900)
	assert.True(t, b.Overall)
	assert.True(t, g.HardStopped())
	assert.False(t, g.Tradable())

	// Recovery or a new day never clears the hard stop.
	b = g.Evaluate(day1.Add(24*time.Hour), 120000)
	assert.False(t, b.Fired())
	assert.True(t, g.HardStopped())
	assert.False(t, g.Tradable())
}

func TestGuardBothLimitsFireTogether(t *testing.T) {
	g := NewGuard(GuardConfig{DailyPct: 5, OverallPct: 10}, 100000, day1)

	b := g.Evaluate(day1.Add(time.Hour), 88000)
	assert.True(t, b.Daily)
	assert.True(t, b.Overall)
	assert.True(t, b.Fired())
}

func TestGuardZeroLimitsDisabled(t *testing.T) {
	g := NewGuard(GuardConfig{}, 100000, day1)

	b := g.Evaluate(day1.Add(time.Hour), 1)
	assert.False(t, b.Fired())
	assert.True(t, g.Tradable())
}

func TestGuardYearBoundaryRollover(t *testing.T) {
	// Dec 31 and Jan 1 share nothing; the year check keeps the rollover
	// honest across the new year.
	dec31 := time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)
	g := NewGuard(GuardConfig{DailyPct: 5}, 100000, dec31)

	b := g.Evaluate(dec31, 94900)
	assert.True(t, b.Daily)

	b = g.Evaluate(dec31.Add(2*time.Hour), 94900)
	assert.False(t, b.Fired())
	assert.True(t, g.Tradable())
	assert.Equal(t, 94900.0, g.DayStartEquity())
}
