package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/fractal/broker"
	"github.com/rustyeddy/fractal/config"
	"github.com/rustyeddy/fractal/market"
	"github.com/rustyeddy/fractal/metrics"
	"github.com/rustyeddy/fractal/risk"
)

// Deps are the external collaborators the engine consumes. The engine never
// implements feed or broker connectivity itself.
type Deps struct {
	Feed    broker.MarketFeed
	Venue   broker.ExecutionVenue
	Account broker.AccountInfo
	Clock   broker.Clock
	Rand    risk.Rand
}

// Engine is the decision-and-state-machine layer: it reacts to ticks and
// new bars, opens positions at confirmed swing extremes, and manages them
// until closed. All state is private to one logical thread of control; the
// venue may still close or modify positions behind the engine's back, which
// every step tolerates.
type Engine struct {
	cfg  *config.Config
	meta market.SymbolMeta
	tf   market.Timeframe

	deps  Deps
	guard *risk.Guard

	trail       map[string]*TrailState
	lastBarOpen time.Time

	Verbose bool
}

// NewEngine wires an engine; Start must be called before the first tick.
func NewEngine(cfg *config.Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	meta, ok := market.Symbols[cfg.Symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %q", cfg.Symbol)
	}
	tf, err := market.ParseTimeframe(cfg.Timeframe)
	if err != nil {
		return nil, err
	}
	if deps.Feed == nil || deps.Venue == nil || deps.Account == nil {
		return nil, fmt.Errorf("engine requires feed, venue and account collaborators")
	}
	if deps.Clock == nil {
		deps.Clock = broker.SystemClock{}
	}
	if deps.Rand == nil {
		return nil, fmt.Errorf("engine requires a random source")
	}
	return &Engine{
		cfg:   cfg,
		meta:  meta,
		tf:    tf,
		deps:  deps,
		trail: make(map[string]*TrailState),
	}, nil
}

// Start snapshots initial equity and arms the drawdown guard. It is the
// only place the guard's reference equity is captured.
func (e *Engine) Start(ctx context.Context) error {
	equity, err := e.deps.Account.Equity(ctx)
	if err != nil {
		return fmt.Errorf("read initial equity: %w", err)
	}
	e.guard = risk.NewGuard(risk.GuardConfig{
		DailyPct:   e.cfg.DailyDrawdownPct,
		OverallPct: e.cfg.OverallDrawdownPct,
	}, equity, e.deps.Clock.Now())
	metrics.Equity.Set(equity)
	if e.Verbose {
		fmt.Printf("%s START %s %s equity=%.2f\n",
			e.deps.Clock.Now().UTC().Format(time.RFC3339), e.cfg.Symbol, e.tf, equity)
	}
	return nil
}

// Snapshot is the per-evaluation view of the market. It is refreshed every
// cycle and never persisted.
type Snapshot struct {
	Tick    market.Tick
	PrevBar market.Candle
	Meta    market.SymbolMeta
	Hour    int
}

// OnTick runs one evaluation cycle. Hard order: risk guard, then basket
// exit, then trailing management, then new-bar entry logic. A breach
// detected here suppresses every later step in the same tick. Feed gaps
// skip entry logic but never fail the cycle.
func (e *Engine) OnTick(ctx context.Context) error {
	if e.guard == nil {
		return fmt.Errorf("engine not started")
	}

	now := e.deps.Clock.Now()

	equity, err := e.deps.Account.Equity(ctx)
	if err != nil {
		return nil // no account data this cycle; nothing safe to decide
	}
	metrics.Equity.Set(equity)

	breach := e.guard.Evaluate(now, equity)
	if breach.Overall {
		metrics.BreakerTrips.WithLabelValues("overall").Inc()
		fmt.Printf("%s BREACH overall equity=%.2f -> flatten, session halt\n",
			now.UTC().Format(time.RFC3339), equity)
	}
	if breach.Daily {
		metrics.BreakerTrips.WithLabelValues("daily").Inc()
		fmt.Printf("%s BREACH daily equity=%.2f dayStart=%.2f -> flatten, blocked until rollover\n",
			now.UTC().Format(time.RFC3339), equity, e.guard.DayStartEquity())
	}
	if breach.Fired() {
		e.flattenAll(ctx)
	}
	if !e.guard.Tradable() {
		return nil
	}

	tick, err := e.deps.Feed.CurrentTick(ctx)
	if err != nil {
		return nil // feed warming up; management needs a price too
	}

	snap := Snapshot{Tick: tick, Meta: e.meta, Hour: now.Hour()}
	if bar, err := e.deps.Feed.PreviousBar(ctx); err == nil {
		snap.PrevBar = bar
	}

	basketFired, err := e.basketExit(ctx)
	if err != nil {
		return err
	}

	e.manageTrailing(ctx, tick)

	if basketFired {
		return nil
	}
	return e.maybeEnterOnNewBar(ctx, snap)
}

// maybeEnterOnNewBar runs gate, signal and dispatch logic once per newly
// confirmed bar, detected by the bar-open-timestamp change.
func (e *Engine) maybeEnterOnNewBar(ctx context.Context, snap Snapshot) error {
	if snap.PrevBar.Time.IsZero() || snap.PrevBar.Time.Equal(e.lastBarOpen) {
		return nil
	}
	e.lastBarOpen = snap.PrevBar.Time

	if !e.evalGates(snap).Pass() {
		return nil
	}

	signals := e.detectSignals(ctx)
	if len(signals) == 0 {
		return nil
	}

	open, err := e.deps.Venue.OpenPositions(ctx, e.cfg.Symbol)
	if err != nil {
		return nil
	}
	capacity := e.cfg.MaxConcurrent - len(open)
	if capacity < 0 {
		capacity = 0
	}
	if capacity == 0 {
		return nil
	}

	for _, sig := range signals {
		if capacity == 0 {
			break
		}
		if !e.directionAllowed(ctx, sig.Direction) {
			continue
		}
		placed, err := e.dispatch(ctx, snap, sig)
		if err != nil {
			// Venue reject: observable, dropped, never retried.
			fmt.Printf("%s REJECT %s %s @%.5f: %v\n",
				e.deps.Clock.Now().UTC().Format(time.RFC3339),
				e.cfg.Symbol, sig.Direction, sig.Level, err)
			metrics.OrderRejects.Inc()
			continue
		}
		if placed {
			capacity--
		}
	}
	return nil
}

// OnPositionClosed implements broker.PositionClosedHandler. Dropping the
// trailing record here is the only removal path.
func (e *Engine) OnPositionClosed(positionID string, reason string) {
	delete(e.trail, positionID)
	metrics.PositionsClosed.WithLabelValues(reason).Inc()
}

// flattenAll closes every open position and cancels every resting order for
// the traded symbol. Missing positions or orders are no-ops; the commands
// stay safe to reissue.
func (e *Engine) flattenAll(ctx context.Context) {
	if positions, err := e.deps.Venue.OpenPositions(ctx, e.cfg.Symbol); err == nil {
		for _, p := range positions {
			if err := e.deps.Venue.ClosePosition(ctx, p.ID); err != nil {
				continue
			}
		}
	}
	if orders, err := e.deps.Venue.PendingOrders(ctx, e.cfg.Symbol); err == nil {
		for _, o := range orders {
			if err := e.deps.Venue.CancelOrder(ctx, o.ID); err != nil {
				continue
			}
		}
	}
}

// Guard exposes the risk guard for inspection (replay summaries, tests).
func (e *Engine) Guard() *risk.Guard { return e.guard }
