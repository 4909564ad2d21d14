// Package backtest drives the day-by-day simulation loop: advance the
// oracle, evaluate stop-losses, ask the strategy for signals, execute
// orders, snapshot equity.
package backtest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/backsim/book"
	"github.com/rustyeddy/backsim/internal/id"
	"github.com/rustyeddy/backsim/journal"
	"github.com/rustyeddy/backsim/ledger"
	"github.com/rustyeddy/backsim/market"
	"github.com/rustyeddy/backsim/risk"
	"github.com/rustyeddy/backsim/sim"
	"github.com/rustyeddy/backsim/strategies"
)

// warmupDays is the pre-start lookback handed to strategies that want to
// seed indicators. It never reaches into the simulation window.
const warmupDays = 100

// warmer is the optional strategy capability for indicator seeding.
type warmer interface {
	Warmup(symbol string, bars []market.Bar)
}

// Config describes one backtest run.
type Config struct {
	AccountID string
	Start     time.Time
	End       time.Time
	Symbols   []string
	Strategy  strategies.Strategy
}

// Runner wires the collaborators for a run. Journal and Logger are
// optional.
type Runner struct {
	Engine  *sim.Engine
	Oracle  market.SimOracle
	Ledger  ledger.Store
	Book    book.Book
	Journal journal.Journal
	Logger  *zap.Logger
}

// Run executes the loop once per calendar day from Start through End:
//
//  1. check for cancellation (day boundaries only; a day's orders are
//     never split)
//  2. advance the oracle clock
//  3. evaluate stop-losses on open positions, selling any that trigger
//  4. hand the strategy a snapshot of today's bars and execute its intents
//  5. record the daily equity snapshot
//
// Individual order failures are logged and the day continues. A temporal
// violation aborts the run: it means the loop itself leaked future data
// and every result after it would be suspect.
func (r *Runner) Run(ctx context.Context, cfg Config) (Result, error) {
	if r.Engine == nil || r.Oracle == nil || r.Ledger == nil || r.Book == nil {
		return Result{}, fmt.Errorf("backtest: Engine, Oracle, Ledger and Book are required")
	}
	if cfg.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	if cfg.End.Before(cfg.Start) {
		return Result{}, fmt.Errorf("backtest: end %s before start %s",
			cfg.End.Format("2006-01-02"), cfg.Start.Format("2006-01-02"))
	}

	jnl := r.Journal
	if jnl == nil {
		jnl = journal.Nop{}
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	acct, err := r.Ledger.Get(cfg.AccountID)
	if err != nil {
		return Result{}, fmt.Errorf("backtest: account %q: %w", cfg.AccountID, err)
	}
	initialCapital := acct.Cash

	start := market.Day(cfg.Start)
	end := market.Day(cfg.End)
	runID := id.New()

	logger.Info("backtest starting",
		zap.String("run", runID),
		zap.String("account", cfg.AccountID),
		zap.String("strategy", cfg.Strategy.Name()),
		zap.Time("start", start),
		zap.Time("end", end))

	r.warmup(cfg, start)

	res := Result{
		RunID:          runID,
		AccountID:      cfg.AccountID,
		Strategy:       cfg.Strategy.Name(),
		StartDate:      start,
		EndDate:        end,
		InitialCapital: initialCapital,
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		if err := r.Oracle.Advance(day); err != nil {
			return Result{}, fmt.Errorf("backtest: advance to %s: %w", day.Format("2006-01-02"), err)
		}

		// Stops run before the strategy sees the day, so an exit and a
		// fresh entry signal on the same bar resolve exit-first.
		if err := r.evaluateStops(cfg.AccountID, day, &res); err != nil {
			return Result{}, err
		}

		if err := r.runStrategy(cfg, day, &res, logger); err != nil {
			return Result{}, err
		}

		snap, err := r.snapshot(cfg.AccountID, day)
		if err != nil {
			return Result{}, err
		}
		res.DailySnapshots = append(res.DailySnapshots, snap)

		if err := jnl.RecordSnapshot(journal.SnapshotRecord{
			RunID:          runID,
			Date:           snap.Date,
			Cash:           snap.Cash,
			PositionsValue: snap.PositionsValue,
			TotalEquity:    snap.TotalEquity,
			OpenPositions:  snap.OpenPositions,
		}); err != nil {
			logger.Warn("journal snapshot", zap.Error(err))
		}
	}

	res.FinalEquity = initialCapital
	if n := len(res.DailySnapshots); n > 0 {
		res.FinalEquity = res.DailySnapshots[n-1].TotalEquity
	}
	res.TotalReturn = TotalReturn(initialCapital, res.FinalEquity)
	res.MaxDrawdown = MaxDrawdown(res.DailySnapshots)
	res.SharpeRatio = SharpeRatio(res.DailySnapshots)
	res.WinRate = WinRate(res.Trades)
	res.TotalTrades = len(res.Trades)

	for _, t := range res.Trades {
		if err := jnl.RecordTrade(journal.TradeRecord{
			RunID:      runID,
			PositionID: t.PositionID,
			Time:       t.Time,
			Symbol:     t.Symbol,
			Side:       t.Side.String(),
			Quantity:   t.Quantity,
			Price:      t.Price,
			Commission: t.Commission,
			PnL:        t.PnL,
			Reason:     t.ExitReason,
		}); err != nil {
			logger.Warn("journal trade", zap.Error(err))
		}
	}
	if err := jnl.RecordRun(journal.RunRecord{
		RunID:          runID,
		Created:        time.Now().UTC(),
		AccountID:      cfg.AccountID,
		Strategy:       cfg.Strategy.Name(),
		Start:          start,
		End:            end,
		InitialCapital: initialCapital,
		FinalEquity:    res.FinalEquity,
		TotalReturn:    res.TotalReturn,
		MaxDrawdown:    res.MaxDrawdown,
		SharpeRatio:    res.SharpeRatio,
		WinRate:        res.WinRate,
		Trades:         res.TotalTrades,
	}); err != nil {
		logger.Warn("journal run", zap.Error(err))
	}

	logger.Info("backtest finished",
		zap.String("run", runID),
		zap.Float64("finalEquity", res.FinalEquity),
		zap.Float64("totalReturn", res.TotalReturn),
		zap.Int("trades", res.TotalTrades))

	return res, nil
}

// warmup feeds pre-start history to strategies that can use it. The
// lookback window ends the day before the simulation starts.
func (r *Runner) warmup(cfg Config, start time.Time) {
	w, ok := cfg.Strategy.(warmer)
	if !ok {
		return
	}

	warmEnd := start.AddDate(0, 0, -1)
	warmStart := start.AddDate(0, 0, -warmupDays)
	if r.Oracle.CurrentTime().Before(warmEnd) {
		// Forward-only clock; never past the simulation start.
		_ = r.Oracle.Advance(warmEnd)
	}

	for _, sym := range cfg.Symbols {
		if hist := r.Oracle.History(sym, warmStart, warmEnd); len(hist) > 0 {
			w.Warmup(sym, hist)
		}
	}
}

func (r *Runner) evaluateStops(accountID string, day time.Time, res *Result) error {
	for _, p := range r.Book.OpenPositions(accountID) {
		bar, err := r.Oracle.PriceAt(p.Symbol, day)
		if err != nil {
			continue
		}

		sd := risk.EvaluateStopLoss(p, bar.Close, day)
		if !sd.Triggered {
			continue
		}

		ord := sim.Order{
			AccountID: accountID,
			Symbol:    p.Symbol,
			Side:      sim.Sell,
			Quantity:  p.Quantity,
			Time:      day,
			Reason:    sd.Reason,
		}
		fill, err := r.Engine.ExecuteOrder(ord)
		if err != nil {
			return err
		}
		if fill.OK {
			res.Trades = append(res.Trades, tradeFrom(ord, fill))
		}
	}
	return nil
}

func (r *Runner) runStrategy(cfg Config, day time.Time, res *Result, logger *zap.Logger) error {
	bars := make(map[string]market.Bar)
	for _, sym := range cfg.Symbols {
		if !r.Oracle.IsAvailable(sym, day) {
			continue
		}
		bar, err := r.Oracle.PriceAt(sym, day)
		if err != nil {
			continue
		}
		bars[sym] = bar
	}
	if len(bars) == 0 {
		return nil
	}

	open := r.Book.OpenPositions(cfg.AccountID)
	for _, in := range cfg.Strategy.Signals(strategies.Snapshot{Time: day, Bars: bars}, open) {
		ord := sim.Order{
			AccountID: cfg.AccountID,
			Symbol:    in.Symbol,
			Side:      in.Side,
			Quantity:  in.Quantity,
			Time:      day,
			Stop:      in.Stop,
		}
		fill, err := r.Engine.ExecuteOrder(ord)
		if err != nil {
			return err
		}
		if !fill.OK {
			logger.Debug("intent not filled",
				zap.String("symbol", in.Symbol),
				zap.String("side", in.Side.String()),
				zap.String("reason", fill.Err))
			continue
		}
		res.Trades = append(res.Trades, tradeFrom(ord, fill))
	}
	return nil
}

// snapshot marks open positions to the last known close and adds cash.
func (r *Runner) snapshot(accountID string, day time.Time) (DailySnapshot, error) {
	acct, err := r.Ledger.Get(accountID)
	if err != nil {
		return DailySnapshot{}, err
	}

	open := r.Book.OpenPositions(accountID)
	var value float64
	for _, p := range open {
		bar, err := r.Oracle.PriceAt(p.Symbol, day)
		if err != nil {
			// No price ever seen; carry the position at cost.
			value += p.EntryPrice * float64(p.Quantity)
			continue
		}
		value += book.MarketValue(p, bar.Close)
	}

	return DailySnapshot{
		Date:           day,
		Cash:           acct.Cash,
		PositionsValue: value,
		TotalEquity:    acct.Cash + value,
		OpenPositions:  len(open),
	}, nil
}

func tradeFrom(ord sim.Order, fill sim.OrderResult) sim.Trade {
	t := sim.Trade{
		Time:       ord.Time,
		Symbol:     ord.Symbol,
		Side:       ord.Side,
		Quantity:   fill.Quantity,
		Price:      fill.Price,
		Commission: fill.Commission,
		PositionID: fill.PositionID,
	}
	if ord.Side == sim.Sell {
		t.ExitReason = ord.Reason
		if t.ExitReason == "" {
			t.ExitReason = "signal"
		}
		t.PnL = fill.RealizedPL
	}
	return t
}
