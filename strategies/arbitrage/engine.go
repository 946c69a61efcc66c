package arbitrage

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/arbwatch/config"
	"github.com/michaelpento.lv/arbwatch/dex"
	"github.com/michaelpento.lv/arbwatch/journal"
	"github.com/michaelpento.lv/arbwatch/notify"
	"github.com/michaelpento.lv/arbwatch/types"
	"github.com/michaelpento.lv/arbwatch/utils/metrics"
	"github.com/michaelpento.lv/arbwatch/utils/units"
)

// alertCacheSize bounds the dedup cache of recently alerted opportunities.
const alertCacheSize = 128

// Engine orchestrates one polling cycle: both round-trip paths are
// evaluated, the better net outcome is selected, and the profitability
// threshold decides whether the cycle is an opportunity.
type Engine struct {
	venue1 dex.Quoter
	venue2 dex.Quoter

	evaluator     *Evaluator
	startAmount   *big.Int
	threshold     *big.Int
	roundTripCost *big.Int
	pollInterval  time.Duration

	baseDecimals         int
	intermediateDecimals int

	journal  *journal.Journal
	notifier notify.Sender
	alerted  *lru.Cache
	logger   *zap.Logger
	metrics  *metrics.ScannerMetrics

	// Out receives the per-cycle report. Defaults to stdout.
	Out io.Writer
}

// NewEngine wires a decision engine from the configuration and the two
// venue quoters. The journal, notifier and metrics may be nil.
func NewEngine(cfg *config.Config, venue1, venue2 dex.Quoter, jrnl *journal.Journal, notifier notify.Sender, m *metrics.ScannerMetrics, logger *zap.Logger) *Engine {
	cache, _ := lru.New(alertCacheSize)
	return &Engine{
		venue1:               venue1,
		venue2:               venue2,
		evaluator:            NewEvaluator(cfg.BaseToken, cfg.IntermediateToken, cfg.RoundTripCost(), m, logger),
		startAmount:          cfg.StartAmount,
		threshold:            cfg.ProfitThreshold,
		roundTripCost:        cfg.RoundTripCost(),
		pollInterval:         cfg.PollInterval,
		baseDecimals:         cfg.BaseDecimals,
		intermediateDecimals: cfg.IntermediateDecimals,
		journal:              jrnl,
		notifier:             notifier,
		alerted:              cache,
		logger:               logger,
		metrics:              m,
		Out:                  os.Stdout,
	}
}

// Run polls until the context is cancelled. The interval is fixed; failed
// cycles do not back off.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("Starting monitor loop",
		zap.Duration("interval", e.pollInterval),
		zap.String("start_amount", units.Format(e.startAmount, e.baseDecimals)),
		zap.String("profit_threshold", units.Format(e.threshold, e.baseDecimals)))

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		e.RunCycle(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunCycle evaluates both directions concurrently and returns the cycle's
// decision. Outcome is nil when both paths failed.
func (e *Engine) RunCycle(ctx context.Context) *types.CycleDecision {
	if e.metrics != nil {
		e.metrics.Cycles.Inc()
	}

	var (
		wg       sync.WaitGroup
		outcomeA *types.PathOutcome
		outcomeB *types.PathOutcome
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		outcomeA, _ = e.evaluator.Evaluate(ctx, types.PathA, e.venue1, e.venue2, e.startAmount)
	}()
	go func() {
		defer wg.Done()
		outcomeB, _ = e.evaluator.Evaluate(ctx, types.PathB, e.venue2, e.venue1, e.startAmount)
	}()
	wg.Wait()

	e.reportPath("PATH A", e.venue1.Name(), e.venue2.Name(), outcomeA)
	e.reportPath("PATH B", e.venue2.Name(), e.venue1.Name(), outcomeB)

	best := selectBest(outcomeA, outcomeB)
	if best == nil {
		e.logger.Warn("Both paths failed to quote this cycle")
		if e.metrics != nil {
			e.metrics.NoDecision.Inc()
		}
		fmt.Fprintf(e.Out, "\nNo decision: both paths failed to quote.\n")
		return &types.CycleDecision{}
	}

	if e.metrics != nil {
		net, _ := new(big.Float).SetInt(best.Net).Float64()
		e.metrics.BestNet.Set(net)
	}

	opportunity := best.Net.Cmp(e.threshold) > 0
	e.reportBest(best, opportunity)

	if opportunity {
		if e.metrics != nil {
			e.metrics.Opportunities.Inc()
		}
		e.record(ctx, best)
	}

	return &types.CycleDecision{Outcome: best, Opportunity: opportunity}
}

// selectBest picks the outcome with the strictly greater net difference.
// Ties go to path A, which is considered first.
func selectBest(a, b *types.PathOutcome) *types.PathOutcome {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Net.Cmp(a.Net) > 0:
		return b
	default:
		return a
	}
}

// record persists and announces an opportunity. Failures here are warnings:
// the decision already went to the report.
func (e *Engine) record(ctx context.Context, o *types.PathOutcome) {
	e.logger.Info("Arbitrage opportunity detected",
		zap.String("path", o.Label),
		zap.String("net", units.Format(o.Net, e.baseDecimals)))

	if e.journal != nil {
		if err := e.journal.Append(o, e.roundTripCost); err != nil {
			if e.metrics != nil {
				e.metrics.JournalErrors.Inc()
			}
			e.logger.Warn("Failed to append opportunity journal", zap.Error(err))
		}
	}

	if e.notifier == nil {
		return
	}
	key := o.Label + "|" + units.Format(o.Net, e.baseDecimals)
	if _, seen := e.alerted.Get(key); seen {
		return
	}
	e.alerted.Add(key, struct{}{})

	msg := fmt.Sprintf("%s\nnet %s | start %s | back %s",
		o.Label,
		units.Format(o.Net, e.baseDecimals),
		units.Format(o.Start, e.baseDecimals),
		units.Format(o.Back, e.baseDecimals))
	if err := e.notifier.Send(ctx, "Arbitrage opportunity", msg); err != nil {
		e.logger.Warn("Failed to send alert",
			zap.String("sender", e.notifier.Name()),
			zap.Error(err))
	}
}

func (e *Engine) reportPath(name, buyVenue, sellVenue string, o *types.PathOutcome) {
	fmt.Fprintf(e.Out, "\n--- %s: %s BUY -> %s SELL ---\n", name, buyVenue, sellVenue)
	if o == nil {
		fmt.Fprintf(e.Out, "Quote failed.\n")
		return
	}

	buyRate := units.Ratio(o.Intermediate, o.Start, e.intermediateDecimals, e.baseDecimals)
	sellRate := units.Ratio(o.Back, o.Intermediate, e.baseDecimals, e.intermediateDecimals)

	fmt.Fprintf(e.Out, "Start: %s\n", units.Format(o.Start, e.baseDecimals))
	fmt.Fprintf(e.Out, "%s BUY: %s (~ %s per unit)\n", o.BuyVenue, units.Format(o.Intermediate, e.intermediateDecimals), buyRate)
	fmt.Fprintf(e.Out, "%s SELL: %s (~ %s per unit)\n", o.SellVenue, units.Format(o.Back, e.baseDecimals), sellRate)
	fmt.Fprintf(e.Out, "Gross diff: %s\n", units.Format(o.Gross, e.baseDecimals))
	fmt.Fprintf(e.Out, "Est. gas (round-trip): %s\n", units.Format(e.roundTripCost, e.baseDecimals))
	fmt.Fprintf(e.Out, "Net diff: %s\n", units.Format(o.Net, e.baseDecimals))
}

func (e *Engine) reportBest(o *types.PathOutcome, opportunity bool) {
	fmt.Fprintf(e.Out, "\n=== Best Path Selected: %s ===\n", o.Label)
	fmt.Fprintf(e.Out, "Start: %s | Bought: %s | Back: %s | Gas: %s | Net: %s\n",
		units.Format(o.Start, e.baseDecimals),
		units.Format(o.Intermediate, e.intermediateDecimals),
		units.Format(o.Back, e.baseDecimals),
		units.Format(e.roundTripCost, e.baseDecimals),
		units.Format(o.Net, e.baseDecimals))
	if opportunity {
		fmt.Fprintf(e.Out, "ARB DETECTED (%s): net %s\n", o.Label, units.Format(o.Net, e.baseDecimals))
	} else {
		fmt.Fprintf(e.Out, "No arbitrage (net <= threshold).\n")
	}
}
