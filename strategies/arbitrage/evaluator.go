package arbitrage

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/arbwatch/dex"
	"github.com/michaelpento.lv/arbwatch/types"
	"github.com/michaelpento.lv/arbwatch/utils/metrics"
	"github.com/michaelpento.lv/arbwatch/utils/units"
)

// Evaluator produces the outcome of a single round-trip path: buy the
// intermediate asset on one venue, sell it back on the other. The sell leg's
// input is exactly the buy leg's output, so the outcome reflects a
// realizable two-hop result under current quoted prices.
type Evaluator struct {
	base          common.Address
	intermediate  common.Address
	roundTripCost *big.Int
	logger        *zap.Logger
	metrics       *metrics.ScannerMetrics
}

// NewEvaluator creates a path evaluator. metrics may be nil.
func NewEvaluator(base, intermediate common.Address, roundTripCost *big.Int, m *metrics.ScannerMetrics, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		base:          base,
		intermediate:  intermediate,
		roundTripCost: roundTripCost,
		logger:        logger,
		metrics:       m,
	}
}

// Evaluate runs the two quote legs for a direction. A failed leg marks the
// whole path failed; there is no retry within a cycle.
func (e *Evaluator) Evaluate(ctx context.Context, dir types.Direction, buy, sell dex.Quoter, start *big.Int) (*types.PathOutcome, error) {
	label := fmt.Sprintf("%s BUY -> %s SELL", buy.Name(), sell.Name())

	bought, err := e.quoteLeg(ctx, buy, "buy", e.base, e.intermediate, start)
	if err != nil {
		return nil, fmt.Errorf("path %q buy leg: %w", label, err)
	}

	back, err := e.quoteLeg(ctx, sell, "sell", e.intermediate, e.base, bought)
	if err != nil {
		return nil, fmt.Errorf("path %q sell leg: %w", label, err)
	}

	return &types.PathOutcome{
		Direction:    dir,
		Label:        label,
		BuyVenue:     buy.Name(),
		SellVenue:    sell.Name(),
		Start:        start,
		Intermediate: bought,
		Back:         back,
		Gross:        units.SignedDiff(back, start, big.NewInt(0)),
		Net:          units.SignedDiff(back, start, e.roundTripCost),
	}, nil
}

func (e *Evaluator) quoteLeg(ctx context.Context, venue dex.Quoter, leg string, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error) {
	began := time.Now()
	out, err := venue.Quote(ctx, tokenIn, tokenOut, amountIn)
	if e.metrics != nil {
		e.metrics.QuoteLatency.Observe(time.Since(began).Seconds())
	}
	if err != nil {
		if e.metrics != nil {
			e.metrics.QuoteErrors.WithLabelValues(venue.Name(), leg).Inc()
		}
		e.logger.Warn("Quote failed",
			zap.String("venue", venue.Name()),
			zap.String("leg", leg),
			zap.String("token_in", tokenIn.Hex()),
			zap.String("token_out", tokenOut.Hex()),
			zap.Error(err))
		return nil, err
	}
	return out, nil
}
