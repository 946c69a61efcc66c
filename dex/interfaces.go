package dex

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Quoter is a read-only price source for a single venue. Quote returns the
// output amount of tokenOut for the given input amount of tokenIn, in the
// output token's base units. Implementations never submit transactions.
type Quoter interface {
	// Name returns the venue name used in logs and path labels.
	Name() string

	// Quote asks the venue's quoter contract for the exact-input output
	// amount. A failed call (revert, insufficient liquidity, transport
	// error) returns a non-nil error; the caller excludes the owning path
	// from that cycle's comparison.
	Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error)
}
