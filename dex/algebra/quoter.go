package algebra

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/time/rate"
)

// Algebra-style quoter (QuickSwap v3). Flat parameters, single output, no
// fee tier: the pool's dynamic fee is applied by the contract.
const quoterABIJson = `[{
  "inputs": [
    { "internalType": "address", "name": "tokenIn",        "type": "address" },
    { "internalType": "address", "name": "tokenOut",       "type": "address" },
    { "internalType": "uint256", "name": "amountIn",       "type": "uint256" },
    { "internalType": "uint160", "name": "limitSqrtPrice", "type": "uint160" }
  ],
  "name": "quoteExactInputSingle",
  "outputs": [
    { "internalType": "uint256", "name": "amountOut", "type": "uint256" }
  ],
  "stateMutability": "view",
  "type": "function"
}]`

// Quoter implements dex.Quoter against an Algebra quoter contract.
type Quoter struct {
	client    ethereum.ContractCaller
	contract  common.Address
	quoterABI abi.ABI
	limiter   *rate.Limiter
	timeout   time.Duration
}

// NewQuoter creates an Algebra-backed quoter. The limiter is shared with
// other RPC callers and may be nil; timeout bounds each eth_call.
func NewQuoter(client ethereum.ContractCaller, contract common.Address, limiter *rate.Limiter, timeout time.Duration) (*Quoter, error) {
	parsedABI, err := abi.JSON(strings.NewReader(quoterABIJson))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter ABI: %w", err)
	}

	return &Quoter{
		client:    client,
		contract:  contract,
		quoterABI: parsedABI,
		limiter:   limiter,
		timeout:   timeout,
	}, nil
}

// Name returns the venue name.
func (q *Quoter) Name() string {
	return "QuickSwap"
}

// Quote returns the exact-input output amount for the pair. No price limit
// is applied (limitSqrtPrice = 0).
func (q *Quoter) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error) {
	if q.limiter != nil {
		if err := q.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("algebra: rate limiter: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	data, err := q.quoterABI.Pack("quoteExactInputSingle", tokenIn, tokenOut, amountIn, big.NewInt(0))
	if err != nil {
		return nil, fmt.Errorf("algebra: failed to pack quote call: %w", err)
	}

	res, err := q.client.CallContract(ctx, ethereum.CallMsg{To: &q.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("algebra: quote call failed: %w", err)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("algebra: empty result from quoter %s", q.contract.Hex())
	}

	out, err := q.quoterABI.Unpack("quoteExactInputSingle", res)
	if err != nil {
		return nil, fmt.Errorf("algebra: failed to unpack quote result: %w", err)
	}
	amountOut, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("algebra: unexpected amountOut type %T", out[0])
	}

	return amountOut, nil
}
