package uniswapv3

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

// QuoterV2 quoteExactInputSingle. JSON ABI because of the tuple parameter.
const quoterABIJson = `[{
  "inputs": [{
    "components": [
      { "internalType": "address",  "name": "tokenIn",          "type": "address"  },
      { "internalType": "address",  "name": "tokenOut",         "type": "address"  },
      { "internalType": "uint256",  "name": "amountIn",         "type": "uint256"  },
      { "internalType": "uint24",   "name": "fee",              "type": "uint24"   },
      { "internalType": "uint160",  "name": "sqrtPriceLimitX96","type": "uint160"  }
    ],
    "internalType": "struct IQuoterV2.QuoteExactInputSingleParams",
    "name": "params",
    "type": "tuple"
  }],
  "name": "quoteExactInputSingle",
  "outputs": [
    { "internalType":"uint256","name":"amountOut","type":"uint256" },
    { "internalType":"uint160","name":"sqrtPriceX96After","type":"uint160" },
    { "internalType":"int24",  "name":"initializedTicksCrossed","type":"int24" },
    { "internalType":"uint256","name":"gasEstimate","type":"uint256" }
  ],
  "stateMutability": "view",
  "type": "function"
}]`

// quoteParams mirrors IQuoterV2.QuoteExactInputSingleParams.
type quoteParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	AmountIn          *big.Int
	Fee               *big.Int
	SqrtPriceLimitX96 *big.Int
}

// Quoter implements dex.Quoter against a Uniswap v3 QuoterV2 contract.
type Quoter struct {
	client    ethereum.ContractCaller
	contract  common.Address
	fee       *big.Int
	quoterABI abi.ABI
	limiter   *rate.Limiter
	timeout   time.Duration
}

// NewQuoter creates a QuoterV2-backed quoter for the given fee tier. The
// limiter is shared with other RPC callers and may be nil; timeout bounds
// each eth_call.
func NewQuoter(client ethereum.ContractCaller, contract common.Address, fee uint32, limiter *rate.Limiter, timeout time.Duration) (*Quoter, error) {
	parsedABI, err := abi.JSON(strings.NewReader(quoterABIJson))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter ABI: %w", err)
	}

	return &Quoter{
		client:    client,
		contract:  contract,
		fee:       new(big.Int).SetUint64(uint64(fee)),
		quoterABI: parsedABI,
		limiter:   limiter,
		timeout:   timeout,
	}, nil
}

// Name returns the venue name.
func (q *Quoter) Name() string {
	return "UniswapV3"
}

// Quote returns the exact-input output amount for the pair at the quoter's
// fee tier. No price limit is applied (sqrtPriceLimitX96 = 0). The extra
// diagnostic outputs of QuoterV2 are discarded.
func (q *Quoter) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error) {
	if q.limiter != nil {
		if err := q.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("uniswapv3: rate limiter: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	params := quoteParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               q.fee,
		SqrtPriceLimitX96: big.NewInt(0),
	}
	data, err := q.quoterABI.Pack("quoteExactInputSingle", params)
	if err != nil {
		return nil, fmt.Errorf("uniswapv3: failed to pack quote call: %w", err)
	}

	res, err := q.client.CallContract(ctx, ethereum.CallMsg{To: &q.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("uniswapv3: quote call failed: %w", err)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("uniswapv3: empty result from quoter %s", q.contract.Hex())
	}

	out, err := q.quoterABI.Unpack("quoteExactInputSingle", res)
	if err != nil {
		return nil, fmt.Errorf("uniswapv3: failed to unpack quote result: %w", err)
	}
	amountOut, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("uniswapv3: unexpected amountOut type %T", out[0])
	}

	return amountOut, nil
}
