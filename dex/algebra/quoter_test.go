package algebra

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	lastMsg ethereum.CallMsg
	result  []byte
	err     error
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.lastMsg = msg
	return f.result, f.err
}

func TestQuoteReturnsAmountOut(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(quoterABIJson))
	require.NoError(t, err)
	encoded, err := parsed.Methods["quoteExactInputSingle"].Outputs.Pack(big.NewInt(10010500000))
	require.NoError(t, err)

	caller := &fakeCaller{result: encoded}
	contract := common.HexToAddress("0xa15F0D7377B2A0C0c10db057f641beD21028FC89")

	q, err := NewQuoter(caller, contract, nil, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "QuickSwap", q.Name())

	out, err := q.Quote(context.Background(),
		common.HexToAddress("0x01"), common.HexToAddress("0x02"), big.NewInt(3500000))
	require.NoError(t, err)
	assert.Equal(t, "10010500000", out.String())

	require.NotNil(t, caller.lastMsg.To)
	assert.Equal(t, contract, *caller.lastMsg.To)
	assert.Equal(t, parsed.Methods["quoteExactInputSingle"].ID, caller.lastMsg.Data[:4])
}

func TestQuotePropagatesCallError(t *testing.T) {
	caller := &fakeCaller{err: errors.New("insufficient liquidity")}
	q, err := NewQuoter(caller, common.HexToAddress("0x01"), nil, time.Second)
	require.NoError(t, err)

	_, err = q.Quote(context.Background(),
		common.HexToAddress("0x02"), common.HexToAddress("0x03"), big.NewInt(1))
	assert.ErrorContains(t, err, "insufficient liquidity")
}
