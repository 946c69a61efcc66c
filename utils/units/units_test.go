package units

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("10000", 6)
	require.NoError(t, err)
	assert.Equal(t, "10000000000", amount.String())

	amount, err = ParseAmount("0.02", 6)
	require.NoError(t, err)
	assert.Equal(t, "20000", amount.String())

	amount, err = ParseAmount("3.5", 18)
	require.NoError(t, err)
	assert.Equal(t, "3500000000000000000", amount.String())

	// Rounds to the nearest unit at the target precision.
	amount, err = ParseAmount("0.0000015", 6)
	require.NoError(t, err)
	assert.Equal(t, "2", amount.String())

	_, err = ParseAmount("not-a-number", 6)
	assert.Error(t, err)
}

func TestFromDecimalRejectsNegative(t *testing.T) {
	_, err := FromDecimal(decimal.NewFromInt(-1), 6)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "10000", Format(big.NewInt(10000000000), 6))
	assert.Equal(t, "10010.5", Format(big.NewInt(10010500000), 6))
	assert.Equal(t, "0.04", Format(big.NewInt(40000), 6))
	assert.Equal(t, "0", Format(big.NewInt(0), 6))
	assert.Equal(t, "3.5", Format(big.NewInt(3500000000000000000), 18))

	// decimals == 0 returns the plain integer string.
	assert.Equal(t, "42", Format(big.NewInt(42), 0))
	assert.Equal(t, "0", Format(big.NewInt(0), 0))

	// Negative amounts format as minus plus the absolute value.
	assert.Equal(t, "-0.04", Format(big.NewInt(-40000), 6))
	assert.Equal(t, "-12", Format(big.NewInt(-12000000), 6))
}

func TestRoundTrip(t *testing.T) {
	for _, decimals := range []int{0, 6, 18} {
		for _, s := range []string{"0", "1", "10000", "12345"} {
			amount, err := ParseAmount(s, decimals)
			require.NoError(t, err)
			assert.Equal(t, s, Format(amount, decimals), "decimals=%d", decimals)
		}
	}
}

func TestSignedDiff(t *testing.T) {
	back := big.NewInt(10010500000)  // 10010.50
	start := big.NewInt(10000000000) // 10000
	cost := big.NewInt(40000)        // 0.04

	gross := SignedDiff(back, start, big.NewInt(0))
	assert.Equal(t, "10.5", Format(gross, 6))

	net := SignedDiff(back, start, cost)
	assert.Equal(t, "10.46", Format(net, 6))

	// A losing round trip produces a negative result, not zero.
	loss := SignedDiff(start, back, cost)
	assert.Equal(t, -1, loss.Sign())
	assert.Equal(t, "-10.54", Format(loss, 6))

	// Operands are not mutated.
	assert.Equal(t, "10010500000", back.String())
	assert.Equal(t, "10000000000", start.String())
	assert.Equal(t, "40000", cost.String())
}

func TestRatioZeroDenominator(t *testing.T) {
	assert.Equal(t, "NA", Ratio(big.NewInt(123), big.NewInt(0), 18, 6))
	assert.Equal(t, "NA", Ratio(big.NewInt(0), big.NewInt(0), 6, 18))
}

func TestRatio(t *testing.T) {
	// 3.5 WETH (18dp) bought with 10000 USDC (6dp): 0.00035 WETH per USDC.
	weth := big.NewInt(3500000000000000000)
	usdc := big.NewInt(10000000000)
	assert.Equal(t, "0.00035", Ratio(weth, usdc, 18, 6))

	// 10010.50 USDC back (6dp) for 3.5 WETH (18dp): the implied sell rate
	// is 2860.142857... USDC per WETH, truncated at display precision.
	back := big.NewInt(10010500000)
	assert.Equal(t, "2860.142857142857142857", Ratio(back, weth, 6, 18))
}

func TestRatioNegativeExponent(t *testing.T) {
	// numDecimals 24 over denDecimals 0 gives exp = -6; the numerator must
	// be downscaled rather than left unscaled, keeping the magnitude right.
	num, ok := new(big.Int).SetString("2000000000000000000000000", 10) // 2.0 at 24dp
	require.True(t, ok)
	den := big.NewInt(4)
	assert.Equal(t, "0.5", Ratio(num, den, 24, 0))
}
