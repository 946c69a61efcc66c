package units

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// RatioDecimals is the display precision used by Ratio.
const RatioDecimals = 18

// FromDecimal converts a human-entered decimal value to an integer amount
// scaled by 10^decimals, rounding to the nearest unit. The value must not
// be negative. Intended for configuration values only; amounts coming from
// chain calls are already in base units.
func FromDecimal(d decimal.Decimal, decimals int) (*big.Int, error) {
	if d.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative: %s", d.String())
	}
	scaled := d.Shift(int32(decimals)).Round(0)
	return scaled.BigInt(), nil
}

// ParseAmount parses a decimal string and scales it to base units.
func ParseAmount(s string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return FromDecimal(d, decimals)
}

// Format renders a base-unit amount as a decimal string. The fractional
// part is zero-padded to the full precision and then trimmed of trailing
// zeros; a zero fraction renders as the whole part alone. Negative amounts
// get a leading minus on the formatted absolute value.
func Format(amount *big.Int, decimals int) string {
	sign := ""
	abs := amount
	if amount.Sign() < 0 {
		sign = "-"
		abs = new(big.Int).Neg(amount)
	}
	if decimals == 0 {
		return sign + abs.String()
	}

	whole, rem := new(big.Int).QuoRem(abs, pow10(decimals), new(big.Int))
	frac := rem.String()
	if len(frac) < decimals {
		frac = strings.Repeat("0", decimals-len(frac)) + frac
	}
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return sign + whole.String()
	}
	return sign + whole.String() + "." + frac
}

// SignedDiff returns back - start - cost. All operands are non-negative
// amounts of the same scale; the result may be negative.
func SignedDiff(back, start, cost *big.Int) *big.Int {
	diff := new(big.Int).Sub(back, start)
	return diff.Sub(diff, cost)
}

// Ratio returns num/den as a decimal string at RatioDecimals precision,
// accounting for the operands' native scales. A zero denominator yields
// the sentinel "NA". Display only: truncating division, never used for
// profit decisions.
func Ratio(num, den *big.Int, numDecimals, denDecimals int) string {
	if den.Sign() == 0 {
		return "NA"
	}

	// q = num * 10^(18 + denDec - numDec) / den. A negative exponent
	// downscales the numerator first so the magnitude stays correct.
	exp := RatioDecimals + denDecimals - numDecimals
	scaled := new(big.Int).Set(num)
	if exp >= 0 {
		scaled.Mul(scaled, pow10(exp))
	} else {
		scaled.Quo(scaled, pow10(-exp))
	}
	return Format(scaled.Quo(scaled, den), RatioDecimals)
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
