package codec

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Sqrt ratios are 64.128 fixed point: the integer value divided by
// 2^128 is the square root of the raw token1/token0 price.
var two256 = bigPow2(256)

// PriceFromSqrtRatio computes the human token1-per-token0 price from a
// sqrt ratio, correcting for each token's decimal scale.
func PriceFromSqrtRatio(sqrtRatio *uint256.Int, decimals0, decimals1 uint8) (decimal.Decimal, error) {
	if sqrtRatio == nil || sqrtRatio.IsZero() {
		return decimal.Zero, fmt.Errorf("sqrt ratio is zero")
	}

	raw := sqrtRatio.ToBig()
	num := new(big.Int).Mul(raw, raw)
	num.Mul(num, pow10(decimals0))
	den := new(big.Int).Mul(two256, pow10(decimals1))

	price := decimal.NewFromBigInt(num, 0).DivRound(decimal.NewFromBigInt(den, 0), 36)
	return price, nil
}

// ClampSqrtRatio clamps a sqrt ratio into [min, max]. Total and
// idempotent; never fails.
func ClampSqrtRatio(v, min, max *uint256.Int) *uint256.Int {
	if v == nil || v.Cmp(min) < 0 {
		return new(uint256.Int).Set(min)
	}
	if v.Cmp(max) > 0 {
		return new(uint256.Int).Set(max)
	}
	return new(uint256.Int).Set(v)
}

// ScaleSqrtRatio multiplies a sqrt ratio by the square root of factor,
// truncating toward zero. factor must be non-negative and is applied at
// full precision so large ratios lose no digits.
func ScaleSqrtRatio(current *uint256.Int, factor decimal.Decimal) (*uint256.Int, error) {
	if current == nil {
		return nil, fmt.Errorf("sqrt ratio is nil")
	}
	if factor.Sign() < 0 {
		return nil, fmt.Errorf("scale factor %s is negative", factor.String())
	}

	// sqrt(current^2 * factor) with factor as num/10^36.
	num := factor.Shift(36).Floor().BigInt()
	raw := current.ToBig()
	scaled := new(big.Int).Mul(raw, raw)
	scaled.Mul(scaled, num)
	scaled.Quo(scaled, pow10(36))
	scaled.Sqrt(scaled)

	out, overflow := uint256.FromBig(scaled)
	if overflow {
		return nil, fmt.Errorf("scaled sqrt ratio overflows u256")
	}
	return out, nil
}

func bigPow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
