package codec

import (
	"errors"
	"fmt"
	"math"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// ErrInvalidPoolParameter marks a fee or tick-spacing percentage that
// cannot be represented in the protocol encoding.
var ErrInvalidPoolParameter = errors.New("invalid pool parameter")

var (
	two128  = decimal.NewFromBigInt(bigPow2(128), 0)
	oneTick = math.Log(1.000001)
	hundred = decimal.NewFromInt(100)
)

// PercentToFee encodes a human fee percentage (0.05 means 0.05%) as the
// protocol's 0.128 fixed-point fee: floor(percent/100 * 2^128), a u128.
func PercentToFee(percent float64) (*uint256.Int, error) {
	if percent < 0 || percent >= 100 || math.IsNaN(percent) {
		return nil, fmt.Errorf("%w: fee percent %v out of [0, 100)", ErrInvalidPoolParameter, percent)
	}
	d := decimal.NewFromFloat(percent).Div(hundred).Mul(two128).Floor()
	fee := d.BigInt()
	if fee.Cmp(maxU128) > 0 {
		return nil, fmt.Errorf("%w: fee percent %v overflows encoding", ErrInvalidPoolParameter, percent)
	}
	out, overflow := uint256.FromBig(fee)
	if overflow {
		return nil, fmt.Errorf("%w: fee percent %v overflows encoding", ErrInvalidPoolParameter, percent)
	}
	return out, nil
}

// FeeToPercent decodes a 0.128 fixed-point fee back to a percentage.
func FeeToPercent(fee *uint256.Int) float64 {
	if fee == nil {
		return 0
	}
	d := decimal.NewFromBigInt(fee.ToBig(), 0).Mul(hundred).DivRound(two128, 24)
	f, _ := d.Float64()
	return f
}

// PercentToTickSpacing converts a tick-spacing percentage into the
// number of ticks spanning that price step: round(ln(1+p/100)/ln(base))
// where base is the protocol's per-tick price increment 1.000001.
func PercentToTickSpacing(percent float64) (uint32, error) {
	if percent <= 0 || percent >= 100 || math.IsNaN(percent) {
		return 0, fmt.Errorf("%w: tick spacing percent %v out of (0, 100)", ErrInvalidPoolParameter, percent)
	}
	spacing := math.Round(math.Log1p(percent/100) / oneTick)
	if spacing < 1 {
		spacing = 1
	}
	if spacing > math.MaxUint32 {
		return 0, fmt.Errorf("%w: tick spacing percent %v overflows encoding", ErrInvalidPoolParameter, percent)
	}
	return uint32(spacing), nil
}

// TickSpacingToPercent decodes a tick spacing back to a percentage.
func TickSpacingToPercent(spacing uint32) float64 {
	return (math.Exp(float64(spacing)*oneTick) - 1) * 100
}
