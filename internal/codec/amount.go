package codec

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a human decimal amount into the token's integer
// units, truncating below the smallest representable unit.
func ParseAmount(amount string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("amount %q is negative", amount)
	}
	return d.Shift(int32(decimals)).Floor().BigInt(), nil
}

// FormatAmount renders integer token units as a human decimal string.
func FormatAmount(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
