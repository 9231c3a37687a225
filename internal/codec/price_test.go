package codec

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// sqrtRatioForPrice builds the 64.128 sqrt ratio for a raw price given
// as a fraction num/den.
func sqrtRatioForPrice(t *testing.T, num, den int64) *uint256.Int {
	t.Helper()
	v := new(big.Int).Lsh(big.NewInt(num), 256)
	v.Quo(v, big.NewInt(den))
	v.Sqrt(v)
	out, overflow := uint256.FromBig(v)
	if overflow {
		t.Fatalf("sqrt ratio overflow")
	}
	return out
}

func TestPriceFromSqrtRatio(t *testing.T) {
	// Tokens with 18 and 6 decimals at a human price of 2000 token1
	// per token0: the raw price is 2000 * 10^(6-18) = 2e-9.
	sqrtRatio := sqrtRatioForPrice(t, 2, 1_000_000_000)

	price, err := PriceFromSqrtRatio(sqrtRatio, 18, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	diff := price.Sub(decimal.NewFromInt(2000)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(1e-9)) {
		t.Fatalf("price mismatch: got %s, want 2000 +- 1e-9", price)
	}
}

func TestPriceFromSqrtRatioZero(t *testing.T) {
	if _, err := PriceFromSqrtRatio(uint256.NewInt(0), 18, 18); err == nil {
		t.Fatalf("expected error for zero sqrt ratio")
	}
}

func TestClampSqrtRatioIdempotent(t *testing.T) {
	min := uint256.NewInt(100)
	max := uint256.NewInt(1000)

	for _, v := range []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(99),
		uint256.NewInt(100),
		uint256.NewInt(500),
		uint256.NewInt(1000),
		uint256.NewInt(5000),
	} {
		once := ClampSqrtRatio(v, min, max)
		twice := ClampSqrtRatio(once, min, max)
		if once.Cmp(twice) != 0 {
			t.Fatalf("clamp not idempotent for %s: %s != %s", v, once, twice)
		}
		if once.Cmp(min) < 0 || once.Cmp(max) > 0 {
			t.Fatalf("clamp out of range for %s: %s", v, once)
		}
	}
}

func TestScaleSqrtRatio(t *testing.T) {
	current := uint256.NewInt(1_000_000)

	same, err := ScaleSqrtRatio(current, decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if same.Cmp(current) != 0 {
		t.Fatalf("identity scale mismatch: got %s", same)
	}

	down, err := ScaleSqrtRatio(current, decimal.RequireFromString("0.99"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1e6 * sqrt(0.99) truncated.
	if down.Uint64() != 994_987 {
		t.Fatalf("down scale mismatch: got %d, want 994987", down.Uint64())
	}

	up, err := ScaleSqrtRatio(current, decimal.RequireFromString("1.01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.Uint64() != 1_004_987 {
		t.Fatalf("up scale mismatch: got %d, want 1004987", up.Uint64())
	}
}
