package model

import (
	"math/big"

	"github.com/holiman/uint256"
)

// PoolPrice is the current pool state returned by the price read.
type PoolPrice struct {
	SqrtRatio *uint256.Int `json:"sqrt_ratio"`
	Tick      Tick         `json:"tick"`
}

// Quote is the result of a dry-run swap simulation: signed per-token
// balance deltas from the pool's perspective. A negative delta means
// the pool pays that token out.
type Quote struct {
	Delta0 *big.Int `json:"delta0"`
	Delta1 *big.Int `json:"delta1"`
}
