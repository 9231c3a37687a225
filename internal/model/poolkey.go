package model

import "github.com/holiman/uint256"

// PoolKey identifies a pool. Token0 is always the numerically lower
// address; the resolver enforces the ordering. Fee is the protocol's
// 0.128 fixed-point fraction, a u128.
type PoolKey struct {
	Token0      string       `json:"token0"`
	Token1      string       `json:"token1"`
	Fee         *uint256.Int `json:"fee"`
	TickSpacing uint32       `json:"tick_spacing"`
	Extension   string       `json:"extension"`
}
