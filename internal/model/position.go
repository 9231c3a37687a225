package model

import "math/big"

// Position is a liquidity position. ID is nil until the mint batch is
// confirmed and the id has been recovered from the transfer event.
type Position struct {
	ID        *big.Int `json:"id,omitempty"`
	PoolKey   PoolKey  `json:"pool_key"`
	Bounds    Bounds   `json:"bounds"`
	Liquidity *big.Int `json:"liquidity,omitempty"`
}
