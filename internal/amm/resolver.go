package amm

import (
	"context"
	"errors"
	"fmt"

	"poolctl/internal/codec"
	"poolctl/internal/model"
)

// ErrTokenNotFound marks a descriptor that could not be resolved.
var ErrTokenNotFound = errors.New("token not found")

// TokenLookup resolves a token descriptor to on-chain metadata.
type TokenLookup interface {
	Resolve(ctx context.Context, desc model.TokenDescriptor) (model.Token, error)
}

// ResolvedPool is a canonical pool key together with the resolved
// tokens and the mapping from the caller's token A to token0.
type ResolvedPool struct {
	Key       model.PoolKey `json:"pool_key"`
	Token0    model.Token   `json:"token0"`
	Token1    model.Token   `json:"token1"`
	AIsToken0 bool          `json:"a_is_token0"`
}

// ResolvePoolKey resolves both tokens, sorts them into canonical order,
// and encodes the pool parameters. Tokens may be passed in either
// order; AIsToken0 records which side the caller's token A landed on.
func ResolvePoolKey(
	ctx context.Context,
	lookup TokenLookup,
	tokenA model.TokenDescriptor,
	tokenB model.TokenDescriptor,
	feePercent float64,
	tickSpacingPercent float64,
	extension string,
	profile Profile,
) (ResolvedPool, error) {
	resolvedA, err := lookup.Resolve(ctx, tokenA)
	if err != nil {
		return ResolvedPool{}, fmt.Errorf("resolve token A: %w", err)
	}
	resolvedB, err := lookup.Resolve(ctx, tokenB)
	if err != nil {
		return ResolvedPool{}, fmt.Errorf("resolve token B: %w", err)
	}

	if resolvedA.Address == resolvedB.Address {
		return ResolvedPool{}, fmt.Errorf("token A and token B are the same address %s", resolvedA.Address)
	}

	fee, err := codec.PercentToFee(feePercent)
	if err != nil {
		return ResolvedPool{}, err
	}
	tickSpacing, err := codec.PercentToTickSpacing(tickSpacingPercent)
	if err != nil {
		return ResolvedPool{}, err
	}
	if tickSpacing > profile.MaxTickSpacing {
		return ResolvedPool{}, fmt.Errorf("%w: tick spacing %d exceeds maximum %d",
			codec.ErrInvalidPoolParameter, tickSpacing, profile.MaxTickSpacing)
	}

	ext := "0x0"
	if extension != "" {
		ext, err = codec.NormalizeAddress(extension)
		if err != nil {
			return ResolvedPool{}, fmt.Errorf("extension address: %w", err)
		}
	}

	aIsToken0, err := codec.AddressLess(resolvedA.Address, resolvedB.Address)
	if err != nil {
		return ResolvedPool{}, err
	}

	token0, token1 := resolvedA, resolvedB
	if !aIsToken0 {
		token0, token1 = resolvedB, resolvedA
	}

	return ResolvedPool{
		Key: model.PoolKey{
			Token0:      token0.Address,
			Token1:      token1.Address,
			Fee:         fee,
			TickSpacing: tickSpacing,
			Extension:   ext,
		},
		Token0:    token0,
		Token1:    token1,
		AIsToken0: aIsToken0,
	}, nil
}
