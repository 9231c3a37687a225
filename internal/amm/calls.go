package amm

import (
	"fmt"
	"math/big"

	"poolctl/internal/codec"
	"poolctl/internal/model"
)

// NewCall builds a call with the selector derived from the entrypoint name.
func NewCall(contract, entrypoint string, calldata []string) model.Call {
	return model.Call{
		ContractAddress: contract,
		EntryPoint:      entrypoint,
		Selector:        codec.Selector(entrypoint),
		Calldata:        calldata,
	}
}

// AppendPoolKey appends the pool key fields in wire order:
// token0, token1, fee, tick spacing, extension.
func AppendPoolKey(data []string, key model.PoolKey) []string {
	return append(data,
		key.Token0,
		key.Token1,
		key.Fee.Hex(),
		fmt.Sprintf("0x%x", key.TickSpacing),
		key.Extension,
	)
}

// AppendBounds appends the bounds in wire order: lower then upper,
// each as a mag/sign pair.
func AppendBounds(data []string, bounds model.Bounds) []string {
	data = appendTick(data, bounds.Lower)
	return appendTick(data, bounds.Upper)
}

func appendTick(data []string, t model.Tick) []string {
	// A uint64 magnitude always fits i129.
	magFelt, signFelt, _ := codec.EncodeI129(new(big.Int).SetUint64(t.Mag), t.Negative)
	return append(data, magFelt, signFelt)
}

// AppendU256 appends an unsigned amount as its low/high felt pair.
func AppendU256(data []string, v *big.Int) ([]string, error) {
	low, high, err := codec.EncodeU256(v)
	if err != nil {
		return nil, err
	}
	return append(data, low, high), nil
}

// TransferCall builds an ERC20 transfer of amount to recipient.
func TransferCall(token, recipient string, amount *big.Int) (model.Call, error) {
	data, err := AppendU256([]string{recipient}, amount)
	if err != nil {
		return model.Call{}, fmt.Errorf("transfer amount: %w", err)
	}
	return NewCall(token, "transfer", data), nil
}

// ClearCall sweeps the contract's leftover balance of token back to the caller.
func ClearCall(contract, token string) model.Call {
	return NewCall(contract, "clear", []string{token})
}

// ClearMinimumCall sweeps the contract's balance of token back to the
// caller, reverting the whole transaction if it is below minimum.
func ClearMinimumCall(contract, token string, minimum *big.Int) (model.Call, error) {
	data, err := AppendU256([]string{token}, minimum)
	if err != nil {
		return model.Call{}, fmt.Errorf("clear minimum: %w", err)
	}
	return NewCall(contract, "clear_minimum", data), nil
}
