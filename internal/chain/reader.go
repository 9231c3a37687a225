package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"poolctl/internal/amm"
	"poolctl/internal/codec"
	"poolctl/internal/model"
)

// ErrPoolNotFound marks a pool key with no initialized pool behind it.
var ErrPoolNotFound = errors.New("pool not found")

// PriceReader reads the current price for a pool key.
type PriceReader interface {
	GetPoolPrice(ctx context.Context, key model.PoolKey) (model.PoolPrice, error)
}

// RouteNode describes one hop of a swap route for quoting and swapping.
type RouteNode struct {
	Key            model.PoolKey
	SqrtRatioLimit *uint256.Int
	SkipAhead      uint64
}

// Quoter simulates a swap without state changes and returns the
// per-token deltas.
type Quoter interface {
	Quote(ctx context.Context, node RouteNode, token string, amount model.SignedAmount) (model.Quote, error)
}

// Submitter hands a batch to the account layer for signing and
// submission. Implementations live outside this module.
type Submitter interface {
	Submit(ctx context.Context, batch model.CallBatch) (txHash string, err error)
}

// ContractCaller performs read-only contract calls.
type ContractCaller interface {
	CallContract(ctx context.Context, call FunctionCall) ([]string, error)
}

// Reader implements PriceReader and Quoter against the node RPC.
type Reader struct {
	client  ContractCaller
	profile amm.Profile
	logger  *zap.Logger
}

func NewReader(client ContractCaller, profile amm.Profile, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{client: client, profile: profile, logger: logger}
}

// GetPoolPrice reads {sqrtRatio, tick} from the core contract. An
// uninitialized pool reads back a zero sqrt ratio and is reported as
// ErrPoolNotFound with a hint, since the key itself may be the mistake.
func (r *Reader) GetPoolPrice(ctx context.Context, key model.PoolKey) (model.PoolPrice, error) {
	call := FunctionCall{
		ContractAddress:    r.profile.Core,
		EntryPointSelector: codec.Selector("get_pool_price"),
		Calldata:           amm.AppendPoolKey(nil, key),
	}

	result, err := r.client.CallContract(ctx, call)
	if err != nil {
		return model.PoolPrice{}, fmt.Errorf("get_pool_price: %w", err)
	}
	if len(result) < 4 {
		return model.PoolPrice{}, fmt.Errorf("get_pool_price: short result, got %d felts", len(result))
	}

	sqrtBig, err := codec.DecodeU256(result[0], result[1])
	if err != nil {
		return model.PoolPrice{}, fmt.Errorf("get_pool_price sqrt ratio: %w", err)
	}
	if sqrtBig.Sign() == 0 {
		return model.PoolPrice{}, fmt.Errorf(
			"%w: no pool at fee=%s tick_spacing=%d; try a different fee or tick spacing",
			ErrPoolNotFound, key.Fee.Hex(), key.TickSpacing)
	}
	sqrtRatio, overflow := uint256.FromBig(sqrtBig)
	if overflow {
		return model.PoolPrice{}, fmt.Errorf("get_pool_price: sqrt ratio overflows u256")
	}

	tick, err := codec.DecodeI129(result[2], result[3])
	if err != nil {
		return model.PoolPrice{}, fmt.Errorf("get_pool_price tick: %w", err)
	}
	mag := new(big.Int).Abs(tick)
	if !mag.IsUint64() || mag.Uint64() > r.profile.MaxTick {
		return model.PoolPrice{}, fmt.Errorf("get_pool_price: tick %s exceeds maximum %d",
			tick.String(), r.profile.MaxTick)
	}

	return model.PoolPrice{
		SqrtRatio: sqrtRatio,
		Tick:      model.TickFromSigned(tick.Int64()),
	}, nil
}

// Quote dry-runs a swap through the router and returns the signed
// token deltas. The result is only used to bound acceptable output; it
// is never submitted.
func (r *Reader) Quote(ctx context.Context, node RouteNode, token string, amount model.SignedAmount) (model.Quote, error) {
	data := amm.AppendPoolKey(nil, node.Key)

	low, high, err := codec.EncodeU256(node.SqrtRatioLimit.ToBig())
	if err != nil {
		return model.Quote{}, fmt.Errorf("sqrt ratio limit: %w", err)
	}
	data = append(data, low, high, fmt.Sprintf("0x%x", node.SkipAhead))

	magFelt, signFelt, err := codec.EncodeI129(amount.Mag, amount.Exact == model.ExactOutput)
	if err != nil {
		return model.Quote{}, fmt.Errorf("quote amount: %w", err)
	}
	data = append(data, token, magFelt, signFelt)

	call := FunctionCall{
		ContractAddress:    r.profile.Router,
		EntryPointSelector: codec.Selector("quote"),
		Calldata:           data,
	}

	result, err := r.client.CallContract(ctx, call)
	if err != nil {
		return model.Quote{}, fmt.Errorf("quote: %w", err)
	}
	if len(result) < 4 {
		return model.Quote{}, fmt.Errorf("quote: short result, got %d felts", len(result))
	}

	delta0, err := codec.DecodeI129(result[0], result[1])
	if err != nil {
		return model.Quote{}, fmt.Errorf("quote delta0: %w", err)
	}
	delta1, err := codec.DecodeI129(result[2], result[3])
	if err != nil {
		return model.Quote{}, fmt.Errorf("quote delta1: %w", err)
	}

	return model.Quote{Delta0: delta0, Delta1: delta1}, nil
}
