package position

import (
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"poolctl/internal/amm"
	"poolctl/internal/codec"
	"poolctl/internal/model"
)

// ErrInvalidWithdrawRequest marks a fee-only withdrawal that also asks
// for a liquidity reduction.
var ErrInvalidWithdrawRequest = errors.New("invalid withdraw request")

// Manager builds the call batches for the position lifecycle. It only
// assembles data structures; nothing happens until a batch is
// submitted by the transport.
type Manager struct {
	profile amm.Profile
	logger  *zap.Logger
}

func NewManager(profile amm.Profile, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{profile: profile, logger: logger}
}

// CreatePosition builds the mint batch: pre-fund both tokens, then
// mint, deposit, and clear in one call. The position id becomes known
// only after the batch confirms and the transfer event is decoded.
// Amounts are given in caller order (token A/token B) and re-mapped to
// token0/token1 here.
//
// No minimum liquidity is enforced on mint; the deposited amounts are
// the only bound the caller controls.
func (m *Manager) CreatePosition(pool amm.ResolvedPool, bounds model.Bounds, amountA, amountB *big.Int) (model.CallBatch, error) {
	if err := m.checkBounds(bounds); err != nil {
		return nil, err
	}
	amount0, amount1 := orderAmounts(pool, amountA, amountB)

	transfer0, err := amm.TransferCall(pool.Key.Token0, m.profile.Positions, amount0)
	if err != nil {
		return nil, fmt.Errorf("token0 transfer: %w", err)
	}
	transfer1, err := amm.TransferCall(pool.Key.Token1, m.profile.Positions, amount1)
	if err != nil {
		return nil, fmt.Errorf("token1 transfer: %w", err)
	}

	data := amm.AppendPoolKey(nil, pool.Key)
	data = amm.AppendBounds(data, bounds)
	data = append(data, "0x0") // min_liquidity
	mint := amm.NewCall(m.profile.Positions, "mint_and_deposit_and_clear_both", data)

	m.logger.Debug("assembled mint batch",
		zap.String("token0", pool.Key.Token0),
		zap.String("token1", pool.Key.Token1),
		zap.String("amount0", amount0.String()),
		zap.String("amount1", amount1.String()))

	return model.CallBatch{transfer0, transfer1, mint}, nil
}

// AddLiquidity builds the deposit batch for an existing position:
// pre-fund, deposit, then clear both tokens so unused remainders
// return to the caller.
func (m *Manager) AddLiquidity(positionID *big.Int, pool amm.ResolvedPool, bounds model.Bounds, amountA, amountB *big.Int) (model.CallBatch, error) {
	if err := m.checkBounds(bounds); err != nil {
		return nil, err
	}
	id, err := codec.EncodeU128(positionID)
	if err != nil {
		return nil, fmt.Errorf("position id: %w", err)
	}
	amount0, amount1 := orderAmounts(pool, amountA, amountB)

	transfer0, err := amm.TransferCall(pool.Key.Token0, m.profile.Positions, amount0)
	if err != nil {
		return nil, fmt.Errorf("token0 transfer: %w", err)
	}
	transfer1, err := amm.TransferCall(pool.Key.Token1, m.profile.Positions, amount1)
	if err != nil {
		return nil, fmt.Errorf("token1 transfer: %w", err)
	}

	data := amm.AppendPoolKey([]string{id}, pool.Key)
	data = amm.AppendBounds(data, bounds)
	data = append(data, "0x0") // min_liquidity
	deposit := amm.NewCall(m.profile.Positions, "deposit", data)

	return model.CallBatch{
		transfer0,
		transfer1,
		deposit,
		amm.ClearCall(m.profile.Positions, pool.Key.Token0),
		amm.ClearCall(m.profile.Positions, pool.Key.Token1),
	}, nil
}

// WithdrawLiquidity builds the withdrawal batch. With collectFeesOnly
// the liquidity amount must be zero and only fees are collected;
// otherwise liquidity is reduced and accrued fees are collected in the
// same call.
func (m *Manager) WithdrawLiquidity(positionID *big.Int, pool amm.ResolvedPool, bounds model.Bounds, liquidity *big.Int, collectFeesOnly bool) (model.CallBatch, error) {
	if err := m.checkBounds(bounds); err != nil {
		return nil, err
	}
	id, err := codec.EncodeU128(positionID)
	if err != nil {
		return nil, fmt.Errorf("position id: %w", err)
	}

	if collectFeesOnly {
		if liquidity != nil && liquidity.Sign() != 0 {
			return nil, fmt.Errorf("%w: liquidity must be zero when collecting fees only, got %s",
				ErrInvalidWithdrawRequest, liquidity.String())
		}
		data := amm.AppendPoolKey([]string{id}, pool.Key)
		data = amm.AppendBounds(data, bounds)
		return model.CallBatch{amm.NewCall(m.profile.Positions, "collect_fees", data)}, nil
	}

	liq, err := codec.EncodeU128(liquidity)
	if err != nil {
		return nil, fmt.Errorf("liquidity: %w", err)
	}

	data := amm.AppendPoolKey([]string{id}, pool.Key)
	data = amm.AppendBounds(data, bounds)
	data = append(data, liq, "0x0", "0x0", "0x1") // liquidity, min_token0, min_token1, collect_fees
	return model.CallBatch{amm.NewCall(m.profile.Positions, "withdraw", data)}, nil
}

// TransferPosition wraps the underlying NFT transfer of the position id.
func (m *Manager) TransferPosition(positionID *big.Int, from, to string) (model.CallBatch, error) {
	fromAddr, err := codec.NormalizeAddress(from)
	if err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	toAddr, err := codec.NormalizeAddress(to)
	if err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	data, err := amm.AppendU256([]string{fromAddr, toAddr}, positionID)
	if err != nil {
		return nil, fmt.Errorf("position id: %w", err)
	}
	return model.CallBatch{amm.NewCall(m.profile.Positions, "transfer_from", data)}, nil
}

func (m *Manager) checkBounds(bounds model.Bounds) error {
	if bounds.Lower.Signed() > bounds.Upper.Signed() {
		return fmt.Errorf("%w: lower %d > upper %d",
			codec.ErrInvalidRange, bounds.Lower.Signed(), bounds.Upper.Signed())
	}
	if bounds.Lower.Mag > m.profile.MaxTick || bounds.Upper.Mag > m.profile.MaxTick {
		return fmt.Errorf("%w: tick magnitude exceeds maximum %d",
			codec.ErrInvalidRange, m.profile.MaxTick)
	}
	return nil
}

func orderAmounts(pool amm.ResolvedPool, amountA, amountB *big.Int) (amount0, amount1 *big.Int) {
	if pool.AIsToken0 {
		return amountA, amountB
	}
	return amountB, amountA
}
