package swap

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"poolctl/internal/amm"
	"poolctl/internal/chain"
	"poolctl/internal/codec"
	"poolctl/internal/model"
)

var (
	// ErrInvalidSlippage marks a slippage percentage outside [0, 100).
	ErrInvalidSlippage = errors.New("invalid slippage")
	// ErrInsufficientQuote marks a dry run that produced no usable route.
	ErrInsufficientQuote = errors.New("insufficient quote")
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Request describes a single-pool swap. Pool must be resolved with the
// input token as token A, so AIsToken0 doubles as "selling token0".
type Request struct {
	Pool            amm.ResolvedPool
	Amount          model.SignedAmount
	SlippagePercent float64
}

// Plan is the assembled swap batch plus the numbers that produced it.
type Plan struct {
	Batch          model.CallBatch `json:"calls"`
	SqrtRatio      *uint256.Int    `json:"sqrt_ratio"`
	SqrtRatioLimit *uint256.Int    `json:"sqrt_ratio_limit"`
	ExpectedOutput *big.Int        `json:"expected_output"`
	MinimumOutput  *big.Int        `json:"minimum_output"`
	Quote          model.Quote     `json:"quote"`
}

// Engine builds slippage-bounded swap batches. One price read and one
// quote simulation per call; the price is never cached across calls.
type Engine struct {
	profile amm.Profile
	reader  chain.PriceReader
	quoter  chain.Quoter
	logger  *zap.Logger
}

func NewEngine(profile amm.Profile, reader chain.PriceReader, quoter chain.Quoter, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{profile: profile, reader: reader, quoter: quoter, logger: logger}
}

// BuildSwap reads the current price, derives a direction-consistent
// price limit, quotes the trade, and assembles the batch
// [transfer in, swap, clear-minimum out, clear out]. The clear-minimum
// call is what makes the slippage bound binding on chain: if actual
// output lands below it the whole batch reverts.
func (e *Engine) BuildSwap(ctx context.Context, req Request) (*Plan, error) {
	s := req.SlippagePercent
	if s < 0 || s >= 100 {
		return nil, fmt.Errorf("%w: %v not in [0, 100)", ErrInvalidSlippage, s)
	}
	if req.Amount.Mag == nil || req.Amount.Mag.Sign() <= 0 {
		return nil, fmt.Errorf("swap amount must be positive")
	}

	sellingToken0 := req.Pool.AIsToken0
	inputToken := req.Pool.Token0
	outputToken := req.Pool.Token1
	if !sellingToken0 {
		inputToken, outputToken = outputToken, inputToken
	}
	// The amount's token field names the side the magnitude is
	// denominated in: the input for exact-input, the output for
	// exact-output.
	amountToken := inputToken
	if req.Amount.Exact == model.ExactOutput {
		amountToken = outputToken
	}

	price, err := e.reader.GetPoolPrice(ctx, req.Pool.Key)
	if err != nil {
		return nil, err
	}

	limit, err := e.priceLimit(price.SqrtRatio, sellingToken0, s)
	if err != nil {
		return nil, err
	}

	quote, err := e.quoter.Quote(ctx, chain.RouteNode{
		Key:            req.Pool.Key,
		SqrtRatioLimit: limit,
	}, amountToken.Address, req.Amount)
	if err != nil {
		return nil, err
	}

	inputDelta, outputDelta := quote.Delta0, quote.Delta1
	if !sellingToken0 {
		inputDelta, outputDelta = outputDelta, inputDelta
	}
	// The pool pays the output token out, so its delta must be negative.
	if outputDelta == nil || outputDelta.Sign() >= 0 || inputDelta == nil || inputDelta.Sign() <= 0 {
		return nil, fmt.Errorf("%w: no route for %s -> %s at this pool",
			ErrInsufficientQuote, inputToken.Symbol, outputToken.Symbol)
	}
	expectedOutput := new(big.Int).Neg(outputDelta)

	downscale := one.Sub(decimal.NewFromFloat(s).Div(hundred))
	minimumOutput := decimal.NewFromBigInt(expectedOutput, 0).Mul(downscale).Floor().BigInt()

	transferAmount := req.Amount.Mag
	if req.Amount.Exact == model.ExactOutput {
		// Pre-fund the quoted input plus the slippage buffer; the
		// trailing clear returns whatever the swap does not consume.
		upscale := one.Add(decimal.NewFromFloat(s).Div(hundred))
		transferAmount = decimal.NewFromBigInt(inputDelta, 0).Mul(upscale).Ceil().BigInt()
	}

	transferIn, err := amm.TransferCall(inputToken.Address, e.profile.Router, transferAmount)
	if err != nil {
		return nil, fmt.Errorf("input transfer: %w", err)
	}

	data := amm.AppendPoolKey(nil, req.Pool.Key)
	low, high, err := codec.EncodeU256(limit.ToBig())
	if err != nil {
		return nil, fmt.Errorf("sqrt ratio limit: %w", err)
	}
	data = append(data, low, high, "0x0") // skip_ahead
	magFelt, signFelt, err := codec.EncodeI129(req.Amount.Mag, req.Amount.Exact == model.ExactOutput)
	if err != nil {
		return nil, fmt.Errorf("swap amount: %w", err)
	}
	data = append(data, amountToken.Address, magFelt, signFelt)
	swapCall := amm.NewCall(e.profile.Router, "swap", data)

	clearMin, err := amm.ClearMinimumCall(e.profile.Router, outputToken.Address, minimumOutput)
	if err != nil {
		return nil, err
	}

	batch := model.CallBatch{transferIn, swapCall, clearMin, amm.ClearCall(e.profile.Router, outputToken.Address)}
	if req.Amount.Exact == model.ExactOutput {
		batch = append(batch, amm.ClearCall(e.profile.Router, inputToken.Address))
	}

	e.logger.Debug("assembled swap batch",
		zap.String("input", inputToken.Symbol),
		zap.String("output", outputToken.Symbol),
		zap.Bool("selling_token0", sellingToken0),
		zap.String("sqrt_ratio", price.SqrtRatio.Dec()),
		zap.String("sqrt_ratio_limit", limit.Dec()),
		zap.String("expected_output", expectedOutput.String()),
		zap.String("minimum_output", minimumOutput.String()))

	return &Plan{
		Batch:          batch,
		SqrtRatio:      price.SqrtRatio,
		SqrtRatioLimit: limit,
		ExpectedOutput: expectedOutput,
		MinimumOutput:  minimumOutput,
		Quote:          quote,
	}, nil
}

// priceLimit derives the sqrt ratio limit for the trade direction.
// Selling token0 pushes the ratio down, so the limit sits below the
// current price; selling token1 pushes it up. If clamping (or a zero
// slippage) leaves the limit on the wrong side of current, the bound in
// the correct direction is used instead.
func (e *Engine) priceLimit(current *uint256.Int, sellingToken0 bool, slippagePercent float64) (*uint256.Int, error) {
	step := decimal.NewFromFloat(slippagePercent).Div(hundred)
	factor := one.Sub(step)
	if !sellingToken0 {
		factor = one.Add(step)
	}

	candidate, err := codec.ScaleSqrtRatio(current, factor)
	if err != nil {
		return nil, fmt.Errorf("price limit: %w", err)
	}
	limit := codec.ClampSqrtRatio(candidate, e.profile.MinSqrtRatio, e.profile.MaxSqrtRatio)

	if sellingToken0 && limit.Cmp(current) >= 0 {
		limit = new(uint256.Int).Set(e.profile.MinSqrtRatio)
	}
	if !sellingToken0 && limit.Cmp(current) <= 0 {
		limit = new(uint256.Int).Set(e.profile.MaxSqrtRatio)
	}
	return limit, nil
}
