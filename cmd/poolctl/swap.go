package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"poolctl/internal/amm"
	"poolctl/internal/chain"
	"poolctl/internal/codec"
	"poolctl/internal/model"
	"poolctl/internal/swap"
)

func newSwapCmd() *cobra.Command {
	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Build a slippage-bounded swap batch",
		RunE:  runSwap,
	}

	swapCmd.Flags().String("token-in", "", "token to sell (symbol or address)")
	swapCmd.Flags().String("token-out", "", "token to buy (symbol or address)")
	swapCmd.Flags().Float64("fee", 0.05, "pool fee in percent")
	swapCmd.Flags().Float64("tick-spacing", 0.1, "tick spacing in percent")
	swapCmd.Flags().String("extension", "", "pool extension address (optional)")
	swapCmd.Flags().String("amount", "", "amount in human units")
	swapCmd.Flags().Bool("exact-out", false, "amount denotes the output side")
	swapCmd.Flags().Float64("slippage", 0.5, "slippage tolerance in percent")

	return swapCmd
}

func runSwap(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	rt, err := newRuntime(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer rt.close()

	tokenIn, _ := cmd.Flags().GetString("token-in")
	tokenOut, _ := cmd.Flags().GetString("token-out")
	fee, _ := cmd.Flags().GetFloat64("fee")
	tickSpacing, _ := cmd.Flags().GetFloat64("tick-spacing")
	extension, _ := cmd.Flags().GetString("extension")
	amountStr, _ := cmd.Flags().GetString("amount")
	exactOut, _ := cmd.Flags().GetBool("exact-out")
	slippage, _ := cmd.Flags().GetFloat64("slippage")

	if amountStr == "" {
		return fmt.Errorf("amount is required")
	}

	// Token A is the input side, so AIsToken0 tells the engine the
	// trade direction.
	pool, err := amm.ResolvePoolKey(ctx, rt.registry,
		descriptor(tokenIn), descriptor(tokenOut),
		fee, tickSpacing, extension, rt.profile)
	if err != nil {
		return err
	}

	amountToken := pool.Token0
	if !pool.AIsToken0 {
		amountToken = pool.Token1
	}
	exact := model.ExactInput
	if exactOut {
		// An exact-output amount is denominated in the output token.
		if pool.AIsToken0 {
			amountToken = pool.Token1
		} else {
			amountToken = pool.Token0
		}
		exact = model.ExactOutput
	}
	mag, err := codec.ParseAmount(amountStr, amountToken.Decimals)
	if err != nil {
		return err
	}

	reader := chain.NewReader(rt.client, rt.profile, rt.logger)
	engine := swap.NewEngine(rt.profile, reader, reader, rt.logger)

	plan, err := engine.BuildSwap(ctx, swap.Request{
		Pool:            pool,
		Amount:          model.SignedAmount{Mag: mag, Exact: exact},
		SlippagePercent: slippage,
	})
	if err != nil {
		return err
	}

	rt.record(ctx, "swap", pool, plan.Batch)

	return printJSON(struct {
		Pool           amm.ResolvedPool `json:"pool"`
		SqrtRatio      string           `json:"sqrt_ratio"`
		SqrtRatioLimit string           `json:"sqrt_ratio_limit"`
		ExpectedOutput string           `json:"expected_output"`
		MinimumOutput  string           `json:"minimum_output"`
		Calls          model.CallBatch  `json:"calls"`
	}{
		Pool:           pool,
		SqrtRatio:      plan.SqrtRatio.Dec(),
		SqrtRatioLimit: plan.SqrtRatioLimit.Dec(),
		ExpectedOutput: plan.ExpectedOutput.String(),
		MinimumOutput:  plan.MinimumOutput.String(),
		Calls:          plan.Batch,
	})
}
