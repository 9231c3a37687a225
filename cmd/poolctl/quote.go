package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"poolctl/internal/amm"
	"poolctl/internal/chain"
	"poolctl/internal/codec"
	"poolctl/internal/model"
)

func newQuoteCmd() *cobra.Command {
	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Dry-run a swap and print the token deltas",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("token-in", "", "token to sell (symbol or address)")
	quoteCmd.Flags().String("token-out", "", "token to buy (symbol or address)")
	quoteCmd.Flags().Float64("fee", 0.05, "pool fee in percent")
	quoteCmd.Flags().Float64("tick-spacing", 0.1, "tick spacing in percent")
	quoteCmd.Flags().String("extension", "", "pool extension address (optional)")
	quoteCmd.Flags().String("amount", "", "amount in human units")
	quoteCmd.Flags().Bool("exact-out", false, "amount denotes the output side")

	return quoteCmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
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

	if amountStr == "" {
		return fmt.Errorf("amount is required")
	}

	pool, err := amm.ResolvePoolKey(ctx, rt.registry,
		descriptor(tokenIn), descriptor(tokenOut),
		fee, tickSpacing, extension, rt.profile)
	if err != nil {
		return err
	}

	inputToken, outputToken := pool.Token0, pool.Token1
	if !pool.AIsToken0 {
		inputToken, outputToken = outputToken, inputToken
	}
	amountToken := inputToken
	exact := model.ExactInput
	if exactOut {
		amountToken = outputToken
		exact = model.ExactOutput
	}
	mag, err := codec.ParseAmount(amountStr, amountToken.Decimals)
	if err != nil {
		return err
	}

	// The dry run runs unbounded: the full price range is the limit.
	limit := rt.profile.MaxSqrtRatio
	if pool.AIsToken0 {
		limit = rt.profile.MinSqrtRatio
	}

	reader := chain.NewReader(rt.client, rt.profile, rt.logger)
	quote, err := reader.Quote(ctx, chain.RouteNode{
		Key:            pool.Key,
		SqrtRatioLimit: limit,
	}, amountToken.Address, model.SignedAmount{Mag: mag, Exact: exact})
	if err != nil {
		return err
	}

	return printJSON(struct {
		Pool   amm.ResolvedPool `json:"pool"`
		Delta0 string           `json:"delta0"`
		Delta1 string           `json:"delta1"`
	}{
		Pool:   pool,
		Delta0: quote.Delta0.String(),
		Delta1: quote.Delta1.String(),
	})
}
