package main

import (
	"github.com/spf13/cobra"

	"poolctl/internal/amm"
	"poolctl/internal/chain"
	"poolctl/internal/codec"
	"poolctl/internal/model"
)

func newPoolCmd() *cobra.Command {
	poolCmd := &cobra.Command{
		Use:   "pool",
		Short: "Pool state queries",
	}

	priceCmd := &cobra.Command{
		Use:   "price",
		Short: "Read the current pool price",
		RunE:  runPoolPrice,
	}
	addPoolFlags(priceCmd)
	poolCmd.AddCommand(priceCmd)

	return poolCmd
}

// addPoolFlags registers the flags every pool-keyed command shares.
func addPoolFlags(cmd *cobra.Command) {
	cmd.Flags().String("token-a", "", "first token (symbol or address)")
	cmd.Flags().String("token-b", "", "second token (symbol or address)")
	cmd.Flags().Float64("fee", 0.05, "pool fee in percent")
	cmd.Flags().Float64("tick-spacing", 0.1, "tick spacing in percent")
	cmd.Flags().String("extension", "", "pool extension address (optional)")
}

// resolvePoolFromFlags resolves the shared pool flags into a canonical key.
func resolvePoolFromFlags(cmd *cobra.Command, rt *runtime) (amm.ResolvedPool, error) {
	tokenA, _ := cmd.Flags().GetString("token-a")
	tokenB, _ := cmd.Flags().GetString("token-b")
	fee, _ := cmd.Flags().GetFloat64("fee")
	tickSpacing, _ := cmd.Flags().GetFloat64("tick-spacing")
	extension, _ := cmd.Flags().GetString("extension")

	return amm.ResolvePoolKey(cmd.Context(),
		rt.registry,
		descriptor(tokenA),
		descriptor(tokenB),
		fee, tickSpacing, extension,
		rt.profile)
}

// descriptor treats 0x-prefixed input as an address, anything else as a symbol.
func descriptor(s string) model.TokenDescriptor {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return model.TokenDescriptor{Address: s}
	}
	return model.TokenDescriptor{Symbol: s}
}

func runPoolPrice(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	rt, err := newRuntime(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer rt.close()

	pool, err := resolvePoolFromFlags(cmd, rt)
	if err != nil {
		return err
	}

	reader := chain.NewReader(rt.client, rt.profile, rt.logger)
	price, err := reader.GetPoolPrice(ctx, pool.Key)
	if err != nil {
		return err
	}

	human, err := codec.PriceFromSqrtRatio(price.SqrtRatio, pool.Token0.Decimals, pool.Token1.Decimals)
	if err != nil {
		return err
	}

	return printJSON(struct {
		Pool      amm.ResolvedPool `json:"pool"`
		SqrtRatio string           `json:"sqrt_ratio"`
		Tick      model.Tick       `json:"tick"`
		Price     string           `json:"price"`
	}{
		Pool:      pool,
		SqrtRatio: price.SqrtRatio.Dec(),
		Tick:      price.Tick,
		Price:     human.String(),
	})
}
