package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"poolctl/internal/amm"
	"poolctl/internal/codec"
	"poolctl/internal/model"
	"poolctl/internal/position"
)

func newPositionCmd() *cobra.Command {
	positionCmd := &cobra.Command{
		Use:   "position",
		Short: "Liquidity position lifecycle",
	}

	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Build a mint-and-deposit batch for a new position",
		RunE:  runPositionMint,
	}
	addPoolFlags(mintCmd)
	addBoundsFlags(mintCmd)
	mintCmd.Flags().String("amount-a", "", "token A amount in human units")
	mintCmd.Flags().String("amount-b", "", "token B amount in human units")
	positionCmd.AddCommand(mintCmd)

	depositCmd := &cobra.Command{
		Use:   "deposit",
		Short: "Build a deposit batch for an existing position",
		RunE:  runPositionDeposit,
	}
	addPoolFlags(depositCmd)
	addBoundsFlags(depositCmd)
	depositCmd.Flags().String("id", "", "position id")
	depositCmd.Flags().String("amount-a", "", "token A amount in human units")
	depositCmd.Flags().String("amount-b", "", "token B amount in human units")
	positionCmd.AddCommand(depositCmd)

	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Build a liquidity withdrawal batch",
		RunE:  runPositionWithdraw,
	}
	addPoolFlags(withdrawCmd)
	addBoundsFlags(withdrawCmd)
	withdrawCmd.Flags().String("id", "", "position id")
	withdrawCmd.Flags().String("liquidity", "0", "liquidity to remove (integer units)")
	positionCmd.AddCommand(withdrawCmd)

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Build a fee-collection batch",
		RunE:  runPositionCollect,
	}
	addPoolFlags(collectCmd)
	addBoundsFlags(collectCmd)
	collectCmd.Flags().String("id", "", "position id")
	positionCmd.AddCommand(collectCmd)

	transferCmd := &cobra.Command{
		Use:   "transfer",
		Short: "Build a position NFT transfer batch",
		RunE:  runPositionTransfer,
	}
	transferCmd.Flags().String("id", "", "position id")
	transferCmd.Flags().String("to", "", "recipient address")
	positionCmd.AddCommand(transferCmd)

	return positionCmd
}

func addBoundsFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("lower", 0, "lower tick (signed)")
	cmd.Flags().Int64("upper", 0, "upper tick (signed)")
}

func boundsFromFlags(cmd *cobra.Command) (model.Bounds, error) {
	lower, _ := cmd.Flags().GetInt64("lower")
	upper, _ := cmd.Flags().GetInt64("upper")
	return codec.BuildBounds(lower, upper)
}

func positionIDFromFlags(cmd *cobra.Command) (*big.Int, error) {
	raw, _ := cmd.Flags().GetString("id")
	if raw == "" {
		return nil, fmt.Errorf("position id is required")
	}
	id, ok := new(big.Int).SetString(raw, 0)
	if !ok || id.Sign() < 0 {
		return nil, fmt.Errorf("invalid position id %q", raw)
	}
	return id, nil
}

func amountsFromFlags(cmd *cobra.Command, pool amm.ResolvedPool) (*big.Int, *big.Int, error) {
	amountA, _ := cmd.Flags().GetString("amount-a")
	amountB, _ := cmd.Flags().GetString("amount-b")
	if amountA == "" || amountB == "" {
		return nil, nil, fmt.Errorf("amount-a and amount-b are required")
	}

	tokenA, tokenB := pool.Token0, pool.Token1
	if !pool.AIsToken0 {
		tokenA, tokenB = tokenB, tokenA
	}
	a, err := codec.ParseAmount(amountA, tokenA.Decimals)
	if err != nil {
		return nil, nil, err
	}
	b, err := codec.ParseAmount(amountB, tokenB.Decimals)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func runPositionMint(cmd *cobra.Command, _ []string) error {
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
	bounds, err := boundsFromFlags(cmd)
	if err != nil {
		return err
	}
	amountA, amountB, err := amountsFromFlags(cmd, pool)
	if err != nil {
		return err
	}

	manager := position.NewManager(rt.profile, rt.logger)
	batch, err := manager.CreatePosition(pool, bounds, amountA, amountB)
	if err != nil {
		return err
	}

	rt.record(ctx, "position.mint", pool, batch)
	// The id stays empty until the batch confirms; `poolctl receipt`
	// recovers it from the transfer event.
	return printJSON(struct {
		Position model.Position  `json:"position"`
		Calls    model.CallBatch `json:"calls"`
	}{
		Position: model.Position{PoolKey: pool.Key, Bounds: bounds},
		Calls:    batch,
	})
}

func runPositionDeposit(cmd *cobra.Command, _ []string) error {
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
	bounds, err := boundsFromFlags(cmd)
	if err != nil {
		return err
	}
	id, err := positionIDFromFlags(cmd)
	if err != nil {
		return err
	}
	amountA, amountB, err := amountsFromFlags(cmd, pool)
	if err != nil {
		return err
	}

	manager := position.NewManager(rt.profile, rt.logger)
	batch, err := manager.AddLiquidity(id, pool, bounds, amountA, amountB)
	if err != nil {
		return err
	}

	rt.record(ctx, "position.deposit", pool, batch)
	return printJSON(struct {
		Position model.Position  `json:"position"`
		Calls    model.CallBatch `json:"calls"`
	}{
		Position: model.Position{ID: id, PoolKey: pool.Key, Bounds: bounds},
		Calls:    batch,
	})
}

func runPositionWithdraw(cmd *cobra.Command, _ []string) error {
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
	bounds, err := boundsFromFlags(cmd)
	if err != nil {
		return err
	}
	id, err := positionIDFromFlags(cmd)
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetString("liquidity")
	liquidity, ok := new(big.Int).SetString(raw, 0)
	if !ok || liquidity.Sign() < 0 {
		return fmt.Errorf("invalid liquidity %q", raw)
	}

	manager := position.NewManager(rt.profile, rt.logger)
	batch, err := manager.WithdrawLiquidity(id, pool, bounds, liquidity, false)
	if err != nil {
		return err
	}

	rt.record(ctx, "position.withdraw", pool, batch)
	return printJSON(batch)
}

func runPositionCollect(cmd *cobra.Command, _ []string) error {
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
	bounds, err := boundsFromFlags(cmd)
	if err != nil {
		return err
	}
	id, err := positionIDFromFlags(cmd)
	if err != nil {
		return err
	}

	manager := position.NewManager(rt.profile, rt.logger)
	batch, err := manager.WithdrawLiquidity(id, pool, bounds, big.NewInt(0), true)
	if err != nil {
		return err
	}

	rt.record(ctx, "position.collect", pool, batch)
	return printJSON(batch)
}

func runPositionTransfer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	rt, err := newRuntime(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer rt.close()

	id, err := positionIDFromFlags(cmd)
	if err != nil {
		return err
	}
	to, _ := cmd.Flags().GetString("to")
	if to == "" {
		return fmt.Errorf("recipient address is required")
	}
	if rt.cfg.Account == "" {
		return fmt.Errorf("account address is required for position transfer")
	}

	manager := position.NewManager(rt.profile, rt.logger)
	batch, err := manager.TransferPosition(id, rt.cfg.Account, to)
	if err != nil {
		return err
	}

	return printJSON(batch)
}
