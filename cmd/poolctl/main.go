package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"poolctl/internal/amm"
	"poolctl/internal/chain"
	"poolctl/internal/codec"
	"poolctl/internal/config"
	"poolctl/internal/model"
	"poolctl/internal/storage"
	"poolctl/internal/storage/postgres"
	"poolctl/internal/tokens"
)

func main() {
	root := &cobra.Command{
		Use:          "poolctl",
		Short:        "Concentrated-liquidity AMM client",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("rpc", "", "node RPC URL")
	root.PersistentFlags().String("network", "mainnet", "deployment network")
	root.PersistentFlags().String("account", "", "caller account address")
	root.PersistentFlags().String("journal", "", "JSONL journal path for assembled batches")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN for the operation journal")
	root.PersistentFlags().Int("max-retries", 5, "maximum RPC retry attempts")
	root.PersistentFlags().Duration("retry-backoff", 500*time.Millisecond, "initial RPC retry backoff")
	root.PersistentFlags().Duration("receipt-poll", 2*time.Second, "receipt polling interval")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newPoolCmd())
	root.AddCommand(newQuoteCmd())
	root.AddCommand(newSwapCmd())
	root.AddCommand(newPositionCmd())
	root.AddCommand(newReceiptCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runtime bundles the shared dependencies each command needs.
type runtime struct {
	cfg      config.Config
	logger   *zap.Logger
	profile  amm.Profile
	client   *chain.Client
	registry *tokens.Registry
	journal  storage.Journal
	cleanup  []func()
}

func newRuntime(ctx context.Context, cmd *cobra.Command, needRPC bool) (*runtime, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	profile, err := amm.ProfileFor(cfg.Network)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: logger, profile: profile}

	if needRPC {
		if cfg.RPCURL == "" {
			return nil, fmt.Errorf("rpc url is required")
		}
		client, err := chain.Dial(ctx, cfg.RPCURL, cfg.MaxRetries, cfg.RetryBackoff)
		if err != nil {
			return nil, fmt.Errorf("dial rpc: %w", err)
		}
		rt.client = client
		rt.cleanup = append(rt.cleanup, client.Close)

		// A node on the wrong network would produce plausible-looking
		// batches against the wrong contracts.
		if id, err := client.ChainID(ctx); err != nil {
			logger.Warn("chain id check failed", zap.Error(err))
		} else if v, err := codec.ParseFelt(id); err != nil || codec.FeltHex(v) != profile.ChainID {
			rt.close()
			return nil, fmt.Errorf("rpc chain id %s does not match network %s (%s)",
				id, profile.Network, profile.ChainID)
		}
	}
	rt.registry = tokens.NewRegistry(cfg.Network, rt.client, logger)

	switch {
	case cfg.PGDSN != "":
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("open journal store: %w", err)
		}
		rt.journal = store
		rt.cleanup = append(rt.cleanup, store.Close)
	case cfg.JournalPath != "":
		rt.journal = storage.NewJsonlJournal(cfg.JournalPath)
	}

	return rt, nil
}

func (rt *runtime) close() {
	for i := len(rt.cleanup) - 1; i >= 0; i-- {
		rt.cleanup[i]()
	}
	if rt.logger != nil {
		rt.logger.Sync()
	}
}

// record journals an assembled batch; journal failures are logged, not fatal.
func (rt *runtime) record(ctx context.Context, op string, pool amm.ResolvedPool, batch model.CallBatch) {
	if rt.journal == nil {
		return
	}
	err := rt.journal.RecordOperation(ctx, model.OperationRecord{
		Network:     rt.cfg.Network,
		Op:          op,
		Token0:      pool.Key.Token0,
		Token1:      pool.Key.Token1,
		Fee:         pool.Key.Fee.Dec(),
		TickSpacing: pool.Key.TickSpacing,
		Calls:       batch,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		rt.logger.Warn("journal write failed", zap.String("op", op), zap.Error(err))
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
