package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolctl/internal/chain"
)

func newReceiptCmd() *cobra.Command {
	receiptCmd := &cobra.Command{
		Use:   "receipt <tx-hash>",
		Short: "Wait for a transaction and decode the minted position id",
		Args:  cobra.ExactArgs(1),
		RunE:  runReceipt,
	}
	return receiptCmd
}

func runReceipt(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	rt, err := newRuntime(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer rt.close()

	txHash := args[0]
	receipt, err := rt.client.WaitForReceipt(ctx, txHash, rt.cfg.ReceiptPoll)
	if err != nil {
		return err
	}

	out := struct {
		TxHash          string `json:"tx_hash"`
		ExecutionStatus string `json:"execution_status"`
		FinalityStatus  string `json:"finality_status"`
		RevertReason    string `json:"revert_reason,omitempty"`
		PositionID      string `json:"position_id,omitempty"`
	}{
		TxHash:          txHash,
		ExecutionStatus: receipt.ExecutionStatus,
		FinalityStatus:  receipt.FinalityStatus,
		RevertReason:    receipt.RevertReason,
	}

	if !receipt.Succeeded() {
		if err := printJSON(out); err != nil {
			return err
		}
		return fmt.Errorf("transaction %s reverted", txHash)
	}

	decoder := chain.NewTransferEventDecoder(rt.profile)
	if id, err := decoder.DecodeMintedPositionID(receipt); err == nil {
		out.PositionID = id.String()
	} else {
		rt.logger.Debug("no minted position id in receipt", zap.String("tx", txHash), zap.Error(err))
	}

	return printJSON(out)
}
