package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"poolctl/internal/amm"
	"poolctl/internal/codec"
)

// Event is one emitted event from a transaction receipt.
type Event struct {
	FromAddress string   `json:"from_address"`
	Keys        []string `json:"keys"`
	Data        []string `json:"data"`
}

// Receipt is the confirmation result for a submitted transaction.
type Receipt struct {
	TxHash          string  `json:"transaction_hash"`
	ExecutionStatus string  `json:"execution_status"`
	FinalityStatus  string  `json:"finality_status"`
	RevertReason    string  `json:"revert_reason,omitempty"`
	Events          []Event `json:"events"`
}

// Succeeded reports whether the transaction executed without reverting.
func (r *Receipt) Succeeded() bool {
	return strings.EqualFold(r.ExecutionStatus, "SUCCEEDED")
}

// WaitForReceipt polls for the receipt until it is available or the
// context is cancelled. Cancellation does not affect the transaction
// itself; once broadcast it lands or reverts atomically.
func (c *Client) WaitForReceipt(ctx context.Context, txHash string, pollInterval time.Duration) (*Receipt, error) {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.TransactionReceipt(ctx, txHash)
		if err == nil && receipt.FinalityStatus != "" && !strings.EqualFold(receipt.FinalityStatus, "RECEIVED") {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			if err != nil {
				return nil, fmt.Errorf("wait for receipt %s: %w (last error: %v)", txHash, ctx.Err(), err)
			}
			return nil, fmt.Errorf("wait for receipt %s: %w", txHash, ctx.Err())
		case <-ticker.C:
		}
	}
}

// MintDecoder recovers a freshly minted position id from a receipt.
type MintDecoder interface {
	DecodeMintedPositionID(receipt *Receipt) (*big.Int, error)
}

// TransferEventDecoder decodes the positions contract's transfer-from-
// zero event, which carries the id assigned on mint.
type TransferEventDecoder struct {
	profile amm.Profile
}

func NewTransferEventDecoder(profile amm.Profile) *TransferEventDecoder {
	return &TransferEventDecoder{profile: profile}
}

// DecodeMintedPositionID scans receipt events for the positions
// contract's Transfer event with a zero sender and returns the id.
func (d *TransferEventDecoder) DecodeMintedPositionID(receipt *Receipt) (*big.Int, error) {
	positions, err := codec.NormalizeAddress(d.profile.Positions)
	if err != nil {
		return nil, fmt.Errorf("positions address: %w", err)
	}

	for _, event := range receipt.Events {
		from, err := codec.NormalizeAddress(event.FromAddress)
		if err != nil || from != positions {
			continue
		}
		if len(event.Keys) == 0 {
			continue
		}
		key, err := codec.NormalizeAddress(event.Keys[0])
		if err != nil || key != d.profile.TransferEventKey {
			continue
		}

		// Transfer(from, to, token_id): some deployments index the
		// addresses as keys, others carry everything in data.
		fields := append(append([]string{}, event.Keys[1:]...), event.Data...)
		if len(fields) < 4 {
			continue
		}
		sender, err := codec.ParseFelt(fields[0])
		if err != nil || !sender.IsZero() {
			continue
		}
		id, err := codec.DecodeU256(fields[2], fields[3])
		if err != nil {
			return nil, fmt.Errorf("decode minted position id: %w", err)
		}
		return id, nil
	}

	return nil, fmt.Errorf("no mint transfer event from %s in receipt %s", d.profile.Positions, receipt.TxHash)
}
