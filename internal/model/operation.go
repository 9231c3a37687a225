package model

import "time"

// OperationRecord is the journal row written for each assembled batch.
type OperationRecord struct {
	Network     string    `json:"network"`
	Op          string    `json:"op"`
	Token0      string    `json:"token0"`
	Token1      string    `json:"token1"`
	Fee         string    `json:"fee"`
	TickSpacing uint32    `json:"tick_spacing"`
	Calls       CallBatch `json:"calls"`
	TxHash      string    `json:"tx_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
