package chain

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// FunctionCall is the wire shape of a read-only contract call.
type FunctionCall struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

// Client wraps the JSON-RPC transport and provides helper methods.
// Reads retry with exponential backoff; nothing above this layer
// retries.
type Client struct {
	rpcClient *rpc.Client
	retry     retryPolicy
}

// Dial creates a new client from the node RPC URL.
func Dial(ctx context.Context, rpcURL string, maxRetries int, retryBackoff time.Duration) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		rpcClient: rpcClient,
		retry:     newRetryPolicy(maxRetries, retryBackoff),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// ChainID returns the network's chain identifier felt.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	var id string
	err := c.rpcClient.CallContext(ctx, &id, "starknet_chainId")
	return id, err
}

// CallContract performs a read-only contract call at the latest state.
func (c *Client) CallContract(ctx context.Context, call FunctionCall) ([]string, error) {
	var result []string
	err := c.retry.do(ctx, func(ctx context.Context) error {
		result = nil
		return c.rpcClient.CallContext(ctx, &result, "starknet_call", call, "latest")
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TransactionReceipt fetches the receipt for a transaction hash, or an
// error if the transaction is not yet known to the node.
func (c *Client) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	var receipt Receipt
	if err := c.rpcClient.CallContext(ctx, &receipt, "starknet_getTransactionReceipt", txHash); err != nil {
		return nil, err
	}
	return &receipt, nil
}
