package tokens

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"poolctl/internal/amm"
	"poolctl/internal/chain"
	"poolctl/internal/codec"
	"poolctl/internal/model"
)

// builtin holds the well-known tokens per network. Addresses supplied
// by callers are always accepted after validation; symbols must be
// listed here.
var builtin = map[string]map[string]model.Token{
	"mainnet": {
		"ETH":  {Address: "0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7", Symbol: "ETH", Decimals: 18},
		"STRK": {Address: "0x4718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d", Symbol: "STRK", Decimals: 18},
		"USDC": {Address: "0x53c91253bc9682c04929ca02ed00b3e423f6710d2ee7e0d5ebb06f3ecf368a8", Symbol: "USDC", Decimals: 6},
		"USDT": {Address: "0x68f5c6a61780768455de69077e07e89787839bf8166decfbf92b645209c0fb8", Symbol: "USDT", Decimals: 6},
		"WBTC": {Address: "0x3fe2b97c1fd336e750087d68b9b867997fd64a2661ff3ca5a7c771641e8e7ac", Symbol: "WBTC", Decimals: 8},
		"DAI":  {Address: "0xda114221cb83fa859dbdb4c44beeaa0bb37c7537ad5ae66fe5e0efd20e6eb3", Symbol: "DAI", Decimals: 18},
	},
	"sepolia": {
		"ETH":  {Address: "0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7", Symbol: "ETH", Decimals: 18},
		"STRK": {Address: "0x4718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d", Symbol: "STRK", Decimals: 18},
		"USDC": {Address: "0x53b40a647cedfca6ca84f542a0fe36736031905a9639a7f19a3c1e66bfd5080", Symbol: "USDC", Decimals: 6},
	},
}

// Registry resolves token descriptors against the builtin table and,
// for raw addresses, against on-chain metadata. Resolved tokens are
// cached by address for the session.
type Registry struct {
	network string
	client  *chain.Client
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[string]model.Token
}

// NewRegistry builds a registry for a network. client may be nil, in
// which case only builtin symbols and already-cached addresses resolve.
func NewRegistry(network string, client *chain.Client, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		network: strings.ToLower(strings.TrimSpace(network)),
		client:  client,
		logger:  logger,
		cache:   make(map[string]model.Token),
	}
}

// Resolve maps a descriptor to token metadata. Address takes precedence
// when both fields are set.
func (r *Registry) Resolve(ctx context.Context, desc model.TokenDescriptor) (model.Token, error) {
	if desc.Address != "" {
		return r.resolveAddress(ctx, desc.Address)
	}
	if desc.Symbol != "" {
		return r.resolveSymbol(desc.Symbol)
	}
	return model.Token{}, fmt.Errorf("%w: empty descriptor", amm.ErrTokenNotFound)
}

func (r *Registry) resolveSymbol(symbol string) (model.Token, error) {
	table, ok := builtin[r.network]
	if !ok {
		return model.Token{}, fmt.Errorf("%w: no token table for network %q", amm.ErrTokenNotFound, r.network)
	}
	token, ok := table[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return model.Token{}, fmt.Errorf("%w: unknown symbol %q on %s", amm.ErrTokenNotFound, symbol, r.network)
	}
	return token, nil
}

func (r *Registry) resolveAddress(ctx context.Context, address string) (model.Token, error) {
	normalized, err := codec.NormalizeAddress(address)
	if err != nil {
		return model.Token{}, fmt.Errorf("%w: %v", amm.ErrTokenNotFound, err)
	}

	r.mu.RLock()
	token, ok := r.cache[normalized]
	r.mu.RUnlock()
	if ok {
		return token, nil
	}

	if table, ok := builtin[r.network]; ok {
		for _, known := range table {
			if known.Address == normalized {
				r.put(known)
				return known, nil
			}
		}
	}

	if r.client == nil {
		return model.Token{}, fmt.Errorf("%w: address %s is not a known token and no RPC client is configured",
			amm.ErrTokenNotFound, normalized)
	}

	token, err = fetchTokenMeta(ctx, r.client, normalized, r.logger)
	if err != nil {
		return model.Token{}, fmt.Errorf("%w: %v", amm.ErrTokenNotFound, err)
	}
	r.put(token)
	return token, nil
}

func (r *Registry) put(token model.Token) {
	r.mu.Lock()
	r.cache[token.Address] = token
	r.mu.Unlock()
}
