package tokens

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"poolctl/internal/chain"
	"poolctl/internal/codec"
	"poolctl/internal/model"
)

// fetchTokenMeta reads decimals and symbol from the token contract.
// A missing symbol is tolerated; missing decimals is not.
func fetchTokenMeta(ctx context.Context, client *chain.Client, address string, logger *zap.Logger) (model.Token, error) {
	token := model.Token{Address: address}

	result, err := client.CallContract(ctx, chain.FunctionCall{
		ContractAddress:    address,
		EntryPointSelector: codec.Selector("decimals"),
	})
	if err != nil {
		return token, fmt.Errorf("call decimals on %s: %w", address, err)
	}
	if len(result) == 0 {
		return token, fmt.Errorf("decimals on %s: empty result", address)
	}
	decimals, err := codec.ParseFelt(result[0])
	if err != nil {
		return token, fmt.Errorf("decimals on %s: %w", address, err)
	}
	if !decimals.IsUint64() || decimals.Uint64() > 77 {
		return token, fmt.Errorf("decimals on %s: implausible value %s", address, decimals.Dec())
	}
	token.Decimals = uint8(decimals.Uint64())

	if result, err := client.CallContract(ctx, chain.FunctionCall{
		ContractAddress:    address,
		EntryPointSelector: codec.Selector("symbol"),
	}); err == nil {
		if symbol, ok := decodeString(result); ok {
			token.Symbol = symbol
		}
	} else if logger != nil {
		logger.Debug("symbol call failed", zap.String("token", address), zap.Error(err))
	}

	return token, nil
}

// decodeString decodes a contract string return value. Older contracts
// return a single short-string felt; newer ones return a byte array as
// [word_count, words..., pending_word, pending_len].
func decodeString(result []string) (string, bool) {
	switch {
	case len(result) == 1:
		return shortString(result[0])
	case len(result) >= 3:
		count, err := codec.ParseFelt(result[0])
		if err != nil || !count.IsUint64() {
			return "", false
		}
		n := count.Uint64()
		if uint64(len(result)) < n+3 {
			return "", false
		}
		var sb strings.Builder
		for _, word := range result[1 : 1+n] {
			s, ok := shortString(word)
			if !ok {
				return "", false
			}
			sb.WriteString(s)
		}
		pending, ok := shortString(result[1+n])
		if !ok {
			return "", false
		}
		sb.WriteString(pending)
		return sb.String(), sb.Len() > 0
	default:
		return "", false
	}
}

// shortString decodes an ASCII short string packed into a felt.
func shortString(felt string) (string, bool) {
	v, err := codec.ParseFelt(felt)
	if err != nil {
		return "", false
	}
	if v.IsZero() {
		return "", true
	}
	raw := v.Bytes()
	for _, b := range raw {
		if b < 0x20 || b > 0x7e {
			return "", false
		}
	}
	return string(raw), true
}
