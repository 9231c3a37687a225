package amm

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"poolctl/internal/codec"
	"poolctl/internal/model"
)

type staticLookup map[string]model.Token

func (l staticLookup) Resolve(_ context.Context, desc model.TokenDescriptor) (model.Token, error) {
	key := desc.Symbol
	if desc.Address != "" {
		key = desc.Address
	}
	token, ok := l[key]
	if !ok {
		return model.Token{}, fmt.Errorf("%w: %q", ErrTokenNotFound, key)
	}
	return token, nil
}

var testLookup = staticLookup{
	"AAA": {Address: "0x2", Symbol: "AAA", Decimals: 18},
	"BBB": {Address: "0x100", Symbol: "BBB", Decimals: 6},
}

func testProfile(t *testing.T) Profile {
	t.Helper()
	profile, err := ProfileFor("mainnet")
	if err != nil {
		t.Fatalf("mainnet profile: %v", err)
	}
	return profile
}

func TestResolvePoolKeyCanonicalOrdering(t *testing.T) {
	profile := testProfile(t)

	forward, err := ResolvePoolKey(context.Background(), testLookup,
		model.TokenDescriptor{Symbol: "AAA"}, model.TokenDescriptor{Symbol: "BBB"},
		0.05, 0.1, "", profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reverse, err := ResolvePoolKey(context.Background(), testLookup,
		model.TokenDescriptor{Symbol: "BBB"}, model.TokenDescriptor{Symbol: "AAA"},
		0.05, 0.1, "", profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(forward.Key, reverse.Key) {
		t.Fatalf("key depends on argument order: %+v != %+v", forward.Key, reverse.Key)
	}
	if forward.Key.Token0 != "0x2" || forward.Key.Token1 != "0x100" {
		t.Fatalf("tokens not sorted by address: %+v", forward.Key)
	}
	if !forward.AIsToken0 || reverse.AIsToken0 {
		t.Fatalf("side mapping wrong: forward=%v reverse=%v", forward.AIsToken0, reverse.AIsToken0)
	}
}

func TestResolvePoolKeyDefaults(t *testing.T) {
	profile := testProfile(t)

	pool, err := ResolvePoolKey(context.Background(), testLookup,
		model.TokenDescriptor{Symbol: "AAA"}, model.TokenDescriptor{Symbol: "BBB"},
		0.05, 0.1, "", profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.Key.Extension != "0x0" {
		t.Fatalf("extension default mismatch: %s", pool.Key.Extension)
	}
	// 0.05% is the protocol's floor(0.0005 * 2^128) tier.
	if pool.Key.Fee.Dec() != "170141183460469231731687303715884105" {
		t.Fatalf("fee not u128-encoded: %s", pool.Key.Fee.Dec())
	}
	if pool.Key.TickSpacing == 0 {
		t.Fatalf("tick spacing not encoded: %+v", pool.Key)
	}
}

func TestResolvePoolKeyUnknownToken(t *testing.T) {
	_, err := ResolvePoolKey(context.Background(), testLookup,
		model.TokenDescriptor{Symbol: "NOPE"}, model.TokenDescriptor{Symbol: "BBB"},
		0.05, 0.1, "", testProfile(t))
	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestResolvePoolKeyInvalidFee(t *testing.T) {
	_, err := ResolvePoolKey(context.Background(), testLookup,
		model.TokenDescriptor{Symbol: "AAA"}, model.TokenDescriptor{Symbol: "BBB"},
		-1, 0.1, "", testProfile(t))
	if !errors.Is(err, codec.ErrInvalidPoolParameter) {
		t.Fatalf("expected ErrInvalidPoolParameter, got %v", err)
	}
}

func TestResolvePoolKeySameToken(t *testing.T) {
	_, err := ResolvePoolKey(context.Background(), testLookup,
		model.TokenDescriptor{Symbol: "AAA"}, model.TokenDescriptor{Symbol: "AAA"},
		0.05, 0.1, "", testProfile(t))
	if err == nil {
		t.Fatalf("expected error for identical tokens")
	}
}
