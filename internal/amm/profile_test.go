package amm

import (
	"strings"
	"testing"
)

func TestProfileForUnknownNetwork(t *testing.T) {
	_, err := ProfileFor("devnet")
	if err == nil {
		t.Fatal("expected an error for an unknown network")
	}
	for _, name := range Networks() {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error should list %q: %v", name, err)
		}
	}
}

func TestProfilesComplete(t *testing.T) {
	for _, name := range Networks() {
		p, err := ProfileFor(name)
		if err != nil {
			t.Fatalf("profile %s: %v", name, err)
		}
		if p.ChainID == "" || p.Core == "" || p.Positions == "" || p.Router == "" {
			t.Fatalf("profile %s has missing addresses: %+v", name, p)
		}
		if p.MinSqrtRatio == nil || p.MaxSqrtRatio == nil || p.MinSqrtRatio.Cmp(p.MaxSqrtRatio) >= 0 {
			t.Fatalf("profile %s has bad sqrt ratio bounds", name)
		}
	}
}

func TestProfileForNormalizesName(t *testing.T) {
	a, err := ProfileFor("MAINNET")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ProfileFor(" mainnet ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Network != "mainnet" || b.Network != "mainnet" {
		t.Fatalf("name normalization broken: %s / %s", a.Network, b.Network)
	}
}
