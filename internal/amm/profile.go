package amm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/holiman/uint256"

	"poolctl/internal/codec"
)

// Profile carries the per-deployment constants the engines need:
// contract addresses, sqrt ratio bounds, and the event key used to
// recover minted position ids. Values differ between networks, so the
// profile is injected into each component rather than read from
// package globals.
type Profile struct {
	Network string
	// ChainID is the short-string felt the node reports for this
	// network, e.g. "SN_MAIN".
	ChainID        string
	Core           string
	Positions      string
	Router         string
	MinSqrtRatio   *uint256.Int
	MaxSqrtRatio   *uint256.Int
	MaxTick        uint64
	MaxTickSpacing uint32
	// TransferEventKey is the selector of the NFT Transfer event
	// emitted by the positions contract on mint.
	TransferEventKey string
}

var profiles = map[string]Profile{
	"mainnet": {
		Network:          "mainnet",
		ChainID:          "0x534e5f4d41494e",
		Core:           "0x5dd3d2f4429af886cd1a3b08289dbcea99a294197e9eb43b0e0325b4b",
		Positions:        "0x2e0af29598b407c8716b17f6d2795eca1b471413fa03fb145a5e33722184067",
		Router:           "0x199741822c2dc722f6f605204f35e56dbc23bceed54818168c4c49e4fb8737e",
		MinSqrtRatio:     uint256.MustFromDecimal("18446748437148339061"),
		MaxSqrtRatio:     uint256.MustFromDecimal("6277100250585753475930931601400621808602321654880405518632"),
		MaxTick:          88722883,
		MaxTickSpacing:   354892,
		TransferEventKey: codec.Selector("Transfer"),
	},
	"sepolia": {
		Network:          "sepolia",
		ChainID:          "0x534e5f5345504f4c4941",
		Core:           "0x444a09d96389aa7148f1aada508e30b71299ffe650d9c97fdaae38cb9a23384",
		Positions:        "0x6a2aee84bb0ed5dded4384ddd0e40e9c1372b818668375ab8e3ec08807417e5",
		Router:           "0x45f933fd55f53d74c2a18ba27a1a68b4c07b4a02d86f0d81f3f086b8eb4ebbd",
		MinSqrtRatio:     uint256.MustFromDecimal("18446748437148339061"),
		MaxSqrtRatio:     uint256.MustFromDecimal("6277100250585753475930931601400621808602321654880405518632"),
		MaxTick:          88722883,
		MaxTickSpacing:   354892,
		TransferEventKey: codec.Selector("Transfer"),
	},
}

// ProfileFor returns the deployment profile for a network name.
func ProfileFor(network string) (Profile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(network))]
	if !ok {
		return Profile{}, fmt.Errorf("unknown network %q (known: %s)",
			network, strings.Join(Networks(), ", "))
	}
	return p, nil
}

// Networks lists the configured network names.
func Networks() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
