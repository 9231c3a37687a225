package position

import (
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"

	"poolctl/internal/amm"
	"poolctl/internal/codec"
	"poolctl/internal/model"
)

func testPool(aIsToken0 bool) amm.ResolvedPool {
	return amm.ResolvedPool{
		Key: model.PoolKey{
			Token0:      "0x2",
			Token1:      "0x100",
			Fee:         uint256.MustFromDecimal("170141183460469231731687303715884105"),
			TickSpacing: 1000,
			Extension:   "0x0",
		},
		Token0:    model.Token{Address: "0x2", Symbol: "AAA", Decimals: 18},
		Token1:    model.Token{Address: "0x100", Symbol: "BBB", Decimals: 6},
		AIsToken0: aIsToken0,
	}
}

func testBounds(t *testing.T) model.Bounds {
	t.Helper()
	bounds, err := codec.BuildBounds(-1000, 1000)
	if err != nil {
		t.Fatalf("build bounds: %v", err)
	}
	return bounds
}

func testManager(t *testing.T) *Manager {
	t.Helper()
	profile, err := amm.ProfileFor("mainnet")
	if err != nil {
		t.Fatalf("mainnet profile: %v", err)
	}
	return NewManager(profile, nil)
}

func TestCreatePositionBatchShape(t *testing.T) {
	m := testManager(t)

	batch, err := m.CreatePosition(testPool(true), testBounds(t), big.NewInt(100), big.NewInt(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("batch length mismatch: got %d, want 3", len(batch))
	}

	if batch[0].EntryPoint != "transfer" || batch[0].ContractAddress != "0x2" {
		t.Fatalf("first call should fund token0: %+v", batch[0])
	}
	if batch[1].EntryPoint != "transfer" || batch[1].ContractAddress != "0x100" {
		t.Fatalf("second call should fund token1: %+v", batch[1])
	}
	if batch[2].EntryPoint != "mint_and_deposit_and_clear_both" {
		t.Fatalf("third call mismatch: %+v", batch[2])
	}
	if batch[2].ContractAddress != m.profile.Positions {
		t.Fatalf("mint call should target the positions contract: %s", batch[2].ContractAddress)
	}
}

func TestCreatePositionRemapsAmounts(t *testing.T) {
	m := testManager(t)

	// Caller's token A is token1, so amountA must land on token1.
	batch, err := m.CreatePosition(testPool(false), testBounds(t), big.NewInt(111), big.NewInt(222))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if batch[0].Calldata[1] != "0xde" { // 222 funds token0
		t.Fatalf("token0 amount mismatch: %v", batch[0].Calldata)
	}
	if batch[1].Calldata[1] != "0x6f" { // 111 funds token1
		t.Fatalf("token1 amount mismatch: %v", batch[1].Calldata)
	}
}

func TestCreatePositionInvalidBounds(t *testing.T) {
	m := testManager(t)

	bounds := model.Bounds{
		Lower: model.Tick{Mag: 1000},
		Upper: model.Tick{Mag: 1000, Negative: true},
	}
	if _, err := m.CreatePosition(testPool(true), bounds, big.NewInt(1), big.NewInt(1)); !errors.Is(err, codec.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestAddLiquidityBatchShape(t *testing.T) {
	m := testManager(t)

	batch, err := m.AddLiquidity(big.NewInt(42), testPool(true), testBounds(t), big.NewInt(100), big.NewInt(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 5 {
		t.Fatalf("batch length mismatch: got %d, want 5", len(batch))
	}

	wantOrder := []string{"transfer", "transfer", "deposit", "clear", "clear"}
	for i, want := range wantOrder {
		if batch[i].EntryPoint != want {
			t.Fatalf("call %d mismatch: got %s, want %s", i, batch[i].EntryPoint, want)
		}
	}
	if batch[2].Calldata[0] != "0x2a" {
		t.Fatalf("deposit should lead with the position id: %v", batch[2].Calldata)
	}
}

func TestWithdrawLiquidity(t *testing.T) {
	m := testManager(t)

	batch, err := m.WithdrawLiquidity(big.NewInt(42), testPool(true), testBounds(t), big.NewInt(5000), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 || batch[0].EntryPoint != "withdraw" {
		t.Fatalf("batch mismatch: %+v", batch)
	}

	data := batch[0].Calldata
	// id, pool key (5), bounds (4), then liquidity, mins, collect flag.
	if len(data) != 14 {
		t.Fatalf("calldata length mismatch: got %d, want 14", len(data))
	}
	if data[10] != "0x1388" || data[13] != "0x1" {
		t.Fatalf("liquidity or collect flag mismatch: %v", data)
	}
}

func TestWithdrawCollectFeesOnly(t *testing.T) {
	m := testManager(t)

	batch, err := m.WithdrawLiquidity(big.NewInt(42), testPool(true), testBounds(t), big.NewInt(0), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 || batch[0].EntryPoint != "collect_fees" {
		t.Fatalf("batch mismatch: %+v", batch)
	}
}

func TestWithdrawCollectFeesOnlyRejectsLiquidity(t *testing.T) {
	m := testManager(t)

	_, err := m.WithdrawLiquidity(big.NewInt(42), testPool(true), testBounds(t), big.NewInt(5), true)
	if !errors.Is(err, ErrInvalidWithdrawRequest) {
		t.Fatalf("expected ErrInvalidWithdrawRequest, got %v", err)
	}
}

func TestTransferPosition(t *testing.T) {
	m := testManager(t)

	batch, err := m.TransferPosition(big.NewInt(42), "0xaaa", "0xbbb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 || batch[0].EntryPoint != "transfer_from" {
		t.Fatalf("batch mismatch: %+v", batch)
	}

	want := []string{"0xaaa", "0xbbb", "0x2a", "0x0"}
	if len(batch[0].Calldata) != 4 {
		t.Fatalf("calldata length mismatch: %v", batch[0].Calldata)
	}
	for i, w := range want {
		if batch[0].Calldata[i] != w {
			t.Fatalf("calldata[%d] mismatch: got %s, want %s", i, batch[0].Calldata[i], w)
		}
	}
}
