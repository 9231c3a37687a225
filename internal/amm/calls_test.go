package amm

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/holiman/uint256"

	"poolctl/internal/codec"
	"poolctl/internal/model"
)

var testKey = model.PoolKey{
	Token0:      "0x2",
	Token1:      "0x100",
	Fee:         uint256.MustFromDecimal("170141183460469231731687303715884105"),
	TickSpacing: 1000,
	Extension:   "0x0",
}

func TestAppendPoolKeyWireOrder(t *testing.T) {
	got := AppendPoolKey(nil, testKey)
	want := []string{"0x2", "0x100", "0x20c49ba5e353f7ced916872b020c49", "0x3e8", "0x0"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pool key calldata mismatch: %v != %v", got, want)
	}
}

func TestAppendBoundsWireOrder(t *testing.T) {
	bounds := model.Bounds{
		Lower: model.Tick{Mag: 1000, Negative: true},
		Upper: model.Tick{Mag: 2000, Negative: false},
	}
	got := AppendBounds(nil, bounds)
	want := []string{"0x3e8", "0x1", "0x7d0", "0x0"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bounds calldata mismatch: %v != %v", got, want)
	}
}

func TestTransferCall(t *testing.T) {
	amount := new(big.Int).Lsh(big.NewInt(3), 128)
	amount.Add(amount, big.NewInt(7))

	call, err := TransferCall("0x2", "0xabc", amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.ContractAddress != "0x2" || call.EntryPoint != "transfer" {
		t.Fatalf("call target mismatch: %+v", call)
	}
	if call.Selector != codec.Selector("transfer") {
		t.Fatalf("selector mismatch: %s", call.Selector)
	}
	want := []string{"0xabc", "0x7", "0x3"}
	if !reflect.DeepEqual(call.Calldata, want) {
		t.Fatalf("calldata mismatch: %v != %v", call.Calldata, want)
	}
}

func TestClearMinimumCall(t *testing.T) {
	call, err := ClearMinimumCall("0x99", "0x100", big.NewInt(995_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"0x100", "0xf2eb8", "0x0"}
	if !reflect.DeepEqual(call.Calldata, want) {
		t.Fatalf("calldata mismatch: %v != %v", call.Calldata, want)
	}
}
