package codec

import (
	"math/big"
	"testing"
)

func TestParseFelt(t *testing.T) {
	v, err := ParseFelt("0x0000ff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Uint64() != 255 {
		t.Fatalf("hex parse mismatch: got %d", v.Uint64())
	}

	v, err = ParseFelt("42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Uint64() != 42 {
		t.Fatalf("decimal parse mismatch: got %d", v.Uint64())
	}

	if _, err := ParseFelt(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := ParseFelt("0xzz"); err == nil {
		t.Fatalf("expected error for bad hex")
	}
	// One above the field modulus.
	if _, err := ParseFelt("0x800000000000011000000000000000000000000000000000000000000000002"); err == nil {
		t.Fatalf("expected error for value above field modulus")
	}
}

func TestNormalizeAddress(t *testing.T) {
	a, err := NormalizeAddress("0x00abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NormalizeAddress("0xABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("normalization mismatch: %s != %s", a, b)
	}
}

func TestEncodeU256Split(t *testing.T) {
	v := new(big.Int).Lsh(big.NewInt(1), 128)
	v.Add(v, big.NewInt(5))

	low, high, err := EncodeU256(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if low != "0x5" || high != "0x1" {
		t.Fatalf("split mismatch: low=%s high=%s", low, high)
	}

	back, err := DecodeU256(low, high)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Cmp(v) != 0 {
		t.Fatalf("round trip mismatch: %s != %s", back, v)
	}
}

func TestEncodeU256Invalid(t *testing.T) {
	if _, _, err := EncodeU256(big.NewInt(-1)); err == nil {
		t.Fatalf("expected error for negative value")
	}
	huge := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, _, err := EncodeU256(huge); err == nil {
		t.Fatalf("expected error for overflow")
	}
}

func TestEncodeI129(t *testing.T) {
	mag, sign, err := EncodeI129(big.NewInt(1000), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mag != "0x3e8" || sign != "0x1" {
		t.Fatalf("negative encode mismatch: mag=%s sign=%s", mag, sign)
	}

	// Zero never carries a sign.
	mag, sign, err = EncodeI129(big.NewInt(0), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mag != "0x0" || sign != "0x0" {
		t.Fatalf("zero encode mismatch: mag=%s sign=%s", mag, sign)
	}

	back, err := DecodeI129("0x3e8", "0x1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Int64() != -1000 {
		t.Fatalf("decode mismatch: got %s", back)
	}
}

func TestSelectorKnownValues(t *testing.T) {
	if got := Selector("transfer"); got != "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e" {
		t.Fatalf("transfer selector mismatch: %s", got)
	}
	if got := Selector("Transfer"); got != "0x99cd8bde557814842a3121e8ddfd433a539b8c9f14bf31ebf108d12e6196e9" {
		t.Fatalf("Transfer selector mismatch: %s", got)
	}
}
