package codec

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// feltPrime is the field modulus: 2^251 + 17*2^192 + 1.
var feltPrime = uint256.MustFromHex("0x800000000000011000000000000000000000000000000000000000000000001")

var (
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxU256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// ParseFelt parses a field element from a 0x-prefixed hex or decimal string.
func ParseFelt(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty felt")
	}

	var v *uint256.Int
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" {
			digits = "0"
		}
		parsed, err := uint256.FromHex("0x" + digits)
		if err != nil {
			return nil, fmt.Errorf("parse felt %q: %w", s, err)
		}
		v = parsed
	} else {
		parsed, err := uint256.FromDecimal(s)
		if err != nil {
			return nil, fmt.Errorf("parse felt %q: %w", s, err)
		}
		v = parsed
	}

	if v.Cmp(feltPrime) >= 0 {
		return nil, fmt.Errorf("felt %q exceeds field modulus", s)
	}
	return v, nil
}

// FeltHex renders a field element as minimal 0x-prefixed hex.
func FeltHex(v *uint256.Int) string {
	return v.Hex()
}

// NormalizeAddress parses and re-renders an address so equal addresses
// compare equal as strings. Fails on malformed or out-of-field input.
func NormalizeAddress(s string) (string, error) {
	v, err := ParseFelt(s)
	if err != nil {
		return "", err
	}
	return v.Hex(), nil
}

// AddressLess reports whether address a sorts before b numerically.
// Both must already be normalized.
func AddressLess(a, b string) (bool, error) {
	av, err := ParseFelt(a)
	if err != nil {
		return false, err
	}
	bv, err := ParseFelt(b)
	if err != nil {
		return false, err
	}
	return av.Cmp(bv) < 0, nil
}

// EncodeU256 splits an unsigned 256-bit value into its low/high felt pair.
func EncodeU256(v *big.Int) (low, high string, err error) {
	if v == nil || v.Sign() < 0 {
		return "", "", fmt.Errorf("u256 value must be non-negative")
	}
	if v.Cmp(maxU256) > 0 {
		return "", "", fmt.Errorf("u256 overflow: %s", v.String())
	}
	lo := new(big.Int).And(v, maxU128)
	hi := new(big.Int).Rsh(v, 128)
	return bigHex(lo), bigHex(hi), nil
}

// DecodeU256 reassembles a 256-bit value from its low/high felt pair.
func DecodeU256(low, high string) (*big.Int, error) {
	lo, err := ParseFelt(low)
	if err != nil {
		return nil, fmt.Errorf("u256 low: %w", err)
	}
	hi, err := ParseFelt(high)
	if err != nil {
		return nil, fmt.Errorf("u256 high: %w", err)
	}
	if lo.Cmp(uint256.MustFromBig(maxU128)) > 0 {
		return nil, fmt.Errorf("u256 low limb overflow: %s", low)
	}
	v := new(big.Int).Lsh(hi.ToBig(), 128)
	return v.Add(v, lo.ToBig()), nil
}

// EncodeU128 encodes an unsigned 128-bit value as a single felt.
func EncodeU128(v *big.Int) (string, error) {
	if v == nil || v.Sign() < 0 {
		return "", fmt.Errorf("u128 value must be non-negative")
	}
	if v.Cmp(maxU128) > 0 {
		return "", fmt.Errorf("u128 overflow: %s", v.String())
	}
	return bigHex(v), nil
}

// EncodeI129 encodes a signed-magnitude value as its mag/sign felt pair.
// Zero always carries a zero sign flag.
func EncodeI129(mag *big.Int, negative bool) (magFelt, signFelt string, err error) {
	if mag == nil || mag.Sign() < 0 {
		return "", "", fmt.Errorf("i129 magnitude must be non-negative")
	}
	if mag.Cmp(maxU128) > 0 {
		return "", "", fmt.Errorf("i129 magnitude overflow: %s", mag.String())
	}
	sign := "0x0"
	if negative && mag.Sign() != 0 {
		sign = "0x1"
	}
	return bigHex(mag), sign, nil
}

// DecodeI129 decodes a mag/sign felt pair into a native signed big integer.
func DecodeI129(magFelt, signFelt string) (*big.Int, error) {
	mag, err := ParseFelt(magFelt)
	if err != nil {
		return nil, fmt.Errorf("i129 mag: %w", err)
	}
	sign, err := ParseFelt(signFelt)
	if err != nil {
		return nil, fmt.Errorf("i129 sign: %w", err)
	}
	v := mag.ToBig()
	if !sign.IsZero() {
		v.Neg(v)
	}
	return v, nil
}

func bigHex(v *big.Int) string {
	if v.Sign() == 0 {
		return "0x0"
	}
	return "0x" + v.Text(16)
}
