package codec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
)

// selectorMask keeps the low 250 bits of the keccak digest.
var selectorMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 250), big.NewInt(1))

// Selector computes the entrypoint selector for a function or event
// name: keccak256 of the ASCII name truncated to 250 bits.
func Selector(name string) string {
	digest := crypto.Keccak256([]byte(name))
	v := new(big.Int).SetBytes(digest)
	v.And(v, selectorMask)
	return bigHex(v)
}
