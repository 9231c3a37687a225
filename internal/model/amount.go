package model

import "math/big"

// ExactKind says whether a swap amount fixes the input or the output side.
type ExactKind string

const (
	ExactInput  ExactKind = "input"
	ExactOutput ExactKind = "output"
)

// SignedAmount is a swap amount magnitude together with its intent.
// On the wire an exact-output amount is encoded with the sign flag set.
type SignedAmount struct {
	Mag   *big.Int  `json:"mag"`
	Exact ExactKind `json:"exact"`
}
