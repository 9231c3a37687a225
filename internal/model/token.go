package model

// TokenDescriptor identifies a token by symbol or by on-chain address.
// Exactly one of the two fields should be set; Address wins when both are.
type TokenDescriptor struct {
	Symbol  string
	Address string
}

// Token captures resolved token metadata.
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}
