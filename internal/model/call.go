package model

// Call is one contract invocation in the wire format the network accepts:
// target address, entrypoint selector, and felt-encoded arguments.
// EntryPoint keeps the human-readable name for logs and journals.
type Call struct {
	ContractAddress string   `json:"contract_address"`
	EntryPoint      string   `json:"entry_point"`
	Selector        string   `json:"entry_point_selector"`
	Calldata        []string `json:"calldata"`
}

// CallBatch is an ordered sequence of calls submitted as one
// all-or-nothing transaction. It must not be mutated after assembly.
type CallBatch []Call
