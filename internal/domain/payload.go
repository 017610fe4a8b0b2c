package domain

// PayloadVersion is the version tag stamped on every built payload.
const PayloadVersion = "1.0"

// Call is a single contract call inside a transaction payload.
type Call struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// TransactionPayload is a chain-ready, pre-broadcast description of one or
// more contract calls. Building it has no on-chain effect; broadcasting is
// the caller's business.
type TransactionPayload struct {
	Version string `json:"version"`
	From    string `json:"from"`
	ChainID int64  `json:"chainId"`
	Calls   []Call `json:"calls"`
}
