package tool

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Per-tool parameter structs. Arguments arrive as generic maps from JSON or
// command parsing; the executor decodes them into these before dispatch, so
// executors never touch free-form maps.

// Decimal is a display-unit amount. It decodes from either a JSON number or
// a decimal string, preserving the caller's text when given one so the
// payload builder parses exactly what the user typed.
type Decimal string

func (d *Decimal) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = Decimal(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("not a number or numeric string: %s", b)
	}
	*d = Decimal(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// BalanceParams configures get_balance.
type BalanceParams struct {
	Address string `json:"address"`
}

// TransferParams configures create_transfer.
type TransferParams struct {
	ToAddress   string  `json:"toAddress"`
	Amount      Decimal `json:"amount"`
	FromAddress string  `json:"fromAddress"`
}

// GasParams configures estimate_gas.
type GasParams struct {
	TransactionType string  `json:"transactionType"`
	Amount          Decimal `json:"amount"`
}

// StatusParams configures get_network_status, which takes no arguments.
type StatusParams struct{}

// YieldParams configures get_yield_opportunities. A nil MinAPY means no
// APY filter; zero is a real threshold.
type YieldParams struct {
	MinAPY    *float64 `json:"minApy"`
	RiskLevel string   `json:"riskLevel"`
}

// ProtocolParams configures get_protocol_info.
type ProtocolParams struct {
	ProtocolName string `json:"protocolName"`
}

// ValidateParams configures validate_address.
type ValidateParams struct {
	Address string `json:"address"`
}

// DecodeParams checks the tool's required arguments and fills its parameter
// struct. This is the single point where free-form argument maps become
// typed values; a failure here never reaches the executor.
func DecodeParams(t Tool, args map[string]any) (any, error) {
	for _, req := range t.Schema().Required {
		v, ok := args[req]
		if !ok || v == nil || v == "" {
			return nil, fmt.Errorf("%s: missing required argument %q", t.Name(), req)
		}
	}

	p := t.NewParams()
	if len(args) == 0 {
		return p, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%s: unencodable arguments: %w", t.Name(), err)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("%s: invalid arguments: %w", t.Name(), err)
	}
	return p, nil
}
