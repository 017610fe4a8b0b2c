package tool

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/soyeahso/pocketfi/internal/chain"
	"github.com/soyeahso/pocketfi/internal/domain"
	"github.com/soyeahso/pocketfi/internal/txpayload"
)

// Tool names. The router maps commands and language heuristics onto these.
const (
	NameGetBalance     = "get_balance"
	NameCreateTransfer = "create_transfer"
	NameEstimateGas    = "estimate_gas"
	NameNetworkStatus  = "get_network_status"
	NameYields         = "get_yield_opportunities"
	NameProtocolInfo   = "get_protocol_info"
	NameValidateAddr   = "validate_address"
)

// ErrMissingAddress is returned by get_balance when neither an address
// argument nor a caller identity is available.
var ErrMissingAddress = errors.New("MissingAddress: no address argument and no caller identity")

// Deps carries everything the built-in tools need.
type Deps struct {
	Reader      chain.Reader
	Builder     *txpayload.Builder
	Network     domain.NetworkConfig
	EthPriceUSD float64 // reference price for cost display
}

// DefaultRegistry assembles the registry with all built-in tools.
func DefaultRegistry(deps Deps) *Registry {
	if deps.EthPriceUSD <= 0 {
		deps.EthPriceUSD = 2500
	}
	return NewRegistry(
		&balanceTool{deps},
		&transferTool{deps},
		&gasTool{deps},
		&statusTool{deps},
		&yieldsTool{},
		&protocolsTool{},
		&validateTool{deps},
	)
}

// --- get_balance ---

type balanceTool struct{ deps Deps }

// BalanceResult is the get_balance payload.
type BalanceResult struct {
	USDC      string    `json:"usdc"`
	ETH       string    `json:"eth"`
	Address   string    `json:"address"`
	Network   string    `json:"network"`
	Timestamp time.Time `json:"timestamp"`
}

func (t *balanceTool) Name() string { return NameGetBalance }
func (t *balanceTool) Description() string {
	return "Read the caller's USDC and native balances on the active network."
}
func (t *balanceTool) Schema() Schema {
	return Schema{Properties: map[string]Property{
		"address": {Type: "string", Description: "Address to read; defaults to the caller's wallet."},
	}}
}

func (t *balanceTool) NewParams() any { return &BalanceParams{} }

func (t *balanceTool) Execute(ctx context.Context, params any, caller Caller) (any, error) {
	p := params.(*BalanceParams)
	addr := p.Address
	if addr == "" {
		addr = caller.Address
	}
	if addr == "" {
		return nil, ErrMissingAddress
	}
	if !txpayload.IsHexAddress(addr) {
		return nil, fmt.Errorf("get_balance: %q is not a valid address", addr)
	}

	usdc, err := t.deps.Reader.TokenBalance(ctx, t.deps.Network.TokenAddress, addr)
	if err != nil {
		return nil, fmt.Errorf("reading token balance: %w", err)
	}
	eth, err := t.deps.Reader.NativeBalance(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("reading native balance: %w", err)
	}

	return BalanceResult{
		USDC:      txpayload.FormatAmount(usdc, t.deps.Network.Decimals),
		ETH:       txpayload.FormatAmount(eth, 18),
		Address:   addr,
		Network:   t.deps.Network.NetworkName,
		Timestamp: time.Now().UTC(),
	}, nil
}

// --- create_transfer ---

type transferTool struct{ deps Deps }

// TransferResult is the create_transfer payload. A failed gas estimate does
// not invalidate the payload; the gas fields are simply absent.
type TransferResult struct {
	Success     bool                       `json:"success"`
	Payload     *domain.TransactionPayload `json:"payload,omitempty"`
	GasEstimate string                     `json:"gasEstimate,omitempty"`
	TotalCost   string                     `json:"totalCost,omitempty"`
	Error       string                     `json:"error,omitempty"`
}

func (t *transferTool) Name() string { return NameCreateTransfer }
func (t *transferTool) Description() string {
	return "Build an unsigned USDC transfer payload for the caller to sign and broadcast."
}
func (t *transferTool) Schema() Schema {
	return Schema{
		Required: []string{"toAddress", "amount"},
		Properties: map[string]Property{
			"toAddress":   {Type: "string", Description: "Recipient address."},
			"amount":      {Type: "number", Description: "USDC amount in display units."},
			"fromAddress": {Type: "string", Description: "Sender; defaults to the caller's wallet."},
		},
	}
}

func (t *transferTool) NewParams() any { return &TransferParams{} }

func (t *transferTool) Execute(ctx context.Context, params any, caller Caller) (any, error) {
	p := params.(*TransferParams)
	from := p.FromAddress
	if from == "" {
		from = caller.Address
	}

	payload, err := t.deps.Builder.BuildTransfer(from, p.ToAddress, string(p.Amount))
	if err != nil {
		var verr *txpayload.ValidationError
		if errors.As(err, &verr) {
			return TransferResult{Success: false, Error: verr.Error()}, nil
		}
		return nil, err
	}

	result := TransferResult{Success: true, Payload: payload}

	// Best-effort enrichment: payload stands even if the estimate fails.
	if gasPrice, gerr := t.deps.Reader.GasPrice(ctx); gerr == nil {
		units := gasUnitsFor("transfer")
		costEth := weiToEth(new(big.Int).Mul(gasPrice, big.NewInt(units)))
		result.GasEstimate = fmt.Sprintf("%d", units)
		result.TotalCost = fmt.Sprintf("%s USDC + %.8f ETH gas", p.Amount, costEth)
	}
	return result, nil
}

// --- estimate_gas ---

type gasTool struct{ deps Deps }

// GasEstimate is the estimate_gas payload.
type GasEstimate struct {
	TransactionType string  `json:"transactionType"`
	GasEstimate     int64   `json:"gasEstimate"`
	GasPriceGwei    float64 `json:"gasPrice"`
	CostInEth       float64 `json:"costInEth"`
	CostInUsd       float64 `json:"costInUsd"`
}

// gasUnits holds fixed unit budgets per transaction type.
var gasUnits = map[string]int64{
	"transfer": 65_000,
	"approve":  46_000,
	"swap":     150_000,
	"stake":    120_000,
	"unstake":  110_000,
}

// gasUnitsFor treats unrecognized types as a generic transfer.
func gasUnitsFor(txType string) int64 {
	if units, ok := gasUnits[strings.ToLower(strings.TrimSpace(txType))]; ok {
		return units
	}
	return gasUnits["transfer"]
}

func (t *gasTool) Name() string { return NameEstimateGas }
func (t *gasTool) Description() string {
	return "Estimate gas cost for a transaction type at the current gas price."
}
func (t *gasTool) Schema() Schema {
	return Schema{
		Required: []string{"transactionType"},
		Properties: map[string]Property{
			"transactionType": {Type: "string", Description: "One of transfer, approve, swap, stake, unstake."},
			"amount":          {Type: "number", Description: "Optional amount for context."},
		},
	}
}

func (t *gasTool) NewParams() any { return &GasParams{} }

func (t *gasTool) Execute(ctx context.Context, params any, caller Caller) (any, error) {
	txType := params.(*GasParams).TransactionType
	units := gasUnitsFor(txType)
	if _, known := gasUnits[strings.ToLower(strings.TrimSpace(txType))]; !known {
		txType = "transfer"
	}

	gasPrice, err := t.deps.Reader.GasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading gas price: %w", err)
	}

	costEth := weiToEth(new(big.Int).Mul(gasPrice, big.NewInt(units)))
	return GasEstimate{
		TransactionType: strings.ToLower(strings.TrimSpace(txType)),
		GasEstimate:     units,
		GasPriceGwei:    weiToGwei(gasPrice),
		CostInEth:       costEth,
		CostInUsd:       costEth * t.deps.EthPriceUSD,
	}, nil
}

// --- get_network_status ---

type statusTool struct{ deps Deps }

// NetworkStatus is the get_network_status payload.
type NetworkStatus struct {
	Name        string    `json:"name"`
	ChainID     int64     `json:"chainId"`
	BlockNumber uint64    `json:"blockNumber"`
	GasPrice    float64   `json:"gasPrice"` // gwei
	IsHealthy   bool      `json:"isHealthy"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func (t *statusTool) Name() string { return NameNetworkStatus }
func (t *statusTool) Description() string {
	return "Report chain head, gas price, and health of the active network."
}
func (t *statusTool) Schema() Schema { return Schema{} }
func (t *statusTool) NewParams() any { return &StatusParams{} }

// Execute degrades to an unhealthy report with the static chain id instead
// of propagating upstream failures.
func (t *statusTool) Execute(ctx context.Context, params any, caller Caller) (any, error) {
	status := NetworkStatus{
		Name:        t.deps.Network.NetworkName,
		ChainID:     t.deps.Network.ChainID,
		LastUpdated: time.Now().UTC(),
	}

	block, err := t.deps.Reader.BlockNumber(ctx)
	if err != nil {
		return status, nil
	}
	gasPrice, err := t.deps.Reader.GasPrice(ctx)
	if err != nil {
		return status, nil
	}
	if id, err := t.deps.Reader.ChainID(ctx); err == nil {
		status.ChainID = id
	}

	status.BlockNumber = block
	status.GasPrice = weiToGwei(gasPrice)
	status.IsHealthy = true
	return status, nil
}

// --- get_yield_opportunities ---

type yieldsTool struct{}

func (t *yieldsTool) Name() string { return NameYields }
func (t *yieldsTool) Description() string {
	return "List current USDC yield opportunities, optionally filtered by APY or risk."
}
func (t *yieldsTool) Schema() Schema {
	return Schema{Properties: map[string]Property{
		"minApy":    {Type: "number", Description: "Minimum APY in percent."},
		"riskLevel": {Type: "string", Description: "low, medium, or high."},
	}}
}

func (t *yieldsTool) NewParams() any { return &YieldParams{} }

func (t *yieldsTool) Execute(ctx context.Context, params any, caller Caller) (any, error) {
	p := params.(*YieldParams)
	risk := strings.ToLower(p.RiskLevel)

	// An empty filtered result is a valid answer, not an error.
	out := make([]Opportunity, 0, len(yieldCatalog))
	for _, opp := range yieldCatalog {
		if p.MinAPY != nil && opp.APY < *p.MinAPY {
			continue
		}
		if risk != "" && opp.Risk != risk {
			continue
		}
		out = append(out, opp)
	}
	return out, nil
}

// --- get_protocol_info ---

type protocolsTool struct{}

func (t *protocolsTool) Name() string { return NameProtocolInfo }
func (t *protocolsTool) Description() string {
	return "Describe supported DeFi protocols, optionally filtered by name."
}
func (t *protocolsTool) Schema() Schema {
	return Schema{Properties: map[string]Property{
		"protocolName": {Type: "string", Description: "Case-insensitive substring filter."},
	}}
}

func (t *protocolsTool) NewParams() any { return &ProtocolParams{} }

func (t *protocolsTool) Execute(ctx context.Context, params any, caller Caller) (any, error) {
	name := strings.ToLower(params.(*ProtocolParams).ProtocolName)

	out := make([]ProtocolInfo, 0, len(protocolCatalog))
	for _, p := range protocolCatalog {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// --- validate_address ---

type validateTool struct{ deps Deps }

// AddressValidation is the validate_address payload.
type AddressValidation struct {
	IsValid         bool   `json:"isValid"`
	ChecksumAddress string `json:"checksumAddress,omitempty"`
	Type            string `json:"type,omitempty"` // "account" | "contract"
}

func (t *validateTool) Name() string { return NameValidateAddr }
func (t *validateTool) Description() string {
	return "Check address format, compute its checksum form, and detect contracts."
}
func (t *validateTool) Schema() Schema {
	return Schema{
		Required:   []string{"address"},
		Properties: map[string]Property{"address": {Type: "string"}},
	}
}

func (t *validateTool) NewParams() any { return &ValidateParams{} }

func (t *validateTool) Execute(ctx context.Context, params any, caller Caller) (any, error) {
	addr := params.(*ValidateParams).Address

	// Format pre-check short-circuits without a network round trip.
	if !txpayload.IsHexAddress(addr) {
		return AddressValidation{IsValid: false}, nil
	}

	checksum, err := txpayload.ChecksumAddress(addr)
	if err != nil {
		return AddressValidation{IsValid: false}, nil
	}

	result := AddressValidation{IsValid: true, ChecksumAddress: checksum}
	if code, err := t.deps.Reader.Code(ctx, addr); err == nil {
		if code == "0x" || code == "" {
			result.Type = "account"
		} else {
			result.Type = "contract"
		}
	}
	return result, nil
}

// --- shared unit helpers ---

func weiToEth(wei *big.Int) float64 {
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18)).Float64()
	return f
}

func weiToGwei(wei *big.Int) float64 {
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e9)).Float64()
	return f
}
