package tool

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/soyeahso/pocketfi/internal/chain"
	"github.com/soyeahso/pocketfi/internal/domain"
	"github.com/soyeahso/pocketfi/internal/logging"
	"github.com/soyeahso/pocketfi/internal/txpayload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNet = domain.NetworkConfig{
	NetworkName:  "Base",
	ChainID:      8453,
	TokenAddress: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
	TokenSymbol:  "USDC",
	Decimals:     6,
}

const (
	addrA = "0x1111111111111111111111111111111111111111"
	addrB = "0x2222222222222222222222222222222222222222"
)

func testDeps(reader chain.Reader) Deps {
	return Deps{
		Reader:      reader,
		Builder:     txpayload.NewBuilder(testNet, 10000),
		Network:     testNet,
		EthPriceUSD: 2500,
	}
}

func healthyReader() *chain.MockReader {
	return &chain.MockReader{
		TokenBalanceValue:  big.NewInt(25_000_000),        // 25 USDC
		NativeBalanceValue: big.NewInt(2_000_000_000_000_000_000), // 2 ETH
		GasPriceValue:      big.NewInt(1_000_000_000),     // 1 gwei
		BlockNumberValue:   1234,
		ChainIDValue:       8453,
	}
}


// runTool decodes args the way the executor does, then runs the tool.
func runTool(t *testing.T, tl Tool, args map[string]any, caller Caller) (any, error) {
	t.Helper()
	params, err := DecodeParams(tl, args)
	require.NoError(t, err)
	return tl.Execute(context.Background(), params, caller)
}

// --- Registry ---

func TestRegistry_FailsClosed(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))

	_, err := reg.Get("definitely_not_a_tool")
	var uerr *UnknownToolError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "definitely_not_a_tool", uerr.Name)
}

func TestRegistry_AllToolsRegistered(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	assert.Equal(t, []string{
		NameCreateTransfer,
		NameEstimateGas,
		NameGetBalance,
		NameNetworkStatus,
		NameProtocolInfo,
		NameYields,
		NameValidateAddr,
	}, reg.Names())
}

func TestRegistry_Definitions(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	defs := reg.Definitions()
	require.Len(t, defs, 7)
	for _, d := range defs {
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.Description)
	}
}

// --- get_balance ---

func TestBalance_UsesCallerIdentity(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, err := reg.Get(NameGetBalance)
	require.NoError(t, err)

	out, err := runTool(t, tl, nil, Caller{Address: addrA})
	require.NoError(t, err)

	res := out.(BalanceResult)
	assert.Equal(t, "25", res.USDC)
	assert.Equal(t, "2", res.ETH)
	assert.Equal(t, addrA, res.Address)
	assert.Equal(t, "Base", res.Network)
}

func TestBalance_MissingAddress(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameGetBalance)

	_, err := runTool(t, tl, nil, Caller{})
	assert.ErrorIs(t, err, ErrMissingAddress)
}

func TestBalance_ExplicitAddressWins(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameGetBalance)

	out, err := runTool(t, tl, map[string]any{"address": addrB}, Caller{Address: addrA})
	require.NoError(t, err)
	assert.Equal(t, addrB, out.(BalanceResult).Address)
}

// --- create_transfer ---

func TestTransfer_Success(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameCreateTransfer)

	out, err := runTool(t, tl, map[string]any{"toAddress": addrB, "amount": 12.5}, Caller{Address: addrA})
	require.NoError(t, err)

	res := out.(TransferResult)
	assert.True(t, res.Success)
	require.NotNil(t, res.Payload)
	assert.NotEmpty(t, res.GasEstimate)
	assert.Contains(t, res.TotalCost, "12.5 USDC")
}

func TestTransfer_GasFailureStillSucceeds(t *testing.T) {
	// balance reads unused here; only GasPrice fails
	reader := &failingGasReader{MockReader: *healthyReader()}
	reg := DefaultRegistry(testDeps(reader))
	tl, _ := reg.Get(NameCreateTransfer)

	out, err := runTool(t, tl, map[string]any{"toAddress": addrB, "amount": "5"}, Caller{Address: addrA})
	require.NoError(t, err)

	res := out.(TransferResult)
	assert.True(t, res.Success)
	assert.NotNil(t, res.Payload)
	assert.Empty(t, res.GasEstimate)
	assert.Empty(t, res.TotalCost)
}

func TestTransfer_ValidationFailure(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameCreateTransfer)

	out, err := runTool(t, tl, map[string]any{"toAddress": "0xshort", "amount": "5"}, Caller{Address: addrA})
	require.NoError(t, err, "validation problems are reported in the result, not thrown")

	res := out.(TransferResult)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, txpayload.ViolationBadRecipient)
	assert.Nil(t, res.Payload)
}

type failingGasReader struct{ chain.MockReader }

func (r *failingGasReader) GasPrice(ctx context.Context) (*big.Int, error) {
	return nil, errors.New("rpc down")
}

// --- estimate_gas ---

func TestEstimateGas_KnownTypes(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameEstimateGas)

	out, err := runTool(t, tl, map[string]any{"transactionType": "swap"}, Caller{})
	require.NoError(t, err)

	res := out.(GasEstimate)
	assert.Equal(t, int64(150_000), res.GasEstimate)
	assert.InDelta(t, 1.0, res.GasPriceGwei, 0.001)
	assert.InDelta(t, 0.00015, res.CostInEth, 1e-9)
	assert.InDelta(t, 0.375, res.CostInUsd, 1e-6)
}

func TestEstimateGas_UnknownTypeFallsBackToTransfer(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameEstimateGas)

	out, err := runTool(t, tl, map[string]any{"transactionType": "teleport"}, Caller{})
	require.NoError(t, err)

	res := out.(GasEstimate)
	assert.Equal(t, "transfer", res.TransactionType)
	assert.Equal(t, int64(65_000), res.GasEstimate)
}

// --- get_network_status ---

func TestNetworkStatus_Healthy(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameNetworkStatus)

	out, err := runTool(t, tl, nil, Caller{})
	require.NoError(t, err)

	res := out.(NetworkStatus)
	assert.True(t, res.IsHealthy)
	assert.Equal(t, uint64(1234), res.BlockNumber)
	assert.Equal(t, int64(8453), res.ChainID)
}

func TestNetworkStatus_UpstreamFailure(t *testing.T) {
	reg := DefaultRegistry(testDeps(&chain.MockReader{Err: errors.New("down")}))
	tl, _ := reg.Get(NameNetworkStatus)

	out, err := runTool(t, tl, nil, Caller{})
	require.NoError(t, err, "upstream failure must not propagate")

	res := out.(NetworkStatus)
	assert.False(t, res.IsHealthy)
	assert.Equal(t, int64(8453), res.ChainID, "static fallback chain id")
}

// --- yields / protocols ---

func TestYields_Filters(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameYields)

	out, err := runTool(t, tl, map[string]any{"minApy": 5.0, "riskLevel": "medium"}, Caller{})
	require.NoError(t, err)

	opps := out.([]Opportunity)
	require.NotEmpty(t, opps)
	for _, o := range opps {
		assert.GreaterOrEqual(t, o.APY, 5.0)
		assert.Equal(t, "medium", o.Risk)
	}
}

func TestYields_EmptyResultIsValid(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameYields)

	out, err := runTool(t, tl, map[string]any{"minApy": 99.0}, Caller{})
	require.NoError(t, err)
	assert.Empty(t, out.([]Opportunity))
}

func TestProtocols_SubstringMatch(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameProtocolInfo)

	out, err := runTool(t, tl, map[string]any{"protocolName": "aA"}, Caller{})
	require.NoError(t, err)

	infos := out.([]ProtocolInfo)
	require.Len(t, infos, 1)
	assert.Equal(t, "Aave", infos[0].Name)
}

// --- validate_address ---

func TestValidateAddress_FormatShortCircuit(t *testing.T) {
	// reader errors on every call, but the format pre-check never reaches it
	reg := DefaultRegistry(testDeps(&chain.MockReader{Err: errors.New("must not be called")}))
	tl, _ := reg.Get(NameValidateAddr)

	out, err := runTool(t, tl, map[string]any{"address": "0x123"}, Caller{})
	require.NoError(t, err)
	assert.False(t, out.(AddressValidation).IsValid)
}

func TestValidateAddress_Valid(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameValidateAddr)

	out, err := runTool(t, tl, map[string]any{"address": "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}, Caller{})
	require.NoError(t, err)

	res := out.(AddressValidation)
	assert.True(t, res.IsValid)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", res.ChecksumAddress)
	assert.Equal(t, "account", res.Type)
}

func TestValidateAddress_Contract(t *testing.T) {
	reader := healthyReader()
	reader.CodeValue = "0x6080"
	reg := DefaultRegistry(testDeps(reader))
	tl, _ := reg.Get(NameValidateAddr)

	out, err := runTool(t, tl, map[string]any{"address": addrA}, Caller{})
	require.NoError(t, err)
	assert.Equal(t, "contract", out.(AddressValidation).Type)
}

// --- Executor ---

func TestExecutor_SiblingsIndependent(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	ex := NewExecutor(reg, time.Second, logging.New(nil, "silent"))

	calls := []domain.ToolCall{
		{ID: "1", Name: NameGetBalance},                    // fails: no identity
		{ID: "2", Name: NameNetworkStatus},                 // succeeds
		{ID: "3", Name: "nope"},                            // unknown tool
		{ID: "4", Name: NameValidateAddr, Arguments: map[string]any{"address": addrA}},
	}
	results := ex.ExecuteAll(context.Background(), calls, Caller{})
	require.Len(t, results, 4)

	assert.Equal(t, "1", results[0].ToolCallID)
	assert.True(t, results[0].Failed())
	assert.Contains(t, results[0].Error, "MissingAddress")

	assert.False(t, results[1].Failed())

	assert.True(t, results[2].Failed())
	assert.Contains(t, results[2].Error, "unknown tool")

	assert.False(t, results[3].Failed())
}

// --- Typed parameter decoding ---

func TestDecodeParams_MissingRequired(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameCreateTransfer)

	_, err := DecodeParams(tl, map[string]any{"toAddress": addrB})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required argument "amount"`)
}

func TestDecodeParams_WrongType(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameYields)

	_, err := DecodeParams(tl, map[string]any{"minApy": "not a number"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid arguments")
}

func TestDecodeParams_TransferTyped(t *testing.T) {
	reg := DefaultRegistry(testDeps(healthyReader()))
	tl, _ := reg.Get(NameCreateTransfer)

	// number and string amounts both land in the typed struct
	p, err := DecodeParams(tl, map[string]any{"toAddress": addrB, "amount": 12.5})
	require.NoError(t, err)
	assert.Equal(t, &TransferParams{ToAddress: addrB, Amount: "12.5"}, p)

	p, err = DecodeParams(tl, map[string]any{"toAddress": addrB, "amount": "0.25"})
	require.NoError(t, err)
	assert.Equal(t, Decimal("0.25"), p.(*TransferParams).Amount)
}

func TestExecutor_DecodeFailureIsErrorResult(t *testing.T) {
	// bad arguments stop at the decode boundary, not inside the executor
	reg := DefaultRegistry(testDeps(&chain.MockReader{Err: errors.New("must not be called")}))
	ex := NewExecutor(reg, time.Second, logging.New(nil, "silent"))

	results := ex.ExecuteAll(context.Background(), []domain.ToolCall{
		{ID: "1", Name: NameCreateTransfer, Arguments: map[string]any{"toAddress": addrB}},
	}, Caller{Address: addrA})
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
	assert.Contains(t, results[0].Error, "missing required argument")
}

func TestExecutor_TimeoutIsErrorResult(t *testing.T) {
	slow := &slowTool{}
	ex := NewExecutor(NewRegistry(slow), 20*time.Millisecond, logging.New(nil, "silent"))

	results := ex.ExecuteAll(context.Background(),
		[]domain.ToolCall{{ID: "1", Name: "slow"}}, Caller{})
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
}

type slowTool struct{}

func (s *slowTool) Name() string        { return "slow" }
func (s *slowTool) Description() string { return "sleeps" }
func (s *slowTool) Schema() Schema      { return Schema{} }
func (s *slowTool) NewParams() any      { return &StatusParams{} }
func (s *slowTool) Execute(ctx context.Context, params any, caller Caller) (any, error) {
	select {
	case <-time.After(time.Second):
		return "done", nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
