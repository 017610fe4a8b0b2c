package txpayload

import (
	"math/big"
	"strings"
	"testing"

	"github.com/soyeahso/pocketfi/internal/domain"
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

// --- Encoding ---

func TestEncodeTransfer_KnownVector(t *testing.T) {
	data := EncodeTransfer(addrB, big.NewInt(1_000_000)) // 1 USDC
	assert.Equal(t,
		"0xa9059cbb"+
			"0000000000000000000000002222222222222222222222222222222222222222"+
			"00000000000000000000000000000000000000000000000000000000000f4240",
		data)
}

func TestEncodeApprove_KnownVector(t *testing.T) {
	data := EncodeApprove(addrA, big.NewInt(255))
	assert.Equal(t,
		"0x095ea7b3"+
			"0000000000000000000000001111111111111111111111111111111111111111"+
			"00000000000000000000000000000000000000000000000000000000000000ff",
		data)
}

func TestEncode_DataLength(t *testing.T) {
	data := EncodeTransfer(addrB, big.NewInt(1))
	// 0x + 8 selector + 64 recipient + 64 amount
	assert.Len(t, data, 2+8+64+64)
	assert.True(t, strings.HasPrefix(data, TransferSelector))
}

func TestEncode_MixedCaseAddressNormalized(t *testing.T) {
	upper := "0xABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD"
	lower := strings.ToLower(upper)
	assert.Equal(t, EncodeTransfer(lower, big.NewInt(7)), EncodeTransfer(upper, big.NewInt(7)))
}

func TestDecode_RoundTrip(t *testing.T) {
	amount := big.NewInt(123_456_789)
	data := EncodeTransfer(addrB, amount)

	dec, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, TransferSelector, dec.Selector)
	assert.Equal(t, addrB, dec.Address)
	assert.Equal(t, 0, dec.Amount.Cmp(amount))
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode("0xdeadbeef")
	assert.Error(t, err)

	_, err = Decode("0x00000000" + strings.Repeat("0", 128))
	assert.Error(t, err, "unknown selector")
}

// --- Amount parsing ---

func TestParseAmount_FloorsSubUnitPrecision(t *testing.T) {
	tests := []struct {
		display string
		want    int64
	}{
		{"1", 1_000_000},
		{"0.5", 500_000},
		{"10.123456", 10_123_456},
		{"10.1234567", 10_123_456}, // 7th decimal floored away
		{"0.0000001", 0},
		{"0.000001", 1},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.display, 6)
		require.NoError(t, err, tt.display)
		assert.Equal(t, tt.want, got.Int64(), tt.display)
	}
}

func TestParseAmount_Garbage(t *testing.T) {
	for _, bad := range []string{"", "ten", "1.2.3", "0x10", "1e5", "3/2", ".5", "1."} {
		_, err := ParseAmount(bad, 6)
		assert.Error(t, err, bad)
	}
}

func TestFormatAmount_RoundTrip(t *testing.T) {
	// parse → format reproduces floor(display * 10^d) / 10^d
	units, err := ParseAmount("10.1234567", 6)
	require.NoError(t, err)
	assert.Equal(t, "10.123456", FormatAmount(units, 6))

	units, err = ParseAmount("25", 6)
	require.NoError(t, err)
	assert.Equal(t, "25", FormatAmount(units, 6))
}

// --- Builder ---

func newTestBuilder() *Builder { return NewBuilder(testNet, 10000) }

func TestBuildTransfer_Valid(t *testing.T) {
	p, err := newTestBuilder().BuildTransfer(addrA, addrB, "12.5")
	require.NoError(t, err)

	assert.Equal(t, domain.PayloadVersion, p.Version)
	assert.Equal(t, addrA, p.From)
	assert.Equal(t, int64(8453), p.ChainID)
	require.Len(t, p.Calls, 1)

	call := p.Calls[0]
	assert.Equal(t, testNet.TokenAddress, call.To)
	assert.Equal(t, "0x0", call.Value)
	assert.True(t, strings.HasPrefix(call.Data, TransferSelector))

	dec, err := Decode(call.Data)
	require.NoError(t, err)
	assert.Equal(t, int64(12_500_000), dec.Amount.Int64())
}

func TestBuildTransfer_ShortRecipient(t *testing.T) {
	// 39-char address: one hex digit short
	_, err := newTestBuilder().BuildTransfer(addrA, "0xABCDEF000000000000000000000000000001234", "10")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, ViolationBadRecipient)
}

func TestBuildTransfer_AllViolationsReported(t *testing.T) {
	_, err := newTestBuilder().BuildTransfer("nope", "alsonope", "-3")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, ViolationBadSender)
	assert.Contains(t, verr.Violations, ViolationBadRecipient)
	assert.Contains(t, verr.Violations, ViolationBadAmount)
	assert.Len(t, verr.Violations, 3)
}

func TestBuildTransfer_AmountWiderThanWord(t *testing.T) {
	// With the ceiling disabled, an amount past 2^256-1 must fail
	// validation instead of reaching the encoder.
	huge := "1" + strings.Repeat("0", 100)
	_, err := NewBuilder(testNet, 0).BuildTransfer(addrA, addrB, huge)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, ViolationAmountWidth)
}

func TestBuildTransfer_SelfTransfer(t *testing.T) {
	mixed := "0xAbCd000000000000000000000000000000001234"
	_, err := newTestBuilder().BuildTransfer(strings.ToLower(mixed), mixed, "1")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, ViolationSelfTransfer)
}

func TestBuildTransfer_ZeroAmount(t *testing.T) {
	for _, amt := range []string{"0", "-1", "0.0000001"} {
		_, err := newTestBuilder().BuildTransfer(addrA, addrB, amt)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, amt)
		assert.Contains(t, verr.Violations, ViolationBadAmount, amt)
	}
}

func TestBuildTransfer_Ceiling(t *testing.T) {
	b := newTestBuilder()

	_, err := b.BuildTransfer(addrA, addrB, "10000")
	assert.NoError(t, err, "at the ceiling is allowed")

	_, err = b.BuildTransfer(addrA, addrB, "10000.01")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Contains(t, verr.Violations[0], "ceiling")
}

func TestBuildApprove(t *testing.T) {
	p, err := newTestBuilder().BuildApprove(addrA, addrB, "100")
	require.NoError(t, err)
	require.Len(t, p.Calls, 1)
	assert.True(t, strings.HasPrefix(p.Calls[0].Data, ApproveSelector))
	assert.Equal(t, "0x0", p.Calls[0].Value)
}

func TestBuildBatchTransfer(t *testing.T) {
	addrC := "0x3333333333333333333333333333333333333333"
	p, total, err := newTestBuilder().BuildBatchTransfer(addrA, []Recipient{
		{To: addrB, Amount: "1.5"},
		{To: addrC, Amount: "2.5"},
	})
	require.NoError(t, err)
	require.Len(t, p.Calls, 2)
	assert.Equal(t, int64(4_000_000), total.Int64())

	for _, call := range p.Calls {
		assert.Equal(t, "0x0", call.Value)
		assert.Equal(t, testNet.TokenAddress, call.To)
	}
}

func TestBuildBatchTransfer_ReportsPerRecipient(t *testing.T) {
	_, _, err := newTestBuilder().BuildBatchTransfer(addrA, []Recipient{
		{To: addrB, Amount: "1"},
		{To: "bogus", Amount: "1"},
		{To: addrA, Amount: "1"},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)
}

func TestBuildBatchTransfer_Empty(t *testing.T) {
	_, _, err := newTestBuilder().BuildBatchTransfer(addrA, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestIsHexAddress(t *testing.T) {
	assert.True(t, IsHexAddress(addrA))
	assert.True(t, IsHexAddress("0xAbCd1111111111111111111111111111111111Ff"))
	assert.False(t, IsHexAddress("1111111111111111111111111111111111111111"))
	assert.False(t, IsHexAddress("0x111"))
	assert.False(t, IsHexAddress("0xZZ11111111111111111111111111111111111111"))
}
