package txpayload

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/soyeahso/pocketfi/internal/domain"
)

// Violation messages. Kept as constants so tests and user-facing error
// lists stay stable.
const (
	ViolationBadSender    = "Invalid sender address"
	ViolationBadRecipient = "Invalid recipient address"
	ViolationBadSpender   = "Invalid spender address"
	ViolationBadAmount    = "Amount must be greater than zero"
	ViolationAmountWidth  = "Amount does not fit in a 256-bit word"
	ViolationSelfTransfer = "Sender and recipient must differ"
)

// Builder constructs token transfer and approval payloads for one network.
type Builder struct {
	net     domain.NetworkConfig
	ceiling *big.Int // max transfer in smallest units, nil for no limit
}

// NewBuilder creates a payload builder. maxTransfer is the hard safety
// ceiling in display units; zero or negative disables it.
func NewBuilder(net domain.NetworkConfig, maxTransfer float64) *Builder {
	b := &Builder{net: net}
	if maxTransfer > 0 {
		ceiling, err := ParseAmount(fmt.Sprintf("%g", maxTransfer), net.Decimals)
		if err == nil {
			b.ceiling = ceiling
		}
	}
	return b
}

// Network returns the network the builder encodes for.
func (b *Builder) Network() domain.NetworkConfig { return b.net }

// Recipient is one entry in a batch transfer.
type Recipient struct {
	To     string
	Amount string // display units
}

// BuildTransfer constructs a single-call transfer payload. All violated
// invariants are reported together in one ValidationError.
func (b *Builder) BuildTransfer(from, to, amount string) (*domain.TransactionPayload, error) {
	var violations []string

	if !IsHexAddress(from) {
		violations = append(violations, ViolationBadSender)
	}
	if !IsHexAddress(to) {
		violations = append(violations, ViolationBadRecipient)
	}
	if IsHexAddress(from) && IsHexAddress(to) && strings.EqualFold(from, to) {
		violations = append(violations, ViolationSelfTransfer)
	}

	units, amountViolations := b.parseAndCheckAmount(amount)
	violations = append(violations, amountViolations...)

	if err := newValidationError(violations); err != nil {
		return nil, err
	}

	return &domain.TransactionPayload{
		Version: domain.PayloadVersion,
		From:    from,
		ChainID: b.net.ChainID,
		Calls: []domain.Call{{
			To:    b.net.TokenAddress,
			Data:  EncodeTransfer(to, units),
			Value: "0x0",
		}},
	}, nil
}

// BuildApprove constructs an approval payload for the given spender.
func (b *Builder) BuildApprove(from, spender, amount string) (*domain.TransactionPayload, error) {
	var violations []string

	if !IsHexAddress(from) {
		violations = append(violations, ViolationBadSender)
	}
	if !IsHexAddress(spender) {
		violations = append(violations, ViolationBadSpender)
	}

	units, amountViolations := b.parseAndCheckAmount(amount)
	violations = append(violations, amountViolations...)

	if err := newValidationError(violations); err != nil {
		return nil, err
	}

	return &domain.TransactionPayload{
		Version: domain.PayloadVersion,
		From:    from,
		ChainID: b.net.ChainID,
		Calls: []domain.Call{{
			To:    b.net.TokenAddress,
			Data:  EncodeApprove(spender, units),
			Value: "0x0",
		}},
	}, nil
}

// BuildBatchTransfer constructs one call per recipient. The returned total
// is for display only; balance sufficiency is the chain's business at
// broadcast time, not validated here.
func (b *Builder) BuildBatchTransfer(from string, recipients []Recipient) (*domain.TransactionPayload, *big.Int, error) {
	var violations []string

	if !IsHexAddress(from) {
		violations = append(violations, ViolationBadSender)
	}
	if len(recipients) == 0 {
		violations = append(violations, "At least one recipient is required")
	}

	total := new(big.Int)
	calls := make([]domain.Call, 0, len(recipients))
	for i, r := range recipients {
		if !IsHexAddress(r.To) {
			violations = append(violations, fmt.Sprintf("%s (recipient %d)", ViolationBadRecipient, i+1))
			continue
		}
		if IsHexAddress(from) && strings.EqualFold(from, r.To) {
			violations = append(violations, fmt.Sprintf("%s (recipient %d)", ViolationSelfTransfer, i+1))
			continue
		}
		units, amountViolations := b.parseAndCheckAmount(r.Amount)
		if len(amountViolations) > 0 {
			for _, v := range amountViolations {
				violations = append(violations, fmt.Sprintf("%s (recipient %d)", v, i+1))
			}
			continue
		}
		total.Add(total, units)
		calls = append(calls, domain.Call{
			To:    b.net.TokenAddress,
			Data:  EncodeTransfer(r.To, units),
			Value: "0x0",
		})
	}

	if err := newValidationError(violations); err != nil {
		return nil, nil, err
	}

	return &domain.TransactionPayload{
		Version: domain.PayloadVersion,
		From:    from,
		ChainID: b.net.ChainID,
		Calls:   calls,
	}, total, nil
}

// parseAndCheckAmount converts a display amount and applies the positive
// and ceiling rules.
func (b *Builder) parseAndCheckAmount(amount string) (*big.Int, []string) {
	units, err := ParseAmount(amount, b.net.Decimals)
	if err != nil {
		return nil, []string{ViolationBadAmount}
	}
	if units.Sign() <= 0 {
		return nil, []string{ViolationBadAmount}
	}
	// One ABI word is the hard upper bound regardless of any configured
	// ceiling; a wider amount cannot be encoded.
	if units.BitLen() > 256 {
		return nil, []string{ViolationAmountWidth}
	}
	if b.ceiling != nil && units.Cmp(b.ceiling) > 0 {
		return nil, []string{fmt.Sprintf("Amount exceeds the %s %s safety ceiling",
			FormatAmount(b.ceiling, b.net.Decimals), b.net.TokenSymbol)}
	}
	return units, nil
}
