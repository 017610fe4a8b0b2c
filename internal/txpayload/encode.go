// Package txpayload builds ERC-20 call payloads by hand. The byte layout is
// fixed (4-byte selector, 32-byte left-padded parameters), so the encoding
// is done on hex strings directly rather than through a contract-binding
// library.
package txpayload

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// Method selectors: first 4 bytes of keccak256 of the canonical signature.
const (
	// transfer(address,uint256)
	TransferSelector = "0xa9059cbb"
	// approve(address,uint256)
	ApproveSelector = "0x095ea7b3"
)

const wordHexLen = 64 // one 32-byte ABI word in hex characters

var hexAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsHexAddress reports whether s is a 20-byte hex address with 0x prefix.
func IsHexAddress(s string) bool {
	return hexAddressRe.MatchString(s)
}

// encodeAddress left-pads an address to a 32-byte ABI word.
func encodeAddress(addr string) string {
	stripped := strings.ToLower(strings.TrimPrefix(addr, "0x"))
	return strings.Repeat("0", wordHexLen-len(stripped)) + stripped
}

// encodeUint256 encodes a non-negative integer as a 32-byte ABI word.
func encodeUint256(n *big.Int) string {
	h := n.Text(16)
	return strings.Repeat("0", wordHexLen-len(h)) + h
}

// EncodeTransfer produces the calldata for transfer(to, amount).
// amount is in the token's smallest unit.
func EncodeTransfer(to string, amount *big.Int) string {
	return TransferSelector + encodeAddress(to) + encodeUint256(amount)
}

// EncodeApprove produces the calldata for approve(spender, amount).
func EncodeApprove(spender string, amount *big.Int) string {
	return ApproveSelector + encodeAddress(spender) + encodeUint256(amount)
}

// DecodedCall is the result of decoding transfer/approve calldata.
type DecodedCall struct {
	Selector string
	Address  string // recipient or spender
	Amount   *big.Int
}

// Decode parses calldata produced by EncodeTransfer or EncodeApprove.
func Decode(data string) (DecodedCall, error) {
	if len(data) != len(TransferSelector)+2*wordHexLen {
		return DecodedCall{}, fmt.Errorf("calldata length %d, want %d", len(data), len(TransferSelector)+2*wordHexLen)
	}
	selector := data[:len(TransferSelector)]
	if selector != TransferSelector && selector != ApproveSelector {
		return DecodedCall{}, fmt.Errorf("unknown selector %q", selector)
	}

	addrWord := data[len(selector) : len(selector)+wordHexLen]
	amountWord := data[len(selector)+wordHexLen:]

	amount, ok := new(big.Int).SetString(amountWord, 16)
	if !ok {
		return DecodedCall{}, fmt.Errorf("malformed amount word %q", amountWord)
	}

	return DecodedCall{
		Selector: selector,
		Address:  "0x" + addrWord[wordHexLen-40:],
		Amount:   amount,
	}, nil
}
