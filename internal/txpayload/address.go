package txpayload

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ChecksumAddress returns the EIP-55 mixed-case form of a hex address.
func ChecksumAddress(addr string) (string, error) {
	if !IsHexAddress(addr) {
		return "", fmt.Errorf("not a hex address: %q", addr)
	}
	lower := strings.ToLower(strings.TrimPrefix(addr, "0x"))

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	hash := h.Sum(nil)

	out := make([]byte, len(lower))
	for i, c := range []byte(lower) {
		if c >= 'a' && c <= 'f' {
			// Uppercase when the corresponding hash nibble is >= 8.
			nibble := hash[i/2]
			if i%2 == 0 {
				nibble >>= 4
			}
			if nibble&0x0f >= 8 {
				c = c - 'a' + 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out), nil
}
