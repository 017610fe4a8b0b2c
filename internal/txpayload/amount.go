package txpayload

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// decimalRe accepts plain decimal notation only. big.Rat.SetString would
// also take hex, exponent, and fraction forms, none of which belong in a
// user-facing amount.
var decimalRe = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// ParseAmount converts a human-readable decimal amount to the token's
// smallest unit: amount * 10^decimals, floored. Sub-unit precision is
// intentionally lost, matching on-chain integer semantics.
func ParseAmount(display string, decimals int) (*big.Int, error) {
	display = strings.TrimSpace(display)
	if !decimalRe.MatchString(display) {
		return nil, fmt.Errorf("not a decimal number: %q", display)
	}
	r, ok := new(big.Rat).SetString(display)
	if !ok {
		return nil, fmt.Errorf("not a decimal number: %q", display)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(scale))

	// Floor toward zero is fine: negative amounts are rejected by the
	// builder before encoding.
	return new(big.Int).Quo(scaled.Num(), scaled.Denom()), nil
}

// FormatAmount renders a smallest-unit amount back to display units.
func FormatAmount(units *big.Int, decimals int) string {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(units, scale, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	fracStr := fmt.Sprintf("%0*s", decimals, frac.String())
	fracStr = strings.TrimRight(fracStr, "0")
	return whole.String() + "." + fracStr
}
