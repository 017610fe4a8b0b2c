package txpayload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Vectors from EIP-55.
var checksumVectors = []string{
	"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
}

func TestChecksumAddress_Vectors(t *testing.T) {
	for _, want := range checksumVectors {
		got, err := ChecksumAddress(strings.ToLower(want))
		require.NoError(t, err, want)
		assert.Equal(t, want, got)
	}
}

func TestChecksumAddress_Idempotent(t *testing.T) {
	got, err := ChecksumAddress(checksumVectors[0])
	require.NoError(t, err)
	assert.Equal(t, checksumVectors[0], got)
}

func TestChecksumAddress_Invalid(t *testing.T) {
	_, err := ChecksumAddress("0x123")
	assert.Error(t, err)
}
