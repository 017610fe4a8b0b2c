package chain

import (
	"context"
	"math/big"
)

// MockReader is a test double for Reader. Zero-valued fields return zeros;
// Err, when set, is returned by every method.
type MockReader struct {
	TokenBalanceValue  *big.Int
	NativeBalanceValue *big.Int
	GasPriceValue      *big.Int
	BlockNumberValue   uint64
	ChainIDValue       int64
	CodeValue          string
	Err                error
}

func (m *MockReader) TokenBalance(ctx context.Context, token, addr string) (*big.Int, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return orZero(m.TokenBalanceValue), nil
}

func (m *MockReader) NativeBalance(ctx context.Context, addr string) (*big.Int, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return orZero(m.NativeBalanceValue), nil
}

func (m *MockReader) GasPrice(ctx context.Context) (*big.Int, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return orZero(m.GasPriceValue), nil
}

func (m *MockReader) BlockNumber(ctx context.Context) (uint64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.BlockNumberValue, nil
}

func (m *MockReader) ChainID(ctx context.Context) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.ChainIDValue, nil
}

func (m *MockReader) Code(ctx context.Context, addr string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.CodeValue == "" {
		return "0x", nil
	}
	return m.CodeValue, nil
}

func orZero(n *big.Int) *big.Int {
	if n == nil {
		return big.NewInt(0)
	}
	return n
}
