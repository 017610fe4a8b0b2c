// Package chain gives the engine read-only access to chain state. The
// engine never broadcasts anything; payload construction and broadcasting
// are separate concerns.
package chain

import (
	"context"
	"math/big"
)

// Reader is the capability interface the engine consumes. Implementations
// must be safe for concurrent use.
type Reader interface {
	// TokenBalance returns the ERC-20 balance of addr in smallest units.
	TokenBalance(ctx context.Context, token, addr string) (*big.Int, error)

	// NativeBalance returns the native coin balance of addr in wei.
	NativeBalance(ctx context.Context, addr string) (*big.Int, error)

	// GasPrice returns the current gas price in wei.
	GasPrice(ctx context.Context) (*big.Int, error)

	// BlockNumber returns the latest block number.
	BlockNumber(ctx context.Context) (uint64, error)

	// ChainID returns the chain identifier.
	ChainID(ctx context.Context) (int64, error)

	// Code returns the deployed bytecode at addr ("0x" for an EOA).
	Code(ctx context.Context, addr string) (string, error)
}
