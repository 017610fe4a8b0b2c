package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// balanceOf(address)
const balanceOfSelector = "0x70a08231"

// RPCReader is a Reader backed by a JSON-RPC endpoint.
type RPCReader struct {
	endpoint string
	client   *http.Client
	reqID    atomic.Int64
}

// NewRPCReader creates a reader for the given JSON-RPC endpoint.
func NewRPCReader(endpoint string) *RPCReader {
	return &RPCReader{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// call performs one JSON-RPC request and decodes the result into a string
// (all methods used here return quantity or data hex strings).
func (r *RPCReader) call(ctx context.Context, method string, params ...any) (string, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      r.reqID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("RPC error (%d): %s", resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if rpcResp.Error != nil {
		return "", rpcResp.Error
	}

	var result string
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return "", fmt.Errorf("unexpected result shape: %w", err)
	}
	return result, nil
}

func (r *RPCReader) TokenBalance(ctx context.Context, token, addr string) (*big.Int, error) {
	stripped := strings.ToLower(strings.TrimPrefix(addr, "0x"))
	data := balanceOfSelector + strings.Repeat("0", 64-len(stripped)) + stripped

	result, err := r.call(ctx, "eth_call", map[string]string{"to": token, "data": data}, "latest")
	if err != nil {
		return nil, err
	}
	return parseHexBig(result)
}

func (r *RPCReader) NativeBalance(ctx context.Context, addr string) (*big.Int, error) {
	result, err := r.call(ctx, "eth_getBalance", addr, "latest")
	if err != nil {
		return nil, err
	}
	return parseHexBig(result)
}

func (r *RPCReader) GasPrice(ctx context.Context) (*big.Int, error) {
	result, err := r.call(ctx, "eth_gasPrice")
	if err != nil {
		return nil, err
	}
	return parseHexBig(result)
}

func (r *RPCReader) BlockNumber(ctx context.Context) (uint64, error) {
	result, err := r.call(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	n, err := parseHexBig(result)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func (r *RPCReader) ChainID(ctx context.Context) (int64, error) {
	result, err := r.call(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	n, err := parseHexBig(result)
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

func (r *RPCReader) Code(ctx context.Context, addr string) (string, error) {
	return r.call(ctx, "eth_getCode", addr, "latest")
}

// parseHexBig decodes a 0x-prefixed quantity or 32-byte data word.
func parseHexBig(s string) (*big.Int, error) {
	stripped := strings.TrimPrefix(s, "0x")
	if stripped == "" {
		return big.NewInt(0), nil
	}
	n, ok := new(big.Int).SetString(stripped, 16)
	if !ok {
		return nil, fmt.Errorf("malformed hex quantity %q", s)
	}
	return n, nil
}
