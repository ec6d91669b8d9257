package rpc

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// ChainID calls eth_chainId.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	return c.callUint64(ctx, "eth_chainId")
}

// BlockNumber calls eth_blockNumber and returns the current head.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.callUint64(ctx, "eth_blockNumber")
}

// BlockByNumber calls eth_getBlockByNumber with full transaction objects.
// It returns (nil, nil) when the node answers null, e.g. for a number past
// its head.
func (c *Client) BlockByNumber(ctx context.Context, number uint64) (*Block, error) {
	const method = "eth_getBlockByNumber"

	raw, err := c.Call(ctx, method, hexutil.EncodeUint64(number), true)
	if err != nil {
		return nil, err
	}

	if isNull(raw) {
		return nil, nil
	}

	var block Block
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, &CallError{Method: method, Type: ErrorTypeParseError, Err: errors.WithMessage(err, "failed to parse block")}
	}
	return &block, nil
}

func (c *Client) callUint64(ctx context.Context, method string) (uint64, error) {
	raw, err := c.Call(ctx, method)
	if err != nil {
		return 0, err
	}

	var n hexutil.Uint64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, &CallError{Method: method, Type: ErrorTypeParseError, Err: errors.WithMessage(err, "failed to parse quantity")}
	}
	return uint64(n), nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
