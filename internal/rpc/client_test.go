package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNode answers JSON-RPC requests from a method -> raw result table.
func fakeNode(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, ok := results[req.Method]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":` + result + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChainIDAndBlockNumber(t *testing.T) {
	srv := fakeNode(t, map[string]string{
		"eth_chainId":     `"0xaa36a7"`,
		"eth_blockNumber": `"0x172721e"`,
	})
	c := NewClient(ClientConfig{URL: srv.URL, Timeout: time.Second})

	id, err := c.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(11155111), id)

	head, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(24277534), head)
}

func TestBlockByNumberFullTransactions(t *testing.T) {
	srv := fakeNode(t, map[string]string{
		"eth_getBlockByNumber": `{
			"number": "0x10",
			"hash": "0xabc",
			"timestamp": "0x6783",
			"gasUsed": "0x5208",
			"gasLimit": "0x1c9c380",
			"baseFeePerGas": "0x2540be400",
			"transactions": [
				{"hash": "0x01", "type": "0x2", "gasPrice": "0x2e90edd000", "maxFeePerGas": "0x4a817c800", "maxPriorityFeePerGas": "0x77359400"},
				{"hash": "0x02", "type": "0x0", "gasPrice": "0x3b9aca00"}
			]
		}`,
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	block, err := c.BlockByNumber(context.Background(), 16)
	require.NoError(t, err)
	require.NotNil(t, block)

	assert.Equal(t, uint64(16), uint64(block.Number))
	assert.Equal(t, big.NewInt(10_000_000_000), block.BaseFee())
	require.Len(t, block.Transactions, 2)

	eip1559 := block.Transactions[0]
	assert.Equal(t, big.NewInt(20_000_000_000), eip1559.MaxFeeWei())
	assert.Equal(t, big.NewInt(2_000_000_000), eip1559.MaxPriorityFeeWei())

	legacy := block.Transactions[1]
	assert.Equal(t, big.NewInt(1_000_000_000), legacy.GasPriceWei())
	assert.Nil(t, legacy.MaxFeeWei())
	assert.Nil(t, legacy.MaxPriorityFeeWei())
}

func TestBlockByNumberLegacyBlockHasNoBaseFee(t *testing.T) {
	srv := fakeNode(t, map[string]string{
		"eth_getBlockByNumber": `{"number": "0x1", "hash": "0x01", "transactions": []}`,
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	block, err := c.BlockByNumber(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, block.BaseFee())
	assert.Empty(t, block.Transactions)
}

func TestBlockByNumberNull(t *testing.T) {
	srv := fakeNode(t, map[string]string{"eth_getBlockByNumber": `null`})
	c := NewClient(ClientConfig{URL: srv.URL})

	block, err := c.BlockByNumber(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, block)
}

func TestCallErrors(t *testing.T) {
	t.Run("rpc_error", func(t *testing.T) {
		srv := fakeNode(t, map[string]string{})
		c := NewClient(ClientConfig{URL: srv.URL})

		_, err := c.ChainID(context.Background())
		var callErr *CallError
		require.True(t, errors.As(err, &callErr))
		assert.Equal(t, ErrorTypeRPC, callErr.Type)

		var rpcErr *RPCError
		require.True(t, errors.As(err, &rpcErr))
		assert.Equal(t, -32601, rpcErr.Code)
	})

	t.Run("rate_limit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewClient(ClientConfig{URL: srv.URL}).BlockNumber(context.Background())
		var callErr *CallError
		require.True(t, errors.As(err, &callErr))
		assert.Equal(t, ErrorTypeRateLimit, callErr.Type)
		assert.Equal(t, http.StatusTooManyRequests, callErr.StatusCode)
	})

	t.Run("server_error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(ClientConfig{URL: srv.URL}).BlockNumber(context.Background())
		var callErr *CallError
		require.True(t, errors.As(err, &callErr))
		assert.Equal(t, ErrorTypeServerError, callErr.Type)
	})

	t.Run("parse_error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		_, err := NewClient(ClientConfig{URL: srv.URL}).BlockNumber(context.Background())
		var callErr *CallError
		require.True(t, errors.As(err, &callErr))
		assert.Equal(t, ErrorTypeParseError, callErr.Type)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		_, err := NewClient(ClientConfig{URL: srv.URL, Timeout: 50 * time.Millisecond}).BlockNumber(context.Background())
		var callErr *CallError
		require.True(t, errors.As(err, &callErr))
		assert.Equal(t, ErrorTypeTimeout, callErr.Type)
	})
}
