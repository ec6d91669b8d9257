// Package rpc is a thin JSON-RPC 2.0 client for Ethereum-compatible nodes.
//
// Only the read-only calls the fee profiler needs are implemented. Numeric
// fields arrive hex-encoded on the wire and are decoded with go-ethereum's
// hexutil types, so fee values keep full integer precision until the caller
// converts them.
package rpc

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// Response is a JSON-RPC 2.0 response envelope. Result stays raw until the
// caller knows which shape to expect.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// Block is an eth_getBlockByNumber result fetched with full transactions.
// BaseFeePerGas is nil on pre-London blocks and legacy chains.
type Block struct {
	Number        hexutil.Uint64 `json:"number"`
	Hash          string         `json:"hash"`
	Timestamp     hexutil.Uint64 `json:"timestamp"`
	GasUsed       hexutil.Uint64 `json:"gasUsed"`
	GasLimit      hexutil.Uint64 `json:"gasLimit"`
	BaseFeePerGas *hexutil.Big   `json:"baseFeePerGas,omitempty"`
	Transactions  []Transaction  `json:"transactions"`
}

// BaseFee returns the base fee in wei, or nil when the block has none.
func (b *Block) BaseFee() *big.Int {
	return bigOrNil(b.BaseFeePerGas)
}

// Transaction carries the pricing fields of a full transaction object.
// EIP-1559 family transactions (types 2, 3, 4) set MaxFeePerGas and
// MaxPriorityFeePerGas; legacy and access-list transactions set GasPrice only.
// Nodes usually also report GasPrice for mined EIP-1559 transactions.
type Transaction struct {
	Hash                 string          `json:"hash"`
	Type                 *hexutil.Uint64 `json:"type,omitempty"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
}

// GasPriceWei returns gasPrice in wei, or nil.
func (t *Transaction) GasPriceWei() *big.Int { return bigOrNil(t.GasPrice) }

// MaxFeeWei returns maxFeePerGas in wei, or nil.
func (t *Transaction) MaxFeeWei() *big.Int { return bigOrNil(t.MaxFeePerGas) }

// MaxPriorityFeeWei returns maxPriorityFeePerGas in wei, or nil.
func (t *Transaction) MaxPriorityFeeWei() *big.Int { return bigOrNil(t.MaxPriorityFeePerGas) }

func bigOrNil(v *hexutil.Big) *big.Int {
	if v == nil {
		return nil
	}
	return v.ToInt()
}
