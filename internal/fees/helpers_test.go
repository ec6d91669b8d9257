package fees

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/dmagro/zk-fee-profiler/internal/rpc"
)

func gwei(v int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(v), big.NewInt(1_000_000_000))
}

func hexBig(v *big.Int) *hexutil.Big {
	if v == nil {
		return nil
	}
	return (*hexutil.Big)(v)
}

func dynamicTx(maxFee, maxPriority *big.Int) rpc.Transaction {
	typ := hexutil.Uint64(2)
	return rpc.Transaction{
		Type:                 &typ,
		MaxFeePerGas:         hexBig(maxFee),
		MaxPriorityFeePerGas: hexBig(maxPriority),
	}
}

func legacyTx(gasPrice *big.Int) rpc.Transaction {
	typ := hexutil.Uint64(0)
	return rpc.Transaction{Type: &typ, GasPrice: hexBig(gasPrice)}
}

func newBlock(number uint64, baseFee *big.Int, txs ...rpc.Transaction) *rpc.Block {
	return &rpc.Block{
		Number:        hexutil.Uint64(number),
		BaseFeePerGas: hexBig(baseFee),
		Transactions:  txs,
	}
}

// fakeChain serves blocks from memory and records fetch order.
type fakeChain struct {
	chainID  uint64
	head     uint64
	blocks   map[uint64]*rpc.Block
	failing  map[uint64]bool
	chainErr error
	fetched  []uint64
}

func (f *fakeChain) ChainID(context.Context) (uint64, error) {
	if f.chainErr != nil {
		return 0, f.chainErr
	}
	return f.chainID, nil
}

func (f *fakeChain) BlockNumber(context.Context) (uint64, error) {
	if f.chainErr != nil {
		return 0, f.chainErr
	}
	return f.head, nil
}

func (f *fakeChain) BlockByNumber(_ context.Context, n uint64) (*rpc.Block, error) {
	f.fetched = append(f.fetched, n)
	if f.failing[n] {
		return nil, errors.Errorf("HTTP 502 for block %d", n)
	}
	return f.blocks[n], nil
}

// chainWithBaseFees builds blocks head-len+1..head with the given base fees
// in Gwei (first entry is the oldest block) and no transactions.
func chainWithBaseFees(chainID, head uint64, baseFeesGwei ...int64) *fakeChain {
	f := &fakeChain{chainID: chainID, head: head, blocks: map[uint64]*rpc.Block{}}
	first := head - uint64(len(baseFeesGwei)) + 1
	for i, fee := range baseFeesGwei {
		n := first + uint64(i)
		f.blocks[n] = newBlock(n, gwei(fee))
	}
	return f
}
