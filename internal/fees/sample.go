package fees

import (
	"math/big"

	"github.com/dmagro/zk-fee-profiler/internal/rpc"
)

// BlockSample is the fee data extracted from one fetched block. BaseFee is
// nil when the block carries no baseFeePerGas.
type BlockSample struct {
	Number          uint64
	BaseFee         *big.Int
	Tips            []*big.Int
	EffectivePrices []*big.Int
	TxCount         int
	UnpricedTxs     int // transactions that yielded neither a tip nor an effective price
}

// NewBlockSample extracts base fee, tip and effective-price samples from b.
func NewBlockSample(b *rpc.Block) BlockSample {
	s := BlockSample{
		Number:  uint64(b.Number),
		BaseFee: b.BaseFee(),
		TxCount: len(b.Transactions),
	}

	for i := range b.Transactions {
		tip, effective := TxPrice(&b.Transactions[i], s.BaseFee)
		if tip != nil {
			s.Tips = append(s.Tips, tip)
		}
		if effective != nil {
			s.EffectivePrices = append(s.EffectivePrices, effective)
		}
		if tip == nil && effective == nil {
			s.UnpricedTxs++
		}
	}
	return s
}

// TxPrice returns the approximate priority tip and the effective gas price of
// tx in wei, given the block's base fee (nil when unknown). Either result is
// nil when it cannot be derived.
//
// EIP-1559 transactions (those carrying maxPriorityFeePerGas):
//
//	tip       = max(0, min(maxPriorityFeePerGas, maxFeePerGas - baseFee))
//	effective = min(maxFeePerGas, baseFee + maxPriorityFeePerGas)
//
// and both need the base fee. Legacy transactions pay gasPrice; their tip is
// max(0, gasPrice - baseFee) and needs the base fee.
func TxPrice(tx *rpc.Transaction, baseFee *big.Int) (tip, effective *big.Int) {
	if priority := tx.MaxPriorityFeeWei(); priority != nil {
		if baseFee == nil {
			return nil, nil
		}

		maxFee := tx.MaxFeeWei()
		if maxFee == nil {
			// Fee cap missing from the node response; the tip is uncapped.
			return clampZero(new(big.Int).Set(priority)), new(big.Int).Add(baseFee, priority)
		}

		headroom := new(big.Int).Sub(maxFee, baseFee)
		tip = minBig(priority, headroom)
		effective = minBig(maxFee, new(big.Int).Add(baseFee, priority))
		return clampZero(tip), effective
	}

	gasPrice := tx.GasPriceWei()
	if gasPrice == nil {
		return nil, nil
	}

	effective = new(big.Int).Set(gasPrice)
	if baseFee != nil {
		tip = clampZero(new(big.Int).Sub(gasPrice, baseFee))
	}
	return tip, effective
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

func clampZero(v *big.Int) *big.Int {
	if v.Sign() < 0 {
		return new(big.Int)
	}
	return v
}
