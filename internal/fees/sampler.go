package fees

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/dmagro/zk-fee-profiler/internal/errs"
	"github.com/dmagro/zk-fee-profiler/internal/rpc"
)

// progressEvery is how many visited blocks pass between progress log lines.
const progressEvery = 20

// BlockFetcher loads one block with full transactions. A nil block with a nil
// error means the node does not know the number.
type BlockFetcher interface {
	BlockByNumber(ctx context.Context, number uint64) (*rpc.Block, error)
}

// Samples accumulates fee samples over one sampling run. Values are in wei.
type Samples struct {
	Blocks          []BlockSample
	BaseFees        []*big.Int
	Tips            []*big.Int
	EffectivePrices []*big.Int

	Visited        int   // block numbers the sampler tried
	Failures       error // per-block fetch errors, combined with multierr
	MissingBaseFee int   // fetched blocks without baseFeePerGas
	UnpricedTxs    int   // transactions without usable price data
}

// Fetched is the number of blocks that loaded successfully.
func (s *Samples) Fetched() int { return len(s.Blocks) }

// Skipped is the number of visited blocks that failed to load.
func (s *Samples) Skipped() int { return s.Visited - len(s.Blocks) }

func (s *Samples) add(b BlockSample) {
	s.Blocks = append(s.Blocks, b)
	if b.BaseFee != nil {
		s.BaseFees = append(s.BaseFees, b.BaseFee)
	} else {
		s.MissingBaseFee++
	}
	s.Tips = append(s.Tips, b.Tips...)
	s.EffectivePrices = append(s.EffectivePrices, b.EffectivePrices...)
	s.UnpricedTxs += b.UnpricedTxs
}

// Sampler walks a block window backwards from a head at a fixed stride.
type Sampler struct {
	fetcher BlockFetcher
	logger  logrus.FieldLogger
}

// NewSampler creates a sampler. A nil logger falls back to the logrus
// standard logger.
func NewSampler(fetcher BlockFetcher, logger logrus.FieldLogger) *Sampler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Sampler{fetcher: fetcher, logger: logger}
}

// BlockRange returns the block numbers visited for a window of size window
// ending at head, taken every step blocks, in descending order.
func BlockRange(head, window, step uint64) []uint64 {
	if window == 0 || step == 0 {
		return nil
	}

	var start uint64
	if head >= window {
		start = head - window + 1
	}

	count := (head-start)/step + 1
	numbers := make([]uint64, 0, count)
	for n := head; ; n -= step {
		numbers = append(numbers, n)
		if n-start < step {
			break
		}
	}
	return numbers
}

// Sample fetches every block in BlockRange(head, window, step) one at a time.
// Blocks that fail to load are logged and skipped; if all of them fail the
// result is a NoData error carrying every per-block failure.
func (s *Sampler) Sample(ctx context.Context, head, window, step uint64) (*Samples, error) {
	if window == 0 || step == 0 {
		return nil, errs.New(errs.KindConfig, "sample", "window and step must be > 0 (window=%d, step=%d)", window, step)
	}

	numbers := BlockRange(head, window, step)
	s.logger.WithFields(logrus.Fields{
		"head": head, "window": window, "step": step, "blocks": len(numbers),
	}).Infof("Sampling last %d blocks (every %dth block) from head=%d", window, step, head)

	samples := &Samples{}
	for _, n := range numbers {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithMessage(err, "sampling interrupted")
		}

		samples.Visited++
		block, err := s.fetcher.BlockByNumber(ctx, n)
		if err == nil && block == nil {
			err = errors.Errorf("block %d not found", n)
		}
		if err != nil {
			err = errors.WithMessagef(err, "block %d", n)
			samples.Failures = multierr.Append(samples.Failures, err)
			s.logger.WithField("block", n).WithError(err).Warn("Skipping block that failed to load")
			continue
		}

		bs := NewBlockSample(block)
		samples.add(bs)

		s.logger.WithFields(logrus.Fields{
			"block":   bs.Number,
			"baseFee": bs.BaseFee,
			"txs":     bs.TxCount,
			"tips":    len(bs.Tips),
		}).Debug("Block fee sample gathered")

		if samples.Visited%progressEvery == 0 {
			s.logger.Infof("At block %d (sampled %d)...", n, samples.Visited)
		}
	}

	if samples.Fetched() == 0 {
		return nil, errs.Wrapf(errs.KindNoData, "sample", samples.Failures,
			"all %d visited blocks failed to load", samples.Visited)
	}

	return samples, nil
}
