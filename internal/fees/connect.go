package fees

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dmagro/zk-fee-profiler/internal/errs"
)

// ChainReader is the subset of the JSON-RPC client a profiling run needs.
type ChainReader interface {
	BlockFetcher
	ChainID(ctx context.Context) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// ChainInfo identifies the chain behind an endpoint.
type ChainInfo struct {
	ChainID uint64
	Network string
	Head    uint64
	Latency time.Duration
}

// Connect reads the chain id and current head. Any failure is a
// Connectivity error.
func Connect(ctx context.Context, client ChainReader, logger logrus.FieldLogger) (ChainInfo, error) {
	start := time.Now()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return ChainInfo{}, errs.Wrapf(errs.KindConnectivity, "connect", err, "failed to read chain id")
	}
	head, err := client.BlockNumber(ctx)
	if err != nil {
		return ChainInfo{}, errs.Wrapf(errs.KindConnectivity, "connect", err, "failed to read head block")
	}

	info := ChainInfo{
		ChainID: chainID,
		Network: NetworkName(chainID),
		Head:    head,
		Latency: time.Since(start),
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"chainId": chainID, "head": head,
		}).Infof("Connected to %s (chainId %d, tip=%d) in %.2fs",
			info.Network, chainID, head, info.Latency.Seconds())
	}
	return info, nil
}
