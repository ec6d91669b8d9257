package config

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/dmagro/zk-fee-profiler/internal/errs"
)

// ParseHead converts a block identifier (decimal, 0x-hex or "latest") to an
// anchor block number. Empty input and "latest" yield nil, meaning the chain
// head at run time.
func ParseHead(arg string) (*uint64, error) {
	arg = strings.TrimSpace(strings.ToLower(arg))

	if arg == "" || arg == "latest" {
		return nil, nil
	}

	var (
		n   uint64
		err error
	)
	if strings.HasPrefix(arg, "0x") {
		n, err = hexutil.DecodeUint64(arg)
	} else {
		n, err = strconv.ParseUint(arg, 10, 64)
	}
	if err != nil {
		return nil, errs.New(errs.KindConfig, "config",
			"invalid head %q (expected a block number, 0x-hex or \"latest\")", arg)
	}
	return &n, nil
}
