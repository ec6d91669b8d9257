package fees

import (
	"math"

	"github.com/dmagro/zk-fee-profiler/internal/stats"
)

// FallbackPriorityFeeGwei is the priority fee suggested when no tip samples
// are available.
const FallbackPriorityFeeGwei = 1.0

// Recommendation is a suggested EIP-1559 fee configuration in Gwei, rounded
// to three decimals.
type Recommendation struct {
	MaxPriorityFeeGwei float64
	MaxFeePerGasGwei   float64
	Fallback           bool // priority fee is FallbackPriorityFeeGwei, not sampled
}

// Recommend derives fee parameters from Gwei summaries. Any summary may be
// nil when its samples were unavailable.
//
// The priority fee is the tip's target percentile. The fee cap adds it to the
// base fee's target percentile; without base fee data (legacy chains) the cap
// is the effective price's target percentile, which already includes the tip,
// raised to at least the priority fee.
func Recommend(baseFee, tip, effective *stats.Summary) Recommendation {
	var rec Recommendation

	if tip != nil {
		rec.MaxPriorityFeeGwei = Round3(tip.PTarget)
	} else {
		rec.MaxPriorityFeeGwei = FallbackPriorityFeeGwei
		rec.Fallback = true
	}

	switch {
	case baseFee != nil:
		rec.MaxFeePerGasGwei = Round3(baseFee.PTarget + rec.MaxPriorityFeeGwei)
	case effective != nil:
		rec.MaxFeePerGasGwei = Round3(math.Max(effective.PTarget, rec.MaxPriorityFeeGwei))
	default:
		rec.MaxFeePerGasGwei = rec.MaxPriorityFeeGwei
	}
	return rec
}

// Round3 rounds v to three decimal places, half away from zero.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
