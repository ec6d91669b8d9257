// Package stats computes order statistics over fee samples.
//
// Percentiles use linear interpolation between closest ranks (the numpy
// default). All math runs in the unit the samples were given in; callers pass
// wei and convert the finished Summary with Gwei.
package stats

import (
	"math"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/params"
	mstats "github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

var (
	// ErrEmptySamples is returned for an empty sample set. No statistic is
	// ever reported as 0 in place of this error.
	ErrEmptySamples = errors.New("empty sample set")
	// ErrPercentileRange is returned for p outside [0, 1] or NaN.
	ErrPercentileRange = errors.New("percentile must be within [0, 1]")
)

// Summary holds the order statistics of one sample set.
type Summary struct {
	P50     float64 // median
	PTarget float64 // configured target percentile
	Min     float64
	Max     float64
}

// Gwei converts a wei summary to Gwei.
func (s Summary) Gwei() Summary {
	return Summary{
		P50:     WeiToGwei(s.P50),
		PTarget: WeiToGwei(s.PTarget),
		Min:     WeiToGwei(s.Min),
		Max:     WeiToGwei(s.Max),
	}
}

// WeiToGwei divides by 10^9.
func WeiToGwei(wei float64) float64 {
	return wei / params.GWei
}

// FromWei converts integer wei values to float64 samples. Nil entries are
// skipped.
func FromWei(values []*big.Int) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		f, _ := new(big.Float).SetInt(v).Float64()
		out = append(out, f)
	}
	return out
}

// ValidPercentile reports whether p lies in [0, 1].
func ValidPercentile(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// Percentile returns the p-th percentile (p in [0, 1]) of samples using
// linear interpolation between closest ranks. samples need not be sorted and
// is not modified.
func Percentile(samples []float64, p float64) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrEmptySamples
	}
	if !ValidPercentile(p) {
		return 0, errors.Wrapf(ErrPercentileRange, "got %v", p)
	}
	return interpolate(sortedCopy(samples), p), nil
}

// Summarize computes P50, PTarget, Min and Max. The median and the extremes
// come from montanaflynn/stats over the raw samples; PTarget is interpolated
// over a sorted copy. For p = 0.5 both methods agree on the same ranks.
func Summarize(samples []float64, target float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrEmptySamples
	}
	if !ValidPercentile(target) {
		return Summary{}, errors.Wrapf(ErrPercentileRange, "got %v", target)
	}

	data := mstats.Float64Data(samples)
	median, err := data.Median()
	if err != nil {
		return Summary{}, errors.WithMessage(err, "median")
	}
	lo, err := data.Min()
	if err != nil {
		return Summary{}, errors.WithMessage(err, "min")
	}
	hi, err := data.Max()
	if err != nil {
		return Summary{}, errors.WithMessage(err, "max")
	}

	return Summary{
		P50:     median,
		PTarget: interpolate(sortedCopy(samples), target),
		Min:     lo,
		Max:     hi,
	}, nil
}

// interpolate expects a non-empty ascending slice.
func interpolate(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	r := p * float64(n-1)
	lo := int(math.Floor(r))
	hi := int(math.Ceil(r))
	frac := r - float64(lo)

	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func sortedCopy(samples []float64) []float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return sorted
}
