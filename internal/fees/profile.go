package fees

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dmagro/zk-fee-profiler/internal/errs"
	"github.com/dmagro/zk-fee-profiler/internal/stats"
)

// DefaultTargetPercentile is used when no target is configured.
const DefaultTargetPercentile = 0.8

// Profile is the result of one profiling run. Summaries are in Gwei; a nil
// summary means its samples were unavailable.
type Profile struct {
	ChainID          uint64
	Network          string
	Head             uint64
	SampledBlocks    int
	SkippedBlocks    int
	BlockWindow      uint64
	Step             uint64
	TargetPercentile float64
	Elapsed          time.Duration // sampling only
	StartedAt        time.Time
	FinishedAt       time.Time

	BaseFee        *stats.Summary
	Tip            *stats.Summary
	EffectivePrice *stats.Summary
	Recommendation Recommendation
	Notes          []string
}

// MedianEffectivePrice returns the median effective gas price in Gwei, or
// false when unavailable.
func (p *Profile) MedianEffectivePrice() (float64, bool) {
	if p.EffectivePrice == nil {
		return 0, false
	}
	return p.EffectivePrice.P50, true
}

// RunOptions parameterise Profiler.Run.
type RunOptions struct {
	Window           uint64
	Step             uint64
	TargetPercentile float64
	Head             *uint64 // anchor block; the chain head when nil
}

// Profiler runs the connect, sample, summarise, recommend pipeline.
type Profiler struct {
	client  ChainReader
	logger  logrus.FieldLogger
	sampler *Sampler
}

func NewProfiler(client ChainReader, logger logrus.FieldLogger) *Profiler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Profiler{
		client:  client,
		logger:  logger,
		sampler: NewSampler(client, logger),
	}
}

// Run profiles the configured window and returns the finished profile.
func (p *Profiler) Run(ctx context.Context, opts RunOptions) (*Profile, error) {
	if !stats.ValidPercentile(opts.TargetPercentile) {
		return nil, errs.New(errs.KindConfig, "profile", "target percentile %v outside [0, 1]", opts.TargetPercentile)
	}
	begin := time.Now()

	info, err := Connect(ctx, p.client, p.logger)
	if err != nil {
		return nil, err
	}

	head := info.Head
	if opts.Head != nil {
		head = *opts.Head
	}

	started := time.Now()
	samples, err := p.sampler.Sample(ctx, head, opts.Window, opts.Step)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(started)

	profile, err := Summarize(samples, opts.TargetPercentile)
	if err != nil {
		return nil, err
	}

	profile.ChainID = info.ChainID
	profile.Network = info.Network
	profile.Head = head
	profile.BlockWindow = opts.Window
	profile.Step = opts.Step
	profile.Elapsed = elapsed
	profile.StartedAt = begin
	profile.FinishedAt = time.Now()

	for _, note := range profile.Notes {
		p.logger.Warn(note)
	}
	return profile, nil
}

// Summarize turns samples into a profile without chain metadata. It fails
// with NoData when neither base-fee nor effective-price samples exist.
func Summarize(samples *Samples, target float64) (*Profile, error) {
	baseFee, err := summarizeWei(samples.BaseFees, target)
	if err != nil {
		return nil, err
	}
	effective, err := summarizeWei(samples.EffectivePrices, target)
	if err != nil {
		return nil, err
	}
	tip, err := summarizeWei(samples.Tips, target)
	if err != nil {
		return nil, err
	}

	if baseFee == nil && effective == nil {
		return nil, errs.New(errs.KindNoData, "summarize",
			"no usable fee samples in %d fetched blocks", samples.Fetched())
	}

	profile := &Profile{
		SampledBlocks:    samples.Fetched(),
		SkippedBlocks:    samples.Skipped(),
		TargetPercentile: target,
		BaseFee:          baseFee,
		Tip:              tip,
		EffectivePrice:   effective,
		Recommendation:   Recommend(baseFee, tip, effective),
	}
	profile.Notes = notes(samples, profile)
	return profile, nil
}

// summarizeWei returns nil for an empty sample set.
func summarizeWei(values []*big.Int, target float64) (*stats.Summary, error) {
	if len(values) == 0 {
		return nil, nil
	}
	s, err := stats.Summarize(stats.FromWei(values), target)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "summarize", err)
	}
	g := s.Gwei()
	return &g, nil
}

func notes(samples *Samples, profile *Profile) []string {
	var out []string
	if n := samples.Skipped(); n > 0 {
		out = append(out, fmt.Sprintf("%d of %d visited blocks failed to load and were skipped", n, samples.Visited))
	}
	if samples.MissingBaseFee > 0 {
		out = append(out, fmt.Sprintf("%d sampled blocks carry no baseFeePerGas", samples.MissingBaseFee))
	}
	if profile.BaseFee == nil {
		out = append(out, "no base fee data (legacy chain?); maxFeePerGas derived from effective gas prices")
	}
	if samples.UnpricedTxs > 0 {
		out = append(out, fmt.Sprintf("%d transactions without usable price data were excluded", samples.UnpricedTxs))
	}
	if profile.Recommendation.Fallback {
		out = append(out, fmt.Sprintf("no tip samples; maxPriorityFeePerGas falls back to %g Gwei", FallbackPriorityFeeGwei))
	}
	return out
}
