// Package output renders a fee profile as terminal text or as a JSON
// document. Both renderings read the same rounded figures from Data, so
// text and JSON always agree.
package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dmagro/zk-fee-profiler/internal/errs"
	"github.com/dmagro/zk-fee-profiler/internal/fees"
	"github.com/dmagro/zk-fee-profiler/internal/stats"
)

// Document modes.
const (
	ModeProfile = "zk_fee_profile"
	ModeError   = "zk_fee_profile_error"
)

// Document is the JSON success document.
type Document struct {
	Mode           string `json:"mode"`
	GeneratedAtUTC string `json:"generatedAtUtc"`
	Data           *Data  `json:"data"`
}

// Data carries the profile figures, rounded for display. Pointer fields are
// null when their samples were unavailable.
type Data struct {
	ChainID          uint64  `json:"chainId"`
	Network          string  `json:"network"`
	Head             uint64  `json:"head"`
	SampledBlocks    int     `json:"sampledBlocks"`
	SkippedBlocks    int     `json:"skippedBlocks"`
	BlockWindow      uint64  `json:"blockWindow"`
	Step             uint64  `json:"step"`
	TargetPercentile float64 `json:"targetPercentile"`
	TimingSec        float64 `json:"timingSec"`

	BaseFeeGwei              *BaseFee    `json:"baseFeeGwei"`
	MedianEffectivePriceGwei *float64    `json:"medianEffectivePriceGwei"`
	MedianTipGwei            Tip         `json:"medianTipGwei"`
	RecommendedForZK         Recommended `json:"recommendedForZK"`
	Notes                    []string    `json:"notes"`

	// Full effective price summary for the text table; JSON carries only
	// the median.
	effective *stats.Summary
	// Run bounds for the text header and footer. Zero when unknown.
	startedAt, finishedAt time.Time
}

type BaseFee struct {
	P50     float64 `json:"p50"`
	PTarget float64 `json:"pTarget"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

type Tip struct {
	Available bool     `json:"available"`
	P50       *float64 `json:"p50"`
	PTarget   *float64 `json:"pTarget"`
}

type Recommended struct {
	MaxPriorityFeeGwei float64 `json:"maxPriorityFeeGwei"`
	MaxFeePerGasGwei   float64 `json:"maxFeePerGasGwei"`
	Fallback           bool    `json:"fallback"`
}

// ErrorDocument is written on the JSON path when a run fails.
type ErrorDocument struct {
	Mode           string    `json:"mode"`
	GeneratedAtUTC string    `json:"generatedAtUtc"`
	Error          ErrorBody `json:"error"`
}

type ErrorBody struct {
	Kind     errs.Kind `json:"kind"`
	Message  string    `json:"message"`
	ExitCode int       `json:"exitCode"`
}

// NewData rounds a profile for display.
func NewData(p *fees.Profile) *Data {
	d := &Data{
		ChainID:          p.ChainID,
		Network:          p.Network,
		Head:             p.Head,
		SampledBlocks:    p.SampledBlocks,
		SkippedBlocks:    p.SkippedBlocks,
		BlockWindow:      p.BlockWindow,
		Step:             p.Step,
		TargetPercentile: p.TargetPercentile,
		TimingSec:        fees.Round2(p.Elapsed.Seconds()),
		RecommendedForZK: Recommended{
			MaxPriorityFeeGwei: fees.Round3(p.Recommendation.MaxPriorityFeeGwei),
			MaxFeePerGasGwei:   fees.Round3(p.Recommendation.MaxFeePerGasGwei),
			Fallback:           p.Recommendation.Fallback,
		},
		Notes:      append([]string{}, p.Notes...),
		startedAt:  p.StartedAt,
		finishedAt: p.FinishedAt,
	}

	if s := p.BaseFee; s != nil {
		d.BaseFeeGwei = &BaseFee{
			P50:     fees.Round3(s.P50),
			PTarget: fees.Round3(s.PTarget),
			Min:     fees.Round3(s.Min),
			Max:     fees.Round3(s.Max),
		}
	}
	if median, ok := p.MedianEffectivePrice(); ok {
		d.MedianEffectivePriceGwei = round3Ptr(median)
	}
	if s := p.Tip; s != nil {
		d.MedianTipGwei = Tip{
			Available: true,
			P50:       round3Ptr(s.P50),
			PTarget:   round3Ptr(s.PTarget),
		}
	}
	if s := p.EffectivePrice; s != nil {
		r := stats.Summary{
			P50:     fees.Round3(s.P50),
			PTarget: fees.Round3(s.PTarget),
			Min:     fees.Round3(s.Min),
			Max:     fees.Round3(s.Max),
		}
		d.effective = &r
	}
	return d
}

func round3Ptr(v float64) *float64 {
	r := fees.Round3(v)
	return &r
}

// NewDocument wraps a profile in the success document.
func NewDocument(p *fees.Profile, now time.Time) *Document {
	return &Document{
		Mode:           ModeProfile,
		GeneratedAtUTC: now.UTC().Format(time.RFC3339),
		Data:           NewData(p),
	}
}

// NewErrorDocument describes a failed run.
func NewErrorDocument(err error, now time.Time) *ErrorDocument {
	return &ErrorDocument{
		Mode:           ModeError,
		GeneratedAtUTC: now.UTC().Format(time.RFC3339),
		Error: ErrorBody{
			Kind:     errs.KindOf(err),
			Message:  err.Error(),
			ExitCode: errs.ExitCode(err),
		},
	}
}

// WriteJSON encodes v with two-space indentation.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
