package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

// RenderText writes the human-readable report.
func RenderText(w io.Writer, d *Data) {
	pct := fmt.Sprintf("p%s", formatPercent(d.TargetPercentile))

	if !d.startedAt.IsZero() {
		fmt.Fprintln(w, Dim("Started at "+utcStamp(d.startedAt)))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", Bold("ZK Fee Profile"))
	fmt.Fprintln(w, strings.Repeat("═", 50))
	fmt.Fprintf(w, "  %s  %s %s\n", Bold("Network:"), d.Network, Dim(fmt.Sprintf("(chainId %d)", d.ChainID)))
	fmt.Fprintf(w, "  %s     #%s\n", Bold("Head:"), FormatNumber(d.Head))
	fmt.Fprintf(w, "  %s   %d blocks, step %d %s\n", Bold("Window:"), d.BlockWindow, d.Step,
		Dim(fmt.Sprintf("(%d sampled, ", d.SampledBlocks))+colorSkipped(d.SkippedBlocks, d.SampledBlocks)+Dim(")"))
	fmt.Fprintf(w, "  %s   %s\n", Bold("Target:"), pct)
	fmt.Fprintf(w, "  %s   %.2fs\n", Bold("Timing:"), d.TimingSec)
	fmt.Fprintln(w)

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Gwei", "p50", pct, "min", "max").
		WithWriter(w).
		WithHeaderFormatter(headerFmt)

	if b := d.BaseFeeGwei; b != nil {
		tbl.AddRow("Base fee", gwei(b.P50), gwei(b.PTarget), gwei(b.Min), gwei(b.Max))
	} else {
		tbl.AddRow("Base fee", Dim(unavailable), Dim(unavailable), Dim(unavailable), Dim(unavailable))
	}
	tbl.AddRow("Priority tip", gweiPtr(d.MedianTipGwei.P50), gweiPtr(d.MedianTipGwei.PTarget), Dim("-"), Dim("-"))
	if e := d.effective; e != nil {
		tbl.AddRow("Effective price", gwei(e.P50), gwei(e.PTarget), gwei(e.Min), gwei(e.Max))
	} else {
		tbl.AddRow("Effective price", gweiPtr(d.MedianEffectivePriceGwei), Dim(unavailable), Dim(unavailable), Dim(unavailable))
	}
	tbl.Print()
	fmt.Fprintln(w)

	rec := d.RecommendedForZK
	prio := gwei(rec.MaxPriorityFeeGwei) + " Gwei"
	if rec.Fallback {
		prio += " " + Yellow("(fallback)")
	}
	fmt.Fprintf(w, "%s\n", Bold("Suggested EIP-1559 settings"))
	fmt.Fprintf(w, "  %s %s\n", Bold("maxPriorityFeePerGas:"), Green(prio))
	fmt.Fprintf(w, "  %s         %s\n", Bold("maxFeePerGas:"), Green(gwei(rec.MaxFeePerGasGwei)+" Gwei"))
	fmt.Fprintln(w)

	if len(d.Notes) > 0 {
		fmt.Fprintf(w, "%s\n", Bold("Notes"))
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", Yellow("⚠"), n)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, Dim(upperBoundHint))
	if !d.finishedAt.IsZero() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, Dim("Done at "+utcStamp(d.finishedAt)))
	}
}

const upperBoundHint = "Use these values as upper bounds for rollup and ZK submissions where\n" +
	"deterministic gas assumptions affect soundness guarantees."

func utcStamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
}

// RenderError writes a failed run for the text path.
func RenderError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", Red("Error:"), err)
}

// formatPercent renders a [0,1] fraction as a percentage without trailing
// zeros: 0.8 -> "80", 0.955 -> "95.5".
func formatPercent(p float64) string {
	s := fmt.Sprintf("%.2f", p*100)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
