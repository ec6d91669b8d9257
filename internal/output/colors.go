package output

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
)

const unavailable = "n/a"

// DisableColors turns off color output (for non-TTY or JSON mode).
func DisableColors() {
	color.NoColor = true
}

// FormatNumber renders n with thousands separators.
func FormatNumber(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// gwei formats an already rounded Gwei value.
func gwei(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func gweiPtr(v *float64) string {
	if v == nil {
		return Dim(unavailable)
	}
	return gwei(*v)
}

// colorSkipped grades the share of visited blocks that failed to load.
func colorSkipped(skipped, sampled int) string {
	str := fmt.Sprintf("%d skipped", skipped)
	total := skipped + sampled
	switch {
	case skipped == 0:
		return Green(str)
	case total > 0 && float64(skipped)/float64(total) < 0.2:
		return Yellow(str)
	default:
		return Red(str)
	}
}
