package report

import (
	"math"
	"strings"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line sparkline for the values. Lower costs sit lower.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := minMax(values)
	if math.Abs(hi-lo) < 1e-12 {
		return strings.Repeat(string(sparkRunes[len(sparkRunes)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkRunes)-1)))
		b.WriteRune(sparkRunes[clamp(idx, 0, len(sparkRunes)-1)])
	}
	return b.String()
}

// Bar renders a horizontal bar of value/max scaled to width cells.
func Bar(value, maxValue float64, width int) string {
	if width <= 0 || maxValue <= 0 || value <= 0 {
		return ""
	}
	cells := int(math.Round(value / maxValue * float64(width)))
	return strings.Repeat("█", clamp(cells, 0, width))
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
