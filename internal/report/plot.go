package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisLabelWidth      = 9
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var seriesColors = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

// canvas is a grid of braille cells, each holding 2x4 dots.
type canvas struct {
	width  int
	height int
	dots   [][]uint8
	owner  [][]int
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	c.dots = make([][]uint8, height)
	c.owner = make([][]int, height)
	for y := range c.dots {
		c.dots[y] = make([]uint8, width)
		c.owner[y] = make([]int, width)
		for x := range c.owner[y] {
			c.owner[y][x] = -1
		}
	}
	return c
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) set(px, py, series int) {
	if px < 0 || py < 0 {
		return
	}
	cx, cy := px/2, py/4
	if cx >= c.width || cy >= c.height {
		return
	}
	c.dots[cy][cx] |= brailleBits[px%2][py%4]
	if c.owner[cy][cx] < 0 {
		c.owner[cy][cx] = series
	}
}

// line draws from (x0,y0) to (x1,y1) in dot coordinates.
func (c *canvas) line(x0, y0, x1, y1, series int) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, series)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) row(y int, useColor bool) string {
	var b strings.Builder
	for x := 0; x < c.width; x++ {
		ch := rune(0x2800 + int(c.dots[y][x]))
		if useColor && c.owner[y][x] >= 0 {
			b.WriteString(seriesColors[c.owner[y][x]%len(seriesColors)])
			b.WriteRune(ch)
			b.WriteString(colorReset)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// PlotSeries renders a braille line plot of the series on one shared scale.
// A non-positive width fits the plot to the terminal.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	var kept []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(TerminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	var all []float64
	for i := range kept {
		kept[i].Values = resample(kept[i].Values, width)
		all = append(all, kept[i].Values...)
	}
	lo, hi := minMax(all)
	if math.Abs(hi-lo) < 1e-12 {
		lo, hi = lo-1, hi+1
	}

	c := newCanvas(width, height)
	dotRows := height * 4
	for si, s := range kept {
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			py := clamp(int(math.Round((hi-v)/(hi-lo)*float64(dotRows-1))), 0, dotRows-1)
			px := x * 2
			if prevX < 0 {
				c.set(px, py, si)
			} else {
				c.line(prevX, prevY, px, py, si)
			}
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, forceColor)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = formatCost(hi)
		case height - 1:
			label = formatCost(lo)
		}
		prefix := runewidth.FillLeft(label, axisLabelWidth) + axisSeparator
		if _, err := fmt.Fprintln(w, prefix+c.row(y, useColor)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, legend(kept, useColor)); err != nil {
		return err
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	width := totalWidth - axisLabelWidth - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

// TerminalWidth returns the width of stdout, or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := "⠉ " + s.Name
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return strings.Repeat(" ", axisLabelWidth) + axisSeparator + strings.Join(parts, "  ")
}

// resample stretches or shrinks values to n points. Shrinking averages buckets,
// stretching interpolates linearly.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == n:
		copy(out, values)
	case len(values) > n:
		for i := range out {
			start := i * len(values) / n
			end := (i + 1) * len(values) / n
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		step := float64(len(values)-1) / float64(n-1)
		for i := range out {
			pos := float64(i) * step
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func formatCost(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
