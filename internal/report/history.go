package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/verte-zerg/keycost/internal/model"
	"github.com/verte-zerg/keycost/internal/store"
)

// History contains precomputed data for history rendering.
type History struct {
	Runs        []model.RunRecord
	MetricCosts map[string]map[string]float64
}

// BuildHistory loads stored runs and their metric costs.
func BuildHistory(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (History, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return History{}, err
	}
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	costs, err := st.ListMetricCosts(ctx, ids)
	if err != nil {
		return History{}, err
	}
	return History{Runs: runs, MetricCosts: costs}, nil
}

// MetricKinds returns every metric kind seen in the history, ordered by their
// summed cost, highest first.
func (h History) MetricKinds() []string {
	sums := map[string]float64{}
	for _, perRun := range h.MetricCosts {
		for kind, cost := range perRun {
			sums[kind] += cost
		}
	}
	kinds := make([]string, 0, len(sums))
	for kind := range sums {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if sums[kinds[i]] == sums[kinds[j]] {
			return kinds[i] < kinds[j]
		}
		return sums[kinds[i]] > sums[kinds[j]]
	})
	return kinds
}

// RenderHistory prints the run table followed by cost curves.
func RenderHistory(w io.Writer, h History, window, width int, forceColor bool) error {
	if len(h.Runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	totals := make([]float64, len(h.Runs))
	rows := make([][]string, 0, len(h.Runs))
	for i, r := range h.Runs {
		totals[i] = r.Total
		rows = append(rows, []string{
			r.CreatedAt.Local().Format(time.DateTime),
			r.LayoutName,
			truncate(r.Layout, 32),
			formatCost(r.Total),
			shortID(r.ID),
		})
	}
	if _, err := fmt.Fprintln(w, "Runs"); err != nil {
		return err
	}
	for _, line := range formatTable([]string{"Date", "Name", "Layout", "Total", "Run"}, rows, map[int]bool{3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nTrend: %s\n\n", Sparkline(totals)); err != nil {
		return err
	}

	series := []Series{{Name: "total", Values: MovingAverage(totals, window)}}
	for _, kind := range h.MetricKinds() {
		values := make([]float64, len(h.Runs))
		for i, r := range h.Runs {
			values[i] = h.MetricCosts[r.ID][kind]
		}
		series = append(series, Series{Name: kind, Values: MovingAverage(values, window)})
	}
	plotWidth := 0
	if width > 0 {
		plotWidth = PlotWidthFor(width)
	}
	return PlotSeries(w, "Cost Curves", series, plotWidth, 0, forceColor)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
