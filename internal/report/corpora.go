package report

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/keycost/internal/evaluation"
)

const maxCorpusLabelWidth = 24

type layoutRow struct {
	layout string
	totals []float64
	mean   float64
}

// layoutTotals collects the total cost of each layout per corpus, ordered by
// mean cost with ties broken by layout name. Layouts follow the first corpus.
func layoutTotals(runs []evaluation.CorpusResults) []layoutRow {
	if len(runs) == 0 {
		return nil
	}
	rows := make([]layoutRow, len(runs[0].Results))
	for i, res := range runs[0].Results {
		rows[i] = layoutRow{layout: res.Layout, totals: make([]float64, len(runs))}
	}
	for j, run := range runs {
		for i := range rows {
			if i < len(run.Results) {
				rows[i].totals[j] = run.Results[i].Total
			}
		}
	}
	for i := range rows {
		sum := 0.0
		for _, v := range rows[i].totals {
			sum += v
		}
		rows[i].mean = sum / float64(len(runs))
	}
	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].mean == rows[b].mean {
			return rows[a].layout < rows[b].layout
		}
		return rows[a].mean < rows[b].mean
	})
	return rows
}

// corpusLabels shortens corpus paths to the fewest trailing path elements that
// keep them distinct.
func corpusLabels(names []string) []string {
	for depth := 1; depth <= 3; depth++ {
		labels := make([]string, len(names))
		seen := make(map[string]bool, len(names))
		unique := true
		for i, name := range names {
			labels[i] = tailPath(name, depth)
			if seen[labels[i]] {
				unique = false
			}
			seen[labels[i]] = true
		}
		if unique {
			return labels
		}
	}
	return append([]string(nil), names...)
}

func tailPath(path string, depth int) string {
	parts := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	if len(parts) > depth {
		parts = parts[len(parts)-depth:]
	}
	return strings.Join(parts, "/")
}

// RenderCorpusMatrix prints the total cost of every layout on every corpus with
// the mean over corpora, cheapest layout first.
func RenderCorpusMatrix(w io.Writer, runs []evaluation.CorpusResults) error {
	rows := layoutTotals(runs)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No layouts evaluated.")
		return err
	}
	names := make([]string, len(runs))
	for i, run := range runs {
		names[i] = run.Corpus
	}
	headers := []string{"#", "Layout"}
	right := map[int]bool{0: true}
	for i, label := range corpusLabels(names) {
		headers = append(headers, truncate(label, maxCorpusLabelWidth))
		right[2+i] = true
	}
	headers = append(headers, "Mean")
	right[len(headers)-1] = true

	table := make([][]string, 0, len(rows))
	for i, row := range rows {
		line := []string{strconv.Itoa(i + 1), row.layout}
		for _, v := range row.totals {
			line = append(line, formatCost(v))
		}
		line = append(line, formatCost(row.mean))
		table = append(table, line)
	}
	for _, line := range formatTable(headers, table, right) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
