package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/keycost/internal/evaluation"
)

const minBarWidth = 5

// RenderResult prints the per-metric breakdown of one layout, followed by the
// worst bigrams of every metric.
func RenderResult(w io.Writer, res evaluation.Result, width int) error {
	if _, err := fmt.Fprintf(w, "Layout %s: %s\n", res.Layout, res.Symbols); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total cost: %s\n", formatCost(res.Total)); err != nil {
		return err
	}
	if res.Found+res.NotFound > 0 {
		covered := res.Found / (res.Found + res.NotFound) * 100
		if _, err := fmt.Fprintf(w, "Corpus coverage: %.2f%%\n", covered); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	maxCost := 0.0
	for _, m := range res.Metrics {
		if m.Cost > maxCost {
			maxCost = m.Cost
		}
	}
	headers := []string{"Metric", "Weight", "Raw", "Cost", "Included", "Excluded"}
	rows := make([][]string, 0, len(res.Metrics))
	for _, m := range res.Metrics {
		rows = append(rows, []string{
			m.Name,
			formatCost(m.Weight),
			formatCost(m.RawCost),
			formatCost(m.Cost),
			strconv.Itoa(m.Included),
			strconv.Itoa(m.Excluded),
		})
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true})
	if err := writeWithBars(w, lines, res.Metrics, maxCost, width); err != nil {
		return err
	}

	for _, m := range res.Metrics {
		if len(m.Worst) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\nWorst bigrams: %s\n", m.Name); err != nil {
			return err
		}
		rows := make([][]string, 0, len(m.Worst))
		for _, bc := range m.Worst {
			rows = append(rows, []string{bc.Bigram.String(), formatCost(bc.Bigram.Weight), formatCost(bc.Cost)})
		}
		for _, line := range formatTable([]string{"Bigram", "Weight", "Cost"}, rows, map[int]bool{1: true, 2: true}) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeWithBars(w io.Writer, lines []string, ms []evaluation.MetricResult, maxCost float64, width int) error {
	for i, line := range lines {
		if i > 0 {
			barWidth := width - runewidth.StringWidth(line) - 1
			if bar := Bar(ms[i-1].Cost, maxCost, barWidth); barWidth >= minBarWidth && bar != "" {
				line = runewidth.FillRight(line, runewidth.StringWidth(lines[0])) + " " + bar
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderComparison prints the layouts ranked by total cost with one column per metric.
func RenderComparison(w io.Writer, results []evaluation.Result, width int) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No layouts evaluated.")
		return err
	}
	ranked := evaluation.Rank(results)
	headers := []string{"#", "Layout", "Total"}
	right := map[int]bool{0: true, 2: true}
	for i, m := range ranked[0].Metrics {
		headers = append(headers, m.Kind)
		right[3+i] = true
	}
	maxTotal := 0.0
	rows := make([][]string, 0, len(ranked))
	for i, res := range ranked {
		row := []string{strconv.Itoa(i + 1), res.Layout, formatCost(res.Total)}
		for _, m := range res.Metrics {
			row = append(row, formatCost(m.Cost))
		}
		rows = append(rows, row)
		if res.Total > maxTotal {
			maxTotal = res.Total
		}
	}
	lines := formatTable(headers, rows, right)
	headerWidth := runewidth.StringWidth(lines[0])
	for i, line := range lines {
		if i > 0 {
			barWidth := width - headerWidth - 1
			if bar := Bar(ranked[i-1].Total, maxTotal, barWidth); barWidth >= minBarWidth && bar != "" {
				line = runewidth.FillRight(line, headerWidth) + " " + bar
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderMetricKinds lists the configured metrics.
func RenderMetricKinds(w io.Writer, ms []evaluation.Weighted) error {
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{m.Kind, m.Metric.Name(), formatCost(m.Weight), strconv.FormatBool(m.Normalize)})
	}
	for _, line := range formatTable([]string{"Kind", "Name", "Weight", "Normalize"}, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type jsonBigram struct {
	Bigram string  `json:"bigram"`
	Weight float64 `json:"weight"`
	Cost   float64 `json:"cost"`
}

type jsonMetric struct {
	Kind     string       `json:"kind"`
	Name     string       `json:"name"`
	Weight   float64      `json:"weight"`
	RawCost  float64      `json:"raw_cost"`
	Cost     float64      `json:"cost"`
	Included int          `json:"included"`
	Excluded int          `json:"excluded"`
	Worst    []jsonBigram `json:"worst,omitempty"`
}

type jsonResult struct {
	Layout   string       `json:"layout"`
	Symbols  string       `json:"symbols"`
	Total    float64      `json:"total"`
	Found    float64      `json:"found"`
	NotFound float64      `json:"not_found"`
	Metrics  []jsonMetric `json:"metrics"`
}

type jsonCorpus struct {
	Corpus  string       `json:"corpus"`
	Results []jsonResult `json:"results"`
}

type jsonLayoutTotals struct {
	Layout string    `json:"layout"`
	Totals []float64 `json:"totals"`
	Mean   float64   `json:"mean"`
}

type jsonOutput struct {
	Corpora  []jsonCorpus       `json:"corpora"`
	ByCorpus []jsonLayoutTotals `json:"by_corpus"`
}

// WriteJSON encodes the results as indented JSON: one block per corpus with the
// layouts ranked, then the total cost of every layout on every corpus, with
// totals in corpus order.
func WriteJSON(w io.Writer, runs []evaluation.CorpusResults) error {
	out := jsonOutput{
		Corpora:  make([]jsonCorpus, 0, len(runs)),
		ByCorpus: []jsonLayoutTotals{},
	}
	for _, run := range runs {
		jc := jsonCorpus{Corpus: run.Corpus, Results: make([]jsonResult, 0, len(run.Results))}
		for _, res := range evaluation.Rank(run.Results) {
			jc.Results = append(jc.Results, toJSONResult(res))
		}
		out.Corpora = append(out.Corpora, jc)
	}
	for _, row := range layoutTotals(runs) {
		out.ByCorpus = append(out.ByCorpus, jsonLayoutTotals{Layout: row.layout, Totals: row.totals, Mean: row.mean})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSONResult(res evaluation.Result) jsonResult {
	jr := jsonResult{
		Layout:   res.Layout,
		Symbols:  res.Symbols,
		Total:    res.Total,
		Found:    res.Found,
		NotFound: res.NotFound,
	}
	for _, m := range res.Metrics {
		jm := jsonMetric{
			Kind:     m.Kind,
			Name:     m.Name,
			Weight:   m.Weight,
			RawCost:  m.RawCost,
			Cost:     m.Cost,
			Included: m.Included,
			Excluded: m.Excluded,
		}
		for _, bc := range m.Worst {
			jm.Worst = append(jm.Worst, jsonBigram{Bigram: bc.Bigram.String(), Weight: bc.Bigram.Weight, Cost: bc.Cost})
		}
		jr.Metrics = append(jr.Metrics, jm)
	}
	return jr
}
