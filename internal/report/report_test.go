package report

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keycost/internal/corpus"
	"github.com/verte-zerg/keycost/internal/evaluation"
	"github.com/verte-zerg/keycost/internal/model"
	"github.com/verte-zerg/keycost/internal/store"
)

func TestFormatTableAlignsWideRunes(t *testing.T) {
	lines := formatTable([]string{"Bigram", "Cost"}, [][]string{
		{"漢字", "1.5"},
		{"ab", "10.25"},
	}, map[int]bool{1: true})
	want := []string{
		"Bigram  Cost",
		"漢字     1.5",
		"ab     10.25",
	}
	assert.Equal(t, want, lines)
}

func TestSparklineAndMovingAverage(t *testing.T) {
	assert.Equal(t, "▁▅█", Sparkline([]float64{1, 2, 3}))
	assert.Equal(t, "▅▅▅", Sparkline([]float64{2, 2, 2}))
	assert.Empty(t, Sparkline(nil))
	assert.InDeltaSlice(t, []float64{1, 1.5, 2.5, 3.5}, MovingAverage([]float64{1, 2, 3, 4}, 2), 1e-12)
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 5), Bar(5, 10, 10))
	assert.Empty(t, Bar(0, 10, 10))
	assert.Empty(t, Bar(5, 0, 10))
	assert.Empty(t, Bar(5, 10, 0))
}

func TestResample(t *testing.T) {
	assert.InDeltaSlice(t, []float64{0, 5, 10}, resample([]float64{0, 10}, 3), 1e-12)
	assert.InDeltaSlice(t, []float64{1.5, 3.5}, resample([]float64{1, 2, 3, 4}, 2), 1e-12)
}

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Costs", []Series{
		{Name: "total", Values: []float64{3, 2, 1}},
		{Name: "empty"},
	}, 12, 4, false)
	require.NoError(t, err)
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1+4+1, out)
	assert.Equal(t, "Costs", lines[0])
	assert.Contains(t, lines[1], "3", "max axis label")
	assert.Contains(t, lines[4], "1", "min axis label")
	assert.Contains(t, out, "total")
	assert.NotContains(t, out, "empty")
	assert.NotContains(t, out, "\x1b[")
}

func TestPlotWidthFor(t *testing.T) {
	assert.Equal(t, 80-axisLabelWidth-3, PlotWidthFor(80))
	assert.Equal(t, minPlotWidth, PlotWidthFor(0))
}

func sampleResults() []evaluation.Result {
	ab := corpus.Bigram{Symbols: [2]rune{'a', ' '}, Weight: 4}
	return []evaluation.Result{
		{
			Layout: "slow", Symbols: "abc", Total: 2, Found: 3, NotFound: 1,
			Metrics: []evaluation.MetricResult{{Kind: "k", Name: "Metric K", Weight: 1, RawCost: 2, Cost: 2, Included: 3}},
		},
		{
			Layout: "fast", Symbols: "cba", Total: 1, Found: 4,
			Metrics: []evaluation.MetricResult{{
				Kind: "k", Name: "Metric K", Weight: 1, RawCost: 1, Cost: 1, Included: 4,
				Worst: []evaluation.BigramCost{{Bigram: ab, Cost: 0.75}},
			}},
		},
	}
}

func TestRenderComparisonRanks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderComparison(&buf, sampleResults(), 80))
	out := buf.String()
	assert.Less(t, strings.Index(out, "fast"), strings.Index(out, "slow"), "cheaper layout first")
	assert.Contains(t, out, "█")
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	res := sampleResults()
	require.NoError(t, RenderResult(&buf, res[1], 0))
	out := buf.String()
	for _, want := range []string{"Layout fast: cba", "Total cost: 1", "Corpus coverage: 100.00%", "Worst bigrams: Metric K", "a␣"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "█", "no bars without width")
}

func sampleRuns() []evaluation.CorpusResults {
	other := sampleResults()
	other[0].Total = 0.5
	return []evaluation.CorpusResults{
		{Corpus: "/data/eng/2-grams.txt", Results: sampleResults()},
		{Corpus: "/data/deu/2-grams.txt", Results: other},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRuns()))
	var decoded struct {
		Corpora []struct {
			Corpus  string `json:"corpus"`
			Results []struct {
				Layout  string `json:"layout"`
				Metrics []struct {
					Worst []struct {
						Bigram string `json:"bigram"`
					} `json:"worst"`
				} `json:"metrics"`
			} `json:"results"`
		} `json:"corpora"`
		ByCorpus []struct {
			Layout string    `json:"layout"`
			Totals []float64 `json:"totals"`
			Mean   float64   `json:"mean"`
		} `json:"by_corpus"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Corpora, 2)
	assert.Equal(t, "/data/eng/2-grams.txt", decoded.Corpora[0].Corpus)
	require.Len(t, decoded.Corpora[0].Results, 2)
	assert.Equal(t, "fast", decoded.Corpora[0].Results[0].Layout)
	assert.Equal(t, "a␣", decoded.Corpora[0].Results[0].Metrics[0].Worst[0].Bigram)
	assert.Equal(t, "slow", decoded.Corpora[1].Results[0].Layout)

	require.Len(t, decoded.ByCorpus, 2)
	// fast: 1 and 1, slow: 2 and 0.5
	assert.Equal(t, "fast", decoded.ByCorpus[0].Layout)
	assert.InDelta(t, 1, decoded.ByCorpus[0].Mean, 1e-12)
	assert.Equal(t, "slow", decoded.ByCorpus[1].Layout)
	assert.InDeltaSlice(t, []float64{2, 0.5}, decoded.ByCorpus[1].Totals, 1e-12)
	assert.InDelta(t, 1.25, decoded.ByCorpus[1].Mean, 1e-12)
}

func TestRenderCorpusMatrix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCorpusMatrix(&buf, sampleRuns()))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, want := range []string{"Layout", "eng/2-grams.txt", "deu/2-grams.txt", "Mean"} {
		assert.Contains(t, lines[0], want)
	}
	assert.Contains(t, lines[1], "fast")
	assert.Contains(t, lines[2], "slow")
	assert.True(t, strings.HasSuffix(lines[2], "1.25"), lines[2])

	buf.Reset()
	require.NoError(t, RenderCorpusMatrix(&buf, nil))
	assert.Equal(t, "No layouts evaluated.\n", buf.String())
}

func TestCorpusLabels(t *testing.T) {
	assert.Equal(t, []string{"a.txt", "b.txt"}, corpusLabels([]string{"/x/a.txt", "/y/b.txt"}))
	assert.Equal(t, []string{"x/2-grams.txt", "y/2-grams.txt"}, corpusLabels([]string{"/data/x/2-grams.txt", "/data/y/2-grams.txt"}))
	assert.Equal(t, []string{"same", "same"}, corpusLabels([]string{"same", "same"}))
}

func TestBuildAndRenderHistory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "keycost.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := st.InsertRun(ctx, model.RunRecord{
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			LayoutName: "mine",
			Layout:     "abc",
			Total:      float64(3 - i),
		}, []model.MetricRecord{
			{Kind: "big", Cost: float64(2 - i)},
			{Kind: "small", Cost: 1},
		})
		require.NoError(t, err)
	}
	h, err := BuildHistory(ctx, st, model.HistoryConfig{Layout: "mine", Last: 2})
	require.NoError(t, err)
	require.Len(t, h.Runs, 2)
	assert.Equal(t, 2.0, h.Runs[0].Total)
	assert.Equal(t, 1.0, h.Runs[1].Total)
	assert.Equal(t, []string{"small", "big"}, h.MetricKinds())

	var buf bytes.Buffer
	require.NoError(t, RenderHistory(&buf, h, 1, 60, false))
	out := buf.String()
	for _, want := range []string{"Runs", "Trend: ", "Cost Curves", "mine"} {
		assert.Contains(t, out, want)
	}

	buf.Reset()
	require.NoError(t, RenderHistory(&buf, History{}, 1, 60, false))
	assert.Contains(t, buf.String(), "No runs found.")
}
