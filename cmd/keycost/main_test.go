package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/keycost/internal/config"
	"github.com/verte-zerg/keycost/internal/evaluation"
	"github.com/verte-zerg/keycost/internal/keyboard"
	"github.com/verte-zerg/keycost/internal/model"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvalCommandRanksLayouts(t *testing.T) {
	dir := t.TempDir()
	text := writeTemp(t, dir, "text.txt", "the cat sat on the mat\n")
	cfgPath := writeTemp(t, dir, "config.toml", `
[layouts]
alpha = "abcdefghijklmnopqrstuvwxyz"
`)
	out, err := runCLI(t, "eval", "alpha", "thecasomn", "--text", text, "--config", cfgPath, "--worst", "3")
	if err != nil {
		t.Fatalf("eval: %v\n%s", err, out)
	}
	for _, want := range []string{"Layout alpha: abcdefghijklmnopqrstuvwxyz", "Layout thecasomn", "Ranking", "Svalboard Movement Pattern"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEvalCommandJSON(t *testing.T) {
	dir := t.TempDir()
	bigrams := writeTemp(t, dir, "2-grams.txt", "10 ab\n5 b␣\n")
	out, err := runCLI(t, "eval", "abcde", "--corpus", bigrams, "--json", "--config", filepath.Join(dir, "none.toml"))
	if err != nil {
		t.Fatalf("eval: %v\n%s", err, out)
	}
	var decoded struct {
		Corpora []struct {
			Corpus  string `json:"corpus"`
			Results []struct {
				Layout   string  `json:"layout"`
				NotFound float64 `json:"not_found"`
				Metrics  []struct {
					Kind string `json:"kind"`
				} `json:"metrics"`
			} `json:"results"`
		} `json:"corpora"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(decoded.Corpora) != 1 || decoded.Corpora[0].Corpus != bigrams {
		t.Fatalf("unexpected corpora: %s", out)
	}
	results := decoded.Corpora[0].Results
	if len(results) != 1 || results[0].Layout != "abcde" || results[0].NotFound != 5 {
		t.Fatalf("unexpected json: %s", out)
	}
	if len(results[0].Metrics) != 2 {
		t.Fatalf("expected the two default metrics, got %d", len(results[0].Metrics))
	}
}

func TestEvalCommandComparesCorpora(t *testing.T) {
	dir := t.TempDir()
	eng := writeTemp(t, t.TempDir(), "2-grams.txt", "10 ab\n")
	deu := writeTemp(t, t.TempDir(), "2-grams.txt", "10 cd\n3 ab\n")
	none := filepath.Join(dir, "none.toml")

	out, err := runCLI(t, "eval", "abcde", "edcba", "--corpus", eng, "--corpus", deu, "--config", none)
	if err != nil {
		t.Fatalf("eval: %v\n%s", err, out)
	}
	for _, want := range []string{"== Corpus " + eng, "== Corpus " + deu, "Layouts by corpus", "Mean"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "eval", "abcde", "edcba", "--corpus", eng, "--corpus", deu, "--json", "--config", none)
	if err != nil {
		t.Fatalf("eval json: %v\n%s", err, out)
	}
	var decoded struct {
		Corpora []struct {
			Corpus  string `json:"corpus"`
			Results []struct {
				Layout string `json:"layout"`
			} `json:"results"`
		} `json:"corpora"`
		ByCorpus []struct {
			Layout string    `json:"layout"`
			Totals []float64 `json:"totals"`
		} `json:"by_corpus"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(decoded.Corpora) != 2 || decoded.Corpora[0].Corpus != eng || decoded.Corpora[1].Corpus != deu {
		t.Fatalf("expected one block per corpus in order: %s", out)
	}
	for _, c := range decoded.Corpora {
		if len(c.Results) != 2 {
			t.Fatalf("expected both layouts per corpus: %s", out)
		}
	}
	if len(decoded.ByCorpus) != 2 || len(decoded.ByCorpus[0].Totals) != 2 {
		t.Fatalf("expected a layout by corpus table: %s", out)
	}
}

func TestEvalCommandUsesConfiguredCorpora(t *testing.T) {
	dir := t.TempDir()
	first := writeTemp(t, dir, "first.txt", "10 ab\n")
	second := writeTemp(t, dir, "second.txt", "10 cd\n")
	cfgPath := writeTemp(t, dir, "config.toml", "[evaluation]\ncorpora = [\""+first+"\", \""+second+"\"]\n")

	out, err := runCLI(t, "eval", "abcde", "--config", cfgPath, "--json")
	if err != nil {
		t.Fatalf("eval: %v\n%s", err, out)
	}
	if !strings.Contains(out, first) || !strings.Contains(out, second) {
		t.Fatalf("expected both configured corpora: %s", out)
	}

	out, err = runCLI(t, "eval", "abcde", "--config", cfgPath, "--corpus", first, "--json")
	if err != nil {
		t.Fatalf("eval: %v\n%s", err, out)
	}
	if strings.Contains(out, second) {
		t.Fatalf("expected --corpus to replace configured corpora: %s", out)
	}
}

func TestEvalCommandErrors(t *testing.T) {
	dir := t.TempDir()
	text := writeTemp(t, dir, "text.txt", "abc")
	if _, err := runCLI(t, "eval", "aa", "--text", text, "--config", filepath.Join(dir, "none.toml")); err == nil {
		t.Fatalf("expected duplicate symbol error")
	}
	if _, err := runCLI(t, "eval", "abc", "--text", text, "--jobs", "0", "--config", filepath.Join(dir, "none.toml")); err == nil {
		t.Fatalf("expected jobs validation error")
	}
	if _, err := runCLI(t, "eval", "abc", "--corpus", filepath.Join(dir, "missing.txt"), "--config", filepath.Join(dir, "none.toml")); err == nil {
		t.Fatalf("expected missing corpus error")
	}
}

func TestCorpusCommandWritesReadableFile(t *testing.T) {
	dir := t.TempDir()
	text := writeTemp(t, dir, "text.txt", "hello world\n")
	out := filepath.Join(dir, "out", "2-grams.txt")
	if _, err := runCLI(t, "corpus", text, "--out", out, "--symbols", "helo"); err != nil {
		t.Fatalf("corpus: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "1 he\n") || strings.Contains(string(data), "wo") {
		t.Fatalf("unexpected corpus file:\n%s", data)
	}
}

func TestRunRecords(t *testing.T) {
	res := evaluation.Result{
		Layout:  "mine",
		Symbols: "abc",
		Total:   2,
		Metrics: []evaluation.MetricResult{{Kind: "k", Name: "K", Weight: 1, RawCost: 4, Cost: 2, Included: 3, Excluded: 1}},
	}
	run, metrics := runRecords(res, "corpus.txt")
	if run.LayoutName != "mine" || run.Layout != "abc" || run.Corpus != "corpus.txt" || run.Total != 2 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if len(metrics) != 1 || metrics[0] != (model.MetricRecord{Kind: "k", Name: "K", Weight: 1, RawCost: 4, Cost: 2, Included: 3, Excluded: 1}) {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
}

func TestBuildLayoutsResolvesNames(t *testing.T) {
	cfg := config.FileConfig{Layouts: map[string]string{"short": "xyz"}}
	layouts, err := buildLayouts(cfg, keyboard.Svalboard(), []string{"short", "abc"})
	if err != nil {
		t.Fatalf("build layouts: %v", err)
	}
	if layouts[0].Name() != "short" || layouts[0].Symbols() != "xyz" || layouts[1].Symbols() != "abc" {
		t.Fatalf("unexpected layouts: %s=%s %s=%s", layouts[0].Name(), layouts[0].Symbols(), layouts[1].Name(), layouts[1].Symbols())
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/someone")
	if got := expandHome("~/x.txt"); got != "/home/someone/x.txt" {
		t.Fatalf("unexpected expansion %q", got)
	}
	if got := expandHome("/abs/x.txt"); got != "/abs/x.txt" {
		t.Fatalf("unexpected expansion %q", got)
	}
}
