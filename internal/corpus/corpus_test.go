package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadAccumulatesAndSorts(t *testing.T) {
	input := strings.Join([]string{
		"# comment",
		"10 th",
		"",
		"4 he",
		"3 th",
		"2 e␣",
	}, "\n")
	c, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(c.Bigrams) != 3 {
		t.Fatalf("expected 3 bigrams, got %d", len(c.Bigrams))
	}
	if c.Bigrams[0].String() != "th" || c.Bigrams[0].Weight != 13 {
		t.Fatalf("unexpected first bigram: %+v", c.Bigrams[0])
	}
	if c.Bigrams[2].Symbols != [2]rune{'e', ' '} {
		t.Fatalf("expected space marker to decode, got %q", string(c.Bigrams[2].Symbols[:]))
	}
	if c.Bigrams[2].String() != "e␣" {
		t.Fatalf("expected space marker on display, got %q", c.Bigrams[2].String())
	}
	if c.Total != 19 {
		t.Fatalf("expected total 19, got %v", c.Total)
	}
}

func TestReadRejectsMalformedLines(t *testing.T) {
	for _, input := range []string{"abc", "x th", "1 thx", "-1 th", ""} {
		if _, err := Read(strings.NewReader(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestFromText(t *testing.T) {
	c, err := FromText("abab\nba")
	if err != nil {
		t.Fatalf("from text: %v", err)
	}
	weights := map[string]float64{}
	for _, b := range c.Bigrams {
		weights[b.String()] = b.Weight
	}
	if weights["ab"] != 2 || weights["ba"] != 2 || len(weights) != 2 {
		t.Fatalf("unexpected weights: %v", weights)
	}
	if c.Total != 4 {
		t.Fatalf("expected total 4, got %v", c.Total)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2-grams.txt")
	if err := os.WriteFile(path, []byte("5 ab\n1 ba\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Name != path || len(c.Bigrams) != 2 {
		t.Fatalf("unexpected corpus: %+v", c)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
