package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// FilterFunc returns true when a bigram should be kept.
type FilterFunc func(Bigram) bool

// SymbolFilter keeps bigrams whose symbols are both in symbols. Space is always kept.
func SymbolFilter(symbols string) FilterFunc {
	set := map[rune]struct{}{' ': {}}
	for _, r := range symbols {
		set[r] = struct{}{}
	}
	return func(b Bigram) bool {
		_, ok0 := set[b.Symbols[0]]
		_, ok1 := set[b.Symbols[1]]
		return ok0 && ok1
	}
}

// Filter returns a corpus with only the bigrams keep accepts.
func (c *Corpus) Filter(keep FilterFunc) *Corpus {
	counts := make(map[[2]rune]float64, len(c.Bigrams))
	for _, b := range c.Bigrams {
		if keep(b) {
			counts[b.Symbols] += b.Weight
		}
	}
	out := fromCounts(counts)
	out.Name = c.Name
	return out
}

// Merge sums the bigram weights of the given corpora.
func Merge(cs ...*Corpus) *Corpus {
	counts := map[[2]rune]float64{}
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		for _, b := range c.Bigrams {
			counts[b.Symbols] += b.Weight
		}
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	out := fromCounts(counts)
	out.Name = strings.Join(names, ",")
	return out
}

// Write encodes the corpus in the "<count> <bigram>" format read by Read.
// Bigrams containing line breaks or tabs cannot be represented and are skipped.
func Write(w io.Writer, c *Corpus) (skipped int, err error) {
	bw := bufio.NewWriter(w)
	for _, b := range c.Bigrams {
		if !writable(b.Symbols[0]) || !writable(b.Symbols[1]) {
			skipped++
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s %s\n", strconv.FormatFloat(b.Weight, 'f', -1, 64), b.String()); err != nil {
			return skipped, err
		}
	}
	return skipped, bw.Flush()
}

func writable(r rune) bool {
	return r == ' ' || !unicode.IsSpace(r) && r != SpaceMarker
}

// WriteFile atomically replaces path with the encoded corpus.
func WriteFile(path string, c *Corpus) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create corpus dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "corpus-*.txt")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp corpus: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	skipped, err := Write(tmpFile, c)
	if err != nil {
		return skipped, fmt.Errorf("failed to write corpus: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return skipped, fmt.Errorf("failed to close corpus: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return skipped, fmt.Errorf("failed to write corpus: %w", err)
	}
	return skipped, nil
}
