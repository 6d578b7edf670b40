// Package corpus loads bigram frequencies.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SpaceMarker stands for a literal space inside a bigram file.
const SpaceMarker = '␣'

// Bigram is an ordered pair of symbols with its corpus weight.
type Bigram struct {
	Symbols [2]rune
	Weight  float64
}

// String returns the bigram as text, with spaces shown as SpaceMarker.
func (b Bigram) String() string {
	return string(display(b.Symbols[0])) + string(display(b.Symbols[1]))
}

// Corpus holds bigram weights sorted by descending weight.
type Corpus struct {
	Name    string
	Bigrams []Bigram
	Total   float64
}

// LoadFile reads a bigram file with one "<count> <bigram>" entry per line.
func LoadFile(path string) (*Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()
	c, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	c.Name = path
	return c, nil
}

// Read parses bigram entries from r. Blank lines and lines starting with '#' are skipped;
// repeated bigrams accumulate.
func Read(r io.Reader) (*Corpus, error) {
	counts := map[[2]rune]float64{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"<count> <bigram>\", got %q", lineNo, line)
		}
		weight, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid count: %w", lineNo, err)
		}
		if weight < 0 {
			return nil, fmt.Errorf("line %d: negative count", lineNo)
		}
		if utf8.RuneCountInString(fields[1]) != 2 {
			return nil, fmt.Errorf("line %d: bigram %q must have exactly two symbols", lineNo, fields[1])
		}
		runes := []rune(fields[1])
		counts[[2]rune{parse(runes[0]), parse(runes[1])}] += weight
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}
	return fromCounts(counts), nil
}

// FromText counts the bigrams of text. Line breaks end a run of symbols.
func FromText(text string) (*Corpus, error) {
	counts := map[[2]rune]float64{}
	for _, line := range strings.Split(text, "\n") {
		runes := []rune(strings.TrimRight(line, "\r"))
		for i := 0; i+1 < len(runes); i++ {
			counts[[2]rune{runes[i], runes[i+1]}]++
		}
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("text contains no bigrams")
	}
	return fromCounts(counts), nil
}

// LoadText reads a plain text file and counts its bigrams.
func LoadText(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := FromText(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	c.Name = path
	return c, nil
}

func fromCounts(counts map[[2]rune]float64) *Corpus {
	c := &Corpus{Bigrams: make([]Bigram, 0, len(counts))}
	for symbols, weight := range counts {
		c.Bigrams = append(c.Bigrams, Bigram{Symbols: symbols, Weight: weight})
		c.Total += weight
	}
	sort.Slice(c.Bigrams, func(i, j int) bool {
		a, b := c.Bigrams[i], c.Bigrams[j]
		if a.Weight == b.Weight {
			if a.Symbols[0] == b.Symbols[0] {
				return a.Symbols[1] < b.Symbols[1]
			}
			return a.Symbols[0] < b.Symbols[0]
		}
		return a.Weight > b.Weight
	})
	return c
}

func parse(r rune) rune {
	if r == SpaceMarker {
		return ' '
	}
	return r
}

func display(r rune) rune {
	if r == ' ' {
		return SpaceMarker
	}
	return r
}
