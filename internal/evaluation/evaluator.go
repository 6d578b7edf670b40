// Package evaluation scores layouts against a corpus with a set of bigram metrics.
package evaluation

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/keycost/internal/corpus"
	"github.com/verte-zerg/keycost/internal/keyboard"
	"github.com/verte-zerg/keycost/internal/metrics"
)

// DefaultWorst is the number of most expensive bigrams kept per metric.
const DefaultWorst = 10

// Weighted is a metric together with its share of the layout total.
type Weighted struct {
	Kind      string
	Metric    metrics.BigramMetric
	Weight    float64
	Normalize bool
}

// BigramCost is the cost one metric assigned to one corpus bigram.
type BigramCost struct {
	Bigram corpus.Bigram
	Cost   float64
}

// MetricResult aggregates one metric over a corpus.
type MetricResult struct {
	Kind     string
	Name     string
	Weight   float64
	RawCost  float64
	Cost     float64
	Included int
	Excluded int
	Worst    []BigramCost
}

// Result is the evaluation of one layout.
type Result struct {
	Layout   string
	Symbols  string
	Total    float64
	Metrics  []MetricResult
	NotFound float64
	Found    float64
}

// CorpusResults holds the results of every layout on one corpus, in layout order.
type CorpusResults struct {
	Corpus  string
	Results []Result
}

// Evaluator sums bigram metric costs into a layout score. It holds no
// per-layout state and may be shared between goroutines.
type Evaluator struct {
	metrics []Weighted
	worst   int
}

// New returns an Evaluator over the given metrics keeping the worst bigrams per metric.
func New(ms []Weighted, worst int) *Evaluator {
	if worst < 0 {
		worst = 0
	}
	return &Evaluator{metrics: ms, worst: worst}
}

// Metrics returns the configured metrics.
func (e *Evaluator) Metrics() []Weighted {
	return e.metrics
}

type keyPair struct {
	k1, k2 *keyboard.LayerKey
}

// expand returns the key pairs pressed for a bigram. The base keys of both
// symbols always form a pair. When the second symbol needs a modifier, the
// modifier pair is added if the first symbol already held it, otherwise the
// move from the first base key to the modifier.
func expand(l *keyboard.Layout, b corpus.Bigram) ([]keyPair, bool) {
	seq1, ok := l.Sequence(b.Symbols[0])
	if !ok {
		return nil, false
	}
	seq2, ok := l.Sequence(b.Symbols[1])
	if !ok {
		return nil, false
	}
	last1 := seq1[len(seq1)-1]
	pairs := []keyPair{{k1: last1, k2: seq2[len(seq2)-1]}}
	if len(seq2) > 1 {
		mod := seq2[0]
		if len(seq1) > 1 && seq1[0].Equal(mod) {
			pairs = append(pairs, keyPair{k1: seq1[0], k2: mod})
		} else {
			pairs = append(pairs, keyPair{k1: last1, k2: mod})
		}
	}
	return pairs, true
}

// Evaluate scores one layout against the corpus.
func (e *Evaluator) Evaluate(l *keyboard.Layout, c *corpus.Corpus) Result {
	res := Result{
		Layout:  l.Name(),
		Symbols: l.Symbols(),
		Metrics: make([]MetricResult, len(e.metrics)),
	}
	for i, wm := range e.metrics {
		res.Metrics[i] = MetricResult{Kind: wm.Kind, Name: wm.Metric.Name(), Weight: wm.Weight}
	}
	worst := make([][]BigramCost, len(e.metrics))

	for _, b := range c.Bigrams {
		pairs, ok := expand(l, b)
		if !ok {
			res.NotFound += b.Weight
			continue
		}
		res.Found += b.Weight
		for i, wm := range e.metrics {
			bigramCost := 0.0
			included := false
			for _, p := range pairs {
				cost, ok := wm.Metric.IndividualCost(p.k1, p.k2, b.Weight, c.Total, l)
				if !ok {
					continue
				}
				included = true
				bigramCost += cost
			}
			mr := &res.Metrics[i]
			if !included {
				mr.Excluded++
				continue
			}
			mr.Included++
			mr.RawCost += bigramCost
			if e.worst > 0 && bigramCost > 0 {
				worst[i] = append(worst[i], BigramCost{Bigram: b, Cost: bigramCost})
			}
		}
	}

	for i, wm := range e.metrics {
		mr := &res.Metrics[i]
		mr.Cost = mr.RawCost
		if wm.Normalize && c.Total > 0 {
			mr.Cost = mr.RawCost / c.Total
		}
		mr.Cost *= wm.Weight
		res.Total += mr.Cost
		mr.Worst = topCosts(worst[i], e.worst)
	}
	return res
}

// EvaluateAll scores the layouts in parallel with at most jobs workers.
// Results keep the order of layouts.
func (e *Evaluator) EvaluateAll(ctx context.Context, layouts []*keyboard.Layout, c *corpus.Corpus, jobs int) ([]Result, error) {
	if c == nil {
		return nil, fmt.Errorf("corpus is required")
	}
	results := make([]Result, len(layouts))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, l := range layouts {
		i, l := i, l
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.Evaluate(l, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// EvaluateCorpora runs EvaluateAll once per corpus, keeping the order of corpora.
func (e *Evaluator) EvaluateCorpora(ctx context.Context, layouts []*keyboard.Layout, cs []*corpus.Corpus, jobs int) ([]CorpusResults, error) {
	out := make([]CorpusResults, 0, len(cs))
	for _, c := range cs {
		results, err := e.EvaluateAll(ctx, layouts, c, jobs)
		if err != nil {
			return nil, err
		}
		out = append(out, CorpusResults{Corpus: c.Name, Results: results})
	}
	return out, nil
}

// Rank returns the results ordered by ascending total cost, ties by layout name.
func Rank(results []Result) []Result {
	out := make([]Result, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].Layout < out[j].Layout
		}
		return out[i].Total < out[j].Total
	})
	return out
}

func topCosts(costs []BigramCost, n int) []BigramCost {
	sort.SliceStable(costs, func(i, j int) bool {
		return costs[i].Cost > costs[j].Cost
	})
	if len(costs) > n {
		costs = costs[:n]
	}
	return costs
}
