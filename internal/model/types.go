// Package model defines shared data structures.
package model

import "time"

// EvalConfig defines evaluation settings after config and flags are merged.
type EvalConfig struct {
	CorpusPaths []string
	TextPath    string
	Jobs        int
	Worst       int
	Save        bool
	JSON        bool
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Layout      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// RunRecord captures one stored layout evaluation.
type RunRecord struct {
	ID         string
	CreatedAt  time.Time
	LayoutName string
	Layout     string
	Corpus     string
	Total      float64
}

// MetricRecord stores one metric's share of a run.
type MetricRecord struct {
	RunID    string
	Kind     string
	Name     string
	Weight   float64
	RawCost  float64
	Cost     float64
	Included int
	Excluded int
}
