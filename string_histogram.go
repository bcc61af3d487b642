package godb

import (
	boom "github.com/tylertreat/BoomFilters"
)

// StringHistogram estimates the selectivity of equality predicates over
// a string column using a Count-Min Sketch rather than an exact
// per-value histogram, trading a small, tunable overcount rate for
// O(1) space independent of the number of distinct strings seen.
type StringHistogram struct {
	cms   *boom.CountMinSketch
	count uint64
}

// NewStringHistogram creates a sketch-backed string histogram with a
// 0.1% error rate at 99.9% confidence.
func NewStringHistogram() (*StringHistogram, error) {
	cms := boom.NewCountMinSketch(0.001, 0.999)
	return &StringHistogram{cms: cms}, nil
}

func (h *StringHistogram) AddValue(s string) {
	h.cms.Add([]byte(s))
	h.count++
}

// EstimateSelectivity estimates the fraction of values satisfying
// "field op s". Only equality and inequality are meaningful against a
// sketch that doesn't preserve ordering; other operators fall back to
// the conservative estimate of "could match anything".
func (h *StringHistogram) EstimateSelectivity(op BoolOp, s string) float64 {
	if h.count == 0 {
		return 0.0
	}
	eq := float64(h.cms.Count([]byte(s))) / float64(h.count)
	switch op {
	case OpEq:
		return eq
	case OpNe:
		return 1.0 - eq
	default:
		return 1.0
	}
}
