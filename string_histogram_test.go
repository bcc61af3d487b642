package godb

import "testing"

func TestStringHistogramEqAndNeqSumToOne(t *testing.T) {
	h, err := NewStringHistogram()
	if err != nil {
		t.Fatalf("NewStringHistogram: %v", err)
	}
	for _, s := range []string{"apple", "banana", "apple", "cherry"} {
		h.AddValue(s)
	}

	eq := h.EstimateSelectivity(OpEq, "apple")
	neq := h.EstimateSelectivity(OpNe, "apple")
	if diff := (eq + neq) - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected EQ + NEQ to sum to 1, got %f + %f", eq, neq)
	}
	if eq <= 0 {
		t.Fatalf("expected a positive selectivity for a value seen twice, got %f", eq)
	}
}

func TestStringHistogramEmptyIsZero(t *testing.T) {
	h, err := NewStringHistogram()
	if err != nil {
		t.Fatalf("NewStringHistogram: %v", err)
	}
	if sel := h.EstimateSelectivity(OpEq, "anything"); sel != 0 {
		t.Fatalf("expected 0 selectivity on an empty histogram, got %f", sel)
	}
}
