package godb

import "testing"

func groupedDesc() TupleDesc {
	return TupleDesc{Fields: []FieldType{
		{Fname: "g", Ftype: IntType},
		{Fname: "v", Ftype: IntType},
	}}
}

func TestAggregateSumGroupedByField(t *testing.T) {
	desc := groupedDesc()
	rows := []*Tuple{
		{Desc: desc, Fields: []DBValue{IntField{Value: 1}, IntField{Value: 10}}},
		{Desc: desc, Fields: []DBValue{IntField{Value: 1}, IntField{Value: 20}}},
		{Desc: desc, Fields: []DBValue{IntField{Value: 2}, IntField{Value: 5}}},
	}
	src := &staticOperator{desc: desc, tuples: rows}

	sumExpr := NewFieldExpr(FieldType{Fname: "v", Ftype: IntType})
	groupExpr := NewFieldExpr(FieldType{Fname: "g", Ftype: IntType})

	sumState := &SumAggState{}
	if err := sumState.Init("sum_v", sumExpr); err != nil {
		t.Fatalf("Init: %v", err)
	}

	agg := NewAggregator([]AggState{sumState}, src, []Expr{groupExpr})
	results := scanAll(t, agg, NewTID())

	if len(results) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(results))
	}
	sums := map[int64]int64{}
	for _, r := range results {
		g := r.Fields[0].(IntField).Value
		v := r.Fields[1].(IntField).Value
		sums[g] = v
	}
	if sums[1] != 30 {
		t.Fatalf("expected group 1 sum of 30, got %d", sums[1])
	}
	if sums[2] != 5 {
		t.Fatalf("expected group 2 sum of 5, got %d", sums[2])
	}
}

func TestAggregateAvgFloorsTowardZero(t *testing.T) {
	desc := intPageDesc()
	rows := []*Tuple{
		{Desc: *desc, Fields: []DBValue{IntField{Value: 1}}},
		{Desc: *desc, Fields: []DBValue{IntField{Value: 2}}},
		{Desc: *desc, Fields: []DBValue{IntField{Value: 4}}},
	}
	src := &staticOperator{desc: *desc, tuples: rows}

	expr := NewFieldExpr(FieldType{Fname: "a", Ftype: IntType})
	avgState := &AvgAggState{}
	if err := avgState.Init("avg_a", expr); err != nil {
		t.Fatalf("Init: %v", err)
	}

	agg := NewAggregator([]AggState{avgState}, src, nil)
	results := scanAll(t, agg, NewTID())

	if len(results) != 1 {
		t.Fatalf("expected 1 overall group, got %d", len(results))
	}
	// (1+2+4)/3 = 2.33, floors to 2.
	if got := results[0].Fields[0].(IntField).Value; got != 2 {
		t.Fatalf("expected AVG to floor to 2, got %d", got)
	}
}

func TestAggregateMaxMinDoNotPanicOnFirstTuple(t *testing.T) {
	desc := intPageDesc()
	rows := []*Tuple{
		{Desc: *desc, Fields: []DBValue{IntField{Value: 7}}},
	}
	src := &staticOperator{desc: *desc, tuples: rows}
	expr := NewFieldExpr(FieldType{Fname: "a", Ftype: IntType})

	maxState := &MaxAggState{}
	if err := maxState.Init("max_a", expr); err != nil {
		t.Fatalf("Init: %v", err)
	}
	minState := &MinAggState{}
	if err := minState.Init("min_a", expr); err != nil {
		t.Fatalf("Init: %v", err)
	}

	agg := NewAggregator([]AggState{maxState, minState}, src, nil)
	results := scanAll(t, agg, NewTID())

	if len(results) != 1 {
		t.Fatalf("expected 1 group, got %d", len(results))
	}
	if results[0].Fields[0] != (IntField{Value: 7}) || results[0].Fields[1] != (IntField{Value: 7}) {
		t.Fatalf("expected max and min of the single value 7, got %v", results[0].Fields)
	}
}
