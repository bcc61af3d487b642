package godb

import "testing"

func TestEqualityJoinMatchesOnEqualFields(t *testing.T) {
	desc := intPageDesc()
	left, bpLeft := makeTestHeapFile(t, desc, 10)
	right, bpRight := makeTestHeapFile(t, desc, 10)

	tid := NewTID()
	bpLeft.BeginTransaction(tid)
	mustInsert(t, bpLeft, left, tid, 1, 2, 3)
	bpLeft.CommitTransaction(tid)

	tid2 := NewTID()
	bpRight.BeginTransaction(tid2)
	mustInsert(t, bpRight, right, tid2, 2, 3, 4)
	bpRight.CommitTransaction(tid2)

	// A join spans two buffer pools in this test only because each
	// HeapFile was built against its own pool; GetPage for either side
	// still only ever touches its own file's pool.
	joinTid := NewTID()
	bpLeft.BeginTransaction(joinTid)
	bpRight.BeginTransaction(joinTid)

	leftScan := NewSeqScan(left, "l")
	rightScan := NewSeqScan(right, "r")
	leftField := NewFieldExpr(FieldType{Fname: "a", TableQualifier: "l", Ftype: IntType})
	rightField := NewFieldExpr(FieldType{Fname: "a", TableQualifier: "r", Ftype: IntType})

	join, err := NewJoin(leftScan, leftField, rightScan, rightField, 1000)
	if err != nil {
		t.Fatalf("NewJoin: %v", err)
	}

	tups := scanAll(t, join, joinTid)
	bpLeft.CommitTransaction(joinTid)
	bpRight.CommitTransaction(joinTid)

	if len(tups) != 2 {
		t.Fatalf("expected 2 matching pairs (2,3), got %d: %v", len(tups), tups)
	}
	seen := map[int64]bool{}
	for _, tup := range tups {
		if len(tup.Fields) != 2 {
			t.Fatalf("expected 2 fields in joined tuple, got %d", len(tup.Fields))
		}
		if tup.Fields[0] != tup.Fields[1] {
			t.Fatalf("joined tuple fields don't match: %v vs %v", tup.Fields[0], tup.Fields[1])
		}
		seen[tup.Fields[0].(IntField).Value] = true
	}
	if !seen[2] || !seen[3] {
		t.Fatalf("expected matches on 2 and 3, got %v", seen)
	}
}
