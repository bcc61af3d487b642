package godb

import "testing"

func TestInsertOpCountsRowsAndPersists(t *testing.T) {
	desc := intPageDesc()
	hf, bp := makeTestHeapFile(t, desc, 10)

	src := &staticOperator{
		desc: *desc,
		tuples: []*Tuple{
			{Desc: *desc, Fields: []DBValue{IntField{Value: 1}}},
			{Desc: *desc, Fields: []DBValue{IntField{Value: 2}}},
		},
	}

	tid := NewTID()
	bp.BeginTransaction(tid)
	ins := NewInsertOp(hf, src)
	results := scanAll(t, ins, tid)
	bp.CommitTransaction(tid)

	if len(results) != 1 || results[0].Fields[0] != (IntField{Value: 2}) {
		t.Fatalf("expected a single summary tuple counting 2 inserts, got %v", results)
	}

	readTid := NewTID()
	bp.BeginTransaction(readTid)
	rows := scanAll(t, NewSeqScan(hf, "t"), readTid)
	bp.CommitTransaction(readTid)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows persisted, got %d", len(rows))
	}
}

func TestDeleteOpCountsRowsAndRemoves(t *testing.T) {
	desc := intPageDesc()
	hf, bp := makeTestHeapFile(t, desc, 10)

	tid := NewTID()
	bp.BeginTransaction(tid)
	mustInsert(t, bp, hf, tid, 1, 2, 3)
	bp.CommitTransaction(tid)

	scanTid := NewTID()
	bp.BeginTransaction(scanTid)
	rows := scanAll(t, NewSeqScan(hf, "t"), scanTid)
	bp.CommitTransaction(scanTid)

	delTid := NewTID()
	bp.BeginTransaction(delTid)
	toDelete := &staticOperator{desc: *hf.Descriptor(), tuples: rows[:2]}
	del := NewDeleteOp(hf, toDelete)
	results := scanAll(t, del, delTid)
	bp.CommitTransaction(delTid)

	if len(results) != 1 || results[0].Fields[0] != (IntField{Value: 2}) {
		t.Fatalf("expected a single summary tuple counting 2 deletes, got %v", results)
	}

	afterTid := NewTID()
	bp.BeginTransaction(afterTid)
	remaining := scanAll(t, NewSeqScan(hf, "t"), afterTid)
	bp.CommitTransaction(afterTid)
	if len(remaining) != 1 {
		t.Fatalf("expected 1 row remaining, got %d", len(remaining))
	}
}

// staticOperator replays a fixed slice of tuples, for feeding InsertOp and
// DeleteOp known input without needing a second HeapFile.
type staticOperator struct {
	desc   TupleDesc
	tuples []*Tuple
}

func (s *staticOperator) Descriptor() *TupleDesc { return &s.desc }

func (s *staticOperator) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	i := 0
	return func() (*Tuple, error) {
		if i >= len(s.tuples) {
			return nil, nil
		}
		t := s.tuples[i]
		i++
		return t, nil
	}, nil
}
