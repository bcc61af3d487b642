package godb

import "testing"

// TestBufferPoolEvictsOnlyCleanPages exercises the S5-style scenario: a
// pool sized to hold only as many pages as are dirtied errors on a
// further miss rather than evicting a dirty page, then succeeds once the
// dirtying transaction commits and its pages become clean.
func TestBufferPoolEvictsOnlyCleanPages(t *testing.T) {
	desc := intPageDesc()
	hf, bp := makeTestHeapFile(t, desc, 2)

	tid := NewTID()
	bp.BeginTransaction(tid)

	perPage := numSlots(desc)
	mustInsert(t, bp, hf, tid, sequence(perPage)...)
	mustInsert(t, bp, hf, tid, sequence(perPage)...)

	// Both of the pool's 2 slots are now dirty pages of hf. A third page
	// (forcing a miss) must fail eviction rather than steal a dirty page.
	_, err := bp.GetPage(hf, 2, tid, ReadPerm)
	if err == nil {
		t.Fatalf("expected eviction to fail with both resident pages dirty")
	}
	if gerr, ok := err.(GoDBError); !ok || gerr.Code() != NoCleanVictimError {
		t.Fatalf("expected NoCleanVictimError, got %v", err)
	}

	bp.CommitTransaction(tid)

	// Pages are now clean; a new transaction touching a third page must
	// be able to evict one of them. Both resident pages are full, so this
	// insert appends page 2 and fetches it through the pool.
	tid2 := NewTID()
	bp.BeginTransaction(tid2)
	extra := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: 0}}}
	if _, err := hf.insertTuple(extra, tid2); err != nil {
		t.Fatalf("expected a third page to load once pages are clean: %v", err)
	}
	bp.CommitTransaction(tid2)
}

func sequence(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i)
	}
	return out
}

// TestBufferPoolAbortHidesChanges exercises the S6-style scenario: under
// NO-STEAL, a transaction that inserts and then aborts leaves no trace
// visible to a later transaction.
func TestBufferPoolAbortHidesChanges(t *testing.T) {
	desc := intPageDesc()
	hf, bp := makeTestHeapFile(t, desc, 10)

	tid := NewTID()
	bp.BeginTransaction(tid)
	mustInsert(t, bp, hf, tid, 1, 2, 3)
	bp.AbortTransaction(tid)

	readTid := NewTID()
	bp.BeginTransaction(readTid)
	tups := scanAll(t, NewSeqScan(hf, "t"), readTid)
	bp.CommitTransaction(readTid)

	if len(tups) != 0 {
		t.Fatalf("expected aborted inserts to be invisible, found %d tuples", len(tups))
	}
}

// TestBufferPoolCommitIsDurableAcrossTransactions exercises the
// insert/commit half of the same property: a committed transaction's
// writes are visible to every later transaction.
func TestBufferPoolCommitIsDurableAcrossTransactions(t *testing.T) {
	desc := intPageDesc()
	hf, bp := makeTestHeapFile(t, desc, 10)

	tid := NewTID()
	bp.BeginTransaction(tid)
	mustInsert(t, bp, hf, tid, 7)
	bp.CommitTransaction(tid)

	readTid := NewTID()
	bp.BeginTransaction(readTid)
	tups := scanAll(t, NewSeqScan(hf, "t"), readTid)
	bp.CommitTransaction(readTid)

	if len(tups) != 1 || tups[0].Fields[0] != (IntField{Value: 7}) {
		t.Fatalf("expected committed insert to be visible, got %v", tups)
	}
}
