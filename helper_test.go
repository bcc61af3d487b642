package godb

import (
	"os"
	"testing"
)

// makeTestHeapFile creates a fresh, empty HeapFile backed by a temp file
// (removed on test cleanup) registered against a fresh BufferPool of the
// given capacity.
func makeTestHeapFile(t *testing.T, desc *TupleDesc, bufSize int) (*HeapFile, *BufferPool) {
	t.Helper()
	f, err := os.CreateTemp("", "godb-heapfile-*.dat")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(path) })

	bp, err := NewBufferPool(bufSize)
	if err != nil {
		t.Fatalf("NewBufferPool: %v", err)
	}
	hf, err := NewHeapFile(path, desc, bp)
	if err != nil {
		t.Fatalf("NewHeapFile: %v", err)
	}
	return hf, bp
}

// scanAll drains every tuple visible to tid from op, in iteration order.
func scanAll(t *testing.T, op Operator, tid TransactionID) []*Tuple {
	t.Helper()
	iter, err := op.Iterator(tid)
	if err != nil {
		t.Fatalf("Iterator: %v", err)
	}
	var out []*Tuple
	for {
		tup, err := iter()
		if err != nil {
			t.Fatalf("iterator step: %v", err)
		}
		if tup == nil {
			break
		}
		out = append(out, tup)
	}
	return out
}

// mustInsert inserts each value as a single-field int tuple, marking the
// touched page dirty the way InsertOp does (HeapFile.insertTuple itself
// only acquires the write lock; dirtying is the caller's job).
func mustInsert(t *testing.T, bp *BufferPool, hf *HeapFile, tid TransactionID, vals ...int64) {
	t.Helper()
	for _, v := range vals {
		tup := &Tuple{Desc: *hf.Descriptor(), Fields: []DBValue{IntField{Value: v}}}
		pg, err := hf.insertTuple(tup, tid)
		if err != nil {
			t.Fatalf("insertTuple(%d): %v", v, err)
		}
		pg.markDirty(true, tid)
	}
}
