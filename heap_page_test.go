package godb

import (
	"bytes"
	"testing"
)

func intPageDesc() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: "a", Ftype: IntType}}}
}

func TestHeapPageSerializationRoundTrip(t *testing.T) {
	desc := intPageDesc()
	hf, _ := makeTestHeapFile(t, desc, 10)
	page, err := newHeapPage(desc, 0, hf)
	if err != nil {
		t.Fatalf("newHeapPage: %v", err)
	}

	var rids []*RecordId
	for i := int64(0); i < 5; i++ {
		tup := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: i}}}
		rid, err := page.insertTuple(tup)
		if err != nil {
			t.Fatalf("insertTuple: %v", err)
		}
		rids = append(rids, rid)
	}

	buf, err := page.toBuffer()
	if err != nil {
		t.Fatalf("toBuffer: %v", err)
	}
	if buf.Len() != PageSize {
		t.Fatalf("expected serialized page of %d bytes, got %d", PageSize, buf.Len())
	}

	restored, err := newHeapPage(desc, 0, hf)
	if err != nil {
		t.Fatalf("newHeapPage: %v", err)
	}
	if err := restored.initFromBuffer(bytes.NewBuffer(buf.Bytes())); err != nil {
		t.Fatalf("initFromBuffer: %v", err)
	}

	iter := restored.tupleIter()
	for i, rid := range rids {
		got, err := iter()
		if err != nil {
			t.Fatalf("iter: %v", err)
		}
		if got == nil {
			t.Fatalf("expected tuple %d after round trip, got none", i)
		}
		if got.Fields[0] != (IntField{Value: int64(i)}) {
			t.Fatalf("tuple %d: got %v, want %d", i, got.Fields[0], i)
		}
		if got.Rid.SlotNo != rid.SlotNo {
			t.Fatalf("tuple %d: slot changed across round trip, %d -> %d", i, rid.SlotNo, got.Rid.SlotNo)
		}
	}
	if extra, _ := iter(); extra != nil {
		t.Fatalf("expected exactly 5 tuples after round trip, found an extra one")
	}
}

func TestHeapPageFullReturnsErrPageFull(t *testing.T) {
	desc := intPageDesc()
	hf, _ := makeTestHeapFile(t, desc, 10)
	page, err := newHeapPage(desc, 0, hf)
	if err != nil {
		t.Fatalf("newHeapPage: %v", err)
	}
	n := page.getNumSlots()
	for i := 0; i < n; i++ {
		tup := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: int64(i)}}}
		if _, err := page.insertTuple(tup); err != nil {
			t.Fatalf("insertTuple %d: %v", i, err)
		}
	}
	if page.getNumEmptySlots() != 0 {
		t.Fatalf("expected 0 empty slots, got %d", page.getNumEmptySlots())
	}
	overflow := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: 999}}}
	if _, err := page.insertTuple(overflow); err != ErrPageFull {
		t.Fatalf("expected ErrPageFull, got %v", err)
	}
}

func TestHeapPageDeleteThenRedeleteFails(t *testing.T) {
	desc := intPageDesc()
	hf, _ := makeTestHeapFile(t, desc, 10)
	page, err := newHeapPage(desc, 0, hf)
	if err != nil {
		t.Fatalf("newHeapPage: %v", err)
	}
	tup := &Tuple{Desc: *desc, Fields: []DBValue{IntField{Value: 42}}}
	rid, err := page.insertTuple(tup)
	if err != nil {
		t.Fatalf("insertTuple: %v", err)
	}

	if err := page.deleteTuple(rid); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	err = page.deleteTuple(rid)
	if err == nil {
		t.Fatalf("expected second delete of the same slot to fail")
	}
	if gerr, ok := err.(GoDBError); !ok || gerr.Code() != TupleNotFoundError {
		t.Fatalf("expected TupleNotFoundError, got %v", err)
	}
}
