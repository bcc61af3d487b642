package godb

import (
	"bytes"
	"sync"
)

/* heapPage implements Page for pages of a HeapFile.

All tuples on a page are fixed width, so given a TupleDesc it's possible
to compute how many tuple "slots" fit on a page up front. Unlike the
two-int32 header some lab forks of this code use, a heapPage's header is
a bitmap: one bit per slot, set when that slot is occupied. Slots keep
their index across a read/write round trip, so a RecordId handed out
before a flush stays valid after it, and a page can be fully described
by its own header with no separate "used count" to keep in sync.

Layout, exactly PageSize bytes:

  - ceil(slots/8) header bytes, bit i set iff slot i is occupied
  - slots fixed-width slot records, bytesPerTuple() bytes each

slots solves PageSize*8 = slots*(bytesPerTuple*8 + 1), i.e. one header
bit plus its payload bits per slot, rounded down.
*/

type heapPage struct {
	sync.Mutex
	desc    TupleDesc
	pageNo  int
	slots   int
	tuples  []*Tuple // len(tuples) == slots; nil entries are empty slots
	file    *HeapFile
	dirtyBy TransactionID // noTid if clean

	before []byte // serialized snapshot as of the last commit, or nil
}

func headerBytes(slots int) int {
	return (slots + 7) / 8
}

func numSlots(desc *TupleDesc) int {
	bytesPerTuple := desc.bytesPerTuple()
	if bytesPerTuple == 0 {
		return 0
	}
	return (PageSize * 8) / (bytesPerTuple*8 + 1)
}

// newHeapPage constructs an empty page for pageNo of f.
func newHeapPage(desc *TupleDesc, pageNo int, f *HeapFile) (*heapPage, error) {
	n := numSlots(desc)
	if n <= 0 {
		return nil, newErr(MalformedDataError, "schema is too wide for a %d-byte page", PageSize)
	}
	return &heapPage{
		desc:    *desc,
		pageNo:  pageNo,
		slots:   n,
		tuples:  make([]*Tuple, n),
		file:    f,
		dirtyBy: noTid,
	}, nil
}

func (h *heapPage) getNumSlots() int {
	return h.slots
}

// getNumEmptySlots counts the clear header bits.
func (h *heapPage) getNumEmptySlots() int {
	n := 0
	for _, t := range h.tuples {
		if t == nil {
			n++
		}
	}
	return n
}

var ErrPageFull = GoDBError{PageFullError, "page is full"}

// insertTuple fills the lowest-index empty slot with t, stamping its Rid.
func (h *heapPage) insertTuple(t *Tuple) (*RecordId, error) {
	if !t.Desc.equals(&h.desc) {
		return nil, newErr(SchemaMismatchError, "tuple schema does not match page schema")
	}
	for slot, existing := range h.tuples {
		if existing != nil {
			continue
		}
		rid := &RecordId{PID: PageId{TableId: h.file.TableId(), PageNo: h.pageNo}, SlotNo: slot}
		stored := &Tuple{Desc: h.desc, Fields: t.Fields, Rid: rid}
		h.tuples[slot] = stored
		t.Rid = rid
		return rid, nil
	}
	return nil, ErrPageFull
}

// deleteTuple clears the slot named by rid.
func (h *heapPage) deleteTuple(rid *RecordId) error {
	if rid == nil || rid.PID.PageNo != h.pageNo {
		return newErr(NotOnPageError, "record id does not address this page")
	}
	if rid.SlotNo < 0 || rid.SlotNo >= h.slots || h.tuples[rid.SlotNo] == nil {
		return newErr(TupleNotFoundError, "slot %d is not occupied", rid.SlotNo)
	}
	h.tuples[rid.SlotNo] = nil
	return nil
}

func (h *heapPage) isDirty() (TransactionID, bool) {
	return h.dirtyBy, h.dirtyBy != noTid
}

func (h *heapPage) markDirty(dirty bool, tid TransactionID) {
	if dirty {
		h.dirtyBy = tid
	} else {
		h.dirtyBy = noTid
	}
}

func (h *heapPage) getFile() DBFile {
	return h.file
}

// tupleIter returns a function yielding the tuples in occupied slots, in
// ascending slot order, then nil, nil.
func (h *heapPage) tupleIter() func() (*Tuple, error) {
	i := 0
	return func() (*Tuple, error) {
		for i < len(h.tuples) {
			t := h.tuples[i]
			i++
			if t != nil {
				return t, nil
			}
		}
		return nil, nil
	}
}

// toBuffer serializes the header bitmap followed by every slot's bytes
// (occupied or not, so offsets stay fixed-width), zero-padded to
// PageSize. The exact inverse of initFromBuffer.
func (h *heapPage) toBuffer() (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	header := make([]byte, headerBytes(h.slots))
	for slot, t := range h.tuples {
		if t != nil {
			header[slot/8] |= 1 << uint(slot%8)
		}
	}
	buf.Write(header)

	tupleWidth := h.desc.bytesPerTuple()
	for _, t := range h.tuples {
		if t == nil {
			buf.Write(make([]byte, tupleWidth))
			continue
		}
		before := buf.Len()
		if err := t.writeTo(buf); err != nil {
			return nil, err
		}
		if buf.Len()-before != tupleWidth {
			return nil, newErr(MalformedDataError, "tuple serialized to %d bytes, expected %d", buf.Len()-before, tupleWidth)
		}
	}
	if buf.Len() > PageSize {
		return nil, newErr(MalformedDataError, "page %d serialized to %d bytes, over PageSize", h.pageNo, buf.Len())
	}
	buf.Write(make([]byte, PageSize-buf.Len()))
	return buf, nil
}

// initFromBuffer parses the header bitmap, then deserializes each
// occupied slot into a tuple with a RecordId of (pid, slotIndex).
// Unoccupied slots are skipped without allocating a tuple.
func (h *heapPage) initFromBuffer(buf *bytes.Buffer) error {
	hdr := make([]byte, headerBytes(h.slots))
	if _, err := buf.Read(hdr); err != nil {
		return err
	}
	tupleWidth := h.desc.bytesPerTuple()
	h.tuples = make([]*Tuple, h.slots)
	for slot := 0; slot < h.slots; slot++ {
		occupied := hdr[slot/8]&(1<<uint(slot%8)) != 0
		if !occupied {
			buf.Next(tupleWidth)
			continue
		}
		chunk := bytes.NewBuffer(buf.Next(tupleWidth))
		t, err := readTupleFrom(chunk, &h.desc)
		if err != nil {
			return err
		}
		t.Rid = &RecordId{PID: PageId{TableId: h.file.TableId(), PageNo: h.pageNo}, SlotNo: slot}
		h.tuples[slot] = t
	}
	h.dirtyBy = noTid
	return nil
}

// getBeforeImage returns a page reflecting the bytes as of the last
// commit. Before the first setBeforeImage call, that's just the page's
// own current (clean) state.
func (h *heapPage) getBeforeImage() Page {
	h.Lock()
	defer h.Unlock()
	var raw []byte
	if h.before != nil {
		raw = h.before
	} else {
		buf, err := h.toBuffer()
		if err != nil {
			return nil
		}
		raw = buf.Bytes()
	}
	before, err := newHeapPage(&h.desc, h.pageNo, h.file)
	if err != nil {
		return nil
	}
	if err := before.initFromBuffer(bytes.NewBuffer(append([]byte(nil), raw...))); err != nil {
		return nil
	}
	return before
}

// setBeforeImage snapshots the page's current bytes as its new
// before-image. Called by the buffer pool once a dirtying transaction
// commits.
func (h *heapPage) setBeforeImage() {
	h.Lock()
	defer h.Unlock()
	buf, err := h.toBuffer()
	if err != nil {
		return
	}
	h.before = append([]byte(nil), buf.Bytes()...)
}
