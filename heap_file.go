package godb

import (
	"bufio"
	"bytes"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// HeapFile is an unordered collection of tuples, stored as fixed-size
// pages in a backing file on disk. It implements DBFile.
type HeapFile struct {
	sync.Mutex
	td            *TupleDesc
	numPages      int
	backingFile   string
	lastEmptyPage int
	tableId       int
	bufPool       *BufferPool
}

var nextTableId int64 = -1

// NewHeapFile opens (or creates) fromFile as the backing store for a
// heap file of the given schema. Every HeapFile gets a process-unique
// TableId, used to build the PageIds of its pages.
func NewHeapFile(fromFile string, td *TupleDesc, bp *BufferPool) (*HeapFile, error) {
	f, err := os.OpenFile(fromFile, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	numPages := int(fi.Size() / int64(PageSize))
	return &HeapFile{
		td:            td,
		numPages:      numPages,
		backingFile:   fromFile,
		lastEmptyPage: -1,
		tableId:       int(atomic.AddInt64(&nextTableId, 1)),
		bufPool:       bp,
	}, nil
}

// BackingFile returns the path of the file backing this heap file.
func (f *HeapFile) BackingFile() string {
	return f.backingFile
}

// NumPages returns the number of pages currently in the file.
func (f *HeapFile) NumPages() int {
	f.Lock()
	defer f.Unlock()
	return f.numPages
}

// TableId returns this file's stable table identifier.
func (f *HeapFile) TableId() int {
	return f.tableId
}

// LoadFromCSV populates the heap file from a CSV file, one tuple per
// line, committing after each tuple so the buffer pool doesn't fill with
// uncommitted dirty pages. hasHeader skips line 1; skipLastField drops
// a trailing separator some exports leave on every line.
func (f *HeapFile) LoadFromCSV(file *os.File, hasHeader bool, sep string, skipLastField bool) error {
	scanner := bufio.NewScanner(file)
	cnt := 0
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Split(line, sep)
		if skipLastField {
			fields = fields[0 : len(fields)-1]
		}
		numFields := len(fields)
		cnt++

		desc := f.Descriptor()
		if desc == nil || desc.Fields == nil {
			return newErr(MalformedDataError, "descriptor was nil")
		}
		if numFields != len(desc.Fields) {
			return newErr(MalformedDataError, "LoadFromCSV: line %d (%s) does not have expected number of fields (expected %d, got %d)", cnt, line, len(desc.Fields), numFields)
		}
		if cnt == 1 && hasHeader {
			continue
		}

		newFields := make([]DBValue, 0, numFields)
		for fno, field := range fields {
			switch desc.Fields[fno].Ftype {
			case IntType:
				field = strings.TrimSpace(field)
				floatVal, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return newErr(TypeMismatchError, "LoadFromCSV: couldn't convert value %s to int, tuple %d", field, cnt)
				}
				newFields = append(newFields, IntField{Value: int64(floatVal)})
			case StringType:
				if len(field) > StringLength {
					field = field[0:StringLength]
				}
				newFields = append(newFields, StringField{Value: field})
			}
		}

		newT := Tuple{Desc: *desc, Fields: newFields}
		tid := NewTID()
		if err := f.bufPool.BeginTransaction(tid); err != nil {
			return err
		}
		pg, err := f.insertTuple(&newT, tid)
		if err != nil {
			return err
		}
		pg.markDirty(true, tid)
		f.bufPool.CommitTransaction(tid)
	}
	return scanner.Err()
}

// readPage reads the pageNo'th page of this file from disk, called by
// BufferPool.GetPage on a cache miss.
func (f *HeapFile) readPage(pageNo int) (Page, error) {
	file, err := os.OpenFile(f.backingFile, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	b := make([]byte, PageSize)
	n, err := file.ReadAt(b, int64(pageNo)*PageSize)
	if err != nil {
		return nil, err
	}
	if n != PageSize {
		return nil, newErr(MalformedDataError, "short read for page %d of %s", pageNo, f.backingFile)
	}
	pg, err := newHeapPage(f.Descriptor(), pageNo, f)
	if err != nil {
		return nil, err
	}
	if err := pg.initFromBuffer(bytes.NewBuffer(b)); err != nil {
		return nil, err
	}
	return pg, nil
}

// insertTuple finds a page with a free slot (starting from the last
// known empty page, a hint only), or appends a fresh page if none has
// room, and inserts t there. The returned Page is not yet marked dirty;
// the caller (e.g. InsertOp) does that. The write lock is already held,
// taken by BufferPool.GetPage.
func (f *HeapFile) insertTuple(t *Tuple, tid TransactionID) (Page, error) {
	f.Lock()
	start := f.lastEmptyPage
	if start == -1 {
		start = 0
	}
	end := f.numPages
	f.Unlock()

	for p := start; p < end; p++ {
		pg, err := f.bufPool.GetPage(f, p, tid, WritePerm)
		if err != nil {
			return nil, err
		}
		hp := pg.(*heapPage)
		if _, err := hp.insertTuple(t); err != nil {
			if err == ErrPageFull {
				continue
			}
			return nil, err
		}
		f.Lock()
		f.lastEmptyPage = p
		f.Unlock()
		return hp, nil
	}

	f.Lock()
	p := f.numPages
	f.numPages++
	f.Unlock()

	empty, err := newHeapPage(f.td, p, f)
	if err != nil {
		return nil, err
	}
	if err := f.flushPage(empty); err != nil {
		return nil, err
	}

	pg, err := f.bufPool.GetPage(f, p, tid, WritePerm)
	if err != nil {
		return nil, err
	}
	hp := pg.(*heapPage)
	if _, err := hp.insertTuple(t); err != nil {
		return nil, err
	}
	f.Lock()
	f.lastEmptyPage = p
	f.Unlock()
	return hp, nil
}

// deleteTuple removes t (identified by t.Rid) from its page. The
// returned Page is not yet marked dirty; the caller does that.
func (f *HeapFile) deleteTuple(t *Tuple, tid TransactionID) (Page, error) {
	if t.Rid == nil {
		return nil, newErr(TupleNotFoundError, "tuple has no record id, cannot delete")
	}
	rid := t.Rid
	if rid.PID.TableId != f.tableId {
		return nil, newErr(WrongTableError, "record id names table %d, not %d", rid.PID.TableId, f.tableId)
	}
	if rid.PID.PageNo < 0 || rid.PID.PageNo >= f.NumPages() {
		return nil, newErr(TupleNotFoundError, "record id references a page that does not exist")
	}

	pg, err := f.bufPool.GetPage(f, rid.PID.PageNo, tid, WritePerm)
	if err != nil {
		return nil, err
	}
	hp, ok := pg.(*heapPage)
	if !ok {
		return nil, newErr(IncompatibleTypesError, "buffer pool returned non-heap page for a heap file")
	}
	if err := hp.deleteTuple(rid); err != nil {
		return nil, err
	}

	f.Lock()
	if rid.PID.PageNo < f.lastEmptyPage || f.lastEmptyPage == -1 {
		f.lastEmptyPage = rid.PID.PageNo
	}
	f.Unlock()
	return hp, nil
}

// flushPage writes p back to its offset in the backing file, called by
// BufferPool when it force-commits a page or flushes all pages, and by
// insertTuple to append a fresh empty page. Eviction never flushes.
func (f *HeapFile) flushPage(p Page) error {
	file, err := os.OpenFile(f.backingFile, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()
	hp := p.(*heapPage)

	buf, err := hp.toBuffer()
	if err != nil {
		return err
	}
	_, err = file.WriteAt(buf.Bytes(), int64(hp.pageNo)*PageSize)
	return err
}

// Descriptor returns this file's schema.
func (f *HeapFile) Descriptor() *TupleDesc {
	return f.td
}

// Iterator performs a sequential scan of every page and every occupied
// slot, reading pages through the BufferPool (never directly) so the
// pool's caching and locking apply uniformly.
func (f *HeapFile) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	pgNo := 0
	var pgIter func() (*Tuple, error)
	return func() (*Tuple, error) {
		for {
			if pgIter == nil {
				if pgNo == f.NumPages() {
					return nil, nil
				}
				p, err := f.bufPool.GetPage(f, pgNo, tid, ReadPerm)
				if err != nil {
					return nil, err
				}
				pgIter = p.(*heapPage).tupleIter()
				pgNo++
			}
			next, err := pgIter()
			if err != nil {
				return nil, err
			}
			if next == nil {
				pgIter = nil
				continue
			}
			return next, nil
		}
	}, nil
}

// pageKey returns the PageId a page at pgNo of this file would have.
func (f *HeapFile) pageKey(pgNo int) PageId {
	return PageId{TableId: f.tableId, PageNo: pgNo}
}
