package godb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
)

/*
log_file.go writes the write-ahead log that BufferPool.CommitTransaction
forces before a transaction's dirty pages are flushed.  Crash recovery
(replaying this log on startup) is out of scope; the log exists here to
make a commit's before/after images durable and inspectable. Aborts
write an abort record but never read the log back. It is the
responsibility of the caller to follow two-phase locking and to log an
update before applying it, the way BufferPool does.

The log file is a sequence of variable-length records:

+--------------------------------------------------------+
| Record type (1 byte)                                   |
+--------------------------------------------------------+
| Transaction ID (4 bytes)                                |
+--------------------------------------------------------+
| Record body (variable length)                           |
+--------------------------------------------------------+
| Offset (8 bytes)                                        |
+--------------------------------------------------------+

Abort, Commit, and Begin records have an empty body. Update records
carry the before and after images of one page:

+--------------------------------------------------------+
| Table ID (4 bytes)                                       |
+--------------------------------------------------------+
| Page num (4 bytes)                                        |
+--------------------------------------------------------+
| Page contents (PageSize bytes)                            |
+--------------------------------------------------------+
*/

type LogFile struct {
	file    *os.File
	buf     bytes.Buffer
	offset  int64
	catalog *Catalog
}

type LogRecordType int8

const (
	AbortRecord LogRecordType = iota
	CommitRecord
	UpdateRecord
	BeginRecord
)

func (t LogRecordType) String() string {
	switch t {
	case AbortRecord:
		return "abort"
	case CommitRecord:
		return "commit"
	case UpdateRecord:
		return "update"
	case BeginRecord:
		return "begin"
	default:
		return "unknown"
	}
}

// NewLogFile opens (or creates) fileName as a write-ahead log. catalog
// is consulted to turn a table id back into a DBFile when reading an
// update record's page images.
func NewLogFile(fileName string, catalog *Catalog) (*LogFile, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog must be non-nil")
	}
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	return &LogFile{file: file, catalog: catalog}, nil
}

func (w *LogFile) write(data any) {
	binary.Write(&w.buf, binary.LittleEndian, data)
	w.offset += int64(binary.Size(data))
}

// Force flushes buffered writes to the underlying file and syncs it.
func (w *LogFile) Force() error {
	if w.buf.Len() == 0 {
		return nil
	}
	if _, err := w.file.Write(w.buf.Bytes()); err != nil {
		return err
	}
	w.buf.Reset()
	return w.file.Sync()
}

func (f *LogFile) seek(offset int64, whence int) error {
	if err := f.Force(); err != nil {
		return err
	}
	newOffset, err := f.file.Seek(offset, whence)
	if err != nil {
		return fmt.Errorf("invalid seek (%d, %d): %w", offset, whence, err)
	}
	f.offset = newOffset
	return nil
}

func (f *LogFile) read(data any) error {
	if err := f.Force(); err != nil {
		return err
	}
	if err := binary.Read(f.file, binary.LittleEndian, data); err != nil {
		return err
	}
	f.offset += int64(binary.Size(data))
	return nil
}

func (w *LogFile) readTransactionID(tid *TransactionID) error {
	var v int32
	if err := w.read(&v); err != nil {
		return err
	}
	*tid = TransactionID(v)
	return nil
}

func (w *LogFile) writeHeader(typ LogRecordType, tid TransactionID) {
	w.write(int8(typ))
	w.write(int32(tid))
}

func (w *LogFile) writeFooter(offset int64) {
	w.write(offset)
}

func (w *LogFile) readPage() (Page, error) {
	var tableId int32
	if err := w.read(&tableId); err != nil {
		return nil, err
	}
	var pageNo int32
	if err := w.read(&pageNo); err != nil {
		return nil, err
	}
	file, err := w.catalog.GetDBFile(int(tableId))
	if err != nil {
		return nil, err
	}
	hf, ok := file.(*HeapFile)
	if !ok {
		return nil, fmt.Errorf("logged table %d is not a heap file", tableId)
	}
	pg, err := newHeapPage(hf.Descriptor(), int(pageNo), hf)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, PageSize)
	if err := w.read(buf); err != nil {
		return nil, err
	}
	if err := pg.initFromBuffer(bytes.NewBuffer(buf)); err != nil {
		return nil, err
	}
	return pg, nil
}

func (w *LogFile) writePage(page Page) error {
	hp, ok := page.(*heapPage)
	if !ok {
		return fmt.Errorf("unsupported page type: %T", page)
	}
	w.write(int32(hp.file.TableId()))
	w.write(int32(hp.pageNo))
	buf, err := hp.toBuffer()
	if err != nil {
		return err
	}
	w.write(buf.Bytes())
	return nil
}

func (w *LogFile) LogAbort(tid TransactionID) {
	offset := w.offset
	w.writeHeader(AbortRecord, tid)
	w.write(offset)
}

func (w *LogFile) LogCommit(tid TransactionID) {
	offset := w.offset
	w.writeHeader(CommitRecord, tid)
	w.write(offset)
}

// LogUpdate records tid's change to one page: its state before the
// change and its state after. Does not force the log to disk.
func (w *LogFile) LogUpdate(tid TransactionID, before Page, after Page) error {
	if before == nil || after == nil {
		return fmt.Errorf("before and after images must be non-nil")
	}
	offset := w.offset
	w.writeHeader(UpdateRecord, tid)
	if err := w.writePage(before); err != nil {
		return err
	}
	if err := w.writePage(after); err != nil {
		return err
	}
	w.write(offset)
	return nil
}

// LogBegin records that tid has started.
func (w *LogFile) LogBegin(tid TransactionID) {
	offset := w.offset
	w.writeHeader(BeginRecord, tid)
	w.writeFooter(offset)
}

type LogRecord interface {
	Offset() int64
	Type() LogRecordType
	Tid() TransactionID
}

type GenericLogRecord struct {
	offset int64
	typ    LogRecordType
	tid    TransactionID
}

func (r GenericLogRecord) Offset() int64       { return r.offset }
func (r GenericLogRecord) Type() LogRecordType { return r.typ }
func (r GenericLogRecord) Tid() TransactionID  { return r.tid }

type UpdateLogRecord struct {
	GenericLogRecord
	Before Page
	After  Page
}

// ForwardIterator returns a function yielding records from the current
// offset forward, nil, nil at end of file, and an error on a partial
// trailing record.
func (f *LogFile) ForwardIterator() func() (LogRecord, error) {
	partial := func(msg string, err error) (LogRecord, error) {
		return nil, fmt.Errorf("failed to read %s: partial record at offset %d: %v", msg, f.offset, err)
	}

	return func() (LogRecord, error) {
		var record GenericLogRecord
		var ret LogRecord = &record

		record.offset = f.offset

		err := f.read(&record.typ)
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return partial("record type", err)
		}

		if err := f.readTransactionID(&record.tid); err != nil {
			return partial("transaction id", err)
		}

		if record.Type() == UpdateRecord {
			var update UpdateLogRecord
			update.GenericLogRecord = record
			if update.Before, err = f.readPage(); err != nil {
				return partial("before page", err)
			}
			if update.After, err = f.readPage(); err != nil {
				return partial("after page", err)
			}
			ret = &update
		}

		var recordOffset int64
		if err := f.read(&recordOffset); err != nil || recordOffset != record.offset {
			return partial("offset", err)
		}

		return ret, nil
	}
}

// ReverseIterator returns a function yielding records from the end of
// the file backward, following each record's trailing offset. Nothing in
// the package calls it; BufferPool.AbortTransaction does not read the log.
func (f *LogFile) ReverseIterator() (func() (LogRecord, error), error) {
	if err := f.seek(0, io.SeekEnd); err != nil {
		return nil, err
	}

	return func() (LogRecord, error) {
		if f.offset < 8 {
			return nil, nil
		}
		var offset int64
		if err := f.seek(-8, io.SeekCurrent); err != nil {
			return nil, err
		}
		if err := f.read(&offset); err != nil {
			return nil, err
		}
		if err := f.seek(offset, io.SeekStart); err != nil {
			return nil, err
		}
		record, err := f.ForwardIterator()()
		if err != nil {
			return nil, err
		}
		if err := f.seek(offset, io.SeekStart); err != nil {
			return nil, err
		}
		return record, nil
	}, nil
}

// OutputPrettyLog writes a human-readable rendering of the log to the
// standard logger, restoring the file's read position afterward.
func (f *LogFile) OutputPrettyLog() error {
	oldPos := f.offset
	defer f.seek(oldPos, io.SeekStart)

	f.seek(0, io.SeekStart)

	iter := f.ForwardIterator()
	for {
		pos := f.offset
		record, err := iter()
		if err != nil {
			return err
		}
		if record == nil {
			break
		}
		switch record.Type() {
		case BeginRecord, CommitRecord, AbortRecord:
			log.Printf("%d RECORD %s (%d) offset=%d", pos, record.Type(), record.Tid(), record.Offset())
		case UpdateRecord:
			update := record.(*UpdateLogRecord)
			before := update.Before.(*heapPage)
			log.Printf("%d RECORD %s (%d) offset=%d page=%v", pos, record.Type(), record.Tid(), record.Offset(), before.file.pageKey(before.pageNo))
		default:
			log.Printf("unexpected record: %#v", record)
		}
	}
	return nil
}
