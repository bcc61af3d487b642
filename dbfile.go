package godb

// DBFile is the storage-layer abstraction the BufferPool and Catalog deal
// in. HeapFile is the only implementation, but the interface keeps the
// buffer pool and operators from depending on HeapFile's concrete layout.
type DBFile interface {
	// Descriptor returns the schema of rows in this file.
	Descriptor() *TupleDesc
	// Iterator performs a sequential scan under tid, yielding each tuple
	// in turn and nil, nil once exhausted.
	Iterator(tid TransactionID) (func() (*Tuple, error), error)
	// insertTuple inserts t, stamping its RecordId, and returns the page
	// it landed on so the caller (e.g. InsertOp) can mark it dirty.
	insertTuple(t *Tuple, tid TransactionID) (Page, error)
	// deleteTuple removes the tuple named by t.Rid and returns the page
	// it was removed from.
	deleteTuple(t *Tuple, tid TransactionID) (Page, error)
	// readPage reads the pageNo'th page from disk.
	readPage(pageNo int) (Page, error)
	// flushPage writes p back to its backing storage at its own offset.
	flushPage(p Page) error
	// pageKey returns the PageId a page at pageNo of this file would have.
	pageKey(pageNo int) PageId
	// NumPages returns the number of pages currently in the file,
	// including any appended but not yet flushed.
	NumPages() int
	// TableId returns this file's stable table identifier.
	TableId() int
}
