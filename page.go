package godb

import "bytes"

// Page is the unit the BufferPool caches. HeapPage is the only
// implementation in this module, but operators and the buffer pool are
// written against this interface so a future page kind (e.g. an index
// page) could share the same caching and locking machinery.
type Page interface {
	// isDirty reports whether the page holds uncommitted changes, and if
	// so, which transaction made them.
	isDirty() (TransactionID, bool)
	// markDirty records that tid has (or, if dirty is false, no longer
	// has) uncommitted changes on this page.
	markDirty(dirty bool, tid TransactionID)
	// getFile returns the DBFile this page belongs to.
	getFile() DBFile
	// toBuffer serializes the page to exactly PageSize bytes.
	toBuffer() (*bytes.Buffer, error)
	// getBeforeImage returns a snapshot of the page as of its last
	// commit, used to roll back an aborted transaction's changes.
	getBeforeImage() Page
	// setBeforeImage captures the page's current bytes as its new
	// before-image; called once a transaction's changes to it commit.
	setBeforeImage()
}
