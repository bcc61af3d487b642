package godb

import "sync/atomic"

// TransactionID names one in-flight transaction. NewTID never returns
// the zero value; noTid (-1) marks "no transaction".
type TransactionID int64

// noTid marks "no transaction" — e.g. a page that isn't dirty.
const noTid TransactionID = -1

var nextTid int64

// NewTID allocates a fresh, process-unique TransactionID.
func NewTID() TransactionID {
	return TransactionID(atomic.AddInt64(&nextTid, 1))
}
