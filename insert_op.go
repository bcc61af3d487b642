package godb

// InsertOp drains its child and inserts every tuple it produces into
// insertFile, the root of a write plan. It runs its child to completion
// the first time its iterator is called, then yields a single summary
// tuple and nil thereafter.
type InsertOp struct {
	file  DBFile
	child Operator
}

// NewInsertOp constructs an insert of child's output into insertFile.
func NewInsertOp(insertFile DBFile, child Operator) *InsertOp {
	return &InsertOp{file: insertFile, child: child}
}

// Descriptor returns a one-column schema: an integer "count".
func (i *InsertOp) Descriptor() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: "count", Ftype: IntType}}}
}

// Iterator inserts every tuple from the child into the file passed to
// the constructor and returns a single tuple counting how many rows
// were inserted, via DBFile.insertTuple.
func (iop *InsertOp) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	childIter, err := iop.child.Iterator(tid)
	if err != nil {
		return nil, err
	}
	done := false
	return func() (*Tuple, error) {
		if done {
			return nil, nil
		}
		done = true

		var count int64
		for {
			t, err := childIter()
			if err != nil {
				return nil, err
			}
			if t == nil {
				break
			}
			pg, err := iop.file.insertTuple(t, tid)
			if err != nil {
				return nil, err
			}
			pg.markDirty(true, tid)
			count++
		}
		return &Tuple{Desc: *iop.Descriptor(), Fields: []DBValue{IntField{Value: count}}}, nil
	}, nil
}
