package godb

// DeleteOp drains its child and deletes every tuple it produces from
// deleteFile, identified by each tuple's Rid.
type DeleteOp struct {
	file  DBFile
	child Operator
}

// NewDeleteOp constructs a delete of child's output from deleteFile.
func NewDeleteOp(deleteFile DBFile, child Operator) *DeleteOp {
	return &DeleteOp{file: deleteFile, child: child}
}

// Descriptor returns a one-column schema: an integer "count".
func (i *DeleteOp) Descriptor() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: "count", Ftype: IntType}}}
}

// Iterator deletes every tuple the child produces (via
// DBFile.deleteTuple, using each tuple's Rid) and returns a single
// tuple counting how many rows were deleted.
func (dop *DeleteOp) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	childIter, err := dop.child.Iterator(tid)
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
			pg, err := dop.file.deleteTuple(t, tid)
			if err != nil {
				return nil, err
			}
			pg.markDirty(true, tid)
			count++
		}
		return &Tuple{Desc: *dop.Descriptor(), Fields: []DBValue{IntField{Value: count}}}, nil
	}, nil
}
