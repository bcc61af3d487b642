package godb

// SeqScan is a leaf operator producing every tuple of one table, in
// whatever order its underlying DBFile's Iterator produces them. It
// optionally qualifies the table's schema with an alias, e.g. for a
// self-join written as "SELECT ... FROM emp AS e1, emp AS e2 ...".
type SeqScan struct {
	file  DBFile
	alias string
}

// NewSeqScan creates a scan of file, presenting its schema under alias
// as the TableQualifier of every field.
func NewSeqScan(file DBFile, alias string) *SeqScan {
	return &SeqScan{file: file, alias: alias}
}

// Descriptor returns file's schema, fields qualified by alias.
func (ss *SeqScan) Descriptor() *TupleDesc {
	desc := ss.file.Descriptor().copy()
	desc.setTableAlias(ss.alias)
	return desc
}

// Iterator delegates to the file's own Iterator, re-qualifying each
// tuple's schema with the scan's alias as it's read.
func (ss *SeqScan) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	it, err := ss.file.Iterator(tid)
	if err != nil {
		return nil, err
	}
	desc := ss.Descriptor()
	return func() (*Tuple, error) {
		t, err := it()
		if err != nil || t == nil {
			return nil, err
		}
		return &Tuple{Desc: *desc, Fields: t.Fields, Rid: t.Rid}, nil
	}, nil
}
