package godb

// Operator is the pull-based query execution interface every node in a
// plan tree implements: SeqScan at the leaves, Filter/Join/Project/
// OrderBy/Limit/Aggregate above them, and Insert/Delete as the root of
// a write plan. A plan is executed by repeatedly calling the function
// Iterator returns until it yields nil, nil.
type Operator interface {
	// Descriptor returns the schema of the tuples this operator produces.
	Descriptor() *TupleDesc
	// Iterator returns a function that yields each result tuple in turn,
	// then nil, nil once exhausted. tid scopes any page access the
	// operator's children make to that transaction.
	Iterator(tid TransactionID) (func() (*Tuple, error), error)
}
