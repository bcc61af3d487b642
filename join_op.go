package godb

// EqualityJoin computes the equi-join of left and right: for every pair
// of tuples (l, r) with leftField(l) == rightField(r), it emits
// joinTuples(l, r).
type EqualityJoin struct {
	leftField, rightField Expr
	left, right           Operator
	maxBufferSize         int
}

// NewJoin constructs an equi-join on leftField = rightField.
// maxBufferSize is advisory, a hint for how many right-side rows a more
// sophisticated join algorithm could buffer; the nested-loop
// implementation here doesn't need it but keeps the parameter so a
// future hash- or sort-based join can be swapped in without changing
// callers.
func NewJoin(left Operator, leftField Expr, right Operator, rightField Expr, maxBufferSize int) (*EqualityJoin, error) {
	if leftField == nil || rightField == nil {
		return nil, newErr(TypeMismatchError, "leftField and rightField must be non-nil")
	}
	return &EqualityJoin{
		leftField: leftField, rightField: rightField,
		left: left, right: right,
		maxBufferSize: maxBufferSize,
	}, nil
}

func (j *EqualityJoin) Descriptor() *TupleDesc {
	return j.left.Descriptor().merge(j.right.Descriptor())
}

// Iterator is a textbook streaming nested-loop join: for each left
// tuple (the outer loop, walked once) it rewinds and rescans the entire
// right child (the inner loop), testing the join predicate on every
// pair. The right child must therefore be safe to re-iterate -- true of
// every operator in this package, since none of them consume their
// input destructively.
func (j *EqualityJoin) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	leftRaw, err := j.left.Iterator(tid)
	if err != nil {
		return nil, err
	}
	leftIter := newLookaheadIterator(leftRaw)

	var curLeft *Tuple
	var curLeftVal DBValue
	var rightIter func() (*Tuple, error)

	advanceLeft := func() (bool, error) {
		ok, err := leftIter.hasNext()
		if err != nil || !ok {
			return false, err
		}
		curLeft, err = leftIter.next()
		if err != nil {
			return false, err
		}
		curLeftVal, err = j.leftField.EvalExpr(curLeft)
		if err != nil {
			return false, err
		}
		rightIter, err = j.right.Iterator(tid)
		if err != nil {
			return false, err
		}
		return true, nil
	}

	started := false
	return func() (*Tuple, error) {
		if !started {
			ok, err := advanceLeft()
			if err != nil || !ok {
				return nil, err
			}
			started = true
		}
		for {
			rt, err := rightIter()
			if err != nil {
				return nil, err
			}
			if rt == nil {
				ok, err := advanceLeft()
				if err != nil || !ok {
					return nil, err
				}
				continue
			}
			rv, err := j.rightField.EvalExpr(rt)
			if err != nil {
				return nil, err
			}
			if curLeftVal.EvalPred(rv, OpEq) {
				return joinTuples(curLeft, rt), nil
			}
		}
	}, nil
}
