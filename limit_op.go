package godb

// LimitOp caps its child's output at the first n tuples, where n is
// evaluated once from a (typically constant) expression rather than
// hardcoded, so a plan can carry its limit the same way it carries any
// other value.
type LimitOp struct {
	child     Operator
	limitTups Expr
}

// NewLimitOp constructs a limit of child's output to lim tuples.
func NewLimitOp(lim Expr, child Operator) *LimitOp {
	return &LimitOp{child: child, limitTups: lim}
}

func (l *LimitOp) Descriptor() *TupleDesc {
	return l.child.Descriptor()
}

func (l *LimitOp) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	limitVal, err := l.limitTups.EvalExpr(nil)
	if err != nil {
		return nil, err
	}
	limit, ok := limitVal.(IntField)
	if !ok {
		return nil, newErr(TypeMismatchError, "limit expression must be an integer")
	}

	it, err := l.child.Iterator(tid)
	if err != nil {
		return nil, err
	}

	var emitted int64
	return func() (*Tuple, error) {
		if emitted >= limit.Value {
			return nil, nil
		}
		t, err := it()
		if err != nil || t == nil {
			return nil, err
		}
		emitted++
		return t, nil
	}, nil
}
