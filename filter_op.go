package godb

// Filter passes through only the child tuples for which left op right
// holds, evaluating left and right as expressions against each tuple in
// turn (so a filter can compare two fields, not just a field to a
// constant).
type Filter struct {
	op    BoolOp
	left  Expr
	right Expr
	child Operator
}

// NewFilter constructs a filter of child's output on left op right.
func NewFilter(left Expr, op BoolOp, right Expr, child Operator) (*Filter, error) {
	return &Filter{op: op, left: left, right: right, child: child}, nil
}

func (f *Filter) Descriptor() *TupleDesc {
	return f.child.Descriptor()
}

func (f *Filter) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	childIter, err := f.child.Iterator(tid)
	if err != nil {
		return nil, err
	}
	return func() (*Tuple, error) {
		for {
			t, err := childIter()
			if err != nil || t == nil {
				return nil, err
			}

			leftVal, err := f.left.EvalExpr(t)
			if err != nil {
				return nil, err
			}
			rightVal, err := f.right.EvalExpr(t)
			if err != nil {
				return nil, err
			}

			if leftVal.EvalPred(rightVal, f.op) {
				return t, nil
			}
		}
	}, nil
}
