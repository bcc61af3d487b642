package godb

import "sort"

// OrderBy sorts its child's tuples by a sequence of expressions, each
// independently ascending or descending, the way a multi-column ORDER
// BY clause does: ties on orderBy[0] are broken by orderBy[1], and so
// on.
type OrderBy struct {
	orderBy   []Expr
	child     Operator
	ascending []bool
}

// NewOrderBy constructs an order-by of child's output on orderByFields,
// with ascending[i] selecting ascending (true) or descending (false)
// order for orderByFields[i].
func NewOrderBy(orderByFields []Expr, child Operator, ascending []bool) (*OrderBy, error) {
	return &OrderBy{orderBy: orderByFields, child: child, ascending: ascending}, nil
}

// Descriptor returns the child's schema unchanged: OrderBy reorders
// rows, it doesn't change their shape.
func (o *OrderBy) Descriptor() *TupleDesc {
	return o.child.Descriptor()
}

type tupleSorter struct {
	data      []*Tuple
	orderBy   []Expr
	ascending []bool
	err       error
}

func (s *tupleSorter) Len() int      { return len(s.data) }
func (s *tupleSorter) Swap(i, j int) { s.data[i], s.data[j] = s.data[j], s.data[i] }

func (s *tupleSorter) Less(i, j int) bool {
	p, q := s.data[i], s.data[j]
	for k, expr := range s.orderBy {
		var cmp orderByState
		var err error
		if s.ascending[k] {
			cmp, err = p.compareField(q, expr)
		} else {
			cmp, err = q.compareField(p, expr)
		}
		if err != nil && s.err == nil {
			s.err = err
		}
		switch cmp {
		case OrderedLessThan:
			return true
		case OrderedGreaterThan:
			return false
		}
	}
	return false
}

// Iterator is blocking: it first reads every tuple from the child into
// memory and sorts them, then hands them out one at a time.
func (o *OrderBy) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	it, err := o.child.Iterator(tid)
	if err != nil {
		return nil, err
	}

	var all []*Tuple
	for {
		t, err := it()
		if err != nil {
			return nil, err
		}
		if t == nil {
			break
		}
		all = append(all, t)
	}

	sorter := &tupleSorter{data: all, orderBy: o.orderBy, ascending: o.ascending}
	sort.Stable(sorter)
	if sorter.err != nil {
		return nil, sorter.err
	}

	i := 0
	return func() (*Tuple, error) {
		if i >= len(all) {
			return nil, nil
		}
		t := all[i]
		i++
		return t, nil
	}, nil
}
