package godb

// lookaheadIterator wraps a readNext closure (the shape every operator
// already returns) with one slot of buffered look-ahead, so a caller
// can ask hasNext() without consuming the next tuple. EqualityJoin uses
// it to step its outer (left) input; it gives any operator a
// hasNext/next pair without abandoning the closure-based Iterator shape
// the rest of the package uses.
type lookaheadIterator struct {
	readNext func() (*Tuple, error)
	buffered *Tuple
	hasBuf   bool
	err      error
}

func newLookaheadIterator(readNext func() (*Tuple, error)) *lookaheadIterator {
	return &lookaheadIterator{readNext: readNext}
}

// hasNext reports whether a further call to next would produce a tuple,
// filling the look-ahead slot if it isn't already full.
func (it *lookaheadIterator) hasNext() (bool, error) {
	if it.err != nil {
		return false, it.err
	}
	if it.hasBuf {
		return it.buffered != nil, nil
	}
	t, err := it.readNext()
	if err != nil {
		it.err = err
		return false, err
	}
	it.buffered = t
	it.hasBuf = true
	return t != nil, nil
}

// next returns the buffered tuple (filling it first if needed) and
// clears the buffer.
func (it *lookaheadIterator) next() (*Tuple, error) {
	if !it.hasBuf {
		if _, err := it.hasNext(); err != nil {
			return nil, err
		}
	}
	t := it.buffered
	it.buffered = nil
	it.hasBuf = false
	return t, it.err
}

// asFunc adapts the look-ahead iterator back to the func() (*Tuple,
// error) shape every Operator.Iterator returns.
func (it *lookaheadIterator) asFunc() func() (*Tuple, error) {
	return it.next
}
