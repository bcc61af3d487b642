package godb

// Project narrows each child tuple down to selectFields, renaming them
// to outputNames, and optionally suppresses duplicate output rows.
type Project struct {
	selectFields []Expr
	outputNames  []string
	child        Operator
	distinct     bool
}

// NewProjectOp constructs a projection of child's output onto
// selectFields, renamed to outputNames (same length as selectFields).
// distinct requests duplicate suppression on the projected rows.
func NewProjectOp(selectFields []Expr, outputNames []string, distinct bool, child Operator) (Operator, error) {
	if len(selectFields) != len(outputNames) {
		return nil, newErr(IllegalArgumentError, "selectFields and outputNames must have the same length")
	}
	return &Project{selectFields: selectFields, outputNames: outputNames, child: child, distinct: distinct}, nil
}

// Descriptor returns a schema with one field per selectFields entry,
// named per outputNames.
func (p *Project) Descriptor() *TupleDesc {
	fields := make([]FieldType, len(p.selectFields))
	for i, e := range p.selectFields {
		ft := e.GetExprType()
		ft.Fname = p.outputNames[i]
		fields[i] = ft
	}
	return &TupleDesc{Fields: fields}
}

func (p *Project) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	fields := make([]FieldType, len(p.selectFields))
	for i, e := range p.selectFields {
		fields[i] = e.GetExprType()
	}
	outDesc := p.Descriptor()

	it, err := p.child.Iterator(tid)
	if err != nil {
		return nil, err
	}

	var seen map[any]bool
	if p.distinct {
		seen = make(map[any]bool)
	}

	return func() (*Tuple, error) {
		for {
			t, err := it()
			if err != nil || t == nil {
				return nil, err
			}

			projected, err := t.project(fields)
			if err != nil {
				return nil, err
			}
			projected.Desc = *outDesc

			if p.distinct {
				key := projected.tupleKey()
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			return projected, nil
		}
	}, nil
}
