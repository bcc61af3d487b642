package godb

// Aggregate computes one or more AggStates (e.g. COUNT, SUM, AVG, MAX,
// MIN) over its child's tuples, grouped by groupByFields -- or, with no
// group-by fields, over the whole input as a single group.
//
// Iterator is blocking: it must see every input tuple before any group
// can be finalized, so it drains the child into a hash table keyed by
// the group-by values, then emits one output tuple per group.
type Aggregate struct {
	child         Operator
	groupByFields []Expr
	newAggState   []AggState
}

// NewAggregator constructs an aggregation of child's output, using
// newAggState as a template for each distinct group's aggregate state
// (newAggState[i].Copy() seeds aggregate i's running state in every new
// group), and
// grouping rows by the values of groupByFields (nil or empty means one
// group covering the whole input).
func NewAggregator(newAggState []AggState, child Operator, groupByFields []Expr) *Aggregate {
	return &Aggregate{child: child, groupByFields: groupByFields, newAggState: newAggState}
}

// Descriptor returns the group-by fields' types followed by each
// aggregate's own result field.
func (a *Aggregate) Descriptor() *TupleDesc {
	fields := make([]FieldType, 0, len(a.groupByFields)+len(a.newAggState))
	for _, g := range a.groupByFields {
		fields = append(fields, g.GetExprType())
	}
	for _, agg := range a.newAggState {
		fields = append(fields, agg.GetTupleDesc().Fields...)
	}
	return &TupleDesc{Fields: fields}
}

type aggGroup struct {
	key    *Tuple // the group-by values, for re-emission alongside the result
	states []AggState
}

func (a *Aggregate) groupKey(t *Tuple) (any, *Tuple, error) {
	if len(a.groupByFields) == 0 {
		return struct{}{}, nil, nil
	}
	fields := make([]DBValue, len(a.groupByFields))
	descFields := make([]FieldType, len(a.groupByFields))
	for i, g := range a.groupByFields {
		v, err := g.EvalExpr(t)
		if err != nil {
			return nil, nil, err
		}
		fields[i] = v
		descFields[i] = g.GetExprType()
	}
	key := &Tuple{Desc: TupleDesc{Fields: descFields}, Fields: fields}
	return key.tupleKey(), key, nil
}

func (a *Aggregate) Iterator(tid TransactionID) (func() (*Tuple, error), error) {
	it, err := a.child.Iterator(tid)
	if err != nil {
		return nil, err
	}

	groups := make(map[any]*aggGroup)
	var order []any

	for {
		t, err := it()
		if err != nil {
			return nil, err
		}
		if t == nil {
			break
		}

		key, groupKeyTuple, err := a.groupKey(t)
		if err != nil {
			return nil, err
		}

		g, ok := groups[key]
		if !ok {
			states := make([]AggState, len(a.newAggState))
			for i, tmpl := range a.newAggState {
				states[i] = tmpl.Copy()
			}
			g = &aggGroup{key: groupKeyTuple, states: states}
			groups[key] = g
			order = append(order, key)
		}
		for _, s := range g.states {
			s.AddTuple(t)
		}
	}

	i := 0
	return func() (*Tuple, error) {
		if i >= len(order) {
			return nil, nil
		}
		g := groups[order[i]]
		i++

		var fields []DBValue
		if g.key != nil {
			fields = append(fields, g.key.Fields...)
		}
		for _, s := range g.states {
			fields = append(fields, s.Finalize().Fields...)
		}
		return &Tuple{Desc: *a.Descriptor(), Fields: fields}, nil
	}, nil
}
