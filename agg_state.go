package godb

// AggState tracks one running aggregate (e.g. one SUM(x) in a GROUP BY
// query) across the tuples of a single group.
type AggState interface {
	// Init resets the state to its identity value. expr extracts the
	// value to aggregate from each tuple; alias names the result column.
	Init(alias string, expr Expr) error

	// Copy returns an independent copy of the current state, used by
	// Aggregate to seed a new group from a zero-valued template.
	Copy() AggState

	// AddTuple folds one more tuple into the running state.
	AddTuple(*Tuple)

	// Finalize returns the aggregate's result as a one-field tuple.
	Finalize() *Tuple

	// GetTupleDesc describes the tuple Finalize returns.
	GetTupleDesc() *TupleDesc
}

// CountAggState implements COUNT.
type CountAggState struct {
	alias string
	expr  Expr
	count int64
}

func (a *CountAggState) Copy() AggState {
	return &CountAggState{a.alias, a.expr, a.count}
}

func (a *CountAggState) Init(alias string, expr Expr) error {
	a.count = 0
	a.expr = expr
	a.alias = alias
	return nil
}

func (a *CountAggState) AddTuple(t *Tuple) {
	a.count++
}

func (a *CountAggState) GetTupleDesc() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: a.alias, Ftype: IntType}}}
}

func (a *CountAggState) Finalize() *Tuple {
	return &Tuple{Desc: *a.GetTupleDesc(), Fields: []DBValue{IntField{Value: a.count}}}
}

// SumAggState implements SUM over an integer expression.
type SumAggState struct {
	alias string
	expr  Expr
	sum   int64
}

func (a *SumAggState) Copy() AggState {
	return &SumAggState{a.alias, a.expr, a.sum}
}

func (a *SumAggState) Init(alias string, expr Expr) error {
	a.sum = 0
	a.expr = expr
	a.alias = alias
	return nil
}

func (a *SumAggState) AddTuple(t *Tuple) {
	v, err := a.expr.EvalExpr(t)
	if err != nil {
		return
	}
	if iv, ok := v.(IntField); ok {
		a.sum += iv.Value
	}
}

func (a *SumAggState) GetTupleDesc() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: a.alias, Ftype: IntType}}}
}

func (a *SumAggState) Finalize() *Tuple {
	return &Tuple{Desc: *a.GetTupleDesc(), Fields: []DBValue{IntField{Value: a.sum}}}
}

// AvgAggState implements AVG over an integer expression as an integer
// division of the running sum by the running count. A group's aggregate
// is only ever finalized after at least one AddTuple, so count is never
// zero at Finalize.
type AvgAggState struct {
	alias string
	expr  Expr
	sum   int64
	count int64
}

func (a *AvgAggState) Copy() AggState {
	return &AvgAggState{a.alias, a.expr, a.sum, a.count}
}

func (a *AvgAggState) Init(alias string, expr Expr) error {
	a.sum = 0
	a.count = 0
	a.expr = expr
	a.alias = alias
	return nil
}

func (a *AvgAggState) AddTuple(t *Tuple) {
	v, err := a.expr.EvalExpr(t)
	if err != nil {
		return
	}
	if iv, ok := v.(IntField); ok {
		a.sum += iv.Value
	}
	a.count++
}

func (a *AvgAggState) GetTupleDesc() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: a.alias, Ftype: IntType}}}
}

func (a *AvgAggState) Finalize() *Tuple {
	return &Tuple{Desc: *a.GetTupleDesc(), Fields: []DBValue{IntField{Value: a.sum / a.count}}}
}

// MaxAggState implements MAX over any comparable field.
type MaxAggState struct {
	alias string
	expr  Expr
	val   DBValue
	empty bool // no tuple added yet
}

func (a *MaxAggState) Copy() AggState {
	return &MaxAggState{a.alias, a.expr, a.val, true}
}

func (a *MaxAggState) Init(alias string, expr Expr) error {
	a.expr = expr
	a.alias = alias
	a.val = nil
	a.empty = true
	return nil
}

func (a *MaxAggState) AddTuple(t *Tuple) {
	v, err := a.expr.EvalExpr(t)
	if err != nil {
		return
	}
	if a.empty {
		a.val = v
		a.empty = false
	} else if a.val.EvalPred(v, OpLt) {
		a.val = v
	}
}

func (a *MaxAggState) GetTupleDesc() *TupleDesc {
	return &TupleDesc{Fields: []FieldType{{Fname: a.alias, Ftype: a.expr.GetExprType().Ftype}}}
}

func (a *MaxAggState) Finalize() *Tuple {
	return &Tuple{Desc: *a.GetTupleDesc(), Fields: []DBValue{a.val}}
}

// MinAggState implements MIN, reusing MaxAggState's storage and
// reversing the comparison.
type MinAggState struct {
	MaxAggState
}

func (a *MinAggState) Copy() AggState {
	return &MinAggState{MaxAggState{a.alias, a.expr, a.val, true}}
}

func (a *MinAggState) Init(alias string, expr Expr) error {
	a.expr = expr
	a.alias = alias
	a.val = nil
	a.empty = true
	return nil
}

func (a *MinAggState) AddTuple(t *Tuple) {
	v, err := a.expr.EvalExpr(t)
	if err != nil {
		return
	}
	if a.empty {
		a.val = v
		a.empty = false
	} else if a.val.EvalPred(v, OpGt) {
		a.val = v
	}
}
