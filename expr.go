package godb

// Expr evaluates to a DBValue against a tuple. Operators (Filter, Join,
// OrderBy, Limit, Aggregate) are built against this interface rather than
// bare field names so that, e.g., a constant or a computed value can
// stand in anywhere a field reference can.
type Expr interface {
	EvalExpr(t *Tuple) (DBValue, error)
	GetExprType() FieldType
}

// FieldExpr extracts a named field from a tuple.
type FieldExpr struct {
	Field FieldType
}

func NewFieldExpr(f FieldType) *FieldExpr {
	return &FieldExpr{Field: f}
}

func (e *FieldExpr) EvalExpr(t *Tuple) (DBValue, error) {
	idx, err := findFieldInTd(e.Field, &t.Desc)
	if err != nil {
		return nil, err
	}
	return t.Fields[idx], nil
}

func (e *FieldExpr) GetExprType() FieldType {
	return e.Field
}

// ConstExpr evaluates to a fixed value regardless of the tuple (or a nil
// tuple, as used by Limit, whose bound doesn't depend on any row).
type ConstExpr struct {
	Value DBValue
	Ftype DBType
}

func NewConstExpr(v DBValue, t DBType) *ConstExpr {
	return &ConstExpr{Value: v, Ftype: t}
}

func (e *ConstExpr) EvalExpr(t *Tuple) (DBValue, error) {
	return e.Value, nil
}

func (e *ConstExpr) GetExprType() FieldType {
	return FieldType{Fname: "", Ftype: e.Ftype}
}
