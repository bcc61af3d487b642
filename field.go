package godb

import "strings"

// BoolOp identifies a comparison operator between two field values.
type BoolOp int

const (
	OpEq BoolOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLike
)

func (op BoolOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLike:
		return "LIKE"
	default:
		return "?"
	}
}

// DBValue is the interface implemented by every field value variant
// (IntField, StringField). EvalPred applies op between the receiver and
// v, returning false for any cross-kind comparison other than OpNe (which
// is true) and OpEq (which is false).
type DBValue interface {
	EvalPred(v DBValue, op BoolOp) bool
}

// IntField is an integer field value, held in an int64 (and stored on
// disk as 8 bytes) so aggregate accumulation never overflows. Values are
// not range-checked or wrapped to 32 bits. See types.go.
type IntField struct {
	Value int64
}

// StringField is a fixed-width (StringLength-byte) string field value.
type StringField struct {
	Value string
}

func (f IntField) EvalPred(v DBValue, op BoolOp) bool {
	other, ok := v.(IntField)
	if !ok {
		return op == OpNe
	}
	switch op {
	case OpEq:
		return f.Value == other.Value
	case OpNe:
		return f.Value != other.Value
	case OpLt:
		return f.Value < other.Value
	case OpLe:
		return f.Value <= other.Value
	case OpGt:
		return f.Value > other.Value
	case OpGe:
		return f.Value >= other.Value
	case OpLike:
		return false
	default:
		return false
	}
}

func (f StringField) EvalPred(v DBValue, op BoolOp) bool {
	other, ok := v.(StringField)
	if !ok {
		return op == OpNe
	}
	switch op {
	case OpEq:
		return f.Value == other.Value
	case OpNe:
		return f.Value != other.Value
	case OpLt:
		return f.Value < other.Value
	case OpLe:
		return f.Value <= other.Value
	case OpGt:
		return f.Value > other.Value
	case OpGe:
		return f.Value >= other.Value
	case OpLike:
		return strings.Contains(f.Value, other.Value)
	default:
		return false
	}
}
