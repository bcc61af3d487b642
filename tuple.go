package godb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Tuple is a single row: its schema, its field values (a slot may be
// unset, i.e. nil, prior to assignment), and the physical address it was
// read from, if any. A nil Rid means the tuple has never been persisted.
type Tuple struct {
	Desc   TupleDesc
	Fields []DBValue
	Rid    *RecordId
}

// writeTo serializes the tuple's fields, in schema order, into b. Integers
// are written as 8-byte big-endian values; strings as a 4-byte big-endian
// length prefix followed by StringLength zero-padded bytes, per
// SPEC_FULL.md §6.
func (t *Tuple) writeTo(b *bytes.Buffer) error {
	for i, f := range t.Fields {
		switch v := f.(type) {
		case IntField:
			if err := binary.Write(b, binary.BigEndian, v.Value); err != nil {
				return err
			}
		case StringField:
			if err := writeStringField(b, v); err != nil {
				return err
			}
		default:
			return newErr(SchemaMismatchError, "field %d has unsupported type %T", i, f)
		}
	}
	return nil
}

func writeStringField(b *bytes.Buffer, f StringField) error {
	if err := binary.Write(b, binary.BigEndian, int32(len(f.Value))); err != nil {
		return err
	}
	padded := make([]byte, StringLength)
	copy(padded, f.Value)
	_, err := b.Write(padded)
	return err
}

// readTupleFrom deserializes one tuple of the given schema from b.
func readTupleFrom(b *bytes.Buffer, desc *TupleDesc) (*Tuple, error) {
	t := &Tuple{Desc: *desc, Fields: make([]DBValue, len(desc.Fields))}
	for i, fd := range desc.Fields {
		switch fd.Ftype {
		case IntType:
			var v int64
			if err := binary.Read(b, binary.BigEndian, &v); err != nil {
				return nil, err
			}
			t.Fields[i] = IntField{Value: v}
		case StringType:
			v, err := readStringField(b)
			if err != nil {
				return nil, err
			}
			t.Fields[i] = v
		default:
			return nil, newErr(SchemaMismatchError, "field %d has unsupported type %v", i, fd.Ftype)
		}
	}
	return t, nil
}

func readStringField(b *bytes.Buffer) (StringField, error) {
	var n int32
	if err := binary.Read(b, binary.BigEndian, &n); err != nil {
		return StringField{}, err
	}
	raw := make([]byte, StringLength)
	if _, err := b.Read(raw); err != nil {
		return StringField{}, err
	}
	if int(n) > StringLength {
		n = StringLength
	}
	return StringField{Value: strings.TrimRight(string(raw[:n]), "\x00")}, nil
}

// equals compares two tuples by schema and field value; RecordIds are not
// part of equality.
func (t *Tuple) equals(other *Tuple) bool {
	if t == nil || other == nil {
		return t == other
	}
	if !t.Desc.equals(&other.Desc) || len(t.Fields) != len(other.Fields) {
		return false
	}
	for i := range t.Fields {
		if t.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}

// joinTuples concatenates t1's fields before t2's, merging their schemas
// the same way. Either side may be nil.
func joinTuples(t1, t2 *Tuple) *Tuple {
	if t1 == nil {
		return t2
	}
	if t2 == nil {
		return t1
	}
	desc := t1.Desc.merge(&t2.Desc)
	fields := make([]DBValue, 0, len(t1.Fields)+len(t2.Fields))
	fields = append(fields, t1.Fields...)
	fields = append(fields, t2.Fields...)
	return &Tuple{Desc: *desc, Fields: fields}
}

type orderByState int

const (
	OrderedLessThan orderByState = iota
	OrderedEqual
	OrderedGreaterThan
)

// compareField evaluates expr against t and other and orders the results.
func (t *Tuple) compareField(other *Tuple, expr Expr) (orderByState, error) {
	v1, err := expr.EvalExpr(t)
	if err != nil {
		return OrderedEqual, err
	}
	v2, err := expr.EvalExpr(other)
	if err != nil {
		return OrderedEqual, err
	}
	return compareFieldValues(v1, v2)
}

func compareFieldValues(v1, v2 DBValue) (orderByState, error) {
	switch a := v1.(type) {
	case IntField:
		b, ok := v2.(IntField)
		if !ok {
			return OrderedEqual, newErr(TypeMismatchError, "cannot compare int to %T", v2)
		}
		switch {
		case a.Value < b.Value:
			return OrderedLessThan, nil
		case a.Value > b.Value:
			return OrderedGreaterThan, nil
		default:
			return OrderedEqual, nil
		}
	case StringField:
		b, ok := v2.(StringField)
		if !ok {
			return OrderedEqual, newErr(TypeMismatchError, "cannot compare string to %T", v2)
		}
		switch {
		case a.Value < b.Value:
			return OrderedLessThan, nil
		case a.Value > b.Value:
			return OrderedGreaterThan, nil
		default:
			return OrderedEqual, nil
		}
	default:
		return OrderedEqual, newErr(TypeMismatchError, "unsupported field type %T", v1)
	}
}

// project returns a new tuple holding just the named fields, preferring a
// match on TableQualifier when one is given.
func (t *Tuple) project(fields []FieldType) (*Tuple, error) {
	out := &Tuple{Desc: TupleDesc{}, Fields: []DBValue{}}
	for _, want := range fields {
		idx, err := findFieldInTd(want, &t.Desc)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, t.Fields[idx])
		out.Desc.Fields = append(out.Desc.Fields, t.Desc.Fields[idx])
	}
	return out, nil
}

// tupleKey computes a comparable key for t suitable for use as a map key
// (e.g. Project's distinct de-duplication).
func (t *Tuple) tupleKey() any {
	var buf bytes.Buffer
	t.writeTo(&buf)
	return buf.String()
}

var prettyColWidth = 120

func fmtCol(v string, ncols int) string {
	colWid := prettyColWidth / ncols
	if colWid < 4 {
		colWid = 4
	}
	rem := colWid - (len(v) + 3)
	if rem > 0 {
		left := rem / 2
		right := rem - left
		return strings.Repeat(" ", left) + v + strings.Repeat(" ", right) + " |"
	}
	if len(v) > colWid-4 {
		v = v[:colWid-4]
	}
	return " " + v + " |"
}

// PrettyPrintString renders the tuple's values, tabular (aligned) or
// comma-separated.
func (t *Tuple) PrettyPrintString(aligned bool) string {
	out := ""
	for i, f := range t.Fields {
		str := ""
		switch v := f.(type) {
		case IntField:
			str = strconv.FormatInt(v.Value, 10)
		case StringField:
			str = v.Value
		}
		if aligned {
			out = fmt.Sprintf("%s %s", out, fmtCol(str, len(t.Fields)))
		} else {
			if i > 0 {
				out += ","
			}
			out += str
		}
	}
	return out
}
