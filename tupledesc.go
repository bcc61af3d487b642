package godb

import "fmt"

// FieldType names one column of a TupleDesc: its name, the table it came
// from (advisory, set by operators like Join/SeqScan; may be empty), and
// its DBType.
type FieldType struct {
	Fname          string
	TableQualifier string
	Ftype          DBType
}

// TupleDesc is the schema of a tuple: an ordered, non-empty sequence of
// fields.
type TupleDesc struct {
	Fields []FieldType
}

// equals compares two TupleDescs by type sequence only; names are
// advisory and do not participate in schema equality.
func (td *TupleDesc) equals(other *TupleDesc) bool {
	if len(td.Fields) != len(other.Fields) {
		return false
	}
	for i := range td.Fields {
		if td.Fields[i].Ftype != other.Fields[i].Ftype {
			return false
		}
	}
	return true
}

// bytesPerTuple is the on-disk width of one row of this schema: the sum
// of each field's width.
func (td *TupleDesc) bytesPerTuple() int {
	n := 0
	for _, f := range td.Fields {
		n += f.Ftype.width()
	}
	return n
}

// copy makes an independent copy of the TupleDesc (the Fields slice is
// not shared with the receiver).
func (td *TupleDesc) copy() *TupleDesc {
	fields := make([]FieldType, len(td.Fields))
	copy(fields, td.Fields)
	return &TupleDesc{Fields: fields}
}

// setTableAlias reassigns every field's TableQualifier to alias. Used by
// operators (e.g. a renamed subquery) that need to requalify a child's
// schema without touching field names.
func (td *TupleDesc) setTableAlias(alias string) {
	fields := make([]FieldType, len(td.Fields))
	copy(fields, td.Fields)
	for i := range fields {
		fields[i].TableQualifier = alias
	}
	td.Fields = fields
}

// merge concatenates two schemas, td's fields first.
func (td *TupleDesc) merge(other *TupleDesc) *TupleDesc {
	fields := make([]FieldType, 0, len(td.Fields)+len(other.Fields))
	fields = append(fields, td.Fields...)
	fields = append(fields, other.Fields...)
	return &TupleDesc{Fields: fields}
}

// findFieldInTd finds the best match in desc for field: same name, and
// same type unless field.Ftype is UnknownType. A TableQualifier on field
// narrows the match; with no qualifier, more than one same-named field is
// ambiguous.
func findFieldInTd(field FieldType, desc *TupleDesc) (int, error) {
	best := -1
	for i, f := range desc.Fields {
		if f.Fname != field.Fname {
			continue
		}
		if field.Ftype != UnknownType && f.Ftype != field.Ftype {
			continue
		}
		if field.TableQualifier == "" && best != -1 {
			return 0, newErr(AmbiguousNameError, "field %s is ambiguous", field.Fname)
		}
		if f.TableQualifier == field.TableQualifier || best == -1 {
			best = i
		}
	}
	if best == -1 {
		return -1, newErr(NoSuchElementError, "field %s.%s not found", field.TableQualifier, field.Fname)
	}
	return best, nil
}

// HeaderString renders the schema as a header row, tabular (aligned) or
// comma-separated.
func (td *TupleDesc) HeaderString(aligned bool) string {
	out := ""
	for i, f := range td.Fields {
		name := f.Fname
		if f.TableQualifier != "" {
			name = f.TableQualifier + "." + name
		}
		if aligned {
			out = fmt.Sprintf("%s %s |", out, name)
		} else {
			if i > 0 {
				out += ","
			}
			out += name
		}
	}
	return out
}
