package godb

// PageSize is the fixed size, in bytes, of every page of every HeapFile.
const PageSize = 4096

// StringLength is the fixed width, in bytes, of a string field's payload
// on disk (not counting its 4-byte length prefix).
const StringLength = 128

// intFieldBytes is the on-disk width of an int field's slot. Values are
// accumulated as int64 by aggregators (SUM/COUNT/AVG), so the slot is
// widened from the illustrative 4 bytes in spec.md to 8 to avoid silently
// truncating a legitimate 64-bit aggregate result. See SPEC_FULL.md §11.
const intFieldBytes = 8

// stringFieldBytes is the on-disk width of a string field's slot: a
// 4-byte length prefix followed by StringLength bytes of zero-padded
// payload.
const stringFieldBytes = 4 + StringLength

// DBType is the type of a tuple field, e.g. IntType or StringType.
type DBType int

const (
	IntType DBType = iota
	StringType
	// UnknownType is used internally during expression typing when a
	// field's type can't yet be determined.
	UnknownType
)

func (t DBType) String() string {
	switch t {
	case IntType:
		return "int"
	case StringType:
		return "string"
	default:
		return "unknown"
	}
}

// width returns the on-disk byte width of a field of this type.
func (t DBType) width() int {
	switch t {
	case IntType:
		return intFieldBytes
	case StringType:
		return stringFieldBytes
	default:
		return 0
	}
}
