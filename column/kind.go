package column

import "fmt"

// Kind identifies the concrete type of an attribute column.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindUInt8 represents an unsigned 8-bit integer attribute.
	KindUInt8
	// KindUInt16 represents an unsigned 16-bit integer attribute.
	KindUInt16
	// KindUInt32 represents an unsigned 32-bit integer attribute.
	KindUInt32
	// KindUInt64 represents an unsigned 64-bit integer attribute.
	KindUInt64
	// KindInt8 represents a signed 8-bit integer attribute.
	KindInt8
	// KindInt16 represents a signed 16-bit integer attribute.
	KindInt16
	// KindInt32 represents a signed 32-bit integer attribute.
	KindInt32
	// KindInt64 represents a signed 64-bit integer attribute.
	KindInt64
	// KindFloat32 represents a 32-bit float attribute.
	KindFloat32
	// KindFloat64 represents a 64-bit float attribute.
	KindFloat64
	// KindString represents a variable-length string attribute.
	KindString
)

var kindNames = map[Kind]string{
	KindUInt8:   "UInt8",
	KindUInt16:  "UInt16",
	KindUInt32:  "UInt32",
	KindUInt64:  "UInt64",
	KindInt8:    "Int8",
	KindInt16:   "Int16",
	KindInt32:   "Int32",
	KindInt64:   "Int64",
	KindFloat32: "Float32",
	KindFloat64: "Float64",
	KindString:  "String",
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind resolves a canonical kind name to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown attribute kind %q", s)
}

// Fixed reports whether the kind is a fixed-width numeric kind.
func (k Kind) Fixed() bool {
	return k >= KindUInt8 && k <= KindFloat64
}

// Width returns the element width in bytes for fixed-width kinds, 0 for
// variable-length kinds.
func (k Kind) Width() int {
	switch k {
	case KindUInt8, KindInt8:
		return 1
	case KindUInt16, KindInt16:
		return 2
	case KindUInt32, KindInt32, KindFloat32:
		return 4
	case KindUInt64, KindInt64, KindFloat64:
		return 8
	default:
		return 0
	}
}
