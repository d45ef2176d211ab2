package column

import (
	"fmt"
	"strconv"
)

// Carrier is the canonical transfer class of a Value. Every fixed-width
// kind travels as its widest carrier; strings travel as-is.
type Carrier uint8

const (
	// CarrierNone marks the zero Value.
	CarrierNone Carrier = iota
	// CarrierUInt carries all unsigned integer kinds as uint64.
	CarrierUInt
	// CarrierInt carries all signed integer kinds as int64.
	CarrierInt
	// CarrierFloat carries both float kinds as float64.
	CarrierFloat
	// CarrierString carries string kinds.
	CarrierString
)

// Value is a small typed value used to move attribute data between sources
// and the cache. The representation avoids reflection and interface boxing
// on the hot path.
type Value struct {
	c Carrier
	u uint64
	i int64
	f float64
	s string
}

// UInt returns a Value carrying an unsigned integer.
func UInt(v uint64) Value { return Value{c: CarrierUInt, u: v} }

// Int returns a Value carrying a signed integer.
func Int(v int64) Value { return Value{c: CarrierInt, i: v} }

// Float returns a Value carrying a float.
func Float(v float64) Value { return Value{c: CarrierFloat, f: v} }

// String returns a Value carrying a string.
func String(s string) Value { return Value{c: CarrierString, s: s} }

// Carrier returns the carrier class of the value.
func (v Value) Carrier() Carrier { return v.c }

// UInt64 returns the unsigned carrier payload.
func (v Value) UInt64() uint64 { return v.u }

// Int64 returns the signed carrier payload.
func (v Value) Int64() int64 { return v.i }

// Float64 returns the float carrier payload.
func (v Value) Float64() float64 { return v.f }

// Str returns the string payload.
func (v Value) Str() string { return v.s }

// CarrierOf returns the carrier class used for a kind.
func CarrierOf(k Kind) Carrier {
	switch k {
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return CarrierUInt
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return CarrierInt
	case KindFloat32, KindFloat64:
		return CarrierFloat
	case KindString:
		return CarrierString
	default:
		return CarrierNone
	}
}

// ParseValue parses the textual form of a value of the given kind into its
// carrier representation. Used for declared attribute null values.
func ParseValue(k Kind, s string) (Value, error) {
	switch CarrierOf(k) {
	case CarrierUInt:
		u, err := strconv.ParseUint(s, 10, k.Width()*8)
		if err != nil {
			return Value{}, fmt.Errorf("parse %s value %q: %w", k, s, err)
		}
		return UInt(u), nil
	case CarrierInt:
		i, err := strconv.ParseInt(s, 10, k.Width()*8)
		if err != nil {
			return Value{}, fmt.Errorf("parse %s value %q: %w", k, s, err)
		}
		return Int(i), nil
	case CarrierFloat:
		f, err := strconv.ParseFloat(s, k.Width()*8)
		if err != nil {
			return Value{}, fmt.Errorf("parse %s value %q: %w", k, s, err)
		}
		return Float(f), nil
	case CarrierString:
		return String(s), nil
	default:
		return Value{}, fmt.Errorf("cannot parse value of kind %s", k)
	}
}
