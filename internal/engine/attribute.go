package engine

import (
	"fmt"

	"github.com/hupe1980/dictcache/column"
)

// AttributeSpec declares one attribute of the dictionary structure.
type AttributeSpec struct {
	Name         string
	Kind         column.Kind
	Null         column.Value
	Hierarchical bool
}

// attribute holds one value array of the table, typed by the declared kind.
// Fixed-width kinds store a flat slice in data; strings store per-slot owned
// buffers in str (nil buffer = empty/missing).
type attribute struct {
	name         string
	kind         column.Kind
	null         column.Value
	hierarchical bool

	data any      // []uint8 | []uint16 | ... | []float64, nil for strings
	str  [][]byte // only for column.KindString
}

func newAttribute(spec AttributeSpec, size uint64) (*attribute, error) {
	if want := column.CarrierOf(spec.Kind); spec.Null.Carrier() != want {
		return nil, fmt.Errorf("%w: attribute %s null value carrier does not match kind %s",
			ErrTypeMismatch, spec.Name, spec.Kind)
	}

	a := &attribute{
		name:         spec.Name,
		kind:         spec.Kind,
		null:         spec.Null,
		hierarchical: spec.Hierarchical,
	}
	switch spec.Kind {
	case column.KindUInt8:
		a.data = make([]uint8, size)
	case column.KindUInt16:
		a.data = make([]uint16, size)
	case column.KindUInt32:
		a.data = make([]uint32, size)
	case column.KindUInt64:
		a.data = make([]uint64, size)
	case column.KindInt8:
		a.data = make([]int8, size)
	case column.KindInt16:
		a.data = make([]int16, size)
	case column.KindInt32:
		a.data = make([]int32, size)
	case column.KindInt64:
		a.data = make([]int64, size)
	case column.KindFloat32:
		a.data = make([]float32, size)
	case column.KindFloat64:
		a.data = make([]float64, size)
	case column.KindString:
		a.str = make([][]byte, size)
	default:
		return nil, fmt.Errorf("%w: attribute %s has invalid kind", ErrTypeMismatch, spec.Name)
	}
	return a, nil
}

// set writes a carrier value into the array at idx. Callers hold the write
// lock. The carrier class must match the declared kind.
func (a *attribute) set(idx uint64, v column.Value) error {
	if v.Carrier() != column.CarrierOf(a.kind) {
		return fmt.Errorf("%w: attribute %s declared %s, got carrier %d",
			ErrTypeMismatch, a.name, a.kind, v.Carrier())
	}

	switch a.kind {
	case column.KindUInt8:
		a.data.([]uint8)[idx] = uint8(v.UInt64())
	case column.KindUInt16:
		a.data.([]uint16)[idx] = uint16(v.UInt64())
	case column.KindUInt32:
		a.data.([]uint32)[idx] = uint32(v.UInt64())
	case column.KindUInt64:
		a.data.([]uint64)[idx] = v.UInt64()
	case column.KindInt8:
		a.data.([]int8)[idx] = int8(v.Int64())
	case column.KindInt16:
		a.data.([]int16)[idx] = int16(v.Int64())
	case column.KindInt32:
		a.data.([]int32)[idx] = int32(v.Int64())
	case column.KindInt64:
		a.data.([]int64)[idx] = v.Int64()
	case column.KindFloat32:
		a.data.([]float32)[idx] = float32(v.Float64())
	case column.KindFloat64:
		a.data.([]float64)[idx] = v.Float64()
	case column.KindString:
		a.setString(idx, v.Str())
	}
	return nil
}

// setString replaces the owned buffer at idx, reusing its capacity when the
// new value fits. An empty value stores the nil buffer.
func (a *attribute) setString(idx uint64, s string) {
	if len(s) == 0 {
		a.str[idx] = nil
		return
	}
	buf := a.str[idx]
	if cap(buf) >= len(s) {
		buf = buf[:len(s)]
	} else {
		buf = make([]byte, len(s))
	}
	copy(buf, s)
	a.str[idx] = buf
}

// carrierTo narrows a carrier value to the concrete numeric type.
func carrierTo[T Numeric](v column.Value) T {
	switch v.Carrier() {
	case column.CarrierUInt:
		return T(v.UInt64())
	case column.CarrierInt:
		return T(v.Int64())
	case column.CarrierFloat:
		return T(v.Float64())
	default:
		var zero T
		return zero
	}
}
