package column

// Column is one column of a block: a randomly indexable run of values of a
// single kind.
type Column interface {
	// Kind returns the kind of the column's elements.
	Kind() Kind
	// Len returns the number of rows.
	Len() int
	// At returns the value at the given row in carrier form.
	At(row int) Value
}

// UInt64s is a column of unsigned 64-bit integers. Block key columns must be
// of this concrete type; callers type-assert to reach the raw data.
type UInt64s struct {
	Data []uint64
}

// NewUInt64s wraps data as a UInt64 column. The slice is not copied.
func NewUInt64s(data []uint64) *UInt64s { return &UInt64s{Data: data} }

// Kind implements Column.
func (c *UInt64s) Kind() Kind { return KindUInt64 }

// Len implements Column.
func (c *UInt64s) Len() int { return len(c.Data) }

// At implements Column.
func (c *UInt64s) At(row int) Value { return UInt(c.Data[row]) }

// Values is a generic column of carrier values with a declared kind. Sources
// that assemble blocks row by row use it for the attribute columns.
type Values struct {
	kind Kind
	vals []Value
}

// NewValues creates a Values column of the given kind.
func NewValues(kind Kind, vals ...Value) *Values {
	return &Values{kind: kind, vals: vals}
}

// Append adds a value to the column.
func (c *Values) Append(v Value) { c.vals = append(c.vals, v) }

// Kind implements Column.
func (c *Values) Kind() Kind { return c.kind }

// Len implements Column.
func (c *Values) Len() int { return len(c.vals) }

// At implements Column.
func (c *Values) At(row int) Value { return c.vals[row] }
