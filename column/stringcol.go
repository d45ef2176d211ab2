package column

// StringColumn is a byte+offset container for string values, the output
// buffer of the vectorized string getters. Element i occupies
// chars[offsets[i-1]:offsets[i]-1]; a zero terminator follows every element
// so offsets stay strictly increasing even for empty strings.
type StringColumn struct {
	chars   []byte
	offsets []uint64
}

// NewStringColumn creates an empty string column.
func NewStringColumn() *StringColumn { return &StringColumn{} }

// Kind implements Column.
func (c *StringColumn) Kind() Kind { return KindString }

// Len returns the number of elements.
func (c *StringColumn) Len() int { return len(c.offsets) }

// At implements Column.
func (c *StringColumn) At(row int) Value { return String(string(c.BytesAt(row))) }

// BytesAt returns the bytes of element row, without the terminator. The
// returned slice aliases the column's buffer.
func (c *StringColumn) BytesAt(row int) []byte {
	start := uint64(0)
	if row > 0 {
		start = c.offsets[row-1]
	}
	return c.chars[start : c.offsets[row]-1]
}

// StringAt returns element row as a string.
func (c *StringColumn) StringAt(row int) string { return string(c.BytesAt(row)) }

// AppendBytes appends one element.
func (c *StringColumn) AppendBytes(b []byte) {
	c.chars = append(c.chars, b...)
	c.chars = append(c.chars, 0)
	c.offsets = append(c.offsets, uint64(len(c.chars)))
}

// AppendString appends one element.
func (c *StringColumn) AppendString(s string) {
	c.chars = append(c.chars, s...)
	c.chars = append(c.chars, 0)
	c.offsets = append(c.offsets, uint64(len(c.chars)))
}

// Reserve grows the column's capacity to hold rows elements totalling
// byteLen bytes of character data (terminators included) without further
// allocation.
func (c *StringColumn) Reserve(rows, byteLen int) {
	if cap(c.offsets)-len(c.offsets) < rows {
		offsets := make([]uint64, len(c.offsets), len(c.offsets)+rows)
		copy(offsets, c.offsets)
		c.offsets = offsets
	}
	if cap(c.chars)-len(c.chars) < byteLen {
		chars := make([]byte, len(c.chars), len(c.chars)+byteLen)
		copy(chars, c.chars)
		c.chars = chars
	}
}

// Reset discards all elements but keeps the allocated capacity.
func (c *StringColumn) Reset() {
	c.chars = c.chars[:0]
	c.offsets = c.offsets[:0]
}

// Truncate drops all elements beyond the first n, keeping capacity.
func (c *StringColumn) Truncate(n int) {
	if n >= len(c.offsets) {
		return
	}
	if n == 0 {
		c.Reset()
		return
	}
	c.chars = c.chars[:c.offsets[n-1]]
	c.offsets = c.offsets[:n]
}

// Chars returns the raw character buffer, terminators included.
func (c *StringColumn) Chars() []byte { return c.chars }

// Offsets returns the raw offsets, one past each element's terminator.
func (c *StringColumn) Offsets() []uint64 { return c.offsets }
