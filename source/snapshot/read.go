package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/dictcache/column"
	"github.com/hupe1980/dictcache/internal/hash"
)

// File is a fully decoded snapshot: keys, attribute columns and the key
// membership bitmap. It is immutable and safe for concurrent use.
type File struct {
	attrs  []Attr
	keys   []uint64
	cols   []*column.Values
	bitmap *roaring64.Bitmap
	rowOf  map[uint64]int
}

// Attrs returns the snapshot's column declaration.
func (f *File) Attrs() []Attr { return f.attrs }

// Rows returns the number of records.
func (f *File) Rows() int { return len(f.keys) }

// Contains reports membership of a key without touching column data.
func (f *File) Contains(key uint64) bool { return f.bitmap.Contains(key) }

// Decode parses a snapshot from raw bytes.
func Decode(data []byte) (*File, error) {
	r := &sliceReader{data: data}

	magic, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if magic != FormatMagic {
		return nil, ErrInvalidMagic
	}
	version, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if version > FormatVersion {
		return nil, ErrInvalidVersion
	}
	codecByte, err := r.byte()
	if err != nil {
		return nil, err
	}
	codec := Codec(codecByte)

	attrCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	rowCount, err := r.uint64()
	if err != nil {
		return nil, err
	}

	attrs := make([]Attr, attrCount)
	for i := range attrs {
		kindByte, err := r.byte()
		if err != nil {
			return nil, err
		}
		nameLen, err := r.uint16()
		if err != nil {
			return nil, err
		}
		name, err := r.take(int(nameLen))
		if err != nil {
			return nil, err
		}
		attrs[i] = Attr{Name: string(name), Kind: column.Kind(kindByte)}
	}

	bitmapLen, err := r.uint64()
	if err != nil {
		return nil, err
	}
	bitmapBytes, err := r.take(int(bitmapLen))
	if err != nil {
		return nil, err
	}
	bitmap := roaring64.New()
	if _, err := bitmap.ReadFrom(bytes.NewReader(bitmapBytes)); err != nil {
		return nil, fmt.Errorf("snapshot: parse key bitmap: %w", err)
	}

	uncompressedLen, err := r.uint64()
	if err != nil {
		return nil, err
	}
	storedLen, err := r.uint64()
	if err != nil {
		return nil, err
	}
	checksum, err := r.uint32()
	if err != nil {
		return nil, err
	}
	stored, err := r.take(int(storedLen))
	if err != nil {
		return nil, err
	}
	if hash.CRC32C(stored) != checksum {
		return nil, ErrCorrupted
	}

	payload, err := decompress(stored, codec, int(uncompressedLen))
	if err != nil {
		return nil, err
	}

	return decodePayload(attrs, int(rowCount), bitmap, payload)
}

func decodePayload(attrs []Attr, rows int, bitmap *roaring64.Bitmap, payload []byte) (*File, error) {
	r := &sliceReader{data: payload}

	keys := make([]uint64, rows)
	for i := range keys {
		k, err := r.uint64()
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	cols := make([]*column.Values, len(attrs))
	for i, a := range attrs {
		cols[i] = column.NewValues(a.Kind)
		for row := 0; row < rows; row++ {
			v, err := decodeValue(r, a.Kind)
			if err != nil {
				return nil, fmt.Errorf("snapshot: column %s row %d: %w", a.Name, row, err)
			}
			cols[i].Append(v)
		}
	}

	rowOf := make(map[uint64]int, rows)
	for i, k := range keys {
		rowOf[k] = i
	}

	return &File{
		attrs:  attrs,
		keys:   keys,
		cols:   cols,
		bitmap: bitmap,
		rowOf:  rowOf,
	}, nil
}

func decodeValue(r *sliceReader, kind column.Kind) (column.Value, error) {
	switch kind {
	case column.KindUInt8:
		b, err := r.byte()
		return column.UInt(uint64(b)), err
	case column.KindUInt16:
		u, err := r.uint16()
		return column.UInt(uint64(u)), err
	case column.KindUInt32:
		u, err := r.uint32()
		return column.UInt(uint64(u)), err
	case column.KindUInt64:
		u, err := r.uint64()
		return column.UInt(u), err
	case column.KindInt8:
		b, err := r.byte()
		return column.Int(int64(int8(b))), err
	case column.KindInt16:
		u, err := r.uint16()
		return column.Int(int64(int16(u))), err
	case column.KindInt32:
		u, err := r.uint32()
		return column.Int(int64(int32(u))), err
	case column.KindInt64:
		u, err := r.uint64()
		return column.Int(int64(u)), err
	case column.KindFloat32:
		u, err := r.uint32()
		return column.Float(float64(math.Float32frombits(u))), err
	case column.KindFloat64:
		u, err := r.uint64()
		return column.Float(math.Float64frombits(u)), err
	case column.KindString:
		n, err := r.uint32()
		if err != nil {
			return column.Value{}, err
		}
		b, err := r.take(int(n))
		return column.String(string(b)), err
	default:
		return column.Value{}, fmt.Errorf("invalid kind %d", kind)
	}
}

// sliceReader is a bounds-checked cursor over a byte slice.
type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) take(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *sliceReader) byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *sliceReader) uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *sliceReader) uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *sliceReader) uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
