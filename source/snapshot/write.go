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

// Write serializes a dictionary snapshot. block must carry the uint64 key
// column first and one column per attr, in order.
//
// Layout (all integers little-endian):
//
//	magic, version            uint32 each
//	codec                     uint8
//	attr count                uint32
//	row count                 uint64
//	per attr: kind uint8, name length uint16, name bytes
//	bitmap length uint64, roaring64 key-membership bitmap
//	payload uncompressed len  uint64
//	payload stored len        uint64
//	payload CRC32C            uint32 (over the stored bytes)
//	payload bytes
//
// The payload holds the key column, then each attribute column: fixed-width
// kinds as packed little-endian values, strings as length-prefixed bytes.
func Write(w io.Writer, attrs []Attr, block *column.Block, codec Codec) error {
	if len(block.Columns) != len(attrs)+1 {
		return fmt.Errorf("snapshot: block has %d columns, expected %d", len(block.Columns), len(attrs)+1)
	}
	keys, ok := block.Columns[0].(*column.UInt64s)
	if !ok {
		return fmt.Errorf("snapshot: key column has type different from UInt64")
	}
	rows := keys.Len()
	for i, a := range attrs {
		col := block.Columns[i+1]
		if col.Kind() != a.Kind {
			return fmt.Errorf("snapshot: column %s declared %s, block has %s", a.Name, a.Kind, col.Kind())
		}
		if col.Len() != rows {
			return fmt.Errorf("snapshot: column %s has %d rows, expected %d", a.Name, col.Len(), rows)
		}
	}

	var head bytes.Buffer
	binary.Write(&head, binary.LittleEndian, FormatMagic)
	binary.Write(&head, binary.LittleEndian, FormatVersion)
	head.WriteByte(byte(codec))
	binary.Write(&head, binary.LittleEndian, uint32(len(attrs)))
	binary.Write(&head, binary.LittleEndian, uint64(rows))
	for _, a := range attrs {
		head.WriteByte(byte(a.Kind))
		binary.Write(&head, binary.LittleEndian, uint16(len(a.Name)))
		head.WriteString(a.Name)
	}

	bitmap := roaring64.New()
	for _, k := range keys.Data {
		bitmap.Add(k)
	}
	var bitmapBuf bytes.Buffer
	if _, err := bitmap.WriteTo(&bitmapBuf); err != nil {
		return fmt.Errorf("snapshot: serialize key bitmap: %w", err)
	}
	binary.Write(&head, binary.LittleEndian, uint64(bitmapBuf.Len()))
	head.Write(bitmapBuf.Bytes())

	payload, err := encodePayload(attrs, keys, block)
	if err != nil {
		return err
	}
	stored, err := compress(payload, codec)
	if err != nil {
		return err
	}

	binary.Write(&head, binary.LittleEndian, uint64(len(payload)))
	binary.Write(&head, binary.LittleEndian, uint64(len(stored)))
	binary.Write(&head, binary.LittleEndian, hash.CRC32C(stored))

	if _, err := w.Write(head.Bytes()); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

func encodePayload(attrs []Attr, keys *column.UInt64s, block *column.Block) ([]byte, error) {
	var buf bytes.Buffer

	for _, k := range keys.Data {
		binary.Write(&buf, binary.LittleEndian, k)
	}
	for i, a := range attrs {
		col := block.Columns[i+1]
		for r := 0; r < col.Len(); r++ {
			if err := encodeValue(&buf, a.Kind, col.At(r)); err != nil {
				return nil, fmt.Errorf("snapshot: column %s row %d: %w", a.Name, r, err)
			}
		}
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, kind column.Kind, v column.Value) error {
	if want := column.CarrierOf(kind); v.Carrier() != want {
		return fmt.Errorf("value carrier does not match kind %s", kind)
	}
	switch kind {
	case column.KindUInt8:
		buf.WriteByte(uint8(v.UInt64()))
	case column.KindUInt16:
		binary.Write(buf, binary.LittleEndian, uint16(v.UInt64()))
	case column.KindUInt32:
		binary.Write(buf, binary.LittleEndian, uint32(v.UInt64()))
	case column.KindUInt64:
		binary.Write(buf, binary.LittleEndian, v.UInt64())
	case column.KindInt8:
		buf.WriteByte(byte(int8(v.Int64())))
	case column.KindInt16:
		binary.Write(buf, binary.LittleEndian, int16(v.Int64()))
	case column.KindInt32:
		binary.Write(buf, binary.LittleEndian, int32(v.Int64()))
	case column.KindInt64:
		binary.Write(buf, binary.LittleEndian, v.Int64())
	case column.KindFloat32:
		binary.Write(buf, binary.LittleEndian, math.Float32bits(float32(v.Float64())))
	case column.KindFloat64:
		binary.Write(buf, binary.LittleEndian, math.Float64bits(v.Float64()))
	case column.KindString:
		s := v.Str()
		binary.Write(buf, binary.LittleEndian, uint32(len(s)))
		buf.WriteString(s)
	default:
		return fmt.Errorf("invalid kind %s", kind)
	}
	return nil
}
