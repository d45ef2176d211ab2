package snapshot

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/dictcache/column"
)

const (
	// FormatMagic identifies dictionary snapshot files (ASCII: "DCS1").
	FormatMagic uint32 = 0x44435331

	// FormatVersion is the current snapshot format version.
	FormatVersion uint32 = 1
)

// Codec selects the payload compression algorithm.
type Codec uint8

const (
	// CodecNone stores the payload uncompressed.
	CodecNone Codec = 0
	// CodecZstd compresses the payload with zstd (better ratio).
	CodecZstd Codec = 1
	// CodecLZ4 compresses the payload with LZ4 block compression (faster).
	CodecLZ4 Codec = 2
)

var (
	// ErrInvalidMagic is returned when a file has an invalid magic number.
	ErrInvalidMagic = errors.New("snapshot: invalid magic number")

	// ErrInvalidVersion is returned when a file has an unsupported version.
	ErrInvalidVersion = errors.New("snapshot: unsupported format version")

	// ErrCorrupted is returned when a file fails checksum validation.
	ErrCorrupted = errors.New("snapshot: file corrupted (checksum mismatch)")
)

// Attr declares one snapshot column: a dictionary attribute name and kind.
type Attr struct {
	Name string
	Kind column.Kind
}

func compress(data []byte, codec Codec) ([]byte, error) {
	switch codec {
	case CodecNone:
		return data, nil
	case CodecZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	case CodecLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 || n >= len(data) {
			// Incompressible; store the raw bytes, flagged by compressed
			// length == uncompressed length.
			return data, nil
		}
		return buf[:n], nil
	default:
		return nil, fmt.Errorf("snapshot: unknown codec %d", codec)
	}
}

func decompress(data []byte, codec Codec, uncompressedLen int) ([]byte, error) {
	switch codec {
	case CodecNone:
		return data, nil
	case CodecZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, make([]byte, 0, uncompressedLen))
		if err != nil {
			return nil, err
		}
		if len(out) != uncompressedLen {
			return nil, fmt.Errorf("snapshot: decompressed %d bytes, expected %d", len(out), uncompressedLen)
		}
		return out, nil
	case CodecLZ4:
		if len(data) == uncompressedLen {
			// Incompressible payload stored raw; see compress.
			return data, nil
		}
		out := make([]byte, uncompressedLen)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, err
		}
		if n != uncompressedLen {
			return nil, fmt.Errorf("snapshot: decompressed %d bytes, expected %d", n, uncompressedLen)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("snapshot: unknown codec %d", codec)
	}
}
