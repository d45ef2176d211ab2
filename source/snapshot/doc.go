// Package snapshot implements a columnar snapshot-file format for
// dictionaries and a source that serves it from a blob store. Payloads are
// optionally zstd- or LZ4-compressed and checksummed; a roaring64 bitmap of
// present keys supports selective load without scanning column data.
package snapshot
