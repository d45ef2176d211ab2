package snapshot

import (
	"context"
	"fmt"

	"github.com/hupe1980/dictcache/blobstore"
	"github.com/hupe1980/dictcache/column"
	"github.com/hupe1980/dictcache/source"
)

// Source serves dictionary records from a decoded snapshot file. The key
// membership bitmap filters requested ids before any column data is touched.
type Source struct {
	file *File
}

var _ source.Source = (*Source)(nil)

// NewSource wraps an already decoded snapshot.
func NewSource(file *File) *Source { return &Source{file: file} }

// Open reads and decodes the named snapshot blob from the store.
func Open(ctx context.Context, store blobstore.BlobStore, name string) (*Source, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", name, err)
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", name, err)
	}
	file, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &Source{file: file}, nil
}

// File returns the decoded snapshot.
func (s *Source) File() *File { return s.file }

// SupportsSelectiveLoad implements source.Source.
func (s *Source) SupportsSelectiveLoad() bool { return true }

// Clone implements source.Source. The decoded file is immutable, so clones
// share it.
func (s *Source) Clone() source.Source { return &Source{file: s.file} }

// LoadIDs implements source.Source.
func (s *Source) LoadIDs(_ context.Context, ids []uint64) (source.Stream, error) {
	f := s.file

	keys := make([]uint64, 0, len(ids))
	cols := make([]*column.Values, len(f.attrs))
	for i, a := range f.attrs {
		cols[i] = column.NewValues(a.Kind)
	}
	for _, id := range ids {
		if !f.bitmap.Contains(id) {
			continue
		}
		row, ok := f.rowOf[id]
		if !ok {
			continue
		}
		keys = append(keys, id)
		for i := range cols {
			cols[i].Append(f.cols[i].At(row))
		}
	}
	if len(keys) == 0 {
		return source.NewBlockStream(), nil
	}

	blockCols := make([]column.Column, 0, len(cols)+1)
	blockCols = append(blockCols, column.NewUInt64s(keys))
	for _, c := range cols {
		blockCols = append(blockCols, c)
	}
	return source.NewBlockStream(column.NewBlock(blockCols...)), nil
}
