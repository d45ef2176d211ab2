package source

import (
	"context"
	"io"

	"github.com/hupe1980/dictcache/column"
)

// Stream yields blocks of dictionary records. Read returns io.EOF when the
// stream is exhausted. Close must be called on all paths.
type Stream interface {
	// Read returns the next block, or io.EOF when no blocks remain.
	Read() (*column.Block, error)
	// Close releases stream resources.
	Close() error
}

// Source is an external key→record provider consumed by the cache. A source
// used with the cache must support selective load by key list.
type Source interface {
	// SupportsSelectiveLoad reports whether LoadIDs is usable.
	SupportsSelectiveLoad() bool
	// LoadIDs opens a stream of records for exactly the given keys. Keys
	// absent from the source are simply not returned.
	LoadIDs(ctx context.Context, ids []uint64) (Stream, error)
	// Clone returns an independent handle to the same backing data.
	Clone() Source
}

// BlockStream is a Stream over an in-memory slice of blocks.
type BlockStream struct {
	blocks []*column.Block
	pos    int
}

// NewBlockStream creates a stream yielding the given blocks in order.
func NewBlockStream(blocks ...*column.Block) *BlockStream {
	return &BlockStream{blocks: blocks}
}

// Read implements Stream.
func (s *BlockStream) Read() (*column.Block, error) {
	if s.pos >= len(s.blocks) {
		return nil, io.EOF
	}
	b := s.blocks[s.pos]
	s.pos++
	return b, nil
}

// Close implements Stream.
func (s *BlockStream) Close() error { return nil }
