package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/dictcache/column"
)

// Memory is an in-memory Source backed by a key→row map. It is intended for
// tests, examples and small static dictionaries.
type Memory struct {
	kinds []column.Kind

	mu   sync.RWMutex
	rows map[uint64][]column.Value
}

// NewMemory creates a memory source for attributes of the given kinds
// (declaration order, keys excluded).
func NewMemory(kinds []column.Kind) *Memory {
	return &Memory{
		kinds: kinds,
		rows:  make(map[uint64][]column.Value),
	}
}

// Put stores the attribute values for a key.
func (m *Memory) Put(key uint64, values ...column.Value) error {
	if len(values) != len(m.kinds) {
		return fmt.Errorf("expected %d values, got %d", len(m.kinds), len(values))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[key] = values
	return nil
}

// Delete removes a key.
func (m *Memory) Delete(key uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, key)
}

// SupportsSelectiveLoad implements Source.
func (m *Memory) SupportsSelectiveLoad() bool { return true }

// LoadIDs implements Source. Keys without a row are omitted from the result.
func (m *Memory) LoadIDs(_ context.Context, ids []uint64) (Stream, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]uint64, 0, len(ids))
	cols := make([]*column.Values, len(m.kinds))
	for i, k := range m.kinds {
		cols[i] = column.NewValues(k)
	}
	for _, id := range ids {
		row, ok := m.rows[id]
		if !ok {
			continue
		}
		keys = append(keys, id)
		for i := range cols {
			cols[i].Append(row[i])
		}
	}
	if len(keys) == 0 {
		return NewBlockStream(), nil
	}

	blockCols := make([]column.Column, 0, len(cols)+1)
	blockCols = append(blockCols, column.NewUInt64s(keys))
	for _, c := range cols {
		blockCols = append(blockCols, c)
	}
	return NewBlockStream(column.NewBlock(blockCols...)), nil
}

// Clone implements Source. The clone shares the underlying map; the source
// is its own backing store, so both handles observe the same data.
func (m *Memory) Clone() Source { return m }
