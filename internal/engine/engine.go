package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/hupe1980/dictcache/column"
	"github.com/hupe1980/dictcache/source"
)

// Config carries everything the engine needs at construction.
type Config struct {
	// Attributes is the declared structure, in declaration order.
	Attributes []AttributeSpec
	// Size is the requested slot count; rounded up to a power of two.
	Size uint64
	// MinTTLSec and MaxTTLSec bound the randomized per-entry lifetime.
	MinTTLSec, MaxTTLSec uint64
	// Source provides records on miss.
	Source source.Source
	// Clock is the expiry time source; defaults to SystemClock.
	Clock Clock
	// Seed seeds the TTL PRNG; 0 selects a nondeterministic seed.
	Seed int64
}

// Engine is the bounded direct-mapped cache core: a fixed table of cells
// plus one value array per attribute, guarded by a single RWMutex.
//
// Readers scan under the read lock and never touch the source while holding
// it. The updater holds the write lock across the whole source stream and
// mutates cells, value arrays, string buffers and the PRNG under it.
type Engine struct {
	mu sync.RWMutex

	size  uint64 // power of two
	cells []cell
	attrs []*attribute
	index map[string]int

	minTTL, maxTTL uint64 // seconds
	src            source.Source
	clock          Clock
	rng            *rand.Rand
}

// New constructs a cold engine. Every slot starts with the key-0 sentinel
// and the zero expiry time, so it reads as expired.
func New(cfg Config) (*Engine, error) {
	if len(cfg.Attributes) == 0 {
		return nil, errors.New("structure declares no attributes")
	}
	if cfg.MinTTLSec > cfg.MaxTTLSec {
		return nil, fmt.Errorf("lifetime min %d exceeds max %d", cfg.MinTTLSec, cfg.MaxTTLSec)
	}
	if cfg.Source == nil {
		return nil, errors.New("source is required")
	}

	requested := cfg.Size
	if requested < 1 {
		requested = 1
	}
	size := roundUpPowerOfTwo(requested)

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano() ^ int64(os.Getpid())
	}

	e := &Engine{
		size:   size,
		cells:  make([]cell, size),
		attrs:  make([]*attribute, 0, len(cfg.Attributes)),
		index:  make(map[string]int, len(cfg.Attributes)),
		minTTL: cfg.MinTTLSec,
		maxTTL: cfg.MaxTTLSec,
		src:    cfg.Source,
		clock:  clock,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // TTL jitter, not crypto
	}
	for _, spec := range cfg.Attributes {
		if _, dup := e.index[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate attribute %q", spec.Name)
		}
		a, err := newAttribute(spec, size)
		if err != nil {
			return nil, err
		}
		e.index[spec.Name] = len(e.attrs)
		e.attrs = append(e.attrs, a)
	}
	return e, nil
}

// Capacity returns the effective slot count.
func (e *Engine) Capacity() uint64 { return e.size }

// AttributeIndex resolves a declared attribute name.
func (e *Engine) AttributeIndex(name string) (int, bool) {
	i, ok := e.index[name]
	return i, ok
}

// AttributeKind returns the declared kind of attribute i.
func (e *Engine) AttributeKind(i int) column.Kind { return e.attrs[i].kind }

// update streams records for the deduplicated keys from the source and
// writes them back under the write lock. onCellUpdated fires once per
// returned key, after the slot write, while the write lock is still held;
// callbacks may therefore read the value arrays at the given cell index.
//
// Keys the source does not return are left untouched. A source error aborts
// the update and propagates; rows written before the error are kept.
func (e *Engine) update(ctx context.Context, ids []uint64, onCellUpdated func(id, cellIdx uint64)) error {
	stream, err := e.src.LoadIDs(ctx, ids)
	if err != nil {
		return err
	}
	defer stream.Close()

	e.mu.Lock()
	defer e.mu.Unlock()

	for {
		blk, err := stream.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(blk.Columns) != len(e.attrs)+1 {
			return fmt.Errorf("source block has %d columns, expected %d", len(blk.Columns), len(e.attrs)+1)
		}
		keys, ok := blk.Columns[0].(*column.UInt64s)
		if !ok {
			return fmt.Errorf("%w: key column has type different from UInt64", ErrTypeMismatch)
		}

		for r, id := range keys.Data {
			idx := e.slotOf(id)
			for ai, a := range e.attrs {
				if err := a.set(idx, blk.Columns[ai+1].At(r)); err != nil {
					return err
				}
			}
			c := &e.cells[idx]
			c.key = id
			c.expiresAt = e.clock.Now().Add(e.freshTTL())

			onCellUpdated(id, idx)
		}
	}
}

// freshTTL draws a lifetime uniformly from [minTTL, maxTTL] seconds. Callers
// hold the write lock, which also guards the PRNG.
func (e *Engine) freshTTL() time.Duration {
	span := e.maxTTL - e.minTTL
	sec := e.minTTL
	if span > 0 {
		sec += uint64(e.rng.Int63n(int64(span) + 1)) //nolint:gosec // span bounded by config
	}
	return time.Duration(sec) * time.Second
}
