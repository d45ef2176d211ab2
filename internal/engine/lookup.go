package engine

import (
	"context"
	"fmt"

	"github.com/hupe1980/dictcache/column"
)

// Numeric is the set of fixed-width attribute element types.
type Numeric interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~int8 | ~int16 | ~int32 | ~int64 |
		~float32 | ~float64
}

// GetNumeric resolves keys against attribute attrIdx into out. Hits are
// served from the table under the read lock; misses are recorded, coalesced
// and fetched from the source in one update, which back-fills out through
// the update callback. Keys equal to 0 and keys the source does not return
// yield the attribute's null value.
//
// It returns the number of missed positions (before the source fetch).
func GetNumeric[T Numeric](ctx context.Context, e *Engine, attrIdx int, keys []uint64, out []T) (int, error) {
	if len(out) != len(keys) {
		return 0, ErrLengthMismatch
	}
	a := e.attrs[attrIdx]
	arr, ok := a.data.([]T)
	if !ok {
		return 0, fmt.Errorf("%w: attribute %s has type %s", ErrTypeMismatch, a.name, a.kind)
	}
	nullVal := carrierTo[T](a.null)

	// Fetch up-to-date values, decide which ones require update.
	var outdated map[uint64][]int

	e.mu.RLock()
	now := e.clock.Now()
	for i, id := range keys {
		if id == 0 {
			out[i] = nullVal
			continue
		}
		cellIdx := e.slotOf(id)
		c := e.cells[cellIdx]
		if c.key != id || expired(now, c.expiresAt) {
			out[i] = nullVal
			if outdated == nil {
				outdated = make(map[uint64][]int)
			}
			outdated[id] = append(outdated[id], i)
		} else {
			out[i] = arr[cellIdx]
		}
	}
	e.mu.RUnlock()

	if len(outdated) == 0 {
		return 0, nil
	}

	misses := 0
	required := make([]uint64, 0, len(outdated))
	for id, positions := range outdated {
		required = append(required, id)
		misses += len(positions)
	}

	// The callback runs under the write lock, after the slot write, so the
	// array read below observes the freshly stored value.
	err := e.update(ctx, required, func(id, cellIdx uint64) {
		v := arr[cellIdx]
		for _, i := range outdated[id] {
			out[i] = v
		}
	})
	return misses, err
}

// GetString resolves keys against string attribute attrIdx, appending the
// values to out in key order.
//
// The steady state is the optimistic single pass: under the read lock,
// append every hit directly; on the first miss, abandon the pass. The
// pessimistic pass then classifies all keys under a fresh read lock, fetches
// the outstanding ones in a single update, and rebuilds the output from a
// per-key value map, falling back to the null value for keys the source did
// not return.
func (e *Engine) GetString(ctx context.Context, attrIdx int, keys []uint64, out *column.StringColumn) (int, error) {
	a := e.attrs[attrIdx]
	if a.kind != column.KindString {
		return 0, fmt.Errorf("%w: attribute %s has type %s", ErrTypeMismatch, a.name, a.kind)
	}
	nullVal := a.null.Str()
	base := out.Len()

	foundOutdated := false

	e.mu.RLock()
	now := e.clock.Now()
	for _, id := range keys {
		if id == 0 {
			out.AppendString(nullVal)
			continue
		}
		cellIdx := e.slotOf(id)
		c := e.cells[cellIdx]
		if c.key != id || expired(now, c.expiresAt) {
			foundOutdated = true
			break
		}
		out.AppendBytes(a.str[cellIdx])
	}
	e.mu.RUnlock()

	if !foundOutdated {
		return 0, nil
	}

	// Discard the partial optimistic output, keeping reserved capacity.
	out.Truncate(base)

	// Outdated ids joined with the number of times they were requested.
	outdated := make(map[uint64]int)
	values := make(map[uint64]string)
	totalLength := 0

	e.mu.RLock()
	now = e.clock.Now()
	for _, id := range keys {
		if id == 0 {
			totalLength++
			continue
		}
		cellIdx := e.slotOf(id)
		c := e.cells[cellIdx]
		if c.key != id || expired(now, c.expiresAt) {
			outdated[id]++
		} else {
			s := string(a.str[cellIdx])
			values[id] = s
			totalLength += len(s) + 1
		}
	}
	e.mu.RUnlock()

	misses := 0
	if len(outdated) > 0 {
		required := make([]uint64, 0, len(outdated))
		for id, n := range outdated {
			required = append(required, id)
			misses += n
		}
		err := e.update(ctx, required, func(id, cellIdx uint64) {
			s := string(a.str[cellIdx])
			values[id] = s
			totalLength += len(s) + 1
		})
		if err != nil {
			return misses, err
		}
	}

	out.Reserve(len(keys), totalLength)
	for _, id := range keys {
		if s, ok := values[id]; ok {
			out.AppendString(s)
		} else {
			out.AppendString(nullVal)
		}
	}
	return misses, nil
}
