package engine

import (
	"time"

	"github.com/hupe1980/dictcache/internal/hash"
)

// cell is one entry of the direct-mapped table. Key 0 is the empty-slot
// sentinel and never matches a real key.
type cell struct {
	key       uint64
	expiresAt time.Time
}

// roundUpPowerOfTwo returns the least power of two >= n. n must be >= 1.
func roundUpPowerOfTwo(n uint64) uint64 {
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}

// slotOf maps a key to its one slot in the table.
func (e *Engine) slotOf(key uint64) uint64 {
	return hash.Mix64(key) & (e.size - 1)
}

// expired reports whether a cell's TTL has passed at the given instant.
func expired(now, expiresAt time.Time) bool {
	return !now.Before(expiresAt)
}
