// Package engine implements the cache core: a fixed, power-of-two,
// direct-mapped table of cells with one typed value array per declared
// attribute, a randomized-TTL expiry clock, vectorized lookup paths and a
// write-locked source updater. Collisions overwrite; key 0 is the empty-slot
// sentinel.
package engine
