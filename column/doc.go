// Package column provides the column model shared between dictionary
// sources and the cache: attribute kinds, carrier values, block columns and
// the byte+offset string output column.
package column
