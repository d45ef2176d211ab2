package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dictcache/column"
	"github.com/hupe1980/dictcache/source"
)

func newStrEngine(t *testing.T, src source.Source, clock Clock) *Engine {
	t.Helper()
	e, err := New(Config{
		Attributes: []AttributeSpec{{Name: "s", Kind: column.KindString, Null: column.String("")}},
		Size:       4,
		MinTTLSec:  60,
		MaxTTLSec:  60,
		Source:     src,
		Clock:      clock,
		Seed:       1,
	})
	require.NoError(t, err)
	return e
}

func columnStrings(c *column.StringColumn) []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.StringAt(i)
	}
	return out
}

func TestStringColdAndWarm(t *testing.T) {
	// S5: cold read resolves through the pessimistic pass; the warm re-read
	// takes the optimistic pass without touching the source.
	ctx := context.Background()
	src := newFakeSource(column.KindString)
	src.put(10, column.String("hi"))
	e := newStrEngine(t, src, newFakeClock())

	out := column.NewStringColumn()
	misses, err := e.GetString(ctx, 0, []uint64{10, 0, 10}, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "", "hi"}, columnStrings(out))
	assert.Equal(t, 2, misses)
	assert.Equal(t, 1, src.callCount())
	assert.Equal(t, []uint64{10}, src.lastCall())

	out2 := column.NewStringColumn()
	misses, err = e.GetString(ctx, 0, []uint64{10, 0, 10}, out2)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "", "hi"}, columnStrings(out2))
	assert.Zero(t, misses)
	assert.Equal(t, 1, src.callCount())
}

func TestStringMixedHitMiss(t *testing.T) {
	// S6: with one key cached and one missing, the miss set is exactly the
	// missing key and the output preserves request order.
	ctx := context.Background()
	src := newFakeSource(column.KindString)
	src.put(10, column.String("hi"))
	e := newStrEngine(t, src, newFakeClock())

	warm := column.NewStringColumn()
	_, err := e.GetString(ctx, 0, []uint64{10}, warm)
	require.NoError(t, err)
	require.Equal(t, 1, src.callCount())

	src.put(20, column.String("yo"))
	out := column.NewStringColumn()
	misses, err := e.GetString(ctx, 0, []uint64{10, 20, 10}, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "yo", "hi"}, columnStrings(out))
	assert.Equal(t, 1, misses)
	assert.Equal(t, 2, src.callCount())
	assert.Equal(t, []uint64{20}, src.lastCall())
}

func TestStringAppendsToExistingColumn(t *testing.T) {
	// The output column is external; a partial optimistic pass must not
	// clobber rows appended by a previous call.
	ctx := context.Background()
	src := newFakeSource(column.KindString)
	src.put(10, column.String("hi"))
	src.put(20, column.String("yo"))
	e := newStrEngine(t, src, newFakeClock())

	out := column.NewStringColumn()
	out.AppendString("prior")

	_, err := e.GetString(ctx, 0, []uint64{10, 20}, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"prior", "hi", "yo"}, columnStrings(out))
}

func TestStringMissingFromSource(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(column.KindString)
	e, err := New(Config{
		Attributes: []AttributeSpec{{Name: "s", Kind: column.KindString, Null: column.String("n/a")}},
		Size:       4,
		MinTTLSec:  60,
		MaxTTLSec:  60,
		Source:     src,
		Clock:      newFakeClock(),
		Seed:       1,
	})
	require.NoError(t, err)

	out := column.NewStringColumn()
	_, err = e.GetString(ctx, 0, []uint64{5, 0}, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"n/a", "n/a"}, columnStrings(out))
}

func TestStringEmptyValueCached(t *testing.T) {
	// An empty string from the source is a real observation: it must be
	// served warm, not re-fetched.
	ctx := context.Background()
	src := newFakeSource(column.KindString)
	src.put(3, column.String(""))
	e := newStrEngine(t, src, newFakeClock())

	out := column.NewStringColumn()
	_, err := e.GetString(ctx, 0, []uint64{3}, out)
	require.NoError(t, err)
	require.Equal(t, 1, src.callCount())

	out2 := column.NewStringColumn()
	misses, err := e.GetString(ctx, 0, []uint64{3}, out2)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, columnStrings(out2))
	assert.Zero(t, misses)
	assert.Equal(t, 1, src.callCount())
}

func TestStringOverwriteReleasesBuffer(t *testing.T) {
	// Overwriting a slot with a shorter value must not leak bytes of the
	// longer previous value.
	ctx := context.Background()
	clock := newFakeClock()
	src := newFakeSource(column.KindString)
	src.put(10, column.String("a long value"))
	e := newStrEngine(t, src, clock)

	out := column.NewStringColumn()
	_, err := e.GetString(ctx, 0, []uint64{10}, out)
	require.NoError(t, err)

	src.put(10, column.String("x"))
	clock.Advance(2 * time.Minute)

	out2 := column.NewStringColumn()
	_, err = e.GetString(ctx, 0, []uint64{10}, out2)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, columnStrings(out2))
}

func TestStringStreamError(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(column.KindString)
	src.put(10, column.String("hi"))
	src.streamErr = errors.New("boom")
	e := newStrEngine(t, src, newFakeClock())

	out := column.NewStringColumn()
	_, err := e.GetString(ctx, 0, []uint64{10, 20}, out)
	require.ErrorContains(t, err, "boom")

	// Lock released, partial update kept.
	src.streamErr = nil
	out2 := column.NewStringColumn()
	_, err = e.GetString(ctx, 0, []uint64{10}, out2)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, columnStrings(out2))
}

func TestStringExpiryCollision(t *testing.T) {
	// A colliding string key overwrites the slot; the evicted key misses.
	ctx := context.Background()
	src := newFakeSource(column.KindString)
	e := newStrEngine(t, src, newFakeClock())

	k1 := uint64(10)
	k2 := collidingKey(k1, e.Capacity())
	src.put(k1, column.String("one"))
	src.put(k2, column.String("two"))

	out := column.NewStringColumn()
	_, err := e.GetString(ctx, 0, []uint64{k1}, out)
	require.NoError(t, err)

	out = column.NewStringColumn()
	_, err = e.GetString(ctx, 0, []uint64{k2}, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, columnStrings(out))

	calls := src.callCount()
	out = column.NewStringColumn()
	misses, err := e.GetString(ctx, 0, []uint64{k1}, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, columnStrings(out))
	assert.Equal(t, 1, misses)
	assert.Equal(t, calls+1, src.callCount())
}

func TestGetStringOnNumericAttribute(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource(column.KindUInt32)
	e := newU32Engine(t, src, newFakeClock(), 60, 60)

	out := column.NewStringColumn()
	_, err := e.GetString(ctx, 0, []uint64{1}, out)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Zero(t, src.callCount())
}
