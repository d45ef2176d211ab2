// Package dictcache provides a bounded, direct-mapped lookup cache for an
// external key→attributes dictionary, built as a hot path for vectorized
// query execution.
//
// Given uint64 keys and a named attribute, getters return the current
// attribute value, fetching from the configured source on miss or expiry and
// memoizing results in a fixed power-of-two table. Each key maps to exactly
// one slot; hash collisions overwrite. Entries expire after a lifetime drawn
// uniformly from the configured [min, max] seconds, spreading refresh load
// across time.
//
// # Quick Start
//
//	src := source.NewMemory([]column.Kind{column.KindUInt32})
//	_ = src.Put(1, column.UInt(42))
//
//	dict, _ := dictcache.New(dictcache.Config{
//	    Name: "ids",
//	    Structure: []dictcache.Attribute{
//	        {Name: "value", Kind: column.KindUInt32, NullValue: column.UInt(0)},
//	    },
//	    Source:   src,
//	    Lifetime: dictcache.Lifetime{MinSec: 60, MaxSec: 120},
//	    Size:     1024,
//	})
//
//	v, _ := dict.GetUInt32(ctx, "value", 1)
//
// # Concurrency
//
// A dictionary is safe for concurrent use. Readers scan the table under a
// shared read lock; a miss triggers a single coalesced source fetch that
// writes back under the write lock. Two concurrent misses for the same key
// may both fetch; the slot ends up with the most recent observation.
//
// # Sources
//
// Any implementation of source.Source that supports selective load by key
// list can back a dictionary: the in-memory source, a DynamoDB table
// (source/dynamo), or a columnar snapshot file served from local disk, MinIO
// or S3 (source/snapshot with blobstore).
package dictcache
