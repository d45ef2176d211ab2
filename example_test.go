package dictcache_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/dictcache"
	"github.com/hupe1980/dictcache/column"
	"github.com/hupe1980/dictcache/source"
)

func Example() {
	ctx := context.Background()

	src := source.NewMemory([]column.Kind{column.KindUInt32, column.KindString})
	_ = src.Put(1, column.UInt(840), column.String("united states"))
	_ = src.Put(2, column.UInt(276), column.String("germany"))

	dict, err := dictcache.New(dictcache.Config{
		Name: "countries",
		Structure: []dictcache.Attribute{
			{Name: "code", Kind: column.KindUInt32, NullValue: column.UInt(0)},
			{Name: "name", Kind: column.KindString, NullValue: column.String("unknown")},
		},
		Source:   src,
		Lifetime: dictcache.Lifetime{MinSec: 60, MaxSec: 120},
		Size:     1024,
	})
	if err != nil {
		panic(err)
	}

	codes := make([]uint32, 3)
	if err := dict.GetUInt32s(ctx, "code", []uint64{1, 2, 3}, codes); err != nil {
		panic(err)
	}
	fmt.Println(codes)

	name, err := dict.GetString(ctx, "name", 2)
	if err != nil {
		panic(err)
	}
	fmt.Println(name)

	// Output:
	// [840 276 0]
	// germany
}
