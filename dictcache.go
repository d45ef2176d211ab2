package dictcache

import (
	"context"
	"fmt"

	"github.com/hupe1980/dictcache/column"
	"github.com/hupe1980/dictcache/internal/engine"
	"github.com/hupe1980/dictcache/source"
)

// TypeName is the type name reported by cache dictionaries.
const TypeName = "CacheDictionary"

// Attribute declares one attribute of the dictionary structure.
type Attribute struct {
	// Name uniquely identifies the attribute.
	Name string
	// Kind is the attribute's value type.
	Kind column.Kind
	// NullValue is returned whenever the cache cannot supply a real value:
	// for key 0 and for keys the source does not return. Its carrier class
	// must match Kind; see column.ParseValue for the textual form.
	NullValue column.Value
	// Hierarchical marks the attribute as a parent pointer. The cache
	// records the flag but serves no hierarchy.
	Hierarchical bool
}

// Lifetime bounds the randomized per-entry TTL in seconds. Min == Max
// collapses to a deterministic TTL.
type Lifetime struct {
	MinSec uint64
	MaxSec uint64
}

// Config carries the required construction parameters.
type Config struct {
	// Name identifies the dictionary.
	Name string
	// Structure is the ordered attribute declaration.
	Structure []Attribute
	// Source provides records for requested keys. It must support
	// selective load.
	Source source.Source
	// Lifetime bounds the randomized TTL.
	Lifetime Lifetime
	// Size is the requested slot count; the effective capacity is the next
	// power of two >= max(1, Size).
	Size uint64
}

// Dictionary is the capability set a dictionary exposes to the query
// engine: identity, typed scalar and vectorized getters, hierarchy probes
// and cloning.
type Dictionary interface {
	Name() string
	TypeName() string
	IsCached() bool
	Source() source.Source
	Lifetime() Lifetime
	HasHierarchy() bool
	ToParent(ctx context.Context, id uint64) (uint64, error)
	Clone() (Dictionary, error)

	GetUInt8(ctx context.Context, attribute string, id uint64) (uint8, error)
	GetUInt16(ctx context.Context, attribute string, id uint64) (uint16, error)
	GetUInt32(ctx context.Context, attribute string, id uint64) (uint32, error)
	GetUInt64(ctx context.Context, attribute string, id uint64) (uint64, error)
	GetInt8(ctx context.Context, attribute string, id uint64) (int8, error)
	GetInt16(ctx context.Context, attribute string, id uint64) (int16, error)
	GetInt32(ctx context.Context, attribute string, id uint64) (int32, error)
	GetInt64(ctx context.Context, attribute string, id uint64) (int64, error)
	GetFloat32(ctx context.Context, attribute string, id uint64) (float32, error)
	GetFloat64(ctx context.Context, attribute string, id uint64) (float64, error)
	GetString(ctx context.Context, attribute string, id uint64) (string, error)

	GetUInt8s(ctx context.Context, attribute string, ids []uint64, out []uint8) error
	GetUInt16s(ctx context.Context, attribute string, ids []uint64, out []uint16) error
	GetUInt32s(ctx context.Context, attribute string, ids []uint64, out []uint32) error
	GetUInt64s(ctx context.Context, attribute string, ids []uint64, out []uint64) error
	GetInt8s(ctx context.Context, attribute string, ids []uint64, out []int8) error
	GetInt16s(ctx context.Context, attribute string, ids []uint64, out []int16) error
	GetInt32s(ctx context.Context, attribute string, ids []uint64, out []int32) error
	GetInt64s(ctx context.Context, attribute string, ids []uint64, out []int64) error
	GetFloat32s(ctx context.Context, attribute string, ids []uint64, out []float32) error
	GetFloat64s(ctx context.Context, attribute string, ids []uint64, out []float64) error
	GetStrings(ctx context.Context, attribute string, ids []uint64, out *column.StringColumn) error
}

// CacheDictionary is a bounded, direct-mapped lookup cache over an external
// dictionary source. Misses and expired entries are fetched from the source
// and memoized in a fixed power-of-two table; hash collisions overwrite.
type CacheDictionary struct {
	name     string
	cfg      Config
	opts     options
	eng      *engine.Engine
	logger   *Logger
	metrics  MetricsCollector
	lifetime Lifetime
}

var _ Dictionary = (*CacheDictionary)(nil)

// New constructs a cold cache dictionary. It fails with ErrUnsupportedSource
// if the source cannot load records selectively by key list.
func New(cfg Config, optFns ...Option) (*CacheDictionary, error) {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&o)
	}

	if cfg.Source == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrUnsupportedSource)
	}
	if !cfg.Source.SupportsSelectiveLoad() {
		return nil, ErrUnsupportedSource
	}

	specs := make([]engine.AttributeSpec, len(cfg.Structure))
	for i, a := range cfg.Structure {
		specs[i] = engine.AttributeSpec{
			Name:         a.Name,
			Kind:         a.Kind,
			Null:         a.NullValue,
			Hierarchical: a.Hierarchical,
		}
	}
	eng, err := engine.New(engine.Config{
		Attributes: specs,
		Size:       cfg.Size,
		MinTTLSec:  cfg.Lifetime.MinSec,
		MaxTTLSec:  cfg.Lifetime.MaxSec,
		Source:     cfg.Source,
		Clock:      o.clock,
		Seed:       o.seed,
	})
	if err != nil {
		return nil, translateError(fmt.Errorf("dictionary %s: %w", cfg.Name, err))
	}

	return &CacheDictionary{
		name:     cfg.Name,
		cfg:      cfg,
		opts:     o,
		eng:      eng,
		logger:   o.logger.WithDictionary(cfg.Name),
		metrics:  o.metrics,
		lifetime: cfg.Lifetime,
	}, nil
}

// Name returns the dictionary identifier.
func (d *CacheDictionary) Name() string { return d.name }

// TypeName implements Dictionary.
func (d *CacheDictionary) TypeName() string { return TypeName }

// IsCached implements Dictionary.
func (d *CacheDictionary) IsCached() bool { return true }

// Source returns the backing source.
func (d *CacheDictionary) Source() source.Source { return d.cfg.Source }

// Lifetime returns the configured TTL bounds.
func (d *CacheDictionary) Lifetime() Lifetime { return d.lifetime }

// Capacity returns the effective slot count, the least power of two >=
// max(1, configured size).
func (d *CacheDictionary) Capacity() uint64 { return d.eng.Capacity() }

// HasHierarchy implements Dictionary. The cache serves no hierarchy.
func (d *CacheDictionary) HasHierarchy() bool { return false }

// ToParent implements Dictionary; it always reports "no parent".
func (d *CacheDictionary) ToParent(context.Context, uint64) (uint64, error) { return 0, nil }

// Clone produces an independent dictionary with a cloned source and a cold
// table.
func (d *CacheDictionary) Clone() (Dictionary, error) {
	cfg := d.cfg
	cfg.Source = d.cfg.Source.Clone()

	optFns := []Option{
		WithLogger(d.opts.logger),
		WithMetricsCollector(d.opts.metrics),
	}
	if d.opts.clock != nil {
		optFns = append(optFns, WithClock(d.opts.clock))
	}
	if d.opts.seed != 0 {
		optFns = append(optFns, WithSeed(d.opts.seed))
	}
	clone, err := New(cfg, optFns...)
	if err != nil {
		return nil, err
	}
	return clone, nil
}
