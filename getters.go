package dictcache

import (
	"context"
	"time"

	"github.com/hupe1980/dictcache/column"
	"github.com/hupe1980/dictcache/internal/engine"
)

// attributeIndex resolves and type-checks an attribute before any source
// I/O happens.
func (d *CacheDictionary) attributeIndex(name string, requested column.Kind) (int, error) {
	idx, ok := d.eng.AttributeIndex(name)
	if !ok {
		return 0, &ErrUnknownAttribute{Name: name}
	}
	if declared := d.eng.AttributeKind(idx); declared != requested {
		return 0, &ErrAttributeTypeMismatch{Attribute: name, Declared: declared, Requested: requested}
	}
	return idx, nil
}

func getColumn[T engine.Numeric](ctx context.Context, d *CacheDictionary, attribute string, kind column.Kind, ids []uint64, out []T) error {
	idx, err := d.attributeIndex(attribute, kind)
	if err != nil {
		return err
	}
	start := time.Now()
	misses, err := engine.GetNumeric(ctx, d.eng, idx, ids, out)
	err = translateError(err)
	duration := time.Since(start)
	d.metrics.RecordLookup(attribute, len(ids), misses, duration, err)
	d.logger.LogLookup(ctx, attribute, len(ids), misses, duration, err)
	return err
}

func getScalar[T engine.Numeric](ctx context.Context, d *CacheDictionary, attribute string, kind column.Kind, id uint64) (T, error) {
	out := make([]T, 1)
	if err := getColumn(ctx, d, attribute, kind, []uint64{id}, out); err != nil {
		var zero T
		return zero, err
	}
	return out[0], nil
}

// GetUInt8 returns the attribute value for one key.
func (d *CacheDictionary) GetUInt8(ctx context.Context, attribute string, id uint64) (uint8, error) {
	return getScalar[uint8](ctx, d, attribute, column.KindUInt8, id)
}

// GetUInt16 returns the attribute value for one key.
func (d *CacheDictionary) GetUInt16(ctx context.Context, attribute string, id uint64) (uint16, error) {
	return getScalar[uint16](ctx, d, attribute, column.KindUInt16, id)
}

// GetUInt32 returns the attribute value for one key.
func (d *CacheDictionary) GetUInt32(ctx context.Context, attribute string, id uint64) (uint32, error) {
	return getScalar[uint32](ctx, d, attribute, column.KindUInt32, id)
}

// GetUInt64 returns the attribute value for one key.
func (d *CacheDictionary) GetUInt64(ctx context.Context, attribute string, id uint64) (uint64, error) {
	return getScalar[uint64](ctx, d, attribute, column.KindUInt64, id)
}

// GetInt8 returns the attribute value for one key.
func (d *CacheDictionary) GetInt8(ctx context.Context, attribute string, id uint64) (int8, error) {
	return getScalar[int8](ctx, d, attribute, column.KindInt8, id)
}

// GetInt16 returns the attribute value for one key.
func (d *CacheDictionary) GetInt16(ctx context.Context, attribute string, id uint64) (int16, error) {
	return getScalar[int16](ctx, d, attribute, column.KindInt16, id)
}

// GetInt32 returns the attribute value for one key.
func (d *CacheDictionary) GetInt32(ctx context.Context, attribute string, id uint64) (int32, error) {
	return getScalar[int32](ctx, d, attribute, column.KindInt32, id)
}

// GetInt64 returns the attribute value for one key.
func (d *CacheDictionary) GetInt64(ctx context.Context, attribute string, id uint64) (int64, error) {
	return getScalar[int64](ctx, d, attribute, column.KindInt64, id)
}

// GetFloat32 returns the attribute value for one key.
func (d *CacheDictionary) GetFloat32(ctx context.Context, attribute string, id uint64) (float32, error) {
	return getScalar[float32](ctx, d, attribute, column.KindFloat32, id)
}

// GetFloat64 returns the attribute value for one key.
func (d *CacheDictionary) GetFloat64(ctx context.Context, attribute string, id uint64) (float64, error) {
	return getScalar[float64](ctx, d, attribute, column.KindFloat64, id)
}

// GetString returns the attribute value for one key.
func (d *CacheDictionary) GetString(ctx context.Context, attribute string, id uint64) (string, error) {
	out := column.NewStringColumn()
	if err := d.GetStrings(ctx, attribute, []uint64{id}, out); err != nil {
		return "", err
	}
	return out.StringAt(0), nil
}

// GetUInt8s resolves ids into out; out must have the same length as ids.
func (d *CacheDictionary) GetUInt8s(ctx context.Context, attribute string, ids []uint64, out []uint8) error {
	return getColumn(ctx, d, attribute, column.KindUInt8, ids, out)
}

// GetUInt16s resolves ids into out; out must have the same length as ids.
func (d *CacheDictionary) GetUInt16s(ctx context.Context, attribute string, ids []uint64, out []uint16) error {
	return getColumn(ctx, d, attribute, column.KindUInt16, ids, out)
}

// GetUInt32s resolves ids into out; out must have the same length as ids.
func (d *CacheDictionary) GetUInt32s(ctx context.Context, attribute string, ids []uint64, out []uint32) error {
	return getColumn(ctx, d, attribute, column.KindUInt32, ids, out)
}

// GetUInt64s resolves ids into out; out must have the same length as ids.
func (d *CacheDictionary) GetUInt64s(ctx context.Context, attribute string, ids []uint64, out []uint64) error {
	return getColumn(ctx, d, attribute, column.KindUInt64, ids, out)
}

// GetInt8s resolves ids into out; out must have the same length as ids.
func (d *CacheDictionary) GetInt8s(ctx context.Context, attribute string, ids []uint64, out []int8) error {
	return getColumn(ctx, d, attribute, column.KindInt8, ids, out)
}

// GetInt16s resolves ids into out; out must have the same length as ids.
func (d *CacheDictionary) GetInt16s(ctx context.Context, attribute string, ids []uint64, out []int16) error {
	return getColumn(ctx, d, attribute, column.KindInt16, ids, out)
}

// GetInt32s resolves ids into out; out must have the same length as ids.
func (d *CacheDictionary) GetInt32s(ctx context.Context, attribute string, ids []uint64, out []int32) error {
	return getColumn(ctx, d, attribute, column.KindInt32, ids, out)
}

// GetInt64s resolves ids into out; out must have the same length as ids.
func (d *CacheDictionary) GetInt64s(ctx context.Context, attribute string, ids []uint64, out []int64) error {
	return getColumn(ctx, d, attribute, column.KindInt64, ids, out)
}

// GetFloat32s resolves ids into out; out must have the same length as ids.
func (d *CacheDictionary) GetFloat32s(ctx context.Context, attribute string, ids []uint64, out []float32) error {
	return getColumn(ctx, d, attribute, column.KindFloat32, ids, out)
}

// GetFloat64s resolves ids into out; out must have the same length as ids.
func (d *CacheDictionary) GetFloat64s(ctx context.Context, attribute string, ids []uint64, out []float64) error {
	return getColumn(ctx, d, attribute, column.KindFloat64, ids, out)
}

// GetStrings resolves ids and appends one value per id to out, in order.
func (d *CacheDictionary) GetStrings(ctx context.Context, attribute string, ids []uint64, out *column.StringColumn) error {
	idx, err := d.attributeIndex(attribute, column.KindString)
	if err != nil {
		return err
	}
	start := time.Now()
	misses, err := d.eng.GetString(ctx, idx, ids, out)
	err = translateError(err)
	duration := time.Since(start)
	d.metrics.RecordLookup(attribute, len(ids), misses, duration, err)
	d.logger.LogLookup(ctx, attribute, len(ids), misses, duration, err)
	return err
}
