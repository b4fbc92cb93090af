package registry

import (
	"context"
	"reflect"
	"sort"

	"github.com/vk/blueprintgo/config"
	"github.com/vk/blueprintgo/internal/ctxlog"
)

// Capture derives an equivalent blueprint from a live value, reporting
// whether the value is config-capturable at all.
//
// A value is capturable when its dynamic type is registered, or when it is
// an ordered or keyed collection (plain Go or framework-native) whose every
// element is capturable, recursively. A collection with even one
// non-capturable element is treated as a plain opaque value.
func (r *Registry) Capture(ctx context.Context, v any) (config.Config, bool) {
	if v == nil {
		return nil, false
	}
	if f, ok := r.FactoryFor(v); ok {
		n, err := f.CurrentConfig(ctx, v)
		if err != nil {
			ctxlog.FromContext(ctx).Debug("Capture of registered value failed.", "target", f.Target(), "error", err)
			return nil, false
		}
		return n, true
	}
	if fw := r.framework; fw != nil {
		if elems, ok := fw.AsList(v); ok {
			return r.captureList(ctx, elems)
		}
		if elems, ok := fw.AsMap(v); ok {
			return r.captureMap(ctx, elems)
		}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false // byte blobs stay opaque
		}
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return r.captureList(ctx, elems)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		elems := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			elems[iter.Key().String()] = iter.Value().Interface()
		}
		return r.captureMap(ctx, elems)
	}
	return nil, false
}

func (r *Registry) captureList(ctx context.Context, elems []any) (config.Config, bool) {
	cfgs := make([]config.Config, 0, len(elems))
	for _, e := range elems {
		c, ok := r.Capture(ctx, e)
		if !ok {
			return nil, false
		}
		cfgs = append(cfgs, c)
	}
	l, err := config.NewList(cfgs...)
	if err != nil {
		return nil, false
	}
	return l, true
}

func (r *Registry) captureMap(ctx context.Context, elems map[string]any) (config.Config, bool) {
	keys := make([]string, 0, len(elems))
	for key := range elems {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	cfgs := make(map[string]config.Config, len(elems))
	for _, key := range keys {
		c, ok := r.Capture(ctx, elems[key])
		if !ok {
			return nil, false
		}
		cfgs[key] = c
	}
	m, err := config.NewMap(cfgs)
	if err != nil {
		return nil, false
	}
	return m, true
}
