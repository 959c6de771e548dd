package field

import (
	"context"
	"reflect"
)

// Filters is the part of the hook system the collector needs.
type Filters interface {
	ApplyFilters(ctx context.Context, name string, value any, args ...any) any
}

// Collector gathers contributed fields for an item.
type Collector struct {
	filters Filters
	backend Backend
}

// NewCollector constructs a collector running FilterFields on filters.
func NewCollector(filters Filters, backend Backend) *Collector {
	return &Collector{filters: filters, backend: backend}
}

// Backend returns the collaborators handed to value factories.
func (c *Collector) Backend() Backend {
	return c.backend
}

// AllFields applies FilterFields with an empty list and a factory bound to
// itemID. Whatever the filters return is coerced into a list; entries that are
// not a Field are dropped silently. Order is preserved.
func (c *Collector) AllFields(ctx context.Context, itemID int) []Descriptor {
	if c == nil || c.filters == nil {
		return nil
	}
	result := c.filters.ApplyFilters(ctx, FilterFields, []Field{}, NewValueFactory(c.backend, itemID))

	entries := coerceList(result)
	if len(entries) == 0 {
		return nil
	}
	out := make([]Descriptor, 0, len(entries))
	for _, entry := range entries {
		f, ok := entry.(Field)
		if !ok || isNil(f) {
			continue
		}
		descriptor := Descriptor{Field: f}
		if sanitized, ok := f.(SanitizedField); ok {
			descriptor.Sanitize = sanitized.SanitizeCallback()
		}
		out = append(out, descriptor)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func coerceList(result any) []any {
	switch v := result.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []Field:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out
	case Field:
		return []any{v}
	}

	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func isNil(f Field) bool {
	rv := reflect.ValueOf(f)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
