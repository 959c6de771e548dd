package fields

import (
	"context"
	"fmt"

	"github.com/goliatone/go-menufields/pkg/field"
	"github.com/goliatone/go-menufields/pkg/hooks"
	"github.com/goliatone/go-menufields/pkg/render/template"
)

// Option customises Register.
type Option func(*options)

type options struct {
	renderer template.TemplateRenderer
	priority int
}

// WithRenderer overrides the default embedded template engine.
func WithRenderer(renderer template.TemplateRenderer) Option {
	return func(o *options) {
		if renderer != nil {
			o.renderer = renderer
		}
	}
}

// WithPriority sets the FilterFields priority. Defaults to hooks.PriorityDefault.
func WithPriority(priority int) Option {
	return func(o *options) {
		o.priority = priority
	}
}

// Contributor returns a FilterFields callback appending one Input per
// definition. Lists of an unexpected shape and missing factories pass through
// untouched.
func Contributor(defs []Definition, renderer template.TemplateRenderer) hooks.FilterFunc {
	defs = append([]Definition(nil), defs...)
	return func(ctx context.Context, value any, args ...any) any {
		list, ok := value.([]field.Field)
		if !ok || len(args) == 0 {
			return value
		}
		factory, ok := args[0].(*field.ValueFactory)
		if !ok || factory == nil {
			return value
		}
		for _, def := range defs {
			list = append(list, NewInput(ctx, renderer, def, factory))
		}
		return list
	}
}

// Register validates defs and adds their Contributor to registry.
func Register(registry *hooks.Registry, defs []Definition, opts ...Option) error {
	if registry == nil {
		return fmt.Errorf("fields: registry is nil")
	}
	cfg := options{priority: hooks.PriorityDefault}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	seen := make(map[string]struct{}, len(defs))
	for _, raw := range defs {
		def := raw.normalised()
		if err := def.Validate(); err != nil {
			return err
		}
		if _, exists := seen[def.Name]; exists {
			return fmt.Errorf("fields: duplicate field %q", def.Name)
		}
		seen[def.Name] = struct{}{}
	}

	if cfg.renderer == nil {
		engine, err := DefaultRenderer()
		if err != nil {
			return fmt.Errorf("fields: default renderer: %w", err)
		}
		cfg.renderer = engine
	}
	registry.AddFilter(field.FilterFields, cfg.priority, Contributor(defs, cfg.renderer))
	return nil
}
