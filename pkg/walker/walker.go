package walker

import (
	"context"
	"fmt"

	"github.com/goliatone/go-menufields/pkg/field"
	"github.com/goliatone/go-menufields/pkg/platform"
)

// FilterEditWalker is the hook hosts apply to pick the edit row renderer. The
// filter receives the host renderer and returns the renderer to use.
const FilterEditWalker = "menufields.edit-nav-menu-walker"

// Walker decorates the host row renderer, adding contributed fields to every
// menu item row.
type Walker struct {
	base      platform.RowRenderer
	collector *field.Collector
	injector  *Injector
}

var _ platform.RowRenderer = (*Walker)(nil)

// New wraps base. Rows are always rendered by base first and then patched.
func New(base platform.RowRenderer, collector *field.Collector, options ...Option) *Walker {
	return &Walker{
		base:      base,
		collector: collector,
		injector:  NewInjector(options...),
	}
}

// Base returns the wrapped host renderer.
func (w *Walker) Base() platform.RowRenderer {
	return w.base
}

// RenderRow implements platform.RowRenderer.
func (w *Walker) RenderRow(ctx context.Context, item platform.Item, depth int, args platform.RowArgs) (string, error) {
	if w.base == nil {
		return "", fmt.Errorf("walker: base row renderer is nil")
	}
	if item.ID <= 0 || w.collector == nil {
		return w.base.RenderRow(ctx, item, depth, args)
	}

	fields := w.collector.AllFields(ctx, item.ID)
	if len(fields) == 0 {
		return w.base.RenderRow(ctx, item, depth, args)
	}

	baseline, err := w.base.RenderRow(ctx, item, depth, args)
	if err != nil {
		return "", err
	}
	return w.injector.Inject(baseline, item.ID, fields)
}
