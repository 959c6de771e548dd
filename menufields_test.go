package menufields_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	menufields "github.com/goliatone/go-menufields"
	"github.com/goliatone/go-menufields/pkg/field"
	"github.com/goliatone/go-menufields/pkg/fields"
	"github.com/goliatone/go-menufields/pkg/hooks"
	"github.com/goliatone/go-menufields/pkg/metastore"
	"github.com/goliatone/go-menufields/pkg/metrics"
	"github.com/goliatone/go-menufields/pkg/platform"
	"github.com/goliatone/go-menufields/pkg/save"
	"github.com/goliatone/go-menufields/pkg/testsupport"
	"github.com/goliatone/go-menufields/pkg/walker"
)

const baselineRow = `<li id="menu-item-7"><div class="menu-item-settings" id="menu-item-settings-7"><p>Title</p><fieldset class="field-move"></fieldset></div>`

func newHost(t *testing.T) (*menufields.Host, *metastore.Memory) {
	t.Helper()
	store := metastore.NewMemory()
	return &menufields.Host{
		Hooks: hooks.NewRegistry(),
		Items: platform.NewItemSet(
			platform.Item{ID: 7, Type: platform.TypeMenuItem, Title: "Home"},
			platform.Item{ID: 8, Type: platform.TypeMenuItem, Title: "About"},
		),
		Store:   store,
		Metrics: metrics.New(),
	}, store
}

func TestBootstrapIsIdempotent(t *testing.T) {
	host, _ := newHost(t)

	if menufields.Bootstrap(nil) {
		t.Fatalf("nil host must not bootstrap")
	}
	if menufields.Bootstrap(&menufields.Host{Hooks: host.Hooks}) {
		t.Fatalf("incomplete host must not bootstrap")
	}
	if !menufields.Bootstrap(host) {
		t.Fatalf("expected first bootstrap to wire the host")
	}
	if menufields.Bootstrap(host) {
		t.Fatalf("expected second bootstrap to be a no-op")
	}
	again := *host
	again.Store = metastore.NewMemory()
	if menufields.Bootstrap(&again) {
		t.Fatalf("expected a host sharing the registry to be a no-op")
	}
	if !host.Hooks.HasFilter(menufields.FilterEditWalker) || !host.Hooks.HasAction(menufields.ActionItemSaved) {
		t.Fatalf("expected walker filter and save action registered")
	}
}

func TestBootstrapRenderAndSave(t *testing.T) {
	host, store := newHost(t)
	if err := fields.Register(host.Hooks, []fields.Definition{{Name: "icon", Label: "Icon"}}); err != nil {
		t.Fatalf("register fields: %v", err)
	}
	if !menufields.Bootstrap(host) {
		t.Fatalf("bootstrap failed")
	}

	base := platform.RowRendererFunc(func(_ context.Context, item platform.Item, _ int, _ platform.RowArgs) (string, error) {
		return baselineRow, nil
	})
	ctx := testsupport.Context()
	renderer, ok := host.Hooks.ApplyFilters(ctx, menufields.FilterEditWalker, platform.RowRenderer(base)).(platform.RowRenderer)
	if !ok {
		t.Fatalf("expected a row renderer from the walker filter")
	}
	if _, ok := renderer.(*walker.Walker); !ok {
		t.Fatalf("expected *walker.Walker, got %T", renderer)
	}

	row, err := renderer.RenderRow(ctx, platform.Item{ID: 7, Type: platform.TypeMenuItem}, 0, nil)
	if err != nil {
		t.Fatalf("render row: %v", err)
	}
	if !strings.Contains(row, `name="_menufields_menu_edit_icon[7]"`) {
		t.Fatalf("expected icon input in row:\n%s", row)
	}
	if strings.Index(row, "field-icon") > strings.Index(row, "<fieldset") {
		t.Fatalf("expected icon before the fieldset:\n%s", row)
	}

	params := testsupport.PostField("icon", map[string]any{"7": "  <b>star</b> ", "8": "ignored"})
	host.Hooks.DoAction(platform.WithParams(ctx, params), menufields.ActionItemSaved, 1, 7)

	if got := menufields.FieldValue(ctx, host, 7, "icon"); got != "star" {
		t.Fatalf("expected stored icon, got %#v", got)
	}
	if got := store.Snapshot(8); len(got) != 0 {
		t.Fatalf("item 8 was not saved, got %#v", got)
	}
	if got := testutil.ToFloat64(host.Metrics.SaveTotal.WithLabelValues(save.ResultSaved)); got != 1 {
		t.Fatalf("expected one saved field, got %v", got)
	}
	if got := testutil.ToFloat64(host.Metrics.InjectTotal.WithLabelValues(walker.ResultInjected)); got != 1 {
		t.Fatalf("expected one injected row, got %v", got)
	}
}

func TestBootstrapSavesAfterOtherSubscribers(t *testing.T) {
	host, store := newHost(t)
	host.Hooks.AddFilter(menufields.FilterFields, hooks.PriorityDefault, func(_ context.Context, value any, _ ...any) any {
		list, _ := value.([]field.Field)
		return append(list, field.Static("icon", "<p>icon</p>"))
	})
	if !menufields.Bootstrap(host) {
		t.Fatalf("bootstrap failed")
	}

	var seen []any
	observe := func(ctx context.Context, _ ...any) {
		value, _ := store.Get(ctx, 7, menufields.KeyPrefix+"icon")
		seen = append(seen, value)
	}
	host.Hooks.AddAction(menufields.ActionItemSaved, hooks.PriorityDefault, observe)
	host.Hooks.AddAction(menufields.ActionItemSaved, hooks.PriorityDefault+5, observe)

	ctx := platform.WithParams(testsupport.Context(), testsupport.PostField("icon", map[string]any{"7": "star"}))
	host.Hooks.DoAction(ctx, menufields.ActionItemSaved, 1, 7)

	if len(seen) != 2 || seen[0] != nil || seen[1] != nil {
		t.Fatalf("expected subscribers to run before the field save, saw %#v", seen)
	}
	if got := menufields.FieldValue(ctx, host, 7, "icon"); got != "star" {
		t.Fatalf("expected icon saved once subscribers ran, got %#v", got)
	}
}

func TestBootstrapDiagnostics(t *testing.T) {
	host, _ := newHost(t)
	var got []walker.Diagnostic
	host.Diagnostics = func(d walker.Diagnostic) { got = append(got, d) }
	host.Hooks.AddFilter(menufields.FilterFields, hooks.PriorityDefault, func(_ context.Context, value any, _ ...any) any {
		list, _ := value.([]field.Field)
		return append(list, field.Static("icon", "<p>icon</p>"))
	})
	menufields.Bootstrap(host)

	base := platform.RowRendererFunc(func(context.Context, platform.Item, int, platform.RowArgs) (string, error) {
		return `<li id="menu-item-7"><div>no settings</div>`, nil
	})
	renderer := host.Hooks.ApplyFilters(testsupport.Context(), menufields.FilterEditWalker, platform.RowRenderer(base)).(platform.RowRenderer)
	row, err := renderer.RenderRow(testsupport.Context(), platform.Item{ID: 7}, 0, nil)
	if err != nil {
		t.Fatalf("render row: %v", err)
	}
	if row != `<li id="menu-item-7"><div>no settings</div>` {
		t.Fatalf("expected baseline row, got %q", row)
	}
	if len(got) != 1 || got[0].Reason != walker.ReasonContainerMissing {
		t.Fatalf("expected container-missing diagnostic, got %#v", got)
	}
}

type refOnly struct{ id int }

func (r refOnly) ItemID() int { return r.id }

func TestFieldValue(t *testing.T) {
	host, store := newHost(t)
	ctx := testsupport.Context()
	_ = store.Set(ctx, 7, menufields.KeyPrefix+"icon", "star")

	cases := []struct {
		name string
		ref  any
		want any
	}{
		{name: "id", ref: 7, want: "star"},
		{name: "item", ref: platform.Item{ID: 7, Type: platform.TypeMenuItem}, want: "star"},
		{name: "item pointer", ref: &platform.Item{ID: 7, Type: platform.TypeMenuItem}, want: "star"},
		{name: "item id provider", ref: refOnly{id: 7}, want: "star"},
		{name: "other entity type", ref: platform.Item{ID: 7, Type: "page"}, want: nil},
		{name: "unknown id", ref: 99, want: nil},
		{name: "zero", ref: 0, want: nil},
		{name: "nil pointer", ref: (*platform.Item)(nil), want: nil},
		{name: "string", ref: "7", want: nil},
		{name: "missing key", ref: 8, want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := menufields.FieldValue(ctx, host, tc.ref, "icon"); got != tc.want {
				t.Fatalf("expected %#v, got %#v", tc.want, got)
			}
		})
	}

	if got := menufields.FieldValue(ctx, nil, 7, "icon"); got != nil {
		t.Fatalf("expected nil without host, got %#v", got)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	fsys := menufields.EmbeddedTemplates()
	for _, name := range []string{"field-text.tpl", "field-textarea.tpl", "field-checkbox.tpl", "field-select.tpl", "field-url.tpl"} {
		if _, err := fsys.Open(name); err != nil {
			t.Fatalf("expected %s embedded: %v", name, err)
		}
	}
}
