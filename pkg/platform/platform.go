package platform

import "context"

// TypeMenuItem is the entity type carried by navigation menu items.
const TypeMenuItem = "nav_menu_item"

// Item is the subset of a host entity the edit row needs.
type Item struct {
	ID       int    `json:"id" yaml:"id"`
	Type     string `json:"type" yaml:"type"`
	Title    string `json:"title" yaml:"title"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	ParentID int    `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// ItemID returns the entity identifier.
func (i Item) ItemID() int {
	return i.ID
}

// IsMenuItem reports whether the item is a navigation menu item.
func (i Item) IsMenuItem() bool {
	return i.ID > 0 && i.Type == TypeMenuItem
}

// MenuItems answers whether an identifier refers to an existing menu item.
type MenuItems interface {
	IsMenuItem(ctx context.Context, id int) bool
}

// MenuItemsFunc adapts a function to MenuItems.
type MenuItemsFunc func(ctx context.Context, id int) bool

// IsMenuItem implements MenuItems.
func (f MenuItemsFunc) IsMenuItem(ctx context.Context, id int) bool {
	if f == nil {
		return false
	}
	return f(ctx, id)
}

// ItemSet is a static MenuItems backed by a map, handy for CLIs and tests.
type ItemSet map[int]Item

// NewItemSet indexes items by ID.
func NewItemSet(items ...Item) ItemSet {
	set := make(ItemSet, len(items))
	for _, item := range items {
		set[item.ID] = item
	}
	return set
}

// IsMenuItem implements MenuItems.
func (s ItemSet) IsMenuItem(_ context.Context, id int) bool {
	item, ok := s[id]
	return ok && item.IsMenuItem()
}

// MetaStore persists flat key/value metadata per item. Get returns a nil value
// and nil error when the key is absent.
type MetaStore interface {
	Get(ctx context.Context, itemID int, key string) (any, error)
	Set(ctx context.Context, itemID int, key string, value any) error
	Delete(ctx context.Context, itemID int, key string) error
}

// Normalizer is implemented by stores that persist values in a canonical form
// different from what was written, e.g. as strings. Normalize returns the
// form value would be read back as.
type Normalizer interface {
	Normalize(value any) (any, error)
}

// RowArgs carries renderer specific arguments through to the host renderer.
type RowArgs map[string]any

// RowRenderer produces the edit row markup for one menu item. The host row is
// left open (no closing </li>); the closing tag is emitted by the host once
// nested items are rendered.
type RowRenderer interface {
	RenderRow(ctx context.Context, item Item, depth int, args RowArgs) (string, error)
}

// RowRendererFunc adapts a function to RowRenderer.
type RowRendererFunc func(ctx context.Context, item Item, depth int, args RowArgs) (string, error)

// RenderRow implements RowRenderer.
func (f RowRendererFunc) RenderRow(ctx context.Context, item Item, depth int, args RowArgs) (string, error) {
	return f(ctx, item, depth, args)
}
