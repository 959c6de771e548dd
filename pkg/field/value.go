package field

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/goliatone/go-menufields/pkg/hooks"
	"github.com/goliatone/go-menufields/pkg/platform"
	"github.com/goliatone/go-menufields/pkg/sanitize"
)

var (
	// ErrNotSaving is returned by Save outside the ActionItemSaved action.
	ErrNotSaving = errors.New("field: not inside the menu item save action")
	// ErrInvalidItem is returned by Save for values bound to an invalid item.
	ErrInvalidItem = errors.New("field: item is not a valid menu item")
	// ErrNoStore is returned when no metadata store was configured.
	ErrNoStore = errors.New("field: metadata store is not configured")
)

// Backend bundles the host collaborators a Value depends on.
type Backend struct {
	Items platform.MenuItems
	Store platform.MetaStore
}

// Value reads, formats and persists one field for one menu item.
type Value struct {
	name     string
	key      string
	itemID   int
	store    platform.MetaStore
	sanitize Sanitizer
}

// NewValue binds name to itemID. The item id is zeroed, making the value
// invalid, when it is not positive or the host does not know it as a menu
// item.
func NewValue(ctx context.Context, backend Backend, name string, itemID int, sanitize Sanitizer) *Value {
	if itemID <= 0 || backend.Items == nil || !backend.Items.IsMenuItem(ctx, itemID) {
		itemID = 0
	}
	return &Value{
		name:     name,
		key:      KeyPrefix + name,
		itemID:   itemID,
		store:    backend.Store,
		sanitize: sanitize,
	}
}

// IsValid reports whether the value is bound to an existing menu item.
func (v *Value) IsValid() bool {
	return v.itemID > 0
}

// Name returns the field name without the storage prefix.
func (v *Value) Name() string {
	return v.name
}

// Key returns the metadata storage key.
func (v *Value) Key() string {
	return v.key
}

// ItemID returns the bound item id, 0 when invalid.
func (v *Value) ItemID() int {
	return v.itemID
}

// FormFieldName is the input name the save path reads back, e.g.
// "_menufields_menu_edit_icon[42]".
func (v *Value) FormFieldName() string {
	return v.key + "[" + strconv.Itoa(v.itemID) + "]"
}

// FormFieldID is a document-unique input id, e.g. "_menufields_menu_edit_icon-42".
func (v *Value) FormFieldID() string {
	return v.key + "-" + strconv.Itoa(v.itemID)
}

// FormFieldClass returns the wrapper classes the host editor uses for its own
// settings rows.
func (v *Value) FormFieldClass() string {
	return "field-" + sanitize.HTMLClass(v.name) + " description description-wide"
}

// Value returns the stored value, passed through the sanitizer when one is
// bound.
func (v *Value) Value(ctx context.Context) (any, error) {
	if v.store == nil {
		return nil, ErrNoStore
	}
	raw, err := v.store.Get(ctx, v.itemID, v.key)
	if err != nil {
		return nil, fmt.Errorf("field: read %s for item %d: %w", v.key, v.itemID, err)
	}
	if v.sanitize != nil {
		raw = v.sanitize(raw)
	}
	return raw, nil
}

// Save persists the submitted value for the bound item. It only runs inside
// the ActionItemSaved action. An unchanged value is a no-op, a truthy value is
// written, and a falsy submission deletes a truthy stored value.
func (v *Value) Save(ctx context.Context) error {
	if !hooks.Doing(ctx, ActionItemSaved) {
		return ErrNotSaving
	}
	if !v.IsValid() {
		return ErrInvalidItem
	}

	submitted := v.submitted(ctx)
	current, err := v.Value(ctx)
	if err != nil {
		return err
	}
	if v.sanitize != nil {
		submitted = v.sanitize(submitted)
	}

	if v.unchanged(submitted, current) {
		return nil
	}

	if platform.Truthy(submitted) {
		if err := v.store.Set(ctx, v.itemID, v.key, submitted); err != nil {
			return fmt.Errorf("field: update %s for item %d: %w", v.key, v.itemID, err)
		}
		return nil
	}
	if platform.Truthy(current) {
		if err := v.store.Delete(ctx, v.itemID, v.key); err != nil {
			return fmt.Errorf("field: delete %s for item %d: %w", v.key, v.itemID, err)
		}
	}
	return nil
}

// unchanged compares submitted with current. Stores that rewrite values on
// the way in (platform.Normalizer) are compared in their stored form, so
// resubmitting a value the store already holds is a no-op.
func (v *Value) unchanged(submitted, current any) bool {
	if reflect.DeepEqual(submitted, current) {
		return true
	}
	normalizer, ok := v.store.(platform.Normalizer)
	if !ok {
		return false
	}
	left, err := normalizer.Normalize(submitted)
	if err != nil {
		return false
	}
	right, err := normalizer.Normalize(current)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(left, right)
}

// submitted returns the raw value posted for this item, falling back to the
// query string when the body carries no mapping for the key.
func (v *Value) submitted(ctx context.Context) any {
	params := platform.ParamsFrom(ctx)
	if params == nil {
		return nil
	}
	values, ok := params.Lookup(platform.SourcePost, v.key)
	if !ok {
		values, ok = params.Lookup(platform.SourceQuery, v.key)
	}
	if !ok || values == nil {
		return nil
	}
	return values[strconv.Itoa(v.itemID)]
}
