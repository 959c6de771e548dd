// Package menufields adds custom, per-item edit fields to a host's menu editor.
//
// Third parties contribute fields through the FilterFields hook. Bootstrap
// wires the package into a host once per hook registry: it swaps the editor row
// renderer for one that injects contributed field markup into every menu item
// row, and saves every contributed field when the host saves a menu item.
package menufields

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-menufields/pkg/field"
	"github.com/goliatone/go-menufields/pkg/hooks"
	"github.com/goliatone/go-menufields/pkg/metrics"
	"github.com/goliatone/go-menufields/pkg/platform"
	"github.com/goliatone/go-menufields/pkg/save"
	"github.com/goliatone/go-menufields/pkg/walker"
)

// Hook names and storage prefix, re-exported for contributors.
const (
	FilterFields     = field.FilterFields
	ActionItemSaved  = field.ActionItemSaved
	FilterEditWalker = walker.FilterEditWalker
	KeyPrefix        = field.KeyPrefix
)

// Field aliases field.Field for contributors importing only the root package.
type Field = field.Field

// SanitizedField aliases field.SanitizedField.
type SanitizedField = field.SanitizedField

// ValueFactory aliases field.ValueFactory.
type ValueFactory = field.ValueFactory

// Host bundles the host collaborators Bootstrap wires into. Hooks, Items and
// Store are required; the rest are optional.
type Host struct {
	Hooks *hooks.Registry
	Items platform.MenuItems
	Store platform.MetaStore

	Logger      *zap.Logger
	Metrics     *metrics.Collector
	Diagnostics func(walker.Diagnostic)
}

func (h *Host) backend() field.Backend {
	return field.Backend{Items: h.Items, Store: h.Store}
}

func (h *Host) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// bootstrapClaim marks a registry Bootstrap already wired. The mark lives on
// the registry, so nothing outlives it.
const bootstrapClaim = "menufields.bootstrap"

// Bootstrap registers the edit row renderer filter and the item save action on
// host. It runs at most once per hook registry and reports whether this call
// did the wiring. A host without hooks, items or store is rejected without
// consuming the run.
//
// Both callbacks run at hooks.PriorityLast: the walker decorates whatever row
// renderer other filters picked, and fields are persisted after every other
// save subscriber has run.
func Bootstrap(host *Host) bool {
	if host == nil || host.Hooks == nil || host.Items == nil || host.Store == nil {
		return false
	}
	if !host.Hooks.Claim(bootstrapClaim) {
		return false
	}

	logger := host.logger()
	collector := field.NewCollector(host.Hooks, host.backend())

	walkerOpts := []walker.Option{walker.WithLogger(logger)}
	saveOpts := []save.Option{save.WithLogger(logger)}
	if host.Diagnostics != nil {
		walkerOpts = append(walkerOpts, walker.WithDiagnostics(host.Diagnostics))
	}
	if host.Metrics != nil {
		walkerOpts = append(walkerOpts, walker.WithRecorder(host.Metrics))
		saveOpts = append(saveOpts, save.WithRecorder(host.Metrics))
	}

	host.Hooks.AddFilter(FilterEditWalker, hooks.PriorityLast, func(_ context.Context, value any, _ ...any) any {
		switch base := value.(type) {
		case *walker.Walker:
			return base
		case platform.RowRenderer:
			return walker.New(base, collector, walkerOpts...)
		}
		logger.Debug("edit walker filter received no row renderer", zap.Any("value", value))
		return value
	})

	handler := save.NewHandler(collector, saveOpts...)
	host.Hooks.AddAction(ActionItemSaved, hooks.PriorityLast, handler.Handle)

	logger.Debug("menu fields bootstrapped")
	return true
}

// FieldValue returns the stored value of key for the referenced menu item, or
// nil when ref does not resolve to a menu item or nothing is stored. ref may
// be an item id, a platform.Item, a *platform.Item or anything exposing
// ItemID() int.
func FieldValue(ctx context.Context, host *Host, ref any, key string) any {
	if host == nil || host.Items == nil || host.Store == nil {
		return nil
	}
	itemID, ok := resolveItem(ref)
	if !ok || itemID <= 0 || !host.Items.IsMenuItem(ctx, itemID) {
		return nil
	}

	value, err := host.Store.Get(ctx, itemID, KeyPrefix+key)
	if err != nil {
		host.logger().Debug("menu item field not readable",
			zap.Int("item_id", itemID),
			zap.String("field", key),
			zap.Error(err),
		)
		return nil
	}
	return value
}

func resolveItem(ref any) (int, bool) {
	switch v := ref.(type) {
	case nil:
		return 0, false
	case int:
		return v, true
	case int64:
		return int(v), true
	case platform.Item:
		return v.ID, v.IsMenuItem()
	case *platform.Item:
		if v == nil {
			return 0, false
		}
		return v.ID, v.IsMenuItem()
	case interface{ ItemID() int }:
		return v.ItemID(), true
	}
	return 0, false
}
