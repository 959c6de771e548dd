package save_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-menufields/pkg/field"
	"github.com/goliatone/go-menufields/pkg/hooks"
	"github.com/goliatone/go-menufields/pkg/platform"
	"github.com/goliatone/go-menufields/pkg/sanitize"
	"github.com/goliatone/go-menufields/pkg/save"
	"github.com/goliatone/go-menufields/pkg/testsupport"
)

type counter map[string]int

func (c counter) RecordSave(result string) { c[result]++ }

func setup(store platform.MetaStore, ids ...int) (*hooks.Registry, *field.Collector) {
	reg := hooks.NewRegistry()
	reg.AddFilter(field.FilterFields, hooks.PriorityDefault, func(_ context.Context, value any, _ ...any) any {
		return append(value.([]field.Field),
			field.Static("icon", `<input/>`),
			field.WithSanitizer(field.Static("count", `<input/>`), sanitize.Int),
		)
	})
	return reg, field.NewCollector(reg, field.Backend{Items: testsupport.MenuItems(ids...), Store: store})
}

func TestHandler_SavesSubmittedValuesOnAction(t *testing.T) {
	store := testsupport.NewRecordingStore().Seed(7, field.KeyPrefix+"count", "3")
	reg, collector := setup(store, 7)
	rec := counter{}
	handler := save.NewHandler(collector, save.WithRecorder(rec))
	reg.AddAction(field.ActionItemSaved, hooks.PriorityLast, handler.Handle)

	params := platform.RequestParams{Post: platform.Values{
		field.KeyPrefix + "icon":  {"7": "star"},
		field.KeyPrefix + "count": {"7": "3"},
	}}
	ctx := platform.WithParams(testsupport.Context(), params)
	reg.DoAction(ctx, field.ActionItemSaved, 1, 7)

	want := []testsupport.Call{{Op: "set", ItemID: 7, Key: field.KeyPrefix + "icon", Value: "star"}}
	if diff := cmp.Diff(want, store.Calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(counter{save.ResultSaved: 2}, rec); diff != "" {
		t.Fatalf("recorded results mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_SkipsInvalidItems(t *testing.T) {
	store := testsupport.NewRecordingStore()
	_, collector := setup(store)
	rec := counter{}
	handler := save.NewHandler(collector, save.WithRecorder(rec))

	ctx := testsupport.SaveContext(testsupport.Context(), testsupport.PostField("icon", map[string]any{"9": "x"}))
	results := handler.SaveItem(ctx, 9)

	want := []save.Result{
		{Field: "icon", ItemID: 9, Err: field.ErrInvalidItem},
		{Field: "count", ItemID: 9, Err: field.ErrInvalidItem},
	}
	if diff := cmp.Diff(want, results, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	if len(store.Calls()) != 0 {
		t.Fatalf("expected store untouched, got %#v", store.Calls())
	}
	if rec[save.ResultInvalid] != 2 {
		t.Fatalf("expected two invalid results, got %#v", rec)
	}
}

func TestHandler_LogsFailuresWithoutPropagating(t *testing.T) {
	store := testsupport.NewRecordingStore()
	store.SetErr = errors.New("disk full")
	_, collector := setup(store, 4)

	core, logs := observer.New(zap.WarnLevel)
	handler := save.NewHandler(collector, save.WithLogger(zap.New(core)))

	ctx := testsupport.SaveContext(testsupport.Context(), testsupport.PostField("icon", map[string]any{"4": "x"}))
	handler.Handle(ctx, 0, 4)

	entries := logs.FilterMessage("menu item field not saved").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["field"]; got != "icon" {
		t.Fatalf("expected icon field in log, got %v", got)
	}
}

func TestHandler_IgnoresMalformedArguments(t *testing.T) {
	store := testsupport.NewRecordingStore()
	_, collector := setup(store, 4)
	handler := save.NewHandler(collector)

	ctx := testsupport.SaveContext(testsupport.Context(), testsupport.PostField("icon", map[string]any{"4": "x"}))
	handler.Handle(ctx)
	handler.Handle(ctx, 1)
	handler.Handle(ctx, 1, "4")

	if len(store.Calls()) != 0 {
		t.Fatalf("expected no saves, got %#v", store.Calls())
	}
}
