package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-menufields/pkg/field"
	"github.com/goliatone/go-menufields/pkg/hooks"
	"github.com/goliatone/go-menufields/pkg/platform"
)

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MenuItems reports the given ids as existing menu items.
func MenuItems(ids ...int) platform.MenuItems {
	known := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return platform.MenuItemsFunc(func(_ context.Context, id int) bool {
		_, ok := known[id]
		return ok
	})
}

// SaveContext returns a context positioned inside the item save action with
// the supplied request parameters attached.
func SaveContext(ctx context.Context, params platform.Params) context.Context {
	if params != nil {
		ctx = platform.WithParams(ctx, params)
	}
	return hooks.WithAction(ctx, field.ActionItemSaved)
}

// PostField builds request parameters posting values (keyed by item id) for
// the named field.
func PostField(name string, values map[string]any) platform.RequestParams {
	return platform.RequestParams{
		Post: platform.Values{field.KeyPrefix + name: values},
	}
}
