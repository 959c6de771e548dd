package platform

import (
	"context"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseValues_ForcedArrays(t *testing.T) {
	values := url.Values{
		"_menufields_menu_edit_icon[12]": {"star"},
		"plain":                          {"one", "two"},
		"list[]":                         {"a", "b"},
		"multi[7][]":                     {"x", "y"},
		"[broken":                        {"skip-me"},
	}

	got := ParseValues(values)
	want := Values{
		"_menufields_menu_edit_icon": {"12": "star"},
		"plain":                      {"0": "two"},
		"list":                       {"0": "a", "1": "b"},
		"multi":                      {"7": []any{"x", "y"}},
		"[broken":                    {"0": "skip-me"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRequest_SplitsPostAndQuery(t *testing.T) {
	body := strings.NewReader("field[5]=posted")
	req := httptest.NewRequest("POST", "/nav-menus.php?field[6]=queried", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	params, err := FromRequest(req)
	if err != nil {
		t.Fatalf("from request: %v", err)
	}

	post, ok := params.Lookup(SourcePost, "field")
	if !ok || post["5"] != "posted" {
		t.Fatalf("unexpected post params: %#v", post)
	}
	if _, ok := post["6"]; ok {
		t.Fatalf("query values leaked into post params: %#v", post)
	}
	query, ok := params.Lookup(SourceQuery, "field")
	if !ok || query["6"] != "queried" {
		t.Fatalf("unexpected query params: %#v", query)
	}
}

func TestParamsContext(t *testing.T) {
	if ParamsFrom(context.Background()) != nil {
		t.Fatalf("expected nil params on bare context")
	}
	params := RequestParams{Post: Values{"k": {"1": "v"}}}
	ctx := WithParams(context.Background(), params)
	got, ok := ParamsFrom(ctx).Lookup(SourcePost, "k")
	if !ok || got["1"] != "v" {
		t.Fatalf("unexpected params from context: %#v", got)
	}
}

func TestItemSet(t *testing.T) {
	set := NewItemSet(
		Item{ID: 1, Type: TypeMenuItem},
		Item{ID: 2, Type: "page"},
	)
	ctx := context.Background()
	if !set.IsMenuItem(ctx, 1) {
		t.Fatalf("expected item 1 to be a menu item")
	}
	if set.IsMenuItem(ctx, 2) || set.IsMenuItem(ctx, 3) {
		t.Fatalf("expected page and missing item to be rejected")
	}
}
