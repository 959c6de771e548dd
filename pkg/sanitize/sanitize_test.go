package sanitize

import (
	"strings"
	"testing"
)

func TestInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{in: "9876", want: 9876},
		{in: " 42abc", want: 42},
		{in: "-7", want: -7},
		{in: "abc", want: 0},
		{in: nil, want: 0},
		{in: 3.9, want: 3},
		{in: true, want: 1},
		{in: 123456789, want: 123456789},
	}
	for _, tc := range cases {
		if got := Int(tc.in); got != tc.want {
			t.Fatalf("Int(%#v) = %#v, want %d", tc.in, got, tc.want)
		}
	}
}

func TestBool(t *testing.T) {
	if Bool("on") != true || Bool("0") != false || Bool(nil) != false {
		t.Fatalf("unexpected bool conversions")
	}
}

func TestText(t *testing.T) {
	got := Text("  <b>Hello</b>\n <script>alert('x')</script>  world &amp; more ")
	if got != "Hello world & more" {
		t.Fatalf("unexpected text %q", got)
	}
	if Text(nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}
}

func TestHTML(t *testing.T) {
	got := HTML(`<p onclick="evil()">Hi <a href="https://example.com">there</a><script>x</script></p>`).(string)
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Fatalf("expected unsafe markup removed, got %q", got)
	}
	if !strings.Contains(got, `rel="nofollow"`) {
		t.Fatalf("expected nofollow on links, got %q", got)
	}
}

func TestURL(t *testing.T) {
	cases := map[string]string{
		"https://example.com/a?b=c": "https://example.com/a?b=c",
		" /blog ":                   "/blog",
		"mailto:team@example.com":   "mailto:team@example.com",
		"javascript:alert(1)":       "",
		"//evil.example.com":        "",
		"http://":                   "",
		"":                          "",
	}
	for in, want := range cases {
		if got := URL(in); got != want {
			t.Fatalf("URL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHTMLClass(t *testing.T) {
	if got := HTMLClass("a_name"); got != "a_name" {
		t.Fatalf("unexpected class %q", got)
	}
	if got := HTMLClass("my class%20name!"); got != "myclassname" {
		t.Fatalf("unexpected class %q", got)
	}
}

func TestChain(t *testing.T) {
	chained := Chain(Text, nil, Int)
	if got := chained("<i>12</i> apples"); got != 12 {
		t.Fatalf("unexpected chained result %#v", got)
	}
}
