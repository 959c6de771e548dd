// Package sanitize ships ready-made sanitize callbacks for menu item fields.
// Every function accepts the raw submitted or stored value (usually a string,
// nil when absent) and returns the cleaned value that gets compared and saved.
package sanitize

import (
	"fmt"
	"html"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-menufields/pkg/platform"
)

var (
	policyOnce   sync.Once
	strictPolicy *bluemonday.Policy
	ugcPolicy    *bluemonday.Policy

	percentOctet = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
	classInvalid = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	leadingInt   = regexp.MustCompile(`^\s*[+-]?\d+`)
)

// Int converts value to an int the way the host does: numeric prefixes of
// strings are honoured, floats truncate, booleans map to 0/1, anything else
// is 0.
func Int(value any) any {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		match := strings.TrimSpace(leadingInt.FindString(v))
		if match == "" {
			return 0
		}
		n, err := strconv.Atoi(match)
		if err != nil {
			return 0
		}
		return n
	case []any:
		if len(v) == 0 {
			return 0
		}
		return 1
	}
	return 0
}

// Bool reduces value to a boolean using the host truthiness rules.
func Bool(value any) any {
	return platform.Truthy(value)
}

// Text strips all markup, decodes entities, collapses whitespace and trims.
// nil stays nil so an absent submission is still distinguishable.
func Text(value any) any {
	raw, ok := stringOf(value)
	if !ok {
		return value
	}
	cleaned := html.UnescapeString(policies().strict.Sanitize(raw))
	return strings.Join(strings.Fields(cleaned), " ")
}

// HTML keeps user-generated-content safe markup and drops the rest.
func HTML(value any) any {
	raw, ok := stringOf(value)
	if !ok {
		return value
	}
	return strings.TrimSpace(policies().ugc.Sanitize(raw))
}

// URL accepts absolute http, https and mailto URLs plus root-relative paths.
// Anything else collapses to "".
func URL(value any) any {
	raw, ok := stringOf(value)
	if !ok {
		return value
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		if parsed.Host == "" {
			return ""
		}
		return parsed.String()
	case "mailto":
		return parsed.String()
	case "":
		if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
			return parsed.String()
		}
	}
	return ""
}

// HTMLClass reduces a string to a single valid class token: percent-encoded
// octets are removed, then everything outside [A-Za-z0-9_-].
func HTMLClass(raw string) string {
	stripped := percentOctet.ReplaceAllString(raw, "")
	return classInvalid.ReplaceAllString(stripped, "")
}

// Chain applies sanitizers left to right. nil entries are skipped.
func Chain(sanitizers ...func(any) any) func(any) any {
	return func(value any) any {
		for _, fn := range sanitizers {
			if fn == nil {
				continue
			}
			value = fn(value)
		}
		return value
	}
}

func stringOf(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	case []any, map[string]any:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

type policySet struct {
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

func policies() policySet {
	policyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
		ugcPolicy = bluemonday.UGCPolicy()
		ugcPolicy.RequireNoFollowOnLinks(true)
	})
	return policySet{strict: strictPolicy, ugc: ugcPolicy}
}
