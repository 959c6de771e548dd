package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Source selects which request parameter bag to read.
type Source int

const (
	// SourcePost reads the submitted form body.
	SourcePost Source = iota
	// SourceQuery reads the URL query string.
	SourceQuery
)

func (s Source) String() string {
	switch s {
	case SourcePost:
		return "post"
	case SourceQuery:
		return "query"
	default:
		return "source(" + strconv.Itoa(int(s)) + ")"
	}
}

// Params exposes submitted request parameters as forced arrays: a bracketed
// key such as "name[42]" is grouped under "name" with index "42", and a bare
// scalar "name" is returned as index "0".
type Params interface {
	Lookup(source Source, key string) (map[string]any, bool)
}

// Values groups bracketed parameters by base key.
type Values map[string]map[string]any

// RequestParams is the default Params implementation.
type RequestParams struct {
	Post  Values
	Query Values
}

// Lookup implements Params.
func (p RequestParams) Lookup(source Source, key string) (map[string]any, bool) {
	var bag Values
	switch source {
	case SourcePost:
		bag = p.Post
	case SourceQuery:
		bag = p.Query
	}
	if bag == nil {
		return nil, false
	}
	values, ok := bag[key]
	return values, ok
}

// FromRequest parses the request form and returns its parameters.
func FromRequest(r *http.Request) (RequestParams, error) {
	if r == nil {
		return RequestParams{}, fmt.Errorf("platform: request is nil")
	}
	if err := r.ParseForm(); err != nil {
		return RequestParams{}, fmt.Errorf("platform: parse form: %w", err)
	}
	return RequestParams{
		Post:  ParseValues(r.PostForm),
		Query: ParseValues(r.URL.Query()),
	}, nil
}

// ParseValues groups url.Values into forced arrays. "name[]" entries receive
// sequential indexes and "name[7][]" collects every value into a slice.
func ParseValues(values url.Values) Values {
	if len(values) == 0 {
		return nil
	}
	out := make(Values, len(values))
	for raw, list := range values {
		if len(list) == 0 {
			continue
		}
		base, index, rest, bracketed := splitKey(raw)
		if !bracketed {
			out.put(raw, "0", list[len(list)-1])
			continue
		}
		switch {
		case index == "" && rest == "":
			for _, value := range list {
				out.put(base, strconv.Itoa(len(out[base])), value)
			}
		case rest == "[]":
			collected := make([]any, 0, len(list))
			for _, value := range list {
				collected = append(collected, value)
			}
			out.put(base, index, collected)
		default:
			out.put(base, index, list[len(list)-1])
		}
	}
	return out
}

func (v Values) put(base, index string, value any) {
	group, ok := v[base]
	if !ok {
		group = make(map[string]any)
		v[base] = group
	}
	group[index] = value
}

func splitKey(raw string) (base, index, rest string, ok bool) {
	open := strings.IndexByte(raw, '[')
	if open <= 0 {
		return raw, "", "", false
	}
	closing := strings.IndexByte(raw[open:], ']')
	if closing < 0 {
		return raw, "", "", false
	}
	closing += open
	return raw[:open], raw[open+1 : closing], raw[closing+1:], true
}

type paramsKey struct{}

// WithParams stores request parameters on the context.
func WithParams(ctx context.Context, params Params) context.Context {
	return context.WithValue(ctx, paramsKey{}, params)
}

// ParamsFrom returns the parameters stored by WithParams, or nil.
func ParamsFrom(ctx context.Context) Params {
	if ctx == nil {
		return nil
	}
	params, _ := ctx.Value(paramsKey{}).(Params)
	return params
}
