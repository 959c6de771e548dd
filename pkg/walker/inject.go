package walker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-menufields/pkg/field"
)

const (
	settingsIDPrefix = "menu-item-settings-"
	// rowCloser closes the open row before parsing; it is stripped again from
	// the serialised output.
	rowCloser = "</li>"
)

// Fallback reasons reported through diagnostics and logs.
const (
	ReasonParse            = "parse-failed"
	ReasonContainerMissing = "container-missing"
	ReasonGroupMissing     = "group-missing"
	ReasonWrapperMismatch  = "wrapper-mismatch"
)

// Results reported to a Recorder.
const (
	ResultInjected = "injected"
	ResultSkipped  = "skipped"
	ResultFallback = "fallback"
	ResultError    = "error"
)

// ErrMalformedField reports contributed markup that could not be rendered or
// is not well formed.
var ErrMalformedField = errors.New("walker: malformed field markup")

// Diagnostic describes why a row was returned without the contributed fields.
type Diagnostic struct {
	ItemID int
	Reason string
}

// Recorder receives one result per Inject call.
type Recorder interface {
	RecordInject(result string)
}

// Option customises an Injector or Walker.
type Option func(*config)

type config struct {
	logger      *zap.Logger
	diagnostics func(Diagnostic)
	recorder    Recorder
}

// WithLogger logs fallbacks at debug level and failures at warn level.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithDiagnostics registers a callback invoked whenever the baseline row is
// returned unchanged because of its structure.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(cfg *config) {
		cfg.diagnostics = fn
	}
}

// WithRecorder reports every Inject outcome to rec.
func WithRecorder(rec Recorder) Option {
	return func(cfg *config) {
		cfg.recorder = rec
	}
}

func newConfig(options []Option) config {
	cfg := config{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Injector splices field markup into baseline rows.
type Injector struct {
	cfg config
}

// NewInjector constructs an Injector applying the provided options.
func NewInjector(options ...Option) *Injector {
	return &Injector{cfg: newConfig(options)}
}

// Inject is a convenience wrapper around NewInjector(options...).Inject.
func Inject(baseline string, itemID int, fields []field.Descriptor, options ...Option) (string, error) {
	return NewInjector(options...).Inject(baseline, itemID, fields)
}

// Inject inserts the markup of every field, in order, before the first
// fieldset of the item's settings container and returns the patched row.
func (in *Injector) Inject(baseline string, itemID int, fields []field.Descriptor) (string, error) {
	fields = present(fields)
	if len(fields) == 0 {
		in.record(ResultSkipped)
		return baseline, nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(baseline+rowCloser), bodyContext())
	if err != nil {
		return in.fallback(baseline, itemID, ReasonParse), nil
	}

	containerID := settingsIDPrefix + strconv.Itoa(itemID)
	container := findFirst(nodes, func(n *html.Node) bool {
		return attr(n, "id") == containerID
	})
	if container == nil {
		return in.fallback(baseline, itemID, ReasonContainerMissing), nil
	}

	group := findFirst(children(container), func(n *html.Node) bool {
		return n.DataAtom == atom.Fieldset
	})
	if group == nil {
		return in.fallback(baseline, itemID, ReasonGroupMissing), nil
	}

	markup, err := fieldsMarkup(fields)
	if err != nil {
		in.record(ResultError)
		in.cfg.logger.Warn("field markup rejected", zap.Int("item_id", itemID), zap.Error(err))
		return "", err
	}

	parent := group.Parent
	fragment, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		in.record(ResultError)
		return "", fmt.Errorf("%w: %v", ErrMalformedField, err)
	}
	for _, n := range fragment {
		parent.InsertBefore(n, group)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			in.record(ResultError)
			return "", fmt.Errorf("walker: render row %d: %w", itemID, err)
		}
	}

	output := strings.TrimSpace(buf.String())
	if !strings.HasSuffix(output, rowCloser) {
		return in.fallback(baseline, itemID, ReasonWrapperMismatch), nil
	}
	in.record(ResultInjected)
	return strings.TrimSpace(strings.TrimSuffix(output, rowCloser)), nil
}

func (in *Injector) fallback(baseline string, itemID int, reason string) string {
	in.record(ResultFallback)
	in.cfg.logger.Debug("menu item row left unchanged",
		zap.Int("item_id", itemID),
		zap.String("reason", reason),
	)
	if in.cfg.diagnostics != nil {
		in.cfg.diagnostics(Diagnostic{ItemID: itemID, Reason: reason})
	}
	return baseline
}

func (in *Injector) record(result string) {
	if in.cfg.recorder != nil {
		in.cfg.recorder.RecordInject(result)
	}
}

// present drops descriptors without a field.
func present(fields []field.Descriptor) []field.Descriptor {
	out := fields[:0:0]
	for _, d := range fields {
		if d.Field != nil {
			out = append(out, d)
		}
	}
	return out
}

func fieldsMarkup(fields []field.Descriptor) (string, error) {
	var builder strings.Builder
	for _, d := range fields {
		if d.Field == nil {
			continue
		}
		markup, err := d.Field.FieldMarkup()
		if err != nil {
			return "", fmt.Errorf("%w: field %q: %v", ErrMalformedField, d.Name(), err)
		}
		if err := wellFormed(markup); err != nil {
			return "", fmt.Errorf("%w: field %q: %v", ErrMalformedField, d.Name(), err)
		}
		builder.WriteString(markup)
	}
	return builder.String(), nil
}

// wellFormed requires every non-void element to be closed in order.
func wellFormed(markup string) error {
	z := html.NewTokenizer(strings.NewReader(markup))
	var open []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return err
			}
			if len(open) > 0 {
				return fmt.Errorf("unclosed <%s>", open[len(open)-1])
			}
			return nil
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !voidElements[tag] {
				open = append(open, tag)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			if len(open) == 0 || open[len(open)-1] != tag {
				return fmt.Errorf("unexpected </%s>", tag)
			}
			open = open[:len(open)-1]
		}
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

func attr(n *html.Node, key string) string {
	if n.Type != html.ElementNode {
		return ""
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// findFirst walks roots depth first in document order.
func findFirst(roots []*html.Node, match func(*html.Node) bool) *html.Node {
	for _, n := range roots {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
		if found := findFirst(children(n), match); found != nil {
			return found
		}
	}
	return nil
}
