package fields

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-menufields/pkg/field"
	"github.com/goliatone/go-menufields/pkg/platform"
	"github.com/goliatone/go-menufields/pkg/render/template"
	"github.com/goliatone/go-menufields/pkg/sanitize"
)

// Input is a definition bound to one menu item. It is request scoped: the
// context it was created with is used to read the current value on render.
type Input struct {
	ctx      context.Context
	def      Definition
	value    *field.Value
	renderer template.TemplateRenderer
}

var _ field.SanitizedField = (*Input)(nil)

// NewInput binds def to the item factory is bound to.
func NewInput(ctx context.Context, renderer template.TemplateRenderer, def Definition, factory *field.ValueFactory) *Input {
	def = def.normalised()
	return &Input{
		ctx:      ctx,
		def:      def,
		value:    factory.Create(ctx, def.Name, SanitizerFor(def)),
		renderer: renderer,
	}
}

// Name implements field.Field.
func (in *Input) Name() string {
	return in.def.Name
}

// Definition returns the normalised definition.
func (in *Input) Definition() Definition {
	return in.def
}

// Value returns the bound field value.
func (in *Input) Value() *field.Value {
	return in.value
}

// SanitizeCallback implements field.SanitizedField.
func (in *Input) SanitizeCallback() field.Sanitizer {
	return SanitizerFor(in.def)
}

// FieldMarkup renders the input template with the stored value.
func (in *Input) FieldMarkup() (string, error) {
	if in.renderer == nil {
		return "", fmt.Errorf("fields: no renderer for %q", in.def.Name)
	}
	current, err := in.value.Value(in.ctx)
	if err != nil {
		return "", err
	}

	data := map[string]any{
		"id":          in.value.FormFieldID(),
		"name":        in.value.FormFieldName(),
		"class":       in.value.FormFieldClass(),
		"label":       in.def.Label,
		"description": in.def.Description,
		"placeholder": in.def.Placeholder,
		"value":       display(current),
		"checked":     platform.Truthy(current),
	}
	if in.def.Type == KindSelect {
		selected := display(current)
		options := make([]map[string]any, 0, len(in.def.Options))
		for _, opt := range in.def.Options {
			options = append(options, map[string]any{
				"value":    opt.Value,
				"label":    opt.Label,
				"selected": opt.Value == selected,
			})
		}
		data["options"] = options
	}

	out, err := in.renderer.RenderTemplate("field-"+string(in.def.Type), data)
	if err != nil {
		return "", fmt.Errorf("fields: render %q: %w", in.def.Name, err)
	}
	return strings.TrimSpace(out), nil
}

// SanitizerFor returns the sanitize callback used for def's kind. Select
// values outside the declared options collapse to "".
func SanitizerFor(def Definition) field.Sanitizer {
	switch def.Type {
	case KindTextarea:
		return sanitize.HTML
	case KindCheckbox:
		return sanitize.Bool
	case KindURL:
		return sanitize.URL
	case KindSelect:
		allowed := make(map[string]struct{}, len(def.Options))
		for _, opt := range def.Options {
			allowed[opt.Value] = struct{}{}
		}
		return func(raw any) any {
			cleaned := sanitize.Text(raw)
			s, ok := cleaned.(string)
			if !ok {
				return cleaned
			}
			if _, ok := allowed[s]; !ok {
				return ""
			}
			return s
		}
	default:
		return sanitize.Text
	}
}

func display(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}
