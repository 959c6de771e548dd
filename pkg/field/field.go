package field

// Hook names and storage conventions.
const (
	// FilterFields is the hook contributors use to add fields. Filters receive
	// the current []Field and a *ValueFactory bound to the item being
	// rendered or saved, and return the updated list.
	FilterFields = "menufields.menu-edit-fields"
	// ActionItemSaved fires once per menu item when the host saves it, with
	// (menuID, itemID) arguments.
	ActionItemSaved = "menufields.update-nav-menu-item"
	// KeyPrefix namespaces every stored metadata key.
	KeyPrefix = "_menufields_menu_edit_"
)

// Sanitizer cleans a raw submitted or stored value. It must be pure.
type Sanitizer func(raw any) any

// Field is the capability every contributed field exposes.
type Field interface {
	Name() string
	FieldMarkup() (string, error)
}

// SanitizedField is a Field that also declares how its value is cleaned.
type SanitizedField interface {
	Field
	SanitizeCallback() Sanitizer
}

// Descriptor is a collected field with its sanitizer resolved once.
type Descriptor struct {
	Field    Field
	Sanitize Sanitizer
}

// Name returns the underlying field name.
func (d Descriptor) Name() string {
	if d.Field == nil {
		return ""
	}
	return d.Field.Name()
}

// Static returns a Field with fixed markup.
func Static(name, markup string) Field {
	return staticField{name: name, markup: markup}
}

// WithSanitizer attaches sanitize to f.
func WithSanitizer(f Field, sanitize Sanitizer) SanitizedField {
	return sanitizedField{Field: f, sanitize: sanitize}
}

type staticField struct {
	name   string
	markup string
}

func (f staticField) Name() string                 { return f.name }
func (f staticField) FieldMarkup() (string, error) { return f.markup, nil }

type sanitizedField struct {
	Field
	sanitize Sanitizer
}

func (f sanitizedField) SanitizeCallback() Sanitizer { return f.sanitize }
