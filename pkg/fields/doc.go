// Package fields provides ready-made menu item fields: text, textarea,
// checkbox, select and url inputs rendered from embedded pongo2 templates.
//
// Definitions can be declared in code or loaded from JSON/YAML files with
// LoadFS, then handed to Contributor (or Register) which adds one bound input
// per definition to every menu item through the field.FilterFields hook:
//
//	defs, err := fields.LoadFS(os.DirFS("config/menu-fields"))
//	if err != nil { ... }
//	if err := fields.Register(registry, defs); err != nil { ... }
package fields
