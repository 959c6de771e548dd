package fields

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-menufields/pkg/sanitize"
)

// Kind selects the input a definition renders.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindCheckbox Kind = "checkbox"
	KindSelect   Kind = "select"
	KindURL      Kind = "url"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindTextarea, KindCheckbox, KindSelect, KindURL:
		return true
	}
	return false
}

// Choice is one select option.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Definition declares one field added to every menu item.
type Definition struct {
	Name        string   `json:"name" yaml:"name"`
	Type        Kind     `json:"type" yaml:"type"`
	Label       string   `json:"label" yaml:"label"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []Choice `json:"options,omitempty" yaml:"options,omitempty"`
}

// Validate checks the name is a single class-safe token, the kind is known
// and select definitions carry options.
func (d Definition) Validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("fields: definition name is required")
	}
	if sanitize.HTMLClass(name) != name {
		return fmt.Errorf("fields: definition name %q may only contain letters, digits, '-' and '_'", name)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("fields: definition %q has unknown type %q", name, d.Type)
	}
	if d.Type == KindSelect && len(d.Options) == 0 {
		return fmt.Errorf("fields: select definition %q has no options", name)
	}
	return nil
}

func (d Definition) normalised() Definition {
	d.Name = strings.TrimSpace(d.Name)
	d.Type = Kind(strings.ToLower(strings.TrimSpace(string(d.Type))))
	if d.Type == "" {
		d.Type = KindText
	}
	if strings.TrimSpace(d.Label) == "" {
		d.Label = d.Name
	}
	d.Options = append([]Choice(nil), d.Options...)
	for i, opt := range d.Options {
		if opt.Label == "" {
			d.Options[i].Label = opt.Value
		}
	}
	return d
}

type definitionFile struct {
	Fields []Definition `json:"fields" yaml:"fields"`
}

// LoadFS walks fsys and parses every JSON/YAML file as a list of field
// definitions. Files are read in lexical order and definitions keep their
// file order. Duplicate names across files are rejected. A nil fsys yields
// no definitions.
func LoadFS(fsys fs.FS) ([]Definition, error) {
	if fsys == nil {
		return nil, nil
	}

	var defs []Definition
	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("fields: read %s: %w", path, err)
		}
		parsed, err := Parse(data, path)
		if err != nil {
			return err
		}

		for _, def := range parsed {
			if first, exists := seen[def.Name]; exists {
				return fmt.Errorf("fields: duplicate field %q (file %s, first defined in %s)", def.Name, path, first)
			}
			seen[def.Name] = path
			defs = append(defs, def)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// Parse decodes one JSON or YAML definition document. source only labels
// errors.
func Parse(data []byte, source string) ([]Definition, error) {
	doc, err := parseDefinitions(data, source)
	if err != nil {
		return nil, err
	}

	defs := make([]Definition, 0, len(doc.Fields))
	seen := make(map[string]struct{}, len(doc.Fields))
	for _, raw := range doc.Fields {
		def := raw.normalised()
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%w (file %s)", err, source)
		}
		if _, exists := seen[def.Name]; exists {
			return nil, fmt.Errorf("fields: duplicate field %q (file %s)", def.Name, source)
		}
		seen[def.Name] = struct{}{}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseDefinitions(data []byte, source string) (definitionFile, error) {
	var doc definitionFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return definitionFile{}, fmt.Errorf("fields: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = definitionFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return definitionFile{}, fmt.Errorf("fields: parse %s: invalid JSON or YAML", source)
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
