package menufields

import (
	"io/fs"

	"github.com/goliatone/go-menufields/pkg/fields"
)

// EmbeddedTemplates exposes the built-in field templates so callers can copy
// or extend them without importing the fields package directly.
func EmbeddedTemplates() fs.FS {
	return fields.TemplatesFS()
}
