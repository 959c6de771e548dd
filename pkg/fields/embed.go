package fields

import (
	"embed"
	"io/fs"
	"sync"

	"github.com/goliatone/go-menufields/pkg/render/template/pongo"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

var (
	defaultEngineOnce sync.Once
	defaultEngine     *pongo.Engine
	defaultEngineErr  error
)

// TemplatesFS returns the bundled input templates, one "field-<kind>.tpl" per
// kind. Callers may copy and override them through WithRenderer.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// DefaultRenderer returns a shared engine over TemplatesFS.
func DefaultRenderer() (*pongo.Engine, error) {
	defaultEngineOnce.Do(func() {
		defaultEngine, defaultEngineErr = pongo.New(pongo.WithFS(TemplatesFS()))
	})
	return defaultEngine, defaultEngineErr
}
