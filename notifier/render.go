package notifier

import (
	"bytes"
	"text/template"

	"github.com/pkg/errors"
)

// Renderer produces a literal description from a description template and a
// context mapping. The template syntax is whatever the configured renderer
// accepts; the core only requires "template + context -> string".
type Renderer interface {
	Render(templateText string, context map[string]interface{}) (string, error)
}

// templateRenderer is the default Renderer, backed by text/template. Context
// keys are referenced as fields of the top-level map, e.g. `{{.name}}` or
// `{{.obj.Title}}`.
type templateRenderer struct{}

// Render renders a description template against a context mapping.
func (templateRenderer) Render(templateText string, context map[string]interface{}) (string, error) {
	wrapMsg := "unable to render the notification description"

	tmpl, err := template.New("description").Parse(templateText)
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}

	var rendered bytes.Buffer
	err = tmpl.Execute(&rendered, context)
	if err != nil {
		return "", errors.Wrap(err, wrapMsg)
	}

	return rendered.String(), nil
}
