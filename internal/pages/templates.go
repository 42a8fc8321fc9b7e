package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html.tmpl
var embeddedFragments embed.FS

var fragmentTemplates = template.Must(template.ParseFS(embeddedFragments, "templates/*.html.tmpl"))

func renderFragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fragmentTemplates.ExecuteTemplate(&buf, name+".html.tmpl", data); err != nil {
		return "", fmt.Errorf("render %s fragment: %w", name, err)
	}
	// #nosec G203 -- produced by html/template
	return template.HTML(buf.String()), nil
}
