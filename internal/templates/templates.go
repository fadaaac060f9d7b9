// Package templates embeds the server-rendered pages and their static assets.
package templates

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"primmfy/internal/components"
)

//go:embed *.html static
var files embed.FS

// Page parses the layout together with one page file. Execute the result
// with ExecuteTemplate(w, "layout", data).
//
// Pages can call {{partial "name" .}} to render one of their own templates
// into HTML, which is how a page hands a form to the card component.
func Page(name string) *template.Template {
	t := template.New(name).
		Funcs(components.FuncMap()).
		Funcs(template.FuncMap{"partial": func(string, any) (template.HTML, error) { return "", nil }})
	t = template.Must(t.ParseFS(files, "layout.html", name))
	t.Funcs(template.FuncMap{
		"partial": func(name string, data any) (template.HTML, error) {
			var buf bytes.Buffer
			if err := t.ExecuteTemplate(&buf, name, data); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
	})
	return t
}

// Static serves the embedded assets. Mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
