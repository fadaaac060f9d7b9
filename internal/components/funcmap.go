package components

import (
	"context"
	"html/template"

	"github.com/a-h/templ"
)

// FuncMap exposes the components to html/template pages.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"spinner": func(size string) (template.HTML, error) {
			return render(Spinner(SpinnerSize(size)))
		},
		"loadingPage": func() (template.HTML, error) {
			return render(LoadingPage())
		},
		"errorMessage": func(message string) (template.HTML, error) {
			return render(ErrorMessage(message, VariantInline, ""))
		},
		"errorToast": func(message, dismissURL string) (template.HTML, error) {
			return render(ErrorMessage(message, VariantToast, dismissURL))
		},
		"successMessage": func(message string) (template.HTML, error) {
			return render(SuccessMessage(message))
		},
		"card": func(title, description string, body template.HTML) (template.HTML, error) {
			return render(Card(title, description, templ.Raw(string(body))))
		},
		"input": func(f Field) (template.HTML, error) {
			return render(Input(f))
		},
		"field": func(name, label, typ, value, errMsg string) Field {
			return Field{Name: name, Label: label, Type: typ, Value: value, Error: errMsg}
		},
	}
}

func render(c templ.Component) (template.HTML, error) {
	return templ.ToGoHTML(context.Background(), c)
}
