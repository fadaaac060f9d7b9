// Package components holds the small presentational building blocks shared
// by every page.
package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

type SpinnerSize string

const (
	SpinnerSmall  SpinnerSize = "sm"
	SpinnerMedium SpinnerSize = "md"
	SpinnerLarge  SpinnerSize = "lg"
)

type spinnerDims struct {
	px     int
	border int
}

var spinnerSizes = map[SpinnerSize]spinnerDims{
	SpinnerSmall:  {px: 16, border: 2},
	SpinnerMedium: {px: 32, border: 3},
	SpinnerLarge:  {px: 48, border: 4},
}

// Spinner renders an animated ring. Unknown sizes render as md.
func Spinner(size SpinnerSize) templ.Component {
	d, ok := spinnerSizes[size]
	if !ok {
		size, d = SpinnerMedium, spinnerSizes[SpinnerMedium]
	}
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="spinner spinner-%s" role="status" aria-label="Loading" style="width:%dpx;height:%dpx;border-width:%dpx"></div>`,
			size, d.px, d.px, d.border)
		return err
	})
}

func LoadingPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="loading-page">`); err != nil {
			return err
		}
		if err := Spinner(SpinnerLarge).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<p class="loading-caption">Loading...</p></div>`)
		return err
	})
}

type MessageVariant string

const (
	VariantInline MessageVariant = "inline"
	VariantToast  MessageVariant = "toast"
)

// ErrorMessage renders nothing for an empty message. Only a toast with a
// dismiss URL gets a close link.
func ErrorMessage(message string, variant MessageVariant, dismissURL string) templ.Component {
	if variant != VariantToast {
		variant = VariantInline
	}
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if message == "" {
			return nil
		}
		if variant == VariantInline {
			_, err := fmt.Fprintf(w,
				`<div class="alert alert-error" role="alert"><span class="alert-icon" aria-hidden="true">!</span><p>%s</p></div>`,
				templ.EscapeString(message))
			return err
		}
		if _, err := fmt.Fprintf(w,
			`<div class="toast toast-error" role="alert"><span class="alert-icon" aria-hidden="true">!</span><p>%s</p>`,
			templ.EscapeString(message)); err != nil {
			return err
		}
		if dismissURL != "" {
			if _, err := fmt.Fprintf(w,
				`<a class="toast-close" href="%s" aria-label="Close">&times;</a>`,
				templ.EscapeString(string(templ.URL(dismissURL)))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func SuccessMessage(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if message == "" {
			return nil
		}
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-success" role="status"><span class="alert-icon" aria-hidden="true">&#10003;</span><p>%s</p></div>`,
			templ.EscapeString(message))
		return err
	})
}

func Card(title, description string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="card">`); err != nil {
			return err
		}
		if title != "" {
			if _, err := fmt.Fprintf(w, `<h2 class="card-title">%s</h2>`, templ.EscapeString(title)); err != nil {
				return err
			}
		}
		if description != "" {
			if _, err := fmt.Fprintf(w, `<p class="card-description">%s</p>`, templ.EscapeString(description)); err != nil {
				return err
			}
		}
		if body != nil {
			if _, err := io.WriteString(w, `<div class="card-body">`); err != nil {
				return err
			}
			if err := body.Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// Field describes one labelled form input.
type Field struct {
	Name         string
	Label        string
	Type         string
	Value        string
	Placeholder  string
	Error        string
	Autocomplete string
	Disabled     bool
}

func Input(f Field) templ.Component {
	if f.Type == "" {
		f.Type = "text"
	}
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		class := "input"
		if f.Error != "" {
			class += " input-invalid"
		}
		if _, err := fmt.Fprintf(w,
			`<div class="field"><label for="%[1]s">%[2]s</label><input id="%[1]s" name="%[1]s" type="%[3]s" class="%[4]s" value="%[5]s"`,
			templ.EscapeString(f.Name), templ.EscapeString(f.Label), templ.EscapeString(f.Type),
			class, templ.EscapeString(f.Value)); err != nil {
			return err
		}
		if f.Placeholder != "" {
			if _, err := fmt.Fprintf(w, ` placeholder="%s"`, templ.EscapeString(f.Placeholder)); err != nil {
				return err
			}
		}
		if f.Autocomplete != "" {
			if _, err := fmt.Fprintf(w, ` autocomplete="%s"`, templ.EscapeString(f.Autocomplete)); err != nil {
				return err
			}
		}
		if f.Error != "" {
			if _, err := fmt.Fprintf(w, ` aria-invalid="true" aria-describedby="%s-error"`, templ.EscapeString(f.Name)); err != nil {
				return err
			}
		}
		if f.Disabled {
			if _, err := io.WriteString(w, ` disabled`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `>`); err != nil {
			return err
		}
		if f.Error != "" {
			if _, err := fmt.Fprintf(w, `<p id="%s-error" class="field-error">%s</p>`,
				templ.EscapeString(f.Name), templ.EscapeString(f.Error)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
