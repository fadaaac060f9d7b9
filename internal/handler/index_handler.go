package handler

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/a-h/templ"

	"primmfy/internal/components"
	"primmfy/internal/templates"
)

// IndexHandler serves the component showcase. Toggles are query flags so
// the page works without JavaScript.
type IndexHandler struct {
	tmpl   *template.Template
	logger *slog.Logger
}

func NewIndexHandler(logger *slog.Logger) *IndexHandler {
	return &IndexHandler{tmpl: templates.Page("index.html"), logger: logger}
}

func (h *IndexHandler) IndexPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	showLoading := q.Get("loading") == "1"
	showError := q.Get("error") == "1"
	showSuccess := q.Get("success") == "1"

	spinners, err := fragment(r.Context(),
		templ.Raw(`<div class="showcase-row">`),
		labelled(components.Spinner(components.SpinnerSmall), "Small"),
		labelled(components.Spinner(components.SpinnerMedium), "Medium"),
		labelled(components.Spinner(components.SpinnerLarge), "Large"),
		templ.Raw(`</div>`),
	)
	if err != nil {
		h.fail(w, err)
		return
	}
	messages, err := fragment(r.Context(),
		templ.Raw(`<p class="showcase-label">Inline Error:</p>`),
		components.ErrorMessage("This is an inline error message", components.VariantInline, ""),
		templ.Raw(`<p class="showcase-label">Success Message:</p>`),
		components.SuccessMessage("Operation completed successfully!"),
	)
	if err != nil {
		h.fail(w, err)
		return
	}
	form, err := fragment(r.Context(),
		components.Input(components.Field{Name: "email", Label: "Email", Type: "email", Placeholder: "Enter your email"}),
		components.Input(components.Field{Name: "password", Label: "Password", Type: "password", Placeholder: "Enter your password"}),
		templ.Raw(`<div class="showcase-row"><button class="button button-primary">Primary Button</button><button class="button button-secondary">Secondary</button><button class="button button-outline">Outline</button></div>`),
	)
	if err != nil {
		h.fail(w, err)
		return
	}

	render(w, h.logger, h.tmpl, http.StatusOK, map[string]interface{}{
		"Title":         "Components",
		"Spinners":      spinners,
		"Messages":      messages,
		"Form":          form,
		"ShowLoading":   showLoading,
		"ShowError":     showError,
		"ShowSuccess":   showSuccess,
		"ToggleLoading": toggle(q, "loading", showLoading),
		"ToggleError":   toggle(q, "error", showError),
		"ToggleSuccess": toggle(q, "success", showSuccess),
	})
}

func (h *IndexHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("render showcase", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func labelled(c templ.Component, label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="showcase-item">`); err != nil {
			return err
		}
		if err := c.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<p class="showcase-caption">`+templ.EscapeString(label)+`</p></div>`)
		return err
	})
}

func fragment(ctx context.Context, parts ...templ.Component) (template.HTML, error) {
	return templ.ToGoHTML(ctx, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, p := range parts {
			if err := p.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	}))
}

// toggle returns the showcase URL with key flipped.
func toggle(q url.Values, key string, on bool) string {
	next := url.Values{}
	for k, v := range q {
		next[k] = v
	}
	if on {
		next.Del(key)
	} else {
		next.Set(key, "1")
	}
	if len(next) == 0 {
		return "/"
	}
	return "/?" + next.Encode()
}
