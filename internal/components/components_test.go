package components

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestSpinner_Sizes(t *testing.T) {
	tests := []struct {
		size   SpinnerSize
		px     string
		border string
	}{
		{SpinnerSmall, "width:16px;height:16px", "border-width:2px"},
		{SpinnerMedium, "width:32px;height:32px", "border-width:3px"},
		{SpinnerLarge, "width:48px;height:48px", "border-width:4px"},
		{"xl", "width:32px;height:32px", "border-width:3px"},
		{"", "width:32px;height:32px", "border-width:3px"},
	}
	for _, tt := range tests {
		t.Run(string(tt.size), func(t *testing.T) {
			out := renderString(t, Spinner(tt.size))
			assert.Contains(t, out, tt.px)
			assert.Contains(t, out, tt.border)
			assert.Contains(t, out, `role="status"`)
			assert.Contains(t, out, `aria-label="Loading"`)
		})
	}
}

func TestLoadingPage(t *testing.T) {
	out := renderString(t, LoadingPage())
	assert.Contains(t, out, "width:48px")
	assert.Contains(t, out, "Loading...")
}

func TestErrorMessage(t *testing.T) {
	assert.Empty(t, renderString(t, ErrorMessage("", VariantToast, "/login")))

	inline := renderString(t, ErrorMessage("Invalid credentials", VariantInline, "/login"))
	assert.Contains(t, inline, "alert-error")
	assert.Contains(t, inline, "Invalid credentials")
	assert.NotContains(t, inline, "toast-close")

	toast := renderString(t, ErrorMessage("Oops", VariantToast, "/login"))
	assert.Contains(t, toast, "toast-error")
	assert.Contains(t, toast, `href="/login"`)

	noClose := renderString(t, ErrorMessage("Oops", VariantToast, ""))
	assert.NotContains(t, noClose, "toast-close")

	unknown := renderString(t, ErrorMessage("Oops", "banner", ""))
	assert.Contains(t, unknown, "alert-error")
}

func TestErrorMessage_Escapes(t *testing.T) {
	out := renderString(t, ErrorMessage(`<script>alert(1)</script>`, VariantInline, ""))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestSuccessMessage(t *testing.T) {
	assert.Empty(t, renderString(t, SuccessMessage("")))
	assert.Contains(t, renderString(t, SuccessMessage("Account created")), "Account created")
}

func TestCard(t *testing.T) {
	out := renderString(t, Card("Sign in", "Welcome back", templ.Raw("<form></form>")))
	assert.Contains(t, out, `<h2 class="card-title">Sign in</h2>`)
	assert.Contains(t, out, "Welcome back")
	assert.Contains(t, out, `<div class="card-body"><form></form></div>`)
}

func TestInput(t *testing.T) {
	out := renderString(t, Input(Field{Name: "email", Label: "Email", Type: "email", Value: `a"b@example.com`, Error: "Please enter a valid email"}))
	assert.Contains(t, out, `name="email"`)
	assert.Contains(t, out, `type="email"`)
	assert.Contains(t, out, "input-invalid")
	assert.Contains(t, out, `aria-invalid="true"`)
	assert.Contains(t, out, "Please enter a valid email")
	assert.NotContains(t, out, `a"b`)

	plain := renderString(t, Input(Field{Name: "full_name", Label: "Full name", Disabled: true}))
	assert.Contains(t, plain, `type="text"`)
	assert.Contains(t, plain, " disabled")
	assert.NotContains(t, plain, "field-error")
}

func TestFuncMap(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(FuncMap()).Parse(
		`{{spinner "sm"}}{{errorMessage .Err}}{{input (field "email" "Email" "email" .Email "")}}`))

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, map[string]string{"Err": "Bad <input>", "Email": "x@example.com"}))
	out := buf.String()

	assert.Contains(t, out, "width:16px")
	assert.Contains(t, out, "Bad &lt;input&gt;")
	assert.True(t, strings.Contains(out, `value="x@example.com"`), out)
}
