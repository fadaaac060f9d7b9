package templates

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primmfy/internal/validation"
)

func TestPage_ParsesEveryPage(t *testing.T) {
	for _, name := range []string{"login.html", "register.html", "dashboard.html", "index.html", "error.html"} {
		t.Run(name, func(t *testing.T) {
			tmpl := Page(name)
			assert.NotNil(t, tmpl.Lookup("layout"))
			assert.NotNil(t, tmpl.Lookup("content"))
		})
	}
}

func TestLoginPage_Renders(t *testing.T) {
	var buf bytes.Buffer
	err := Page("login.html").ExecuteTemplate(&buf, "layout", map[string]interface{}{
		"Title":  "Sign in",
		"FormID": "f-1",
		"Form":   map[string]string{"email": "john@example.com"},
		"Errors": validation.FieldErrors{"password": "Password is required"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `value="f-1"`)
	assert.Contains(t, out, `value="john@example.com"`)
	assert.Contains(t, out, "Password is required")
	assert.Contains(t, out, "Logging in...")
	assert.Contains(t, out, `<section class="card"><h2 class="card-title">Welcome back</h2>`)
	assert.Contains(t, out, `<div class="card-body">`+"\n"+`<form method="post" action="/login"`)
}

func TestRegisterPage_RendersInsideCard(t *testing.T) {
	var buf bytes.Buffer
	err := Page("register.html").ExecuteTemplate(&buf, "layout", map[string]interface{}{
		"Title":  "Sign up",
		"FormID": "f-2",
		"Form":   map[string]string{"full_name": "Ann <Teach>", "role": "teacher"},
		"Errors": validation.FieldErrors{},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `<h2 class="card-title">Create an account</h2>`)
	assert.Contains(t, out, `value="teacher" checked`)
	assert.Contains(t, out, "Ann &lt;Teach&gt;")
	assert.NotContains(t, out, "Ann <Teach>")
}

func TestStatic(t *testing.T) {
	rec := httptest.NewRecorder()
	Static().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "addEventListener")
}
