package handler

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"primmfy/internal/apiclient"
	"primmfy/internal/session"
	"primmfy/internal/templates"
)

// storeFrom returns the request's session store, answering 500 when the
// session middleware did not run.
func storeFrom(w http.ResponseWriter, r *http.Request) (*session.Store, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
	}
	return s, ok
}

// render executes the page into a buffer first so a template error still
// produces a clean 500.
func render(w http.ResponseWriter, logger *slog.Logger, tmpl *template.Template, status int, data map[string]interface{}) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Error("render page", "template", tmpl.Name(), "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// userMessage picks the text shown above a form for a failed remote call.
// Only messages from an API error payload are shown.
func userMessage(err error, fallback string) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Kind != apiclient.KindMalformedResponse && apiErr.UserMessage() != "" {
		return apiErr.UserMessage()
	}
	return fallback
}

func statusFor(err error) int {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch apiErr.Kind {
	case apiclient.KindValidation:
		return http.StatusUnprocessableEntity
	case apiclient.KindUnauthorized:
		return http.StatusUnauthorized
	case apiclient.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

type ErrorHandler struct {
	tmpl   *template.Template
	logger *slog.Logger
}

func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{tmpl: templates.Page("error.html"), logger: logger}
}

func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, h.logger, h.tmpl, http.StatusNotFound, map[string]interface{}{
		"Title": "Page not found",
		"Error": "The page you are looking for does not exist.",
		"Back":  "/",
	})
}

func (h *ErrorHandler) Forbidden(w http.ResponseWriter, r *http.Request) {
	back := "/"
	if s, ok := session.FromContext(r.Context()); ok {
		if u := s.User(); u != nil {
			back = u.Role.LandingRoute()
		}
	}
	render(w, h.logger, h.tmpl, http.StatusForbidden, map[string]interface{}{
		"Title": "Access denied",
		"Error": "You do not have access to this page.",
		"Back":  back,
	})
}
