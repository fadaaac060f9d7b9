package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"primmfy/internal/templates"
	"primmfy/internal/validation"
)

const loginFailedMessage = "Login failed. Please try again."

type LoginHandler struct {
	tmpl      *template.Template
	validator *validation.Validator
	guard     *Inflight
	logger    *slog.Logger
}

func NewLoginHandler(v *validation.Validator, guard *Inflight, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{
		tmpl:      templates.Page("login.html"),
		validator: v,
		guard:     guard,
		logger:    logger,
	}
}

func (h *LoginHandler) data(email string) map[string]interface{} {
	return map[string]interface{}{
		"Title":   "Sign in",
		"Error":   "",
		"Message": "",
		"FormID":  newFormID(),
		"Form":    map[string]string{"email": email},
		"Errors":  validation.FieldErrors{},
	}
}

func (h *LoginHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	if u := store.User(); u != nil {
		http.Redirect(w, r, u.Role.LandingRoute(), http.StatusSeeOther)
		return
	}

	data := h.data("")
	data["Message"] = r.URL.Query().Get("message")
	render(w, h.logger, h.tmpl, http.StatusOK, data)
}

func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := validation.LoginForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	data := h.data(form.Email)

	if errs := h.validator.Login(form); !errs.Valid() {
		data["Errors"] = errs
		render(w, h.logger, h.tmpl, http.StatusUnprocessableEntity, data)
		return
	}

	release, ok := h.guard.Acquire(r.FormValue("form_id"))
	if !ok {
		data["Error"] = inFlightMessage
		render(w, h.logger, h.tmpl, http.StatusConflict, data)
		return
	}
	defer release()

	if err := store.Login(r.Context(), form.Email, form.Password); err != nil {
		h.logger.InfoContext(r.Context(), "login rejected", "email", form.Email, "error", err)
		data["Error"] = userMessage(err, loginFailedMessage)
		render(w, h.logger, h.tmpl, statusFor(err), data)
		return
	}
	h.logger.InfoContext(r.Context(), "user logged in", "email", form.Email)
}

// Logout ends the session and redirects to the login page.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	store.Logout(r.Context())
}
