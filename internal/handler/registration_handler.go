package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"primmfy/internal/templates"
	"primmfy/internal/validation"
)

const registrationFailedMessage = "Registration failed. Please try again."

type RegistrationHandler struct {
	tmpl      *template.Template
	validator *validation.Validator
	guard     *Inflight
	logger    *slog.Logger
}

func NewRegistrationHandler(v *validation.Validator, guard *Inflight, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		tmpl:      templates.Page("register.html"),
		validator: v,
		guard:     guard,
		logger:    logger,
	}
}

func (h *RegistrationHandler) data(form validation.RegisterForm) map[string]interface{} {
	return map[string]interface{}{
		"Title":  "Create an account",
		"Error":  "",
		"FormID": newFormID(),
		"Form": map[string]string{
			"full_name": form.FullName,
			"email":     form.Email,
			"role":      form.Role,
		},
		"Errors": validation.FieldErrors{},
	}
}

func (h *RegistrationHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	if u := store.User(); u != nil {
		http.Redirect(w, r, u.Role.LandingRoute(), http.StatusSeeOther)
		return
	}
	render(w, h.logger, h.tmpl, http.StatusOK, h.data(validation.NewRegisterForm()))
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := validation.RegisterForm{
		FullName: strings.TrimSpace(r.FormValue("full_name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}
	data := h.data(form)

	if errs := h.validator.Register(form); !errs.Valid() {
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

	if err := store.Register(r.Context(), form.Request()); err != nil {
		h.logger.InfoContext(r.Context(), "registration rejected", "email", form.Email, "error", err)
		data["Error"] = userMessage(err, registrationFailedMessage)
		render(w, h.logger, h.tmpl, statusFor(err), data)
		return
	}
	h.logger.InfoContext(r.Context(), "user registered", "email", form.Email, "role", form.Role)
}
