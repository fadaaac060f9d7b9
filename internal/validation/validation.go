// Package validation checks form input before anything is sent to the API.
//
// Rules are declared as go-playground/validator struct tags on the form
// types. Failures are reported as a FieldErrors mapping from the form field
// name to the message shown under that field.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"primmfy/internal/entity"
)

// FieldErrors maps a form field name to its message. A field without a key is valid.
type FieldErrors map[string]string

func (f FieldErrors) Valid() bool {
	return len(f) == 0
}

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

type RegisterForm struct {
	FullName string `form:"full_name" validate:"required,min=3,max=50"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Role     string `form:"role" validate:"required,oneof=teacher student"`
}

// NewRegisterForm returns the registration form as first opened.
func NewRegisterForm() RegisterForm {
	return RegisterForm{Role: string(entity.RoleStudent)}
}

func (f RegisterForm) Request() entity.RegisterRequest {
	return entity.RegisterRequest{
		FullName: f.FullName,
		Email:    f.Email,
		Password: f.Password,
		Role:     entity.Role(f.Role),
	}
}

// messages is keyed by field, then by failing validator tag.
var messages = map[string]map[string]string{
	"full_name": {
		"required": "Name is required",
		"min":      "Name must be at least 3 characters",
		"max":      "Name must not exceed 50 characters",
	},
	"email": {
		"required": "Email is required",
		"email":    "Please enter a valid email",
	},
	"password": {
		"required": "Password is required",
		"min":      "Password must be at least 6 characters",
	},
	"role": {
		"required": "Please select a role",
		"oneof":    "Please select a role",
	},
}

const fallbackMessage = "Invalid value"

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

func (v *Validator) Login(form LoginForm) FieldErrors {
	return v.Struct(form)
}

func (v *Validator) Register(form RegisterForm) FieldErrors {
	return v.Struct(form)
}

// Struct runs the tag rules of form. Only the first failing rule of each
// field is reported.
func (v *Validator) Struct(form any) FieldErrors {
	errs := FieldErrors{}
	err := v.validate.Struct(form)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_form"] = fallbackMessage
		return errs
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = message(field, fe.Tag())
	}
	return errs
}

func message(field, tag string) string {
	if byTag, ok := messages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	return fallbackMessage
}
