package entity

import "time"

type AuthEventKind string

const (
	EventLogin          AuthEventKind = "login"
	EventLoginFailed    AuthEventKind = "login_failed"
	EventRegister       AuthEventKind = "register"
	EventRegisterFailed AuthEventKind = "register_failed"
	EventLogout         AuthEventKind = "logout"
	EventSessionExpired AuthEventKind = "session_expired"
)

type AuthEvent struct {
	ID         string        `json:"id"`
	Kind       AuthEventKind `json:"kind"`
	Email      string        `json:"email"`
	UserID     *int          `json:"user_id,omitempty"`
	Role       Role          `json:"role,omitempty"`
	RemoteAddr string        `json:"remote_addr"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Failed reports whether the event records a rejected attempt.
func (e AuthEvent) Failed() bool {
	return e.Kind == EventLoginFailed || e.Kind == EventRegisterFailed
}
