package middleware

import (
	"net/http"

	"primmfy/internal/session"
)

// LoadSession opens the session store for the request, restores it from the
// cookies and puts it in the request context.
func LoadSession(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := m.Open(w, r)
			store.Restore(r.Context())
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), store)))
		})
	}
}
