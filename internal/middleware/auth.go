package middleware

import (
	"net/http"
	"strings"

	"primmfy/internal/entity"
	"primmfy/internal/session"
)

var publicPaths = []string{
	"/",
	"/login",
	"/register",
	"/static/",
	"/metrics",
	"/healthz",
}

// isPublic matches exact paths, and whole subtrees for entries ending in "/"
// other than the root.
func isPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
		if p != "/" && strings.HasSuffix(p, "/") && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RequireAuth sends anonymous visitors of private pages to the login page
// and keeps each role inside its own area. It needs LoadSession upstream.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if isPublic(path) {
			next.ServeHTTP(w, r)
			return
		}

		store, ok := session.FromContext(r.Context())
		if !ok {
			http.Redirect(w, r, entity.RouteLogin, http.StatusSeeOther)
			return
		}
		user := store.User()
		if user == nil {
			http.Redirect(w, r, entity.RouteLogin, http.StatusSeeOther)
			return
		}

		switch {
		case user.Role == entity.RoleStudent && strings.HasPrefix(path, "/teacher"):
			http.Redirect(w, r, entity.RouteStudentDashboard, http.StatusSeeOther)
			return
		case user.Role == entity.RoleTeacher && strings.HasPrefix(path, "/student"):
			http.Redirect(w, r, entity.RouteTeacherDashboard, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole lets through only users with one of roles. Others get forbidden.
func RequireRole(forbidden http.Handler, roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store, ok := session.FromContext(r.Context()); ok {
				if user := store.User(); user != nil {
					for _, role := range roles {
						if user.Role == role {
							next.ServeHTTP(w, r)
							return
						}
					}
				}
			}
			forbidden.ServeHTTP(w, r)
		})
	}
}
