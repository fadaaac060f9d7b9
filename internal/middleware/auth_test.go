package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primmfy/internal/entity"
	"primmfy/internal/session"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func storeFor(t *testing.T, user *entity.User) *session.Store {
	t.Helper()
	jar := session.NewMemoryJar()
	if user != nil {
		raw, err := json.Marshal(user)
		require.NoError(t, err)
		require.NoError(t, jar.Set(session.TokenCookie, "tok", session.DefaultMaxAge))
		require.NoError(t, jar.Set(session.UserCookie, string(raw), session.DefaultMaxAge))
	}
	s := session.NewStore(session.StoreConfig{Jar: jar})
	s.Restore(context.Background())
	return s
}

func serve(h http.Handler, path string, store *session.Store) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if store != nil {
		req = req.WithContext(session.NewContext(req.Context(), store))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIsPublic(t *testing.T) {
	for _, p := range []string{"/", "/login", "/register", "/static/app.css", "/metrics", "/healthz"} {
		assert.True(t, isPublic(p), p)
	}
	for _, p := range []string{"/teacher/dashboard", "/student/dashboard", "/logout", "/loginx", "/static"} {
		assert.False(t, isPublic(p), p)
	}
}

func TestRequireAuth(t *testing.T) {
	student := &entity.User{ID: 7, Email: "jane@example.com", Role: entity.RoleStudent}
	teacher := &entity.User{ID: 3, Email: "tom@example.com", Role: entity.RoleTeacher}

	tests := []struct {
		name     string
		path     string
		user     *entity.User
		status   int
		location string
	}{
		{name: "public for anonymous", path: "/login", status: http.StatusOK},
		{name: "anonymous to private", path: "/student/dashboard", status: http.StatusSeeOther, location: "/login"},
		{name: "student own area", path: "/student/dashboard", user: student, status: http.StatusOK},
		{name: "student in teacher area", path: "/teacher/dashboard", user: student, status: http.StatusSeeOther, location: "/student/dashboard"},
		{name: "teacher own area", path: "/teacher/dashboard", user: teacher, status: http.StatusOK},
		{name: "teacher in student area", path: "/student/dashboard", user: teacher, status: http.StatusSeeOther, location: "/teacher/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(RequireAuth(okHandler), tt.path, storeFor(t, tt.user))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestRequireAuth_WithoutSessionMiddleware(t *testing.T) {
	rec := serve(RequireAuth(okHandler), "/student/dashboard", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireRole(t *testing.T) {
	forbidden := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	h := RequireRole(forbidden, entity.RoleTeacher)(okHandler)

	assert.Equal(t, http.StatusOK, serve(h, "/x", storeFor(t, &entity.User{ID: 1, Role: entity.RoleTeacher})).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "/x", storeFor(t, &entity.User{ID: 2, Role: entity.RoleStudent})).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "/x", storeFor(t, nil)).Code)
}

func TestLoadSession_RestoresFromCookies(t *testing.T) {
	cookies, err := session.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), false, 0)
	require.NoError(t, err)
	m := session.NewManager(nil, cookies)

	var got *session.Store
	h := LoadSession(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		require.True(t, ok)
		got = s
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, got)
	assert.False(t, got.Loading())
	assert.Equal(t, session.StatusAnonymous, got.State().Status())
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(Logger(logger))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "http request", line["msg"])
	assert.Equal(t, "/healthz", line["path"])
	assert.EqualValues(t, 200, line["status"])
	assert.EqualValues(t, 2, line["bytes"])
	assert.NotEmpty(t, line["request_id"])
}
