package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primmfy/internal/entity"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/login", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/student/dashboard", http.StatusSeeOther)
	})

	for _, method := range []string{http.MethodGet, http.MethodGet, http.MethodPost} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, "/login", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.InDelta(t, 2, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/login", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requestTotal.WithLabelValues("POST", "/login", "303")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "unmatched", "404")), 0)
}

func TestRecord_AuthOutcome(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	require.NoError(t, m.Record(ctx, entity.AuthEvent{Kind: entity.EventLogin}))
	require.NoError(t, m.Record(ctx, entity.AuthEvent{Kind: entity.EventLoginFailed}))
	require.NoError(t, m.Record(ctx, entity.AuthEvent{Kind: entity.EventLoginFailed}))

	assert.InDelta(t, 1, testutil.ToFloat64(m.authEvents.WithLabelValues("login", "success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.authEvents.WithLabelValues("login_failed", "failure")), 0)
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := New(reg)
	second := New(reg)

	require.NoError(t, second.Record(context.Background(), entity.AuthEvent{Kind: entity.EventLogout}))

	assert.Same(t, first.authEvents, second.authEvents)
	assert.InDelta(t, 1, testutil.ToFloat64(first.authEvents.WithLabelValues("logout", "success")), 0)
}
