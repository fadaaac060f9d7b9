package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"primmfy/internal/audit"
)

// Manager holds the process-wide dependencies and opens one Store per request.
type Manager struct {
	api      API
	cookies  *sessions.CookieStore
	recorder audit.Recorder
	logger   *slog.Logger
	now      func() time.Time
	maxAge   time.Duration
}

type ManagerOption func(*Manager)

func WithRecorder(r audit.Recorder) ManagerOption {
	return func(m *Manager) { m.recorder = r }
}

func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func WithMaxAge(d time.Duration) ManagerOption {
	return func(m *Manager) { m.maxAge = d }
}

func NewManager(api API, cookies *sessions.CookieStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		api:      api,
		cookies:  cookies,
		recorder: audit.Nop{},
		logger:   slog.Default(),
		now:      time.Now,
		maxAge:   DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open returns a Store reading and writing the cookies of r and w.
// Transitions that navigate answer with 303 See Other.
func (m *Manager) Open(w http.ResponseWriter, r *http.Request) *Store {
	logger := m.logger.With("remote_addr", r.RemoteAddr)
	jar := newCookieJar(m.cookies, w, r, func(name string, err error) {
		logger.WarnContext(r.Context(), "session cookie rejected", "cookie", name, "error", err)
	})
	return NewStore(StoreConfig{
		API:      m.api,
		Jar:      jar,
		Recorder: m.recorder,
		Logger:   logger,
		Now:      m.now,
		MaxAge:   m.maxAge,
		Navigator: NavigatorFunc(func(path string) {
			http.Redirect(w, r, path, http.StatusSeeOther)
		}),
		RemoteAddr: r.RemoteAddr,
	})
}

type contextKey struct{}

func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(contextKey{}).(*Store)
	return s, ok
}
