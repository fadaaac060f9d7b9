package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"primmfy/internal/apiclient"
	"primmfy/internal/audit"
	"primmfy/internal/config"
	"primmfy/internal/database"
	"primmfy/internal/entity"
	"primmfy/internal/handler"
	"primmfy/internal/logging"
	"primmfy/internal/metrics"
	"primmfy/internal/middleware"
	"primmfy/internal/repository"
	"primmfy/internal/session"
	"primmfy/internal/templates"
	"primmfy/internal/validation"
)

const (
	serviceName     = "primmfy-web"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(serviceName, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		logger.Warn("SESSION_SECRET not set, using a random key; sessions will not survive a restart")
		secret = session.RandomSecret()
	}
	cookies, err := session.NewCookieStore(secret, cfg.CookieSecure, session.DefaultMaxAge)
	if err != nil {
		return fmt.Errorf("cookie store: %w", err)
	}

	api, err := apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.APITimeout))
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	recorders := audit.Multi{m}

	var activity handler.ActivityLister
	if cfg.AuditEnabled() {
		db, err := openAudit(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("close database", "error", err)
			}
		}()
		events := repository.NewAuthEventRepository(db)
		recorders = append(recorders, events)
		activity = events
		logger.Info("audit log enabled")
	}

	manager := session.NewManager(api, cookies,
		session.WithRecorder(recorders),
		session.WithLogger(logger),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(manager, activity, m, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "api", api.BaseURL(), "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openAudit(ctx context.Context, url string) (*sql.DB, error) {
	db, err := database.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newRouter(manager *session.Manager, activity handler.ActivityLister, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	v := validation.New()
	guard := handler.NewInflight()

	loginHandler := handler.NewLoginHandler(v, guard, logger)
	registrationHandler := handler.NewRegistrationHandler(v, guard, logger)
	dashboardHandler := handler.NewDashboardHandler(activity, logger)
	indexHandler := handler.NewIndexHandler(logger)
	errorHandler := handler.NewErrorHandler(logger)
	forbidden := http.HandlerFunc(errorHandler.Forbidden)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(m.Middleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/static/*", templates.Static())

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(manager))
		r.Use(middleware.RequireAuth)

		r.Get("/", indexHandler.IndexPage)
		r.Get("/login", loginHandler.LoginPage)
		r.Post("/login", loginHandler.Login)
		r.Get("/register", registrationHandler.RegisterPage)
		r.Post("/register", registrationHandler.Register)
		r.Post("/logout", loginHandler.Logout)

		r.With(middleware.RequireRole(forbidden, entity.RoleTeacher)).
			Get(entity.RouteTeacherDashboard, dashboardHandler.TeacherDashboard)
		r.With(middleware.RequireRole(forbidden, entity.RoleStudent)).
			Get(entity.RouteStudentDashboard, dashboardHandler.StudentDashboard)

		r.NotFound(errorHandler.NotFound)
	})

	return r
}
