package handler

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"primmfy/internal/apiclient"
	"primmfy/internal/entity"
	"primmfy/internal/session"
	"primmfy/internal/templates"
)

const (
	staleProfileNotice = "Could not refresh your profile. Showing saved details."
	activityLimit      = 5
)

// ActivityLister reads a user's recent authentication events.
type ActivityLister interface {
	Recent(ctx context.Context, userID, limit int) ([]entity.AuthEvent, error)
}

type DashboardHandler struct {
	tmpl     *template.Template
	activity ActivityLister
	logger   *slog.Logger
}

// NewDashboardHandler builds the dashboards. activity may be nil when the
// audit log is disabled.
func NewDashboardHandler(activity ActivityLister, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		tmpl:     templates.Page("dashboard.html"),
		activity: activity,
		logger:   logger,
	}
}

func (h *DashboardHandler) TeacherDashboard(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, "Teacher dashboard")
}

func (h *DashboardHandler) StudentDashboard(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, "Student dashboard")
}

func (h *DashboardHandler) show(w http.ResponseWriter, r *http.Request, title string) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	notice := ""
	user, err := store.Refresh(ctx)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotAuthenticated):
		http.Redirect(w, r, entity.RouteLogin, http.StatusSeeOther)
		return
	case apiclient.IsKind(err, apiclient.KindUnauthorized):
		// Refresh already ended the session and redirected.
		return
	default:
		h.logger.WarnContext(ctx, "refresh profile", "error", err)
		notice = staleProfileNotice
		user = store.User()
	}

	data := map[string]interface{}{
		"Title":    title,
		"User":     user,
		"Notice":   notice,
		"Activity": nil,
	}
	if h.activity != nil {
		events, err := h.activity.Recent(ctx, user.ID, activityLimit)
		if err != nil {
			h.logger.WarnContext(ctx, "load recent activity", "user_id", user.ID, "error", err)
		} else {
			data["Activity"] = events
		}
	}

	render(w, h.logger, h.tmpl, http.StatusOK, data)
}
