package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/mcoot/colorwood/internal/services/session"
	"github.com/mcoot/colorwood/internal/web/middleware"
	"github.com/mcoot/colorwood/internal/web/templates/layout"
	"github.com/mcoot/colorwood/internal/web/templates/pages"
)

// HomeHandler handles the home page
type HomeHandler struct {
	sessions *session.Controller
	logger   *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(sessions *session.Controller, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "web-home")),
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	ids, err := h.sessions.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list sessions", slog.String("error", err.Error()))
		ids = nil
	}

	live := make([]string, len(ids))
	for i, id := range ids {
		live[i] = string(id)
	}

	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
			Flash: middleware.GetFlash(r.Context()),
		},
		Sessions: live,
	}
	if last := middleware.GetLastSession(r.Context()); last != "" && slices.Contains(live, string(last)) {
		data.LastSession = string(last)
	}

	render(w, r, pages.Home(data))
}
