package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/mcoot/colorwood/internal/api/apierr"
	apimw "github.com/mcoot/colorwood/internal/api/middleware"
	"github.com/mcoot/colorwood/internal/api/request"
	"github.com/mcoot/colorwood/internal/frontend/scene"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/hittest"
	"github.com/mcoot/colorwood/internal/services/session"
	"github.com/mcoot/colorwood/internal/web/middleware"
	"github.com/mcoot/colorwood/internal/web/sse"
	"github.com/mcoot/colorwood/internal/web/templates/components"
	"github.com/mcoot/colorwood/internal/web/templates/layout"
	"github.com/mcoot/colorwood/internal/web/templates/pages"
)

// defaultViewportWidth is used when a browser does not report its width
const defaultViewportWidth = 600

// PlayHandler serves the playable board and its actions
type PlayHandler struct {
	sessions   *session.Controller
	hitTest    *hittest.Service
	hubManager *sse.HubManager
	baseConfig model.GameConfig
	logger     *slog.Logger
}

// NewPlayHandler creates a new PlayHandler
func NewPlayHandler(sessions *session.Controller, hitTest *hittest.Service, hubManager *sse.HubManager, baseConfig model.GameConfig, logger *slog.Logger) *PlayHandler {
	return &PlayHandler{
		sessions:   sessions,
		hitTest:    hitTest,
		hubManager: hubManager,
		baseConfig: baseConfig,
		logger:     logger.With(slog.String("component", "web-play")),
	}
}

// Create starts a session from the home page form
func (h *PlayHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	width := float64(defaultViewportWidth)
	if v := r.FormValue("viewport_width"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			width = parsed
		}
	}

	var req request.CreateSessionRequest
	if r.FormValue("free_play") != "" {
		freePlay := true
		req.FreePlay = &freePlay
	}

	snap, err := h.sessions.Create(r.Context(), req.Apply(h.baseConfig), width)
	if err != nil {
		h.logger.Warn("failed to create session", slog.String("error", err.Error()))
		middleware.SetFlash(w, "error", "Could not start a game: "+err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.RememberSession(w, snap.SessionID)
	http.Redirect(w, r, "/play/"+string(snap.SessionID), http.StatusSeeOther)
}

// View renders the play page
func (h *PlayHandler) View(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	snap, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		middleware.SetFlash(w, "error", "Game not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.RememberSession(w, id)
	render(w, r, pages.Play(pages.PlayData{
		PageData: layout.PageData{
			Title: "Play",
			Flash: middleware.GetFlash(r.Context()),
		},
		SessionID: id,
		Scene:     scene.Build(snap, h.hitTest),
	}))
}

// Board renders the board fragment
func (h *PlayHandler) Board(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Get(r.Context(), sessionID(r))
	h.renderBoard(w, r, snap, err)
}

// Pointer applies one pointer event from the board and returns the new board
func (h *PlayHandler) Pointer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	op, err := model.ParsePointerOp(r.FormValue("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	x, errX := strconv.ParseFloat(r.FormValue("x"), 64)
	y, errY := strconv.ParseFloat(r.FormValue("y"), 64)
	if errX != nil || errY != nil {
		http.Error(w, "Invalid coordinates", http.StatusBadRequest)
		return
	}

	result, err := h.sessions.Pointer(r.Context(), sessionID(r), op, x, y)
	h.renderBoard(w, r, result.Snapshot, err)
}

// Dismiss closes the intro overlay
func (h *PlayHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.DismissIntro(r.Context(), sessionID(r))
	h.renderBoard(w, r, snap, err)
}

// Reset reshuffles the board. htmx callers get the board back, plain form
// posts are redirected to the play page.
func (h *PlayHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	snap, err := h.sessions.Reset(r.Context(), id)
	if isHTMX(r) {
		h.renderBoard(w, r, snap, err)
		return
	}
	if errors.Is(err, model.ErrNotInGameplay) {
		middleware.SetFlash(w, "info", "The board can only be reset during play")
	} else if err != nil {
		middleware.SetFlash(w, "error", "Game not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/play/"+string(id), http.StatusSeeOther)
}

// Events streams change notifications for the session
func (h *PlayHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if _, err := h.sessions.Get(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(id), apimw.GetViewer(r.Context()))
}

func (h *PlayHandler) renderBoard(w http.ResponseWriter, r *http.Request, snap model.Snapshot, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	render(w, r, components.Board(snap.SessionID, scene.Build(snap, h.hitTest)))
}

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// writeError answers a fragment request with the status the JSON API would use
func writeError(w http.ResponseWriter, err error) {
	status := apierr.Status(err)
	http.Error(w, http.StatusText(status), status)
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
