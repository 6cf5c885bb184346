package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/colorwood/internal/api/middleware"
	"github.com/mcoot/colorwood/internal/api/request"
	"github.com/mcoot/colorwood/internal/api/response"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/session"
	"github.com/mcoot/colorwood/internal/web/sse"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	sessions   *session.Controller
	hubManager *sse.HubManager
	baseConfig model.GameConfig
	logger     *slog.Logger
}

// NewSessionHandler creates a new session handler. baseConfig supplies every
// field a create request leaves unset.
func NewSessionHandler(sessions *session.Controller, hubManager *sse.HubManager, baseConfig model.GameConfig, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		hubManager: hubManager,
		baseConfig: baseConfig,
		logger:     logger.With(slog.String("component", "api-sessions")),
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	snap, err := h.sessions.Create(r.Context(), req.Apply(h.baseConfig), req.ViewportWidth)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+string(snap.SessionID))
	w.Header().Set("ETag", etag(snap))
	response.JSON(w, http.StatusCreated, response.SessionFromSnapshot(snap))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.sessions.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionListFromIDs(ids))
}

// Get handles GET /api/v1/sessions/{id}
// A matching If-None-Match gets a 304, so pollers only download changes.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Get(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	body := response.SessionFromSnapshot(snap)
	tag := body.ETag()
	if match := r.Header.Get("If-None-Match"); match != "" && match == tag {
		response.NotModified(w, tag)
		return
	}
	w.Header().Set("ETag", tag)
	response.JSON(w, http.StatusOK, body)
}

// Pointer handles POST /api/v1/sessions/{id}/pointer
func (h *SessionHandler) Pointer(w http.ResponseWriter, r *http.Request) {
	var req request.PointerRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	op, err := model.ParsePointerOp(req.Type)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.sessions.Pointer(r.Context(), sessionID(r), op, req.X, req.Y)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.PointerResponse{
		Accepted: result.Accepted,
		Session:  response.SessionFromSnapshot(result.Snapshot),
	}
	if result.Move != nil {
		m := response.MoveFromResult(*result.Move)
		resp.Move = &m
	}
	w.Header().Set("ETag", etag(result.Snapshot))
	response.JSON(w, http.StatusOK, resp)
}

// DismissIntro handles POST /api/v1/sessions/{id}/intro/dismiss
func (h *SessionHandler) DismissIntro(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.DismissIntro(r.Context(), sessionID(r))
	h.writeSnapshot(w, snap, err)
}

// Reset handles POST /api/v1/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Reset(r.Context(), sessionID(r))
	h.writeSnapshot(w, snap, err)
}

// Resize handles PUT /api/v1/sessions/{id}/viewport
func (h *SessionHandler) Resize(w http.ResponseWriter, r *http.Request) {
	var req request.ViewportRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	snap, err := h.sessions.Resize(r.Context(), sessionID(r), req.Width)
	h.writeSnapshot(w, snap, err)
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), sessionID(r)); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Events handles GET /api/v1/sessions/{id}/events
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if _, err := h.sessions.Get(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	viewer := middleware.GetViewer(r.Context())
	h.logger.Info("event stream opened",
		slog.String("session_id", string(id)),
		slog.String("viewer_id", viewer))

	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(id), viewer)
}

func (h *SessionHandler) writeSnapshot(w http.ResponseWriter, snap model.Snapshot, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("ETag", etag(snap))
	response.JSON(w, http.StatusOK, response.SessionFromSnapshot(snap))
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}

// decode reads a JSON body. An empty body leaves v at its zero value.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return NewInvalidRequestError("Invalid request body")
	}
	return nil
}

func etag(snap model.Snapshot) string {
	return response.SessionFromSnapshot(snap).ETag()
}
