package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/colorwood/internal/api/response"
	"github.com/mcoot/colorwood/internal/services/hint"
	"github.com/mcoot/colorwood/internal/services/session"
)

// HintHandler suggests the next move for a session
type HintHandler struct {
	sessions *session.Controller
	hints    *hint.Service
	logger   *slog.Logger
}

// NewHintHandler creates a new hint handler
func NewHintHandler(sessions *session.Controller, hints *hint.Service, logger *slog.Logger) *HintHandler {
	return &HintHandler{
		sessions: sessions,
		hints:    hints,
		logger:   logger.With(slog.String("component", "api-hints")),
	}
}

// Get handles GET /api/v1/sessions/{id}/hint?strategy=greedy
// The hint is advisory; the session is not changed.
func (h *HintHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Get(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	strategy := r.URL.Query().Get("strategy")
	if strategy == "" {
		strategy = hint.StrategyGreedy
	}
	m, err := h.hints.Suggest(snap, strategy)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HintFromMove(m, strategy))
}
