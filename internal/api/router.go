package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/colorwood/internal/api/handler"
	apimiddleware "github.com/mcoot/colorwood/internal/api/middleware"
	"github.com/mcoot/colorwood/internal/model"
	"github.com/mcoot/colorwood/internal/services/hint"
	"github.com/mcoot/colorwood/internal/services/session"
	"github.com/mcoot/colorwood/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	HubManager        *sse.HubManager
	// HintService enables the hint endpoint when set
	HintService *hint.Service

	// BaseConfig is the game configuration new sessions start from
	BaseConfig model.GameConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the API routes under /api/v1 on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.HubManager, cfg.BaseConfig, cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(apimiddleware.Viewer())
	api.Use(apimiddleware.Logging(cfg.Logger))

	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("", sessionHandler.List).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.Delete).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/pointer", sessionHandler.Pointer).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/intro/dismiss", sessionHandler.DismissIntro).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/reset", sessionHandler.Reset).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/viewport", sessionHandler.Resize).Methods(http.MethodPut)
	sessions.HandleFunc("/{id}/events", sessionHandler.Events).Methods(http.MethodGet)
	if cfg.HintService != nil {
		hintHandler := handler.NewHintHandler(cfg.SessionController, cfg.HintService, cfg.Logger)
		sessions.HandleFunc("/{id}/hint", hintHandler.Get).Methods(http.MethodGet)
	}

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
